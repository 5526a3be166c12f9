package domain

import (
	"time"

	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusApproved BookingStatus = "approved"
	StatusRejected BookingStatus = "rejected"
)

// Valid проверяет, что статус известен
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// TimeRange интервал [Start, End) внутри одного дня
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Booking запись журнала бронирований
type Booking struct {
	ID                int64
	BookingTypeID     int64
	BookingDate       time.Time
	SlotIDs           []int64     // только зал и лестница
	ClusterHours      []int       // только групповой тур
	ClusterTimeRanges []TimeRange // только групповой тур
	TicketCount       int         // билеты или кластеры
	TotalPrice        float64

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	TransactionID *string
	PaymentImage  *string
	Notes         *string

	Status BookingStatus
	Addons []BookingAddon

	// Денормализованные данные для списков
	TypeName string
	Category Category
	Slots    []Slot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive бронирование занимает ресурсы (pending или approved)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// HasSlot бронирование содержит слот
func (b *Booking) HasSlot(slotID int64) bool {
	for _, id := range b.SlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// AddonsTotal сумма по доп. услугам
func (b *Booking) AddonsTotal() float64 {
	var total float64
	for _, a := range b.Addons {
		total += a.LineTotal()
	}
	return total
}

// BookingAddon строка доп. услуги в бронировании
// Название и цена зафиксированы на момент бронирования
type BookingAddon struct {
	ID         int64
	BookingID  int64
	AddonID    int64
	AddonName  string
	AddonPrice float64
	Quantity   int
}

// LineTotal цена строки
func (a BookingAddon) LineTotal() float64 {
	return a.AddonPrice * float64(a.Quantity)
}

// BookingFilter фильтр журнала
type BookingFilter struct {
	TypeIDs    []int64        // пусто = все типы
	Status     *BookingStatus // приоритетнее ActiveOnly
	DateFrom   *time.Time
	DateTo     *time.Time
	ActiveOnly bool
}

// SingleDate фильтр по одной дате
func (f BookingFilter) SingleDate() bool {
	return f.DateFrom != nil && f.DateTo != nil && f.DateFrom.Equal(*f.DateTo)
}

// BookingPage страница бронирований
type BookingPage struct {
	Bookings   []*Booking
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// BookingEvent событие жизненного цикла бронирования для внешних подписчиков
type BookingEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	BookingID   int64     `json:"booking_id"`
	TypeID      int64     `json:"booking_type_id"`
	Category    Category  `json:"category"`
	BookingDate string    `json:"booking_date"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	EventBookingCreated  = "booking.created"
	EventBookingApproved = "booking.approved"
	EventBookingRejected = "booking.rejected"
	EventBookingPending  = "booking.pending"
	EventBookingDeleted  = "booking.deleted"
)

// NewBookingEvent событие по бронированию, ID и время проставляет издатель
func NewBookingEvent(kind string, b *Booking) BookingEvent {
	return BookingEvent{
		Type:        kind,
		BookingID:   b.ID,
		TypeID:      b.BookingTypeID,
		Category:    b.Category,
		BookingDate: b.BookingDate.Format(DateFormat),
		Status:      string(b.Status),
	}
}

// StatusEvent тип события для перехода в статус
func StatusEvent(status BookingStatus) string {
	switch status {
	case StatusApproved:
		return EventBookingApproved
	case StatusRejected:
		return EventBookingRejected
	default:
		return EventBookingPending
	}
}
