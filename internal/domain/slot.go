package domain

import (
	"time"

	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// Slot именованный интервал зала или лестницы с ценой
// Даты у слота нет, занятость на дату считается по журналу
type Slot struct {
	ID            int64
	BookingTypeID int64
	Name          string
	StartTime     types.TimeString
	EndTime       types.TimeString
	Price         float64
	CreatedAt     time.Time
}

// Overlaps пересекается ли слот с другим (полуоткрытые интервалы)
func (s Slot) Overlaps(other Slot) bool {
	return Overlaps(s.StartTime, s.EndTime, other.StartTime, other.EndTime)
}

// SlotState состояние слота на дату
type SlotState string

const (
	SlotAvailable  SlotState = "available"
	SlotBooked     SlotState = "booked"      // id есть в активном бронировании
	SlotOverlapped SlotState = "overlap"     // пересекается с забронированным слотом
	SlotTimePassed SlotState = "time_passed" // сегодня и время начала уже наступило
)

// SlotStatus слот и его состояние на дату
type SlotStatus struct {
	Slot  Slot
	State SlotState
}

// Addon доп. услуга зала с ограниченным запасом на день
type Addon struct {
	ID            int64
	BookingTypeID int64
	Name          string
	Price         float64
	MaxQuantity   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AddonAvailability остаток доп. услуги на дату
type AddonAvailability struct {
	Addon     Addon
	Used      int
	Remaining int
}

// Holiday праздничный день, закрытый для всех категорий
type Holiday struct {
	ID        int64
	Date      time.Time
	CreatedAt time.Time
}

// HolidayPage страница праздников
type HolidayPage struct {
	Holidays   []Holiday
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}
