package handlers

import (
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// BookingTypeResponse тип бронирования с настройками своей категории
type BookingTypeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	WeekendDays []int  `json:"weekendDays"`
	IsHidden    bool   `json:"isHidden"`

	TourStart          *string  `json:"tourStart,omitempty"`
	TourEnd            *string  `json:"tourEnd,omitempty"`
	MaxDailyCapacity   *int     `json:"maxDailyCapacity,omitempty"`
	TicketPrice        *float64 `json:"ticketPrice,omitempty"`
	WindowMode         *string  `json:"bookingWindowMode,omitempty"`
	WindowDays         *int     `json:"bookingWindowDays,omitempty"`
	MaxClusters        *int     `json:"maxClusters,omitempty"`
	MembersPerCluster  *int     `json:"membersPerCluster,omitempty"`
	PricePerCluster    *float64 `json:"pricePerCluster,omitempty"`
	MaxHoursPerCluster *int     `json:"maxHoursPerCluster,omitempty"`
	ExclusiveWithType  *int64   `json:"exclusiveWithType,omitempty"`
}

// SlotResponse слот каталога
type SlotResponse struct {
	ID        int64   `json:"id"`
	TypeID    int64   `json:"typeId"`
	Name      string  `json:"name"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Price     float64 `json:"price"`
}

// AddonResponse доп. услуга каталога
type AddonResponse struct {
	ID          int64   `json:"id"`
	TypeID      int64   `json:"typeId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	MaxQuantity int     `json:"maxQuantity"`
}

// AddonRemainingResponse остаток доп. услуги на дату
type AddonRemainingResponse struct {
	AddonResponse
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// BookingAddonResponse строка доп. услуги в бронировании
type BookingAddonResponse struct {
	AddonID  int64   `json:"addonId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// TimeRangeResponse интервал кластера
type TimeRangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BookingResponse запись журнала
type BookingResponse struct {
	ID                int64                  `json:"id"`
	TypeID            int64                  `json:"typeId"`
	TypeName          string                 `json:"typeName"`
	Category          string                 `json:"category"`
	BookingDate       string                 `json:"bookingDate"`
	Slots             []SlotResponse         `json:"slots,omitempty"`
	TicketCount       int                    `json:"ticketCount"`
	ClusterHours      []int                  `json:"clusterHours,omitempty"`
	ClusterTimeRanges []TimeRangeResponse    `json:"clusterTimeRanges,omitempty"`
	Addons            []BookingAddonResponse `json:"addons,omitempty"`
	TotalPrice        float64                `json:"totalPrice"`
	CustomerName      string                 `json:"customerName"`
	CustomerEmail     string                 `json:"customerEmail"`
	CustomerPhone     string                 `json:"customerPhone"`
	TransactionID     *string                `json:"transactionId,omitempty"`
	PaymentImage      *string                `json:"paymentImage,omitempty"`
	Notes             *string                `json:"notes,omitempty"`
	Status            string                 `json:"status"`
	CreatedAt         string                 `json:"createdAt"`
	UpdatedAt         string                 `json:"updatedAt"`
}

// BookingPageResponse страница журнала
type BookingPageResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
}

// FromDomainBookingType конвертирует тип бронирования в HTTP модель
func FromDomainBookingType(t *domain.BookingType) BookingTypeResponse {
	resp := BookingTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Category:    string(t.Category),
		WeekendDays: t.WeekendDays,
		IsHidden:    t.IsHidden,
	}
	if resp.WeekendDays == nil {
		resp.WeekendDays = []int{}
	}

	switch cfg := t.Config.(type) {
	case domain.IndividualTourConfig:
		start, end := cfg.TourStart.String(), cfg.TourEnd.String()
		mode := string(cfg.WindowMode)
		resp.TourStart, resp.TourEnd = &start, &end
		resp.MaxDailyCapacity = &cfg.MaxDailyCapacity
		resp.TicketPrice = &cfg.TicketPrice
		resp.WindowMode = &mode
		resp.WindowDays = &cfg.WindowDays
		resp.ExclusiveWithType = cfg.ExclusiveWithType
	case domain.EventTourConfig:
		start, end := cfg.TourStart.String(), cfg.TourEnd.String()
		maxHours := cfg.MaxHoursPerCluster()
		resp.TourStart, resp.TourEnd = &start, &end
		resp.MaxClusters = &cfg.MaxClusters
		resp.MembersPerCluster = &cfg.MembersPerCluster
		resp.PricePerCluster = &cfg.PricePerCluster
		resp.MaxHoursPerCluster = &maxHours
		resp.ExclusiveWithType = cfg.ExclusiveWithType
	}
	return resp
}

// FromDomainSlot конвертирует слот в HTTP модель
func FromDomainSlot(s domain.Slot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		TypeID:    s.BookingTypeID,
		Name:      s.Name,
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Price:     s.Price,
	}
}

// FromDomainSlots конвертирует список слотов
func FromDomainSlots(slots []domain.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, FromDomainSlot(s))
	}
	return out
}

// FromDomainAddon конвертирует доп. услугу в HTTP модель
func FromDomainAddon(a domain.Addon) AddonResponse {
	return AddonResponse{
		ID:          a.ID,
		TypeID:      a.BookingTypeID,
		Name:        a.Name,
		Price:       a.Price,
		MaxQuantity: a.MaxQuantity,
	}
}

// FromDomainAddons конвертирует список доп. услуг
func FromDomainAddons(addons []domain.Addon) []AddonResponse {
	out := make([]AddonResponse, 0, len(addons))
	for _, a := range addons {
		out = append(out, FromDomainAddon(a))
	}
	return out
}

// FromDomainAddonAvailability конвертирует остаток доп. услуги
func FromDomainAddonAvailability(a domain.AddonAvailability) AddonRemainingResponse {
	return AddonRemainingResponse{
		AddonResponse: FromDomainAddon(a.Addon),
		Used:          a.Used,
		Remaining:     a.Remaining,
	}
}

// FromDomainTimeRanges конвертирует интервалы кластеров
func FromDomainTimeRanges(ranges []domain.TimeRange) []TimeRangeResponse {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]TimeRangeResponse, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, TimeRangeResponse{Start: r.Start.String(), End: r.End.String()})
	}
	return out
}

// FromDomainBooking конвертирует бронирование в HTTP модель
func FromDomainBooking(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                b.ID,
		TypeID:            b.BookingTypeID,
		TypeName:          b.TypeName,
		Category:          string(b.Category),
		BookingDate:       b.BookingDate.Format(domain.DateFormat),
		TicketCount:       b.TicketCount,
		ClusterHours:      b.ClusterHours,
		ClusterTimeRanges: FromDomainTimeRanges(b.ClusterTimeRanges),
		TotalPrice:        b.TotalPrice,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		CustomerPhone:     b.CustomerPhone,
		TransactionID:     b.TransactionID,
		PaymentImage:      b.PaymentImage,
		Notes:             b.Notes,
		Status:            string(b.Status),
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         b.UpdatedAt.Format(time.RFC3339),
	}
	if len(b.Slots) > 0 {
		resp.Slots = FromDomainSlots(b.Slots)
	}
	for _, a := range b.Addons {
		resp.Addons = append(resp.Addons, BookingAddonResponse{
			AddonID:  a.AddonID,
			Name:     a.AddonName,
			Price:    a.AddonPrice,
			Quantity: a.Quantity,
			Total:    a.LineTotal(),
		})
	}
	return resp
}

// FromDomainBookingPage конвертирует страницу журнала
func FromDomainBookingPage(p *domain.BookingPage) BookingPageResponse {
	resp := BookingPageResponse{
		Bookings:   make([]BookingResponse, 0, len(p.Bookings)),
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
	for _, b := range p.Bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBooking(b))
	}
	return resp
}
