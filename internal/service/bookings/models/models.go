package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDate возвращается при некорректной дате фильтра
	ErrInvalidDate = errors.New("invalid filter date")
)

// ListBookingsRequest запрос на получение журнала для администратора
// Пустые строки означают "без фильтра"
type ListBookingsRequest struct {
	TypeID   int64  `json:"typeId,omitempty"`
	Status   string `json:"status,omitempty"`
	DateFrom string `json:"dateFrom,omitempty"` // "2025-10-15"
	DateTo   string `json:"dateTo,omitempty"`
	Page     int    `json:"page,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter(loc *time.Location) (domain.BookingFilter, error) {
	var filter domain.BookingFilter

	if r.TypeID > 0 {
		filter.TypeIDs = []int64{r.TypeID}
	}

	if r.Status != "" {
		status, err := ToDomainBookingStatus(r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.DateFrom != "" {
		d, err := time.ParseInLocation(domain.DateFormat, r.DateFrom, loc)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.DateFrom = &d
	}

	if r.DateTo != "" {
		d, err := time.ParseInLocation(domain.DateFormat, r.DateTo, loc)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.DateTo = &d
	}

	return filter, nil
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
