package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetWithFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// BookingTypeRepository интерфейс репозитория типов бронирования
type BookingTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingType, error)
}

// SlotRepository каталог слотов
type SlotRepository interface {
	ListByType(ctx context.Context, typeID int64) ([]domain.Slot, error)
}

// AddonRepository каталог доп. услуг
type AddonRepository interface {
	ListByType(ctx context.Context, typeID int64) ([]domain.Addon, error)
}

// HolidayCalendar праздники в диапазоне дат
type HolidayCalendar interface {
	InRange(ctx context.Context, from, to time.Time) (map[string]struct{}, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе оператора
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
