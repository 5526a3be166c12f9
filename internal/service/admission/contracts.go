package admission

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// BookingRepository журнал бронирований
type BookingRepository interface {
	GetWithFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	AddonUsage(ctx context.Context, typeID int64, date time.Time) (map[int64]int, error)
	LockDate(ctx context.Context, resourceKey int64, date time.Time) error
}

// SlotRepository каталог слотов
type SlotRepository interface {
	ListByType(ctx context.Context, typeID int64) ([]domain.Slot, error)
}

// AddonRepository доп. услуги
type AddonRepository interface {
	ListByType(ctx context.Context, typeID int64) ([]domain.Addon, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
