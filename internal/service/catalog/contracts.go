package catalog

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// BookingTypeRepository интерфейс репозитория типов бронирования
type BookingTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingType, error)
}

// SlotRepository интерфейс каталога слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	ListByType(ctx context.Context, typeID int64) ([]domain.Slot, error)
	Delete(ctx context.Context, id int64) error
}

// AddonRepository интерфейс репозитория доп. услуг
type AddonRepository interface {
	Create(ctx context.Context, addon *domain.Addon) (*domain.Addon, error)
	GetByID(ctx context.Context, id int64) (*domain.Addon, error)
	ListByType(ctx context.Context, typeID int64) ([]domain.Addon, error)
	Update(ctx context.Context, addon *domain.Addon) error
	Delete(ctx context.Context, id int64) error
}

// UsageRepository занятость доп. услуг по журналу
type UsageRepository interface {
	AddonUsage(ctx context.Context, typeID int64, date time.Time) (map[int64]int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
