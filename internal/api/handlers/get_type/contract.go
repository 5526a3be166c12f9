package get_type

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

type BookingTypeService interface {
	Get(ctx context.Context, id int64) (*domain.BookingType, error)
}

type CatalogService interface {
	ListSlots(ctx context.Context, typeID int64) ([]domain.Slot, error)
	ListAddons(ctx context.Context, typeID int64) ([]domain.Addon, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
