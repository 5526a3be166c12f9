package update_type_settings

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

type BookingTypeService interface {
	UpdateSettings(ctx context.Context, id int64, settings domain.BookingTypeSettings) (*domain.BookingType, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
