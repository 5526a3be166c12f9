package list_types

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

type BookingTypeService interface {
	List(ctx context.Context, includeHidden bool) ([]*domain.BookingType, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
