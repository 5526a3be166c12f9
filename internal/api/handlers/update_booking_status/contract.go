package update_booking_status

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

type BookingService interface {
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
