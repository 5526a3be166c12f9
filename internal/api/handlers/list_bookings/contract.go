package list_bookings

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/service/bookings/models"
)

type BookingService interface {
	List(ctx context.Context, req *models.ListBookingsRequest) (*domain.BookingPage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
