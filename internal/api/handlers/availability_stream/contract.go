package availability_stream

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-HubBookingService/internal/usecase/get_availability"
)

type GetAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
}

// EventSubscriber источник событий журнала, канал закрывается при отмене контекста
type EventSubscriber interface {
	Subscribe(ctx context.Context) <-chan domain.BookingEvent
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
