package update_cluster_ranges

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

type BookingService interface {
	UpdateClusterTimeRanges(ctx context.Context, id int64, raw [][2]string) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
