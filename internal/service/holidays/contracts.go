package holidays

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
)

// HolidayRepository интерфейс репозитория праздников
type HolidayRepository interface {
	Exists(ctx context.Context, date time.Time) (bool, error)
	Insert(ctx context.Context, date time.Time) error
	Delete(ctx context.Context, date time.Time) error
	ListPage(ctx context.Context, page pagination.Page) ([]domain.Holiday, int64, error)
	ListRange(ctx context.Context, from, to time.Time) ([]domain.Holiday, error)
	ListAll(ctx context.Context) ([]domain.Holiday, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
