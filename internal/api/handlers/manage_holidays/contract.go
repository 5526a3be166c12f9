package manage_holidays

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

type HolidayService interface {
	SetHoliday(ctx context.Context, date time.Time, holiday bool) error
	List(ctx context.Context, pageNumber int) (*domain.HolidayPage, error)
	All(ctx context.Context) ([]domain.Holiday, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
