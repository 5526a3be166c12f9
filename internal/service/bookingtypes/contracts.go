package bookingtypes

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// BookingTypeRepository интерфейс репозитория типов бронирования
type BookingTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingType, error)
	List(ctx context.Context, includeHidden bool) ([]*domain.BookingType, error)
	Update(ctx context.Context, t *domain.BookingType) error
	SetExclusivePartner(ctx context.Context, typeID int64, partnerID *int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
