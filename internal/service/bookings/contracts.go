package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/service/admission"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter, page pagination.Page) ([]*domain.Booking, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateClusterTimeRanges(ctx context.Context, id int64, ranges []domain.TimeRange) error
	Delete(ctx context.Context, id int64) error
}

// BookingTypeRepository интерфейс репозитория типов бронирования
type BookingTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingType, error)
}

// AdmissionChecker повторная проверка ресурсов при возврате отклонённого бронирования
type AdmissionChecker interface {
	Lock(ctx context.Context, t *domain.BookingType, date time.Time) error
	Check(ctx context.Context, cand admission.Candidate) (*admission.Result, error)
}

// UploadStore хранилище скриншотов оплаты
type UploadStore interface {
	Delete(ctx context.Context, uri string) error
}

// Notifier уведомления клиенту
type Notifier interface {
	BookingStatusChanged(b *domain.Booking, t *domain.BookingType)
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
