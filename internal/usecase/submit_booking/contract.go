package submit_booking

import (
	"context"
	"io"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/service/admission"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// BookingTypeRepository интерфейс репозитория типов бронирования
type BookingTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingType, error)
}

// HolidayChecker календарь праздников
type HolidayChecker interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

// AdmissionChecker проверка слотов, вместимости и доп. услуг под блокировкой даты
type AdmissionChecker interface {
	Lock(ctx context.Context, t *domain.BookingType, date time.Time) error
	Check(ctx context.Context, cand admission.Candidate) (*admission.Result, error)
}

// UploadStore хранилище скриншотов оплаты
type UploadStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Delete(ctx context.Context, uri string) error
}

// Notifier уведомление оператора о новой заявке
type Notifier interface {
	BookingCreated(b *domain.Booking, t *domain.BookingType)
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// AdmissionObserver счётчики приёма заявок
type AdmissionObserver interface {
	ObserveAdmission(category, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе оператора
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
