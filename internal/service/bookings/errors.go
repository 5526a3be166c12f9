package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrTypeNotFound тип бронирования удалён или не найден
	ErrTypeNotFound = errors.New("bookings: booking type not found")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("bookings: invalid booking status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrConcurrentUpdate сериализуемая транзакция не прошла из-за параллельных изменений
	ErrConcurrentUpdate = errors.New("bookings: concurrent update")

	// ErrNotEventTour интервалы кластеров есть только у групповых туров
	ErrNotEventTour = errors.New("bookings: booking is not an event tour")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("bookings: %w", domain.ErrStorage)
)
