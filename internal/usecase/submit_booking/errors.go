package submit_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrTypeNotFound возвращается, когда тип бронирования не найден
	ErrTypeNotFound = errors.New("submit_booking: booking type not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrPaymentRequired возвращается, когда нет ни номера транзакции, ни скриншота
	ErrPaymentRequired = errors.New("submit_booking: payment evidence required")

	// ErrInvalidUpload возвращается, когда скриншот оплаты не прошёл проверку
	ErrInvalidUpload = errors.New("submit_booking: invalid payment image")

	// ErrDateInPast возвращается при бронировании на прошедшую дату
	ErrDateInPast = errors.New("submit_booking: date is in the past")

	// ErrDateBlocked возвращается для выходного дня типа или праздника
	ErrDateBlocked = errors.New("submit_booking: date is blocked")

	// ErrOutsideWindow возвращается, когда дата дальше горизонта бронирования
	ErrOutsideWindow = errors.New("submit_booking: date is outside booking window")

	// ErrTourStarted возвращается, когда сегодняшний тур уже начался
	ErrTourStarted = errors.New("submit_booking: tour already started")

	// ErrConcurrentUpdate возвращается, когда повторы сериализуемой транзакции исчерпаны
	ErrConcurrentUpdate = errors.New("submit_booking: concurrent update")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("submit_booking: %w", domain.ErrStorage)
)
