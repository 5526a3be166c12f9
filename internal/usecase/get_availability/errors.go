package get_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrTypeNotFound возвращается, когда тип бронирования не найден
	ErrTypeNotFound = errors.New("get_availability: booking type not found")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("get_availability: invalid date range")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("get_availability: %w", domain.ErrStorage)
)
