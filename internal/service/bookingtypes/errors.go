package bookingtypes

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrTypeNotFound тип бронирования не найден
	ErrTypeNotFound = errors.New("bookingtypes: booking type not found")

	// ErrInvalidSettings настройки не прошли проверку
	ErrInvalidSettings = errors.New("bookingtypes: invalid settings")

	// ErrInvalidPartner парный тип не подходит для взаимной исключительности
	ErrInvalidPartner = errors.New("bookingtypes: invalid exclusive partner")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("bookingtypes: %w", domain.ErrStorage)
)
