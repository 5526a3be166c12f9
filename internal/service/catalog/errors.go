package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrTypeNotFound тип бронирования не найден
	ErrTypeNotFound = errors.New("catalog: booking type not found")

	// ErrSlotNotFound слот не найден
	ErrSlotNotFound = errors.New("catalog: slot not found")

	// ErrAddonNotFound доп. услуга не найдена
	ErrAddonNotFound = errors.New("catalog: addon not found")

	// ErrWrongCategory операция не поддерживается категорией типа
	ErrWrongCategory = errors.New("catalog: operation not supported for category")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("catalog: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("catalog: %w", domain.ErrStorage)
)
