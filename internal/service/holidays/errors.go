package holidays

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrInvalidDate дата не указана
	ErrInvalidDate = errors.New("holidays: invalid date")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("holidays: %w", domain.ErrStorage)
)
