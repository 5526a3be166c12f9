package admission

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

var (
	// ErrSlotsTaken запрошенные слоты заняты или пересекаются с занятыми
	ErrSlotsTaken = errors.New("admission: slots already booked")

	// ErrInvalidSlots слот не из каталога типа
	ErrInvalidSlots = errors.New("admission: invalid slot selection")

	// ErrCapacityExceeded не хватает билетов или кластеров
	ErrCapacityExceeded = errors.New("admission: capacity exceeded")

	// ErrExclusiveDate дата занята парным туром
	ErrExclusiveDate = errors.New("admission: date taken by exclusive tour")

	// ErrAddonExhausted не хватает доп. услуги
	ErrAddonExhausted = errors.New("admission: addon quantity exceeded")

	// ErrInvalidAddon доп. услуга не из каталога типа или неверное количество
	ErrInvalidAddon = errors.New("admission: invalid addon selection")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = fmt.Errorf("admission: %w", domain.ErrStorage)
)
