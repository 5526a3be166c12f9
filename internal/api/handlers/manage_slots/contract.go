package manage_slots

import (
	"context"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/service/catalog"
)

type CatalogService interface {
	ListSlots(ctx context.Context, typeID int64) ([]domain.Slot, error)
	AddSlot(ctx context.Context, req catalog.AddSlotRequest) (*domain.Slot, error)
	DeleteSlot(ctx context.Context, slotID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
