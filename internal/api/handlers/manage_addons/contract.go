package manage_addons

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/service/catalog"
)

type CatalogService interface {
	ListAddons(ctx context.Context, typeID int64) ([]domain.Addon, error)
	AddAddon(ctx context.Context, typeID int64, in catalog.AddonInput) (*domain.Addon, error)
	UpdateAddon(ctx context.Context, addonID int64, in catalog.AddonInput) (*domain.Addon, error)
	DeleteAddon(ctx context.Context, addonID int64) error
	RemainingForDate(ctx context.Context, addonID int64, date time.Time) (*domain.AddonAvailability, error)
	RemainingForDateBatch(ctx context.Context, typeID int64, date time.Time) ([]domain.AddonAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
