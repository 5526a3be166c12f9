package update_type_settings

import (
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// UpdateSettingsRequest HTTP request model
// Отсутствующие поля не меняются, exclusiveWithType = 0 снимает связь туров
type UpdateSettingsRequest struct {
	Name              *string  `json:"name,omitempty"`
	WeekendDays       *[]int   `json:"weekendDays,omitempty"`
	IsHidden          *bool    `json:"isHidden,omitempty"`
	TourStart         *string  `json:"tourStart,omitempty"`
	TourEnd           *string  `json:"tourEnd,omitempty"`
	MaxDailyCapacity  *int     `json:"maxDailyCapacity,omitempty"`
	TicketPrice       *float64 `json:"ticketPrice,omitempty"`
	WindowMode        *string  `json:"bookingWindowMode,omitempty"`
	WindowDays        *int     `json:"bookingWindowDays,omitempty"`
	MaxClusters       *int     `json:"maxClusters,omitempty"`
	MembersPerCluster *int     `json:"membersPerCluster,omitempty"`
	PricePerCluster   *float64 `json:"pricePerCluster,omitempty"`
	ExclusiveWithType *int64   `json:"exclusiveWithType,omitempty"`
}

// ToDomainSettings конвертирует HTTP request в частичные настройки
func (r *UpdateSettingsRequest) ToDomainSettings() (domain.BookingTypeSettings, error) {
	settings := domain.BookingTypeSettings{
		Name:              r.Name,
		WeekendDays:       r.WeekendDays,
		IsHidden:          r.IsHidden,
		MaxDailyCapacity:  r.MaxDailyCapacity,
		TicketPrice:       r.TicketPrice,
		WindowDays:        r.WindowDays,
		MaxClusters:       r.MaxClusters,
		MembersPerCluster: r.MembersPerCluster,
		PricePerCluster:   r.PricePerCluster,
		ExclusiveWithType: r.ExclusiveWithType,
	}

	if r.TourStart != nil {
		ts, err := types.NewTimeStringFromString(*r.TourStart)
		if err != nil {
			return settings, fmt.Errorf("tourStart: %w", err)
		}
		settings.TourStart = &ts
	}
	if r.TourEnd != nil {
		ts, err := types.NewTimeStringFromString(*r.TourEnd)
		if err != nil {
			return settings, fmt.Errorf("tourEnd: %w", err)
		}
		settings.TourEnd = &ts
	}
	if r.WindowMode != nil {
		mode := domain.BookingWindowMode(*r.WindowMode)
		settings.WindowMode = &mode
	}

	return settings, nil
}
