package get_availability

import (
	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-HubBookingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	TypeID     int64         `json:"typeId"`
	Category   string        `json:"category"`
	ServerDate string        `json:"serverDate"`
	ServerTime string        `json:"serverTime"`
	Days       []DayResponse `json:"days"`
}

// DayResponse состояние даты
type DayResponse struct {
	Date      string                            `json:"date"`
	Blocked   bool                              `json:"blocked"`
	Reasons   []string                          `json:"reasons,omitempty"`
	Capacity  *int                              `json:"capacity,omitempty"`
	Remaining *int                              `json:"remaining,omitempty"`
	Slots     []SlotStatusResponse              `json:"slots,omitempty"`
	Addons    []handlers.AddonRemainingResponse `json:"addons,omitempty"`
}

// SlotStatusResponse слот и его состояние на дату
type SlotStatusResponse struct {
	handlers.SlotResponse
	State string `json:"state"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
// Используется и REST ручкой, и потоком доступности
func FromUseCaseResponse(resp *getAvailability.Response) AvailabilityResponse {
	out := AvailabilityResponse{
		TypeID:     resp.TypeID,
		Category:   string(resp.Category),
		ServerDate: resp.ServerDate,
		ServerTime: resp.ServerTime,
		Days:       make([]DayResponse, 0, len(resp.Days)),
	}

	isTour := resp.Category == domain.CategoryIndividualTour || resp.Category == domain.CategoryEventTour

	for _, d := range resp.Days {
		day := DayResponse{
			Date:    d.Date.Format(domain.DateFormat),
			Blocked: d.Blocked,
		}
		for _, reason := range d.Reasons {
			day.Reasons = append(day.Reasons, string(reason))
		}
		if isTour {
			capacity, remaining := d.Capacity, d.Remaining
			day.Capacity = &capacity
			day.Remaining = &remaining
		}
		for _, s := range d.Slots {
			day.Slots = append(day.Slots, SlotStatusResponse{
				SlotResponse: handlers.FromDomainSlot(s.Slot),
				State:        string(s.State),
			})
		}
		for _, a := range d.Addons {
			day.Addons = append(day.Addons, handlers.FromDomainAddonAvailability(a))
		}
		out.Days = append(out.Days, day)
	}

	return out
}
