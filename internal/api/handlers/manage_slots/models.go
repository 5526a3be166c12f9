package manage_slots

import "github.com/m04kA/SMC-HubBookingService/internal/service/catalog"

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	StartTime string  `json:"startTime" validate:"required,hhmm"`
	EndTime   string  `json:"endTime" validate:"required,hhmm"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// ToServiceRequest конвертирует HTTP request в запрос сервиса
func (r *CreateSlotRequest) ToServiceRequest(typeID int64) catalog.AddSlotRequest {
	return catalog.AddSlotRequest{
		TypeID:    typeID,
		Name:      r.Name,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Price:     r.Price,
	}
}
