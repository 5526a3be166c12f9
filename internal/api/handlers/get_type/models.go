package get_type

import "github.com/m04kA/SMC-HubBookingService/internal/api/handlers"

// TypeDetailsResponse тип бронирования с каталогом слотов и доп. услуг
type TypeDetailsResponse struct {
	handlers.BookingTypeResponse
	Slots  []handlers.SlotResponse  `json:"slots"`
	Addons []handlers.AddonResponse `json:"addons"`
}
