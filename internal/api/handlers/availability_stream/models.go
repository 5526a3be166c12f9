package availability_stream

import getAvailabilityHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/get_availability"

const (
	messageAvailability = "availability"
	messageError        = "error"
)

// Message сообщение потока
type Message struct {
	Type  string                                       `json:"type"`
	Data  *getAvailabilityHandler.AvailabilityResponse `json:"data,omitempty"`
	Error string                                       `json:"error,omitempty"`
}
