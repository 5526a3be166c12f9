package list_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings
// Query params: typeId, status, dateFrom, dateTo, page (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /admin/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	page, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /admin/bookings - Failed to list bookings: error=%v", err)
		} else {
			h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
		}
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings retrieved: count=%d, total=%d, page=%d",
		len(page.Bookings), page.Total, page.Page)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBookingPage(page))
}
