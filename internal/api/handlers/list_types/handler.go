package list_types

import (
	"net/http"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
)

type Handler struct {
	service       BookingTypeService
	includeHidden bool
	logger        Logger
}

// NewHandler includeHidden = true для администратора
func NewHandler(service BookingTypeService, includeHidden bool, logger Logger) *Handler {
	return &Handler{
		service:       service,
		includeHidden: includeHidden,
		logger:        logger,
	}
}

// Handle GET /api/v1/types и GET /api/v1/admin/types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.List(r.Context(), h.includeHidden)
	if err != nil {
		h.logger.Error("GET %s - Failed to list booking types: %v", r.URL.Path, err)
		handlers.RespondDomainError(w, err)
		return
	}

	resp := make([]handlers.BookingTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, handlers.FromDomainBookingType(t))
	}

	h.logger.Info("GET %s - Booking types retrieved: count=%d", r.URL.Path, len(resp))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
