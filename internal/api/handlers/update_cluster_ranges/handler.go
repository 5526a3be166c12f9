package update_cluster_ranges

import (
	"net/http"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle PUT /api/v1/admin/bookings/{bookingId}/cluster-ranges
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /admin/bookings/{id}/cluster-ranges - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateClusterRangesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/bookings/{id}/cluster-ranges - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.UpdateClusterTimeRanges(r.Context(), bookingID, req.ToServiceRanges())
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PUT /admin/bookings/{id}/cluster-ranges - Failed to update ranges: booking_id=%d, error=%v",
				bookingID, err)
		} else {
			h.logger.Warn("PUT /admin/bookings/{id}/cluster-ranges - Ranges rejected: booking_id=%d, error=%v", bookingID, err)
		}
		return
	}

	h.logger.Info("PUT /admin/bookings/{id}/cluster-ranges - Ranges updated: booking_id=%d, count=%d",
		bookingID, len(booking.ClusterTimeRanges))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
