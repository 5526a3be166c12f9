package update_type_settings

import (
	"net/http"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
)

const (
	msgInvalidTypeID      = "некорректный ID типа бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
)

type Handler struct {
	service BookingTypeService
	logger  Logger
}

func NewHandler(service BookingTypeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/types/{typeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		h.logger.Warn("PUT /admin/types/{id} - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/types/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := req.ToDomainSettings()
	if err != nil {
		h.logger.Warn("PUT /admin/types/{id} - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	updated, err := h.service.UpdateSettings(r.Context(), typeID, settings)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PUT /admin/types/{id} - Failed to update settings: type_id=%d, error=%v", typeID, err)
		} else {
			h.logger.Warn("PUT /admin/types/{id} - Settings rejected: type_id=%d, error=%v", typeID, err)
		}
		return
	}

	h.logger.Info("PUT /admin/types/{id} - Settings updated: type_id=%d", typeID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBookingType(updated))
}
