package manage_slots

import (
	"net/http"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/pkg/validation"
)

const (
	msgInvalidTypeID      = "некорректный ID типа бронирования"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
)

// Handler каталог слотов зала и лестницы
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/admin/types/{typeId}/slots
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		h.logger.Warn("GET /admin/types/{id}/slots - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	slots, err := h.service.ListSlots(r.Context(), typeID)
	if err != nil {
		h.logger.Error("GET /admin/types/{id}/slots - Failed to list slots: type_id=%d, error=%v", typeID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /admin/types/{id}/slots - Slots retrieved: type_id=%d, count=%d", typeID, len(slots))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainSlots(slots))
}

// HandleCreate POST /api/v1/admin/types/{typeId}/slots
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		h.logger.Warn("POST /admin/types/{id}/slots - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/types/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		h.logger.Warn("POST /admin/types/{id}/slots - Validation failed: %v", errs)
		handlers.RespondBadRequest(w, validation.FormatErrors(errs))
		return
	}

	slot, err := h.service.AddSlot(r.Context(), req.ToServiceRequest(typeID))
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /admin/types/{id}/slots - Failed to add slot: type_id=%d, error=%v", typeID, err)
		} else {
			h.logger.Warn("POST /admin/types/{id}/slots - Slot rejected: type_id=%d, error=%v", typeID, err)
		}
		return
	}

	h.logger.Info("POST /admin/types/{id}/slots - Slot added: type_id=%d, slot_id=%d", typeID, slot.ID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDomainSlot(*slot))
}

// HandleDelete DELETE /api/v1/admin/slots/{slotId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathID(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /admin/slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.DeleteSlot(r.Context(), slotID); err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("DELETE /admin/slots/{id} - Failed to delete slot: slot_id=%d, error=%v", slotID, err)
		} else {
			h.logger.Warn("DELETE /admin/slots/{id} - Slot not deleted: slot_id=%d, status=%d", slotID, status)
		}
		return
	}

	h.logger.Info("DELETE /admin/slots/{id} - Slot deleted: slot_id=%d", slotID)
	handlers.RespondNoContent(w)
}
