package get_type

import (
	"net/http"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

const (
	msgInvalidTypeID = "некорректный ID типа бронирования"
)

type Handler struct {
	types   BookingTypeService
	catalog CatalogService
	logger  Logger
}

func NewHandler(types BookingTypeService, catalog CatalogService, logger Logger) *Handler {
	return &Handler{
		types:   types,
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/types/{typeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		h.logger.Warn("GET /types/{id} - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	t, err := h.types.Get(r.Context(), typeID)
	if err != nil {
		h.respondError(w, typeID, err)
		return
	}

	resp := TypeDetailsResponse{
		BookingTypeResponse: handlers.FromDomainBookingType(t),
		Slots:               []handlers.SlotResponse{},
		Addons:              []handlers.AddonResponse{},
	}

	if t.Category.UsesSlots() {
		slots, err := h.catalog.ListSlots(r.Context(), typeID)
		if err != nil {
			h.respondError(w, typeID, err)
			return
		}
		resp.Slots = handlers.FromDomainSlots(slots)
	}

	if t.Category == domain.CategoryHall {
		addons, err := h.catalog.ListAddons(r.Context(), typeID)
		if err != nil {
			h.respondError(w, typeID, err)
			return
		}
		resp.Addons = handlers.FromDomainAddons(addons)
	}

	h.logger.Info("GET /types/{id} - Booking type retrieved: type_id=%d, slots=%d, addons=%d",
		typeID, len(resp.Slots), len(resp.Addons))
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondError(w http.ResponseWriter, typeID int64, err error) {
	status := handlers.RespondDomainError(w, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("GET /types/{id} - Failed to get booking type: type_id=%d, error=%v", typeID, err)
		return
	}
	h.logger.Warn("GET /types/{id} - Booking type not returned: type_id=%d, status=%d", typeID, status)
}
