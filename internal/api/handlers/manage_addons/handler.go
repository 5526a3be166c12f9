package manage_addons

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/validation"
)

const (
	msgInvalidTypeID      = "некорректный ID типа бронирования"
	msgInvalidAddonID     = "некорректный ID доп. услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
)

// Handler доп. услуги зала и их остатки на дату
type Handler struct {
	service  CatalogService
	location *time.Location
	logger   Logger
}

func NewHandler(service CatalogService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// HandleList GET /api/v1/admin/types/{typeId}/addons
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		h.logger.Warn("GET /admin/types/{id}/addons - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	addons, err := h.service.ListAddons(r.Context(), typeID)
	if err != nil {
		h.logger.Error("GET /admin/types/{id}/addons - Failed to list addons: type_id=%d, error=%v", typeID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /admin/types/{id}/addons - Addons retrieved: type_id=%d, count=%d", typeID, len(addons))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainAddons(addons))
}

// HandleCreate POST /api/v1/admin/types/{typeId}/addons
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		h.logger.Warn("POST /admin/types/{id}/addons - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	addon, err := h.service.AddAddon(r.Context(), typeID, req.ToServiceInput())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.logger.Info("POST /admin/types/{id}/addons - Addon added: type_id=%d, addon_id=%d", typeID, addon.ID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDomainAddon(*addon))
}

// HandleUpdate PUT /api/v1/admin/addons/{addonId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	addonID, err := handlers.PathID(r, "addonId")
	if err != nil {
		h.logger.Warn("PUT /admin/addons/{id} - Invalid addon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAddonID)
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	addon, err := h.service.UpdateAddon(r.Context(), addonID, req.ToServiceInput())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.logger.Info("PUT /admin/addons/{id} - Addon updated: addon_id=%d", addonID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainAddon(*addon))
}

// HandleDelete DELETE /api/v1/admin/addons/{addonId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	addonID, err := handlers.PathID(r, "addonId")
	if err != nil {
		h.logger.Warn("DELETE /admin/addons/{id} - Invalid addon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAddonID)
		return
	}

	if err := h.service.DeleteAddon(r.Context(), addonID); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.logger.Info("DELETE /admin/addons/{id} - Addon deleted: addon_id=%d", addonID)
	handlers.RespondNoContent(w)
}

// HandleRemaining GET /api/v1/addons/{addonId}/remaining?date=YYYY-MM-DD
func (h *Handler) HandleRemaining(w http.ResponseWriter, r *http.Request) {
	addonID, err := handlers.PathID(r, "addonId")
	if err != nil {
		h.logger.Warn("GET /addons/{id}/remaining - Invalid addon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAddonID)
		return
	}

	date, ok := h.queryDate(w, r)
	if !ok {
		return
	}

	result, err := h.service.RemainingForDate(r.Context(), addonID, date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.logger.Info("GET /addons/{id}/remaining - Remaining computed: addon_id=%d, date=%s, remaining=%d",
		addonID, date.Format(domain.DateFormat), result.Remaining)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainAddonAvailability(*result))
}

// HandleRemainingBatch GET /api/v1/types/{typeId}/addons/remaining?date=YYYY-MM-DD
func (h *Handler) HandleRemainingBatch(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		h.logger.Warn("GET /types/{id}/addons/remaining - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	date, ok := h.queryDate(w, r)
	if !ok {
		return
	}

	result, err := h.service.RemainingForDateBatch(r.Context(), typeID, date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]handlers.AddonRemainingResponse, 0, len(result))
	for _, a := range result {
		resp = append(resp, handlers.FromDomainAddonAvailability(a))
	}

	h.logger.Info("GET /types/{id}/addons/remaining - Remaining computed: type_id=%d, date=%s, count=%d",
		typeID, date.Format(domain.DateFormat), len(resp))
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*AddonRequest, bool) {
	var req AddonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s %s - Invalid request body: %v", r.Method, r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return nil, false
	}
	if errs := validation.ValidateStruct(req); errs != nil {
		h.logger.Warn("%s %s - Validation failed: %v", r.Method, r.URL.Path, errs)
		handlers.RespondBadRequest(w, validation.FormatErrors(errs))
		return nil, false
	}
	return &req, true
}

func (h *Handler) queryDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		h.logger.Warn("GET %s - Missing date", r.URL.Path)
		handlers.RespondBadRequest(w, msgMissingDate)
		return time.Time{}, false
	}
	date, err := handlers.ParseDate(raw, h.location)
	if err != nil {
		h.logger.Warn("GET %s - Invalid date: %v", r.URL.Path, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := handlers.RespondDomainError(w, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s - Request failed: %v", r.Method, r.URL.Path, err)
		return
	}
	h.logger.Warn("%s %s - Request rejected: status=%d, error=%v", r.Method, r.URL.Path, status, err)
}
