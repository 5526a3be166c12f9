package manage_holidays

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPage = "некорректный номер страницы"
)

// Handler праздничный календарь: публичный список и администрирование
type Handler struct {
	service  HolidayService
	location *time.Location
	logger   Logger
}

func NewHandler(service HolidayService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// HandleList GET /api/v1/holidays
// Все праздники для календаря клиента
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.service.All(r.Context())
	if err != nil {
		h.logger.Error("GET /holidays - Failed to list holidays: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /holidays - Holidays retrieved: count=%d", len(holidays))
	handlers.RespondJSON(w, http.StatusOK, dates(holidays))
}

// HandleAdminList GET /api/v1/admin/holidays?page=N
func (h *Handler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.logger.Warn("GET /admin/holidays - Invalid page: %s", v)
			handlers.RespondBadRequest(w, msgInvalidPage)
			return
		}
		page = n
	}

	result, err := h.service.List(r.Context(), page)
	if err != nil {
		h.logger.Error("GET /admin/holidays - Failed to list holidays: page=%d, error=%v", page, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /admin/holidays - Holidays retrieved: page=%d, count=%d, total=%d",
		result.Page, len(result.Holidays), result.Total)
	handlers.RespondJSON(w, http.StatusOK, FromDomainHolidayPage(result))
}

// HandleSet PUT /api/v1/admin/holidays/{date}
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, true)
}

// HandleUnset DELETE /api/v1/admin/holidays/{date}
func (h *Handler) HandleUnset(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, false)
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request, holiday bool) {
	date, err := handlers.ParseDate(mux.Vars(r)["date"], h.location)
	if err != nil {
		h.logger.Warn("%s /admin/holidays/{date} - Invalid date: %v", r.Method, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.SetHoliday(r.Context(), date, holiday); err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("%s /admin/holidays/{date} - Failed to update holiday: date=%s, error=%v",
				r.Method, date.Format(domain.DateFormat), err)
		} else {
			h.logger.Warn("%s /admin/holidays/{date} - Holiday rejected: %v", r.Method, err)
		}
		return
	}

	h.logger.Info("%s /admin/holidays/{date} - Holiday updated: date=%s, holiday=%t",
		r.Method, date.Format(domain.DateFormat), holiday)
	handlers.RespondJSON(w, http.StatusOK, HolidayStateResponse{
		Date:      date.Format(domain.DateFormat),
		IsHoliday: holiday,
	})
}
