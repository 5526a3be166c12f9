package get_availability

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-HubBookingService/internal/usecase/get_availability"
)

const (
	msgInvalidTypeID = "некорректный ID типа бронирования"
	msgMissingDate   = "дата обязательна"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase  GetAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/types/{typeId}/availability
// Query params: from (required, YYYY-MM-DD), to (optional, по умолчанию = from)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, msg, err := ParseRequest(r, h.location)
	if err != nil {
		h.logger.Warn("GET /types/{id}/availability - Invalid request: %v", err)
		handlers.RespondBadRequest(w, msg)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /types/{id}/availability - Failed to compute availability: type_id=%d, error=%v", req.TypeID, err)
		} else {
			h.logger.Warn("GET /types/{id}/availability - Request rejected: type_id=%d, error=%v", req.TypeID, err)
		}
		return
	}

	h.logger.Info("GET /types/{id}/availability - Availability computed: type_id=%d, days=%d", req.TypeID, len(resp.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}

// ParseRequest разбирает typeId из пути и диапазон дат из query
// Возвращает сообщение для клиента вместе с ошибкой
func ParseRequest(r *http.Request, loc *time.Location) (*getAvailability.Request, string, error) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		return nil, msgInvalidTypeID, err
	}

	query := r.URL.Query()
	fromStr := query.Get("from")
	if fromStr == "" {
		fromStr = query.Get("date")
	}
	if fromStr == "" {
		return nil, msgMissingDate, errMissingDate
	}

	from, err := handlers.ParseDate(fromStr, loc)
	if err != nil {
		return nil, msgInvalidDate, err
	}

	req := &getAvailability.Request{TypeID: typeID, From: from}
	if toStr := query.Get("to"); toStr != "" {
		to, err := handlers.ParseDate(toStr, loc)
		if err != nil {
			return nil, msgInvalidDate, err
		}
		req.To = to
	}

	return req, "", nil
}
