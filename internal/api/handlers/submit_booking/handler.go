package submit_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

const (
	// Скриншот ограничен 1MB в хранилище, остальное место под поля формы
	maxRequestBytes  = 4 << 20
	maxMemoryBytes   = 2 << 20
	msgInvalidForm   = "некорректная форма заявки"
	msgMissingDate   = "дата бронирования обязательна"
	msgInvalidField  = "некорректное значение поля"
	msgInvalidUpload = "не удалось прочитать скриншот оплаты"
)

type Handler struct {
	useCase  SubmitBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase SubmitBookingUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
// multipart/form-data, скриншот оплаты в поле payment_image
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		h.logger.Warn("POST /bookings - Invalid multipart form: %v", err)
		handlers.RespondBadRequest(w, msgInvalidForm)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := ToUseCaseRequest(r.MultipartForm, h.location)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) && !fieldErr.Missing {
			handlers.RespondBadRequest(w, msgInvalidField+": "+fieldErr.Field)
		} else {
			handlers.RespondBadRequest(w, msgMissingDate)
		}
		return
	}

	file, _, err := r.FormFile(fieldPaymentImage)
	switch {
	case err == nil:
		defer file.Close()
		req.PaymentImage = file
	case errors.Is(err, http.ErrMissingFile):
	default:
		h.logger.Warn("POST /bookings - Failed to read payment image: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUpload)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings - Failed to submit booking: type_id=%d, date=%s, error=%v",
				req.TypeID, req.Date.Format(domain.DateFormat), err)
		} else {
			h.logger.Warn("POST /bookings - Booking rejected: type_id=%d, date=%s, status=%d, error=%v",
				req.TypeID, req.Date.Format(domain.DateFormat), status, err)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking submitted: booking_id=%d, type_id=%d, total=%.2f",
		result.ID, result.TypeID, result.TotalPrice)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
