package submit_booking

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/infra/uploads"
	"github.com/m04kA/SMC-HubBookingService/pkg/validation"
)

// validateRequest проверяет поля заявки, не требующие обращения к хранилищу
func validateRequest(req *Request) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)

	if req.TypeID <= 0 {
		return domain.NewValidationError(ErrInvalidInput, "Invalid booking type")
	}
	if req.Date.IsZero() {
		return domain.NewValidationError(ErrInvalidInput, "Booking date is required")
	}

	if errs := validation.ValidateStruct(req); errs != nil {
		if _, ok := errs["notes"]; ok {
			return domain.NewValidationError(ErrInvalidInput, "Notes must be at most %d characters", domain.MaxNotesLength)
		}
		return domain.NewValidationError(ErrInvalidInput, "Name, Email and Phone are required")
	}

	return nil
}

// validateCategoryInput количество слотов, билетов или кластеров соответствует категории
func validateCategoryInput(t *domain.BookingType, req *Request) error {
	switch t.Category {
	case domain.CategoryHall, domain.CategoryStaircase:
		if len(req.SlotIDs) == 0 {
			return domain.NewValidationError(ErrInvalidInput, "Please select at least one slot")
		}
	case domain.CategoryIndividualTour:
		if req.TicketCount < 1 {
			return domain.NewValidationError(ErrInvalidInput, "Please select at least one ticket")
		}
		if cfg, ok := t.IndividualTour(); ok && req.TicketCount > cfg.MaxDailyCapacity {
			return domain.NewValidationError(ErrInvalidInput, "At most %d tickets can be booked per day", cfg.MaxDailyCapacity)
		}
	case domain.CategoryEventTour:
		if req.TicketCount < 1 {
			return domain.NewValidationError(ErrInvalidInput, "Please select at least one cluster")
		}
		if cfg, ok := t.EventTour(); ok && req.TicketCount > cfg.MaxClusters {
			return domain.NewValidationError(ErrInvalidInput, "At most %d clusters can be booked per day", cfg.MaxClusters)
		}
	}

	if len(req.Addons) > 0 && t.Category != domain.CategoryHall {
		return domain.NewValidationError(ErrInvalidInput, "Addons are not available for %s bookings", t.Category)
	}
	return nil
}

// validateDate прошедшая дата, выходной или праздник, горизонт бронирования и начавшийся тур
func validateDate(t *domain.BookingType, date, now time.Time, isHoliday bool) error {
	if domain.IsDateInPast(date, now) {
		return domain.NewValidationError(ErrDateInPast, "Booking date cannot be in the past")
	}

	for _, reason := range domain.BlackoutReasons(t, date, isHoliday) {
		switch reason {
		case domain.BlockedHoliday:
			return domain.NewValidationError(ErrDateBlocked, "This date is a holiday and not available for booking.")
		case domain.BlockedWeekend:
			return domain.NewValidationError(ErrDateBlocked, "This date is a weekend and not available for booking.")
		}
	}

	if cfg, ok := t.IndividualTour(); ok && !domain.WithinBookingWindow(cfg, date, now) {
		return domain.NewValidationError(ErrOutsideWindow,
			"Bookings are only open up to %d day(s) in advance.", cfg.WindowDays)
	}

	if start, _, ok := t.TourWindow(); ok && domain.TourStarted(start, date, now) {
		return domain.NewValidationError(ErrTourStarted, "Today's tour has already started. Please choose another date.")
	}

	return nil
}

// uploadError сообщение для отказа хранилища скриншотов
func uploadError(err error) error {
	switch {
	case errors.Is(err, uploads.ErrTooLarge):
		return domain.NewValidationError(ErrInvalidUpload, "Payment image must be less than 1MB")
	case errors.Is(err, uploads.ErrUnsupportedType), errors.Is(err, uploads.ErrEmpty):
		return domain.NewValidationError(ErrInvalidUpload, "Invalid image type. Allowed: JPG, PNG, GIF, WebP")
	default:
		return nil
	}
}

func hasText(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
