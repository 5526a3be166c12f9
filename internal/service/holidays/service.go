package holidays

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
)

// Service календарь праздников
// Праздник закрывает дату для всех категорий
type Service struct {
	holidayRepo HolidayRepository
	pageSize    int
	logger      Logger
}

// NewService создает новый экземпляр сервиса праздников
func NewService(holidayRepo HolidayRepository, pageSize int, logger Logger) *Service {
	if pageSize <= 0 {
		pageSize = domain.PageSize
	}
	return &Service{
		holidayRepo: holidayRepo,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// IsHoliday является ли дата праздником
func (s *Service) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	ok, err := s.holidayRepo.Exists(ctx, date)
	if err != nil {
		s.logger.Error("IsHoliday: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return false, fmt.Errorf("%w: IsHoliday: %w", ErrInternal, err)
	}
	return ok, nil
}

// SetHoliday отмечает или снимает праздник, повторный вызов с тем же флагом ничего не меняет
func (s *Service) SetHoliday(ctx context.Context, date time.Time, holiday bool) error {
	if date.IsZero() {
		return domain.NewValidationError(ErrInvalidDate, "Date is required")
	}
	day := date.Format(domain.DateFormat)

	if holiday {
		if err := s.holidayRepo.Insert(ctx, date); err != nil {
			s.logger.Error("SetHoliday: insert failed for date=%s: %v", day, err)
			return fmt.Errorf("%w: SetHoliday - insert: %w", ErrInternal, err)
		}
		s.logger.Info("SetHoliday: date=%s marked as holiday", day)
		return nil
	}

	if err := s.holidayRepo.Delete(ctx, date); err != nil {
		s.logger.Error("SetHoliday: delete failed for date=%s: %v", day, err)
		return fmt.Errorf("%w: SetHoliday - delete: %w", ErrInternal, err)
	}
	s.logger.Info("SetHoliday: date=%s unmarked", day)
	return nil
}

// List страница праздников, поздние сверху
func (s *Service) List(ctx context.Context, pageNumber int) (*domain.HolidayPage, error) {
	page := pagination.New(pageNumber, s.pageSize)

	holidays, total, err := s.holidayRepo.ListPage(ctx, page)
	if err != nil {
		s.logger.Error("List: repository error for page=%d: %v", page.Number, err)
		return nil, fmt.Errorf("%w: List: %w", ErrInternal, err)
	}

	return &domain.HolidayPage{
		Holidays:   holidays,
		Page:       page.Number,
		PerPage:    page.PerPage,
		Total:      total,
		TotalPages: pagination.TotalPages(total, page.PerPage),
	}, nil
}

// InRange множество праздничных дат в диапазоне, ключ в формате YYYY-MM-DD
func (s *Service) InRange(ctx context.Context, from, to time.Time) (map[string]struct{}, error) {
	holidays, err := s.holidayRepo.ListRange(ctx, from, to)
	if err != nil {
		s.logger.Error("InRange: repository error for %s..%s: %v",
			from.Format(domain.DateFormat), to.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: InRange: %w", ErrInternal, err)
	}

	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format(domain.DateFormat)] = struct{}{}
	}
	return set, nil
}

// All все праздники для публичного календаря
func (s *Service) All(ctx context.Context) ([]domain.Holiday, error) {
	holidays, err := s.holidayRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("All: repository error: %v", err)
		return nil, fmt.Errorf("%w: All: %w", ErrInternal, err)
	}
	return holidays, nil
}
