package bookingtypes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	bookingTypeRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/bookingtype"
	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// Service настройки типов бронирования
type Service struct {
	typeRepo  BookingTypeRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса типов бронирования
func NewService(typeRepo BookingTypeRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		typeRepo:  typeRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Get тип бронирования по ID
func (s *Service) Get(ctx context.Context, id int64) (*domain.BookingType, error) {
	t, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingTypeRepo.ErrBookingTypeNotFound) {
			return nil, domain.NewNotFoundError(ErrTypeNotFound, "Invalid booking type")
		}
		s.logger.Error("Get: repository error for type=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get: %w", ErrInternal, err)
	}
	return t, nil
}

// List типы бронирования, скрытые только для администратора
func (s *Service) List(ctx context.Context, includeHidden bool) ([]*domain.BookingType, error) {
	list, err := s.typeRepo.List(ctx, includeHidden)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List: %w", ErrInternal, err)
	}
	return list, nil
}

// UpdateSettings частично обновляет настройки типа
// Связь исключительности туров всегда взаимная: при смене партнёра обе стороны переписываются в одной транзакции
// ExclusiveWithType = 0 снимает связь
func (s *Service) UpdateSettings(ctx context.Context, id int64, settings domain.BookingTypeSettings) (*domain.BookingType, error) {
	s.logger.Info("UpdateSettings: updating type=%d", id)

	var result *domain.BookingType
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		t, err := s.Get(txCtx, id)
		if err != nil {
			return err
		}

		oldPartner := t.ExclusivePartner()

		if err := applySettings(t, settings); err != nil {
			s.logger.Warn("UpdateSettings: invalid settings for type=%d: %v", id, err)
			return err
		}

		newPartner := t.ExclusivePartner()
		if settings.ExclusiveWithType != nil && newPartner != nil {
			if err := s.checkPartner(txCtx, t, *newPartner); err != nil {
				return err
			}
		}

		if err := s.typeRepo.Update(txCtx, t); err != nil {
			if errors.Is(err, bookingTypeRepo.ErrBookingTypeNotFound) {
				return domain.NewNotFoundError(ErrTypeNotFound, "Invalid booking type")
			}
			s.logger.Error("UpdateSettings: update failed for type=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateSettings - update: %w", ErrInternal, err)
		}

		if settings.ExclusiveWithType != nil && !samePartner(oldPartner, newPartner) {
			if err := s.relink(txCtx, t.ID, oldPartner, newPartner); err != nil {
				return err
			}
		}

		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateSettings: type=%d updated", id)
	return result, nil
}

// checkPartner партнёр существует и относится к другой туровой категории
func (s *Service) checkPartner(ctx context.Context, t *domain.BookingType, partnerID int64) error {
	if partnerID == t.ID {
		return domain.NewValidationError(ErrInvalidPartner, "A tour cannot be exclusive with itself")
	}

	partner, err := s.Get(ctx, partnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(ErrInvalidPartner, "Exclusive partner type %d not found", partnerID)
		}
		return err
	}

	if !partner.Category.IsTour() || partner.Category == t.Category {
		return domain.NewValidationError(ErrInvalidPartner,
			"Exclusive partner must be a tour of the other category, got %s", partner.Category)
	}
	return nil
}

// relink снимает связь у прежнего партнёра и ставит обратную связь новому
func (s *Service) relink(ctx context.Context, typeID int64, oldPartner, newPartner *int64) error {
	if oldPartner != nil {
		if err := s.setPartner(ctx, *oldPartner, nil); err != nil {
			return err
		}
	}
	if newPartner == nil {
		return nil
	}

	partner, err := s.Get(ctx, *newPartner)
	if err != nil {
		return err
	}
	// у нового партнёра могла быть своя пара
	if prev := partner.ExclusivePartner(); prev != nil && *prev != typeID {
		if err := s.setPartner(ctx, *prev, nil); err != nil {
			return err
		}
	}

	id := typeID
	return s.setPartner(ctx, *newPartner, &id)
}

func (s *Service) setPartner(ctx context.Context, typeID int64, partnerID *int64) error {
	if err := s.typeRepo.SetExclusivePartner(ctx, typeID, partnerID); err != nil {
		if errors.Is(err, bookingTypeRepo.ErrBookingTypeNotFound) {
			s.logger.Warn("setPartner: type=%d disappeared while relinking", typeID)
			return nil
		}
		s.logger.Error("setPartner: update failed for type=%d: %v", typeID, err)
		return fmt.Errorf("%w: setPartner: %w", ErrInternal, err)
	}
	return nil
}

func samePartner(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// applySettings переносит заданные поля в тип и проверяет результат
func applySettings(t *domain.BookingType, st domain.BookingTypeSettings) error {
	if st.Name != nil {
		name := strings.TrimSpace(*st.Name)
		if name == "" {
			return domain.NewValidationError(ErrInvalidSettings, "Name must not be empty")
		}
		t.Name = name
	}

	if st.WeekendDays != nil {
		days, err := normalizeWeekdays(*st.WeekendDays)
		if err != nil {
			return err
		}
		t.WeekendDays = days
	}

	if st.IsHidden != nil {
		t.IsHidden = *st.IsHidden
	}

	switch cfg := t.Config.(type) {
	case domain.IndividualTourConfig:
		if st.MaxClusters != nil || st.MembersPerCluster != nil || st.PricePerCluster != nil {
			return domain.NewValidationError(ErrInvalidSettings, "Cluster settings apply to event tours only")
		}
		if err := applyTourWindow(&cfg.TourStart, &cfg.TourEnd, st); err != nil {
			return err
		}
		if st.MaxDailyCapacity != nil {
			if *st.MaxDailyCapacity < 0 {
				return domain.NewValidationError(ErrInvalidSettings, "Max daily capacity must not be negative")
			}
			cfg.MaxDailyCapacity = *st.MaxDailyCapacity
		}
		if st.TicketPrice != nil {
			if *st.TicketPrice < 0 {
				return domain.NewValidationError(ErrInvalidSettings, "Ticket price must not be negative")
			}
			cfg.TicketPrice = *st.TicketPrice
		}
		if st.WindowMode != nil {
			if *st.WindowMode != domain.BookingWindowNone && *st.WindowMode != domain.BookingWindowLimit {
				return domain.NewValidationError(ErrInvalidSettings, "Booking window mode must be none or limit")
			}
			cfg.WindowMode = *st.WindowMode
		}
		if st.WindowDays != nil {
			if *st.WindowDays < 0 {
				return domain.NewValidationError(ErrInvalidSettings, "Booking window days must not be negative")
			}
			cfg.WindowDays = *st.WindowDays
		}
		if st.ExclusiveWithType != nil {
			cfg.ExclusiveWithType = partnerOrNil(*st.ExclusiveWithType)
		}
		t.Config = cfg

	case domain.EventTourConfig:
		if st.MaxDailyCapacity != nil || st.TicketPrice != nil || st.WindowMode != nil || st.WindowDays != nil {
			return domain.NewValidationError(ErrInvalidSettings, "Ticket and booking window settings apply to individual tours only")
		}
		if err := applyTourWindow(&cfg.TourStart, &cfg.TourEnd, st); err != nil {
			return err
		}
		if st.MaxClusters != nil {
			if *st.MaxClusters < 0 {
				return domain.NewValidationError(ErrInvalidSettings, "Max clusters must not be negative")
			}
			cfg.MaxClusters = *st.MaxClusters
		}
		if st.MembersPerCluster != nil {
			if *st.MembersPerCluster < 1 {
				return domain.NewValidationError(ErrInvalidSettings, "Members per cluster must be at least 1")
			}
			cfg.MembersPerCluster = *st.MembersPerCluster
		}
		if st.PricePerCluster != nil {
			if *st.PricePerCluster < 0 {
				return domain.NewValidationError(ErrInvalidSettings, "Price per cluster must not be negative")
			}
			cfg.PricePerCluster = *st.PricePerCluster
		}
		if st.ExclusiveWithType != nil {
			cfg.ExclusiveWithType = partnerOrNil(*st.ExclusiveWithType)
		}
		t.Config = cfg

	default:
		if st.TourStart != nil || st.TourEnd != nil || st.MaxDailyCapacity != nil || st.TicketPrice != nil ||
			st.WindowMode != nil || st.WindowDays != nil || st.MaxClusters != nil || st.MembersPerCluster != nil ||
			st.PricePerCluster != nil || st.ExclusiveWithType != nil {
			return domain.NewValidationError(ErrInvalidSettings, "Tour settings do not apply to %s types", t.Category)
		}
	}

	return nil
}

func applyTourWindow(start, end *types.TimeString, st domain.BookingTypeSettings) error {
	newStart, newEnd := *start, *end
	if st.TourStart != nil {
		if err := st.TourStart.Validate(); err != nil {
			return domain.NewValidationError(ErrInvalidSettings, "Invalid tour start time %q", *st.TourStart)
		}
		newStart = *st.TourStart
	}
	if st.TourEnd != nil {
		if err := st.TourEnd.Validate(); err != nil {
			return domain.NewValidationError(ErrInvalidSettings, "Invalid tour end time %q", *st.TourEnd)
		}
		newEnd = *st.TourEnd
	}
	if !newEnd.IsAfter(newStart) {
		return domain.NewValidationError(ErrInvalidSettings, "Tour end time must be after start time")
	}
	*start, *end = newStart, newEnd
	return nil
}

func normalizeWeekdays(days []int) ([]int, error) {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > domain.MaxWeekdayIndex {
			return nil, domain.NewValidationError(ErrInvalidSettings, "Weekend day %d is out of range 0-6", d)
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}

func partnerOrNil(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
