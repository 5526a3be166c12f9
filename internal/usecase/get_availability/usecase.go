package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	bookingTypeRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/bookingtype"
)

// UseCase use case для получения доступности типа по датам
// Только чтение, блокировок не берёт
type UseCase struct {
	bookingRepo  BookingRepository
	typeRepo     BookingTypeRepository
	slotRepo     SlotRepository
	addonRepo    AddonRepository
	holidays     HolidayCalendar
	maxDays      int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	typeRepo BookingTypeRepository,
	slotRepo SlotRepository,
	addonRepo AddonRepository,
	holidays HolidayCalendar,
	maxDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	if maxDays <= 0 {
		maxDays = domain.MaxAvailabilityDays
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		typeRepo:     typeRepo,
		slotRepo:     slotRepo,
		addonRepo:    addonRepo,
		holidays:     holidays,
		maxDays:      maxDays,
		timeProvider: &RealTimeProvider{Location: location},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация диапазона
	from, to, err := uc.validateRange(req)
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailability: type=%d, from=%s, to=%s",
		req.TypeID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем тип бронирования
	bt, err := uc.typeRepo.GetByID(ctx, req.TypeID)
	if err != nil {
		if errors.Is(err, bookingTypeRepo.ErrBookingTypeNotFound) {
			uc.logger.Warn("GetAvailability: type id=%d not found", req.TypeID)
			return nil, domain.NewNotFoundError(ErrTypeNotFound, "Invalid booking type")
		}
		uc.logger.Error("GetAvailability: failed to get type id=%d: %v", req.TypeID, err)
		return nil, fmt.Errorf("%w: failed to get booking type: %w", ErrInternal, err)
	}

	// 4. Каталог слотов и доп. услуг
	var (
		slots  []domain.Slot
		addons []domain.Addon
	)
	if bt.Category.UsesSlots() {
		if slots, err = uc.slotRepo.ListByType(ctx, bt.ID); err != nil {
			uc.logger.Error("GetAvailability: failed to list slots: %v", err)
			return nil, fmt.Errorf("%w: failed to list slots: %w", ErrInternal, err)
		}
	}
	if bt.Category == domain.CategoryHall {
		if addons, err = uc.addonRepo.ListByType(ctx, bt.ID); err != nil {
			uc.logger.Error("GetAvailability: failed to list addons: %v", err)
			return nil, fmt.Errorf("%w: failed to list addons: %w", ErrInternal, err)
		}
	}

	// 5. Праздники и активные бронирования диапазона одним запросом на тип
	holidays, err := uc.holidays.InRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list holidays: %v", err)
		return nil, fmt.Errorf("%w: failed to list holidays: %w", ErrInternal, err)
	}

	own, err := uc.activeInRange(ctx, bt.ID, from, to)
	if err != nil {
		return nil, err
	}

	var partner map[string][]*domain.Booking
	if partnerID := bt.ExclusivePartner(); partnerID != nil {
		if partner, err = uc.activeInRange(ctx, *partnerID, from, to); err != nil {
			return nil, err
		}
	}

	// 6. Считаем каждую дату
	days := make([]Day, 0, daysInclusive(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateFormat)
		_, isHoliday := holidays[key]

		days = append(days, buildDay(bt, dayInput{
			date:      d,
			now:       now,
			isHoliday: isHoliday,
			own:       own[key],
			partner:   partner[key],
			slots:     slots,
			addons:    addons,
		}))
	}

	uc.logger.Info("GetAvailability: computed %d days for type=%d", len(days), bt.ID)

	return &Response{
		TypeID:     bt.ID,
		Category:   bt.Category,
		ServerDate: now.Format(domain.DateFormat),
		ServerTime: now.Format(domain.TimeFormat),
		Days:       days,
	}, nil
}

func (uc *UseCase) validateRange(req *Request) (time.Time, time.Time, error) {
	if req.TypeID <= 0 {
		return time.Time{}, time.Time{}, domain.NewValidationError(ErrInvalidRange, "Invalid booking type")
	}
	if req.From.IsZero() {
		return time.Time{}, time.Time{}, domain.NewValidationError(ErrInvalidRange, "Start date is required")
	}

	from := domain.DateOnly(req.From)
	to := from
	if !req.To.IsZero() {
		to = domain.DateOnly(req.To)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.NewValidationError(ErrInvalidRange, "End date must not be before start date")
	}
	if daysInclusive(from, to) > uc.maxDays {
		return time.Time{}, time.Time{}, domain.NewValidationError(ErrInvalidRange,
			"Date range must not exceed %d days", uc.maxDays)
	}
	return from, to, nil
}

func (uc *UseCase) activeInRange(ctx context.Context, typeID int64, from, to time.Time) (map[string][]*domain.Booking, error) {
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingFilter{
		TypeIDs:    []int64{typeID},
		DateFrom:   &from,
		DateTo:     &to,
		ActiveOnly: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings for type=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}
	return groupByDate(bookings), nil
}

// daysInclusive количество календарных дней в [from, to], переходы на летнее время не влияют
func daysInclusive(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours()/24) + 1
}
