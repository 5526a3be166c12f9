package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// Candidate заявка на занятие ресурсов типа на дату
type Candidate struct {
	Type    *domain.BookingType
	Date    time.Time
	SlotIDs []int64
	Tickets int                   // билеты или кластеры
	Addons  []domain.BookingAddon // AddonID и Quantity, цена и название подставляются из каталога

	// Lenient пропускает слоты и доп. услуги, которых уже нет в каталоге
	// Нужен при возврате отклонённого бронирования в работу
	Lenient bool
}

// Result ресурсы, за которые заявка будет платить
type Result struct {
	Slots  []domain.Slot
	Addons []domain.BookingAddon
}

// Checker проверка занятости ресурсов по свежему журналу
// Все методы вызываются внутри транзакции после Lock
type Checker struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	addonRepo   AddonRepository
	logger      Logger
}

// NewChecker создает новый экземпляр проверки
func NewChecker(bookingRepo BookingRepository, slotRepo SlotRepository, addonRepo AddonRepository, logger Logger) *Checker {
	return &Checker{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		addonRepo:   addonRepo,
		logger:      logger,
	}
}

// Lock сериализует приём заявок на ресурс типа в дату
// Туры с общей исключительностью делят один ключ
func (c *Checker) Lock(ctx context.Context, t *domain.BookingType, date time.Time) error {
	if err := c.bookingRepo.LockDate(ctx, t.LockKey(), date); err != nil {
		c.logger.Error("Lock: failed to lock type=%d date=%s: %v", t.ID, date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: Lock: %w", ErrInternal, err)
	}
	return nil
}

// Check проверяет, что заявку можно принять, и возвращает ресурсы с ценами каталога
func (c *Checker) Check(ctx context.Context, cand Candidate) (*Result, error) {
	switch cfg := cand.Type.Config.(type) {
	case domain.HallConfig, domain.StaircaseConfig:
		return c.checkSlots(ctx, cand)
	case domain.IndividualTourConfig:
		if err := c.checkPartner(ctx, cand, cfg.ExclusiveWithType,
			"This date is not available due to an event booking."); err != nil {
			return nil, err
		}
		if err := c.checkCapacity(ctx, cand, cfg.MaxDailyCapacity, "tickets"); err != nil {
			return nil, err
		}
		return &Result{}, nil
	case domain.EventTourConfig:
		if err := c.checkPartner(ctx, cand, cfg.ExclusiveWithType,
			"This date is not available for event booking."); err != nil {
			return nil, err
		}
		if err := c.checkCapacity(ctx, cand, cfg.MaxClusters, "clusters"); err != nil {
			return nil, err
		}
		return &Result{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown category %s", ErrInternal, cand.Type.Category)
	}
}

func (c *Checker) activeOn(ctx context.Context, typeID int64, date time.Time) ([]*domain.Booking, error) {
	day := domain.DateOnly(date)
	bookings, err := c.bookingRepo.GetWithFilter(ctx, domain.BookingFilter{
		TypeIDs:    []int64{typeID},
		DateFrom:   &day,
		DateTo:     &day,
		ActiveOnly: true,
	})
	if err != nil {
		c.logger.Error("activeOn: failed to read bookings type=%d date=%s: %v", typeID, day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: activeOn: %w", ErrInternal, err)
	}
	return bookings, nil
}

func (c *Checker) checkSlots(ctx context.Context, cand Candidate) (*Result, error) {
	catalog, err := c.slotRepo.ListByType(ctx, cand.Type.ID)
	if err != nil {
		c.logger.Error("checkSlots: failed to list slots type=%d: %v", cand.Type.ID, err)
		return nil, fmt.Errorf("%w: checkSlots: %w", ErrInternal, err)
	}

	byID := make(map[int64]domain.Slot, len(catalog))
	for _, s := range catalog {
		byID[s.ID] = s
	}

	requested := make([]domain.Slot, 0, len(cand.SlotIDs))
	seen := make(map[int64]struct{}, len(cand.SlotIDs))
	for _, id := range cand.SlotIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		s, ok := byID[id]
		if !ok {
			if cand.Lenient {
				continue
			}
			return nil, domain.NewValidationError(ErrInvalidSlots, "Invalid slot selection")
		}
		requested = append(requested, s)
	}
	if len(requested) == 0 && !cand.Lenient {
		return nil, domain.NewValidationError(ErrInvalidSlots, "Please select at least one slot")
	}

	// слоты одной заявки не должны пересекаться между собой
	for i := range requested {
		for j := i + 1; j < len(requested); j++ {
			if requested[i].Overlaps(requested[j]) {
				return nil, domain.NewValidationError(ErrInvalidSlots, "Selected slots overlap each other")
			}
		}
	}

	bookings, err := c.activeOn(ctx, cand.Type.ID, cand.Date)
	if err != nil {
		return nil, err
	}

	if conflicts := domain.ConflictingSlots(requested, catalog, bookings); len(conflicts) > 0 {
		c.logger.Warn("checkSlots: %d of %d slots taken for type=%d date=%s",
			len(conflicts), len(requested), cand.Type.ID, cand.Date.Format(domain.DateFormat))
		return nil, domain.NewConflictError(ErrSlotsTaken, "Some slots are already booked. Please refresh and try again.")
	}

	lines, err := c.checkAddons(ctx, cand)
	if err != nil {
		return nil, err
	}

	return &Result{Slots: requested, Addons: lines}, nil
}

// checkAddons остаток каждой доп. услуги покрывает запрошенное количество, иначе заявка отклоняется целиком
func (c *Checker) checkAddons(ctx context.Context, cand Candidate) ([]domain.BookingAddon, error) {
	if len(cand.Addons) == 0 {
		return nil, nil
	}
	if cand.Type.Category != domain.CategoryHall {
		if cand.Lenient {
			return nil, nil
		}
		return nil, domain.NewValidationError(ErrInvalidAddon, "Addons are not available for %s bookings", cand.Type.Category)
	}

	catalog, err := c.addonRepo.ListByType(ctx, cand.Type.ID)
	if err != nil {
		c.logger.Error("checkAddons: failed to list addons type=%d: %v", cand.Type.ID, err)
		return nil, fmt.Errorf("%w: checkAddons: %w", ErrInternal, err)
	}
	byID := make(map[int64]domain.Addon, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a
	}

	usage, err := c.bookingRepo.AddonUsage(ctx, cand.Type.ID, cand.Date)
	if err != nil {
		c.logger.Error("checkAddons: failed to read usage type=%d: %v", cand.Type.ID, err)
		return nil, fmt.Errorf("%w: checkAddons: %w", ErrInternal, err)
	}

	// одна услуга могла прийти несколькими строками
	// остаток сравнивается до сложения, сумма не превышает max_quantity
	requested := make(map[int64]int)
	order := make([]int64, 0, len(cand.Addons))
	for _, line := range cand.Addons {
		if line.Quantity <= 0 {
			if cand.Lenient {
				continue
			}
			return nil, domain.NewValidationError(ErrInvalidAddon, "Addon quantity must be positive")
		}
		addon, ok := byID[line.AddonID]
		if !ok {
			if cand.Lenient {
				continue
			}
			return nil, domain.NewValidationError(ErrInvalidAddon, "Invalid addon selection")
		}
		if line.Quantity > addon.MaxQuantity && !cand.Lenient {
			return nil, domain.NewValidationError(ErrInvalidAddon,
				"At most %d %q can be booked", addon.MaxQuantity, addon.Name)
		}

		remaining := domain.Remaining(addon.MaxQuantity, usage[addon.ID])
		if line.Quantity > remaining-requested[addon.ID] {
			c.logger.Warn("checkAddons: addon=%d requested=%d+%d remaining=%d",
				addon.ID, requested[addon.ID], line.Quantity, remaining)
			return nil, domain.NewConflictError(ErrAddonExhausted,
				"Not enough %q available. Only %d remaining.", addon.Name, remaining)
		}

		if _, seen := requested[addon.ID]; !seen {
			order = append(order, addon.ID)
		}
		requested[addon.ID] += line.Quantity
	}
	if len(order) == 0 {
		return nil, nil
	}

	lines := make([]domain.BookingAddon, 0, len(order))
	for _, id := range order {
		addon := byID[id]
		qty := requested[id]
		lines = append(lines, domain.BookingAddon{
			AddonID:    addon.ID,
			AddonName:  addon.Name,
			AddonPrice: addon.Price,
			Quantity:   qty,
		})
	}
	return lines, nil
}

// checkPartner у парного тура нет активных бронирований на дату
func (c *Checker) checkPartner(ctx context.Context, cand Candidate, partner *int64, message string) error {
	if partner == nil {
		return nil
	}

	bookings, err := c.activeOn(ctx, *partner, cand.Date)
	if err != nil {
		return err
	}
	if domain.HasActive(bookings) {
		c.logger.Warn("checkPartner: type=%d date=%s blocked by partner type=%d",
			cand.Type.ID, cand.Date.Format(domain.DateFormat), *partner)
		return domain.NewConflictError(ErrExclusiveDate, "%s", message)
	}
	return nil
}

// checkCapacity занятость + заявка не превышает вместимость
func (c *Checker) checkCapacity(ctx context.Context, cand Candidate, capacity int, unit string) error {
	bookings, err := c.activeOn(ctx, cand.Type.ID, cand.Date)
	if err != nil {
		return err
	}

	occupancy := domain.Occupancy(bookings)
	if !domain.CanAdmit(capacity, occupancy, cand.Tickets) {
		remaining := domain.Remaining(capacity, occupancy)
		c.logger.Warn("checkCapacity: type=%d date=%s requested=%d occupancy=%d capacity=%d",
			cand.Type.ID, cand.Date.Format(domain.DateFormat), cand.Tickets, occupancy, capacity)
		return domain.NewConflictError(ErrCapacityExceeded,
			"Not enough %s available. Only %d remaining.", unit, remaining)
	}
	return nil
}
