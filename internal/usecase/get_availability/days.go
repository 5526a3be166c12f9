package get_availability

import (
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// dayInput всё, что нужно для расчёта одной даты
type dayInput struct {
	date      time.Time
	now       time.Time
	isHoliday bool
	own       []*domain.Booking // активные бронирования типа на дату
	partner   []*domain.Booking // активные бронирования парного тура на дату
	slots     []domain.Slot
	addons    []domain.Addon
}

// buildDay состояние даты для типа
// Причины накапливаются, дата закрыта, если есть хотя бы одна
func buildDay(t *domain.BookingType, in dayInput) Day {
	day := Day{Date: in.date}

	if domain.IsDateInPast(in.date, in.now) {
		day.Reasons = append(day.Reasons, domain.BlockedPast)
	}
	day.Reasons = append(day.Reasons, domain.BlackoutReasons(t, in.date, in.isHoliday)...)

	switch cfg := t.Config.(type) {
	case domain.HallConfig, domain.StaircaseConfig:
		day.Slots = domain.SlotStatuses(in.slots, in.own, in.date, in.now)
		if domain.FullyBooked(day.Slots) {
			day.Reasons = append(day.Reasons, domain.BlockedFullyBooked)
		}
		if t.Category == domain.CategoryHall {
			day.Addons = addonsRemaining(in.addons, in.own)
		}

	case domain.IndividualTourConfig:
		if !domain.WithinBookingWindow(cfg, in.date, in.now) {
			day.Reasons = append(day.Reasons, domain.BlockedOutsideWindow)
		}
		day.Reasons = append(day.Reasons, tourReasons(cfg.TourStart, cfg.MaxDailyCapacity, &day, in)...)

	case domain.EventTourConfig:
		day.Reasons = append(day.Reasons, tourReasons(cfg.TourStart, cfg.MaxClusters, &day, in)...)
	}

	day.Blocked = len(day.Reasons) > 0
	return day
}

func tourReasons(start types.TimeString, capacity int, day *Day, in dayInput) []domain.BlockReason {
	var reasons []domain.BlockReason

	if domain.TourStarted(start, in.date, in.now) {
		reasons = append(reasons, domain.BlockedTimePassed)
	}
	if domain.HasActive(in.partner) {
		reasons = append(reasons, domain.BlockedExclusive)
	}

	day.Capacity = capacity
	day.Remaining = domain.Remaining(capacity, domain.Occupancy(in.own))
	if day.Remaining == 0 {
		reasons = append(reasons, domain.BlockedFullyBooked)
	}
	return reasons
}

// addonsRemaining остаток доп. услуг по строкам активных бронирований
func addonsRemaining(catalog []domain.Addon, bookings []*domain.Booking) []domain.AddonAvailability {
	used := make(map[int64]int)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		for _, line := range b.Addons {
			used[line.AddonID] += line.Quantity
		}
	}

	out := make([]domain.AddonAvailability, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, domain.AddonAvailability{
			Addon:     a,
			Used:      used[a.ID],
			Remaining: domain.Remaining(a.MaxQuantity, used[a.ID]),
		})
	}
	return out
}

// groupByDate активные бронирования по дате "YYYY-MM-DD"
func groupByDate(bookings []*domain.Booking) map[string][]*domain.Booking {
	out := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		key := b.BookingDate.Format(domain.DateFormat)
		out[key] = append(out[key], b)
	}
	return out
}
