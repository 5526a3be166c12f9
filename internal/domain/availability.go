package domain

import (
	"time"

	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// BlockReason почему дата закрыта для бронирования
type BlockReason string

const (
	BlockedPast          BlockReason = "past"
	BlockedWeekend       BlockReason = "weekend"
	BlockedHoliday       BlockReason = "holiday"
	BlockedExclusive     BlockReason = "exclusive"      // занята парным туром
	BlockedFullyBooked   BlockReason = "fully_booked"   // нет свободных слотов или мест
	BlockedOutsideWindow BlockReason = "outside_window" // за пределами горизонта бронирования
	BlockedTimePassed    BlockReason = "time_passed"    // сегодня, тур уже начался
)

// Overlaps пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Касание границами пересечением не считается
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && aEnd.IsAfter(bStart)
}

// BookedSlotIDs id слотов из активных бронирований
func BookedSlotIDs(bookings []*Booking) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		for _, id := range b.SlotIDs {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// SlotStatuses состояние каждого слота каталога на дату date
// now нужен для отсечки "время прошло" в текущий день
func SlotStatuses(catalog []Slot, bookings []*Booking, date, now time.Time) []SlotStatus {
	booked := BookedSlotIDs(bookings)

	bookedSlots := make([]Slot, 0, len(booked))
	for _, s := range catalog {
		if _, ok := booked[s.ID]; ok {
			bookedSlots = append(bookedSlots, s)
		}
	}

	today := IsSameDay(date, now)
	nowTime := types.NewTimeString(now)

	result := make([]SlotStatus, 0, len(catalog))
	for _, s := range catalog {
		result = append(result, SlotStatus{Slot: s, State: slotState(s, booked, bookedSlots, today, nowTime)})
	}
	return result
}

func slotState(s Slot, booked map[int64]struct{}, bookedSlots []Slot, today bool, now types.TimeString) SlotState {
	if _, ok := booked[s.ID]; ok {
		return SlotBooked
	}
	for _, b := range bookedSlots {
		if s.Overlaps(b) {
			return SlotOverlapped
		}
	}
	if today && !now.IsBefore(s.StartTime) {
		return SlotTimePassed
	}
	return SlotAvailable
}

// FullyBooked нет ни одного свободного слота
func FullyBooked(statuses []SlotStatus) bool {
	for _, st := range statuses {
		if st.State == SlotAvailable {
			return false
		}
	}
	return true
}

// ConflictingSlots запрошенные слоты, которые заняты напрямую или пересекаются с занятыми
func ConflictingSlots(requested []Slot, catalog []Slot, bookings []*Booking) []Slot {
	booked := BookedSlotIDs(bookings)

	bookedSlots := make([]Slot, 0, len(booked))
	for _, s := range catalog {
		if _, ok := booked[s.ID]; ok {
			bookedSlots = append(bookedSlots, s)
		}
	}

	var conflicts []Slot
	for _, s := range requested {
		if slotState(s, booked, bookedSlots, false, "") != SlotAvailable {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}

// Occupancy сумма ticket_count активных бронирований
func Occupancy(bookings []*Booking) int {
	total := 0
	for _, b := range bookings {
		if b.IsActive() {
			total += b.TicketCount
		}
	}
	return total
}

// Remaining остаток вместимости, не меньше нуля
func Remaining(capacity, occupancy int) int {
	if occupancy >= capacity {
		return 0
	}
	return capacity - occupancy
}

// CanAdmit occupancy + n <= capacity, без сложения, чтобы большое n не переполнило int
func CanAdmit(capacity, occupancy, n int) bool {
	if n < 0 {
		return false
	}
	return n <= Remaining(capacity, occupancy)
}

// HasActive есть ли хотя бы одно активное бронирование
func HasActive(bookings []*Booking) bool {
	for _, b := range bookings {
		if b.IsActive() {
			return true
		}
	}
	return false
}

// WithinBookingWindow дата не дальше today + WindowDays при режиме limit
func WithinBookingWindow(cfg IndividualTourConfig, date, today time.Time) bool {
	if cfg.WindowMode != BookingWindowLimit {
		return true
	}
	limit := DateOnly(today).AddDate(0, 0, cfg.WindowDays)
	return !DateOnly(date).After(limit)
}

// BlackoutReasons выходной день типа и/или праздник
func BlackoutReasons(t *BookingType, date time.Time, isHoliday bool) []BlockReason {
	var reasons []BlockReason
	if t.IsWeekend(date) {
		reasons = append(reasons, BlockedWeekend)
	}
	if isHoliday {
		reasons = append(reasons, BlockedHoliday)
	}
	return reasons
}

// TourStarted сегодняшний тур уже начался
func TourStarted(tourStart types.TimeString, date, now time.Time) bool {
	if !IsSameDay(date, now) {
		return false
	}
	return !types.NewTimeString(now).IsBefore(tourStart)
}

// DateOnly обнуляет время, сохраняя часовой пояс
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay две даты относятся к одному календарному дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Before(DateOnly(now))
}
