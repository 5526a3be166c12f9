package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/pkg/ptr"
)

var (
	slotA = Slot{ID: 1, Name: "A", StartTime: "09:00", EndTime: "10:00", Price: 50}
	slotB = Slot{ID: 2, Name: "B", StartTime: "09:30", EndTime: "10:30", Price: 40}
	slotC = Slot{ID: 3, Name: "C", StartTime: "10:00", EndTime: "11:00", Price: 30}
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	assert.True(t, Overlaps("09:00", "10:00", "09:30", "10:30"))
	assert.False(t, Overlaps("09:00", "10:00", "10:00", "11:00"))
	assert.True(t, Overlaps("09:00", "12:00", "10:00", "11:00"))
}

func TestSlotStatuses_OverlapWithBookedSlot(t *testing.T) {
	catalog := []Slot{slotA, slotB, slotC}
	bookings := []*Booking{{SlotIDs: []int64{slotA.ID}, Status: StatusPending}}
	day := date(2024, 6, 1)
	now := date(2024, 5, 20)

	statuses := SlotStatuses(catalog, bookings, day, now)

	require.Len(t, statuses, 3)
	assert.Equal(t, SlotBooked, statuses[0].State)
	assert.Equal(t, SlotOverlapped, statuses[1].State)
	assert.Equal(t, SlotAvailable, statuses[2].State, "touching boundary is not an overlap")
	assert.False(t, FullyBooked(statuses))
}

func TestSlotStatuses_RejectedBookingsIgnored(t *testing.T) {
	bookings := []*Booking{{SlotIDs: []int64{slotA.ID}, Status: StatusRejected}}

	statuses := SlotStatuses([]Slot{slotA, slotB}, bookings, date(2024, 6, 1), date(2024, 5, 1))

	assert.Equal(t, SlotAvailable, statuses[0].State)
	assert.Equal(t, SlotAvailable, statuses[1].State)
}

func TestSlotStatuses_TimePassedToday(t *testing.T) {
	day := date(2024, 6, 1)
	now := time.Date(2024, 6, 1, 9, 45, 0, 0, time.UTC)

	statuses := SlotStatuses([]Slot{slotA, slotC}, nil, day, now)

	assert.Equal(t, SlotTimePassed, statuses[0].State)
	assert.Equal(t, SlotAvailable, statuses[1].State)
}

func TestFullyBooked(t *testing.T) {
	bookings := []*Booking{{SlotIDs: []int64{slotB.ID}, Status: StatusApproved}}

	statuses := SlotStatuses([]Slot{slotA, slotB}, bookings, date(2024, 6, 1), date(2024, 5, 1))

	assert.True(t, FullyBooked(statuses))
}

func TestConflictingSlots(t *testing.T) {
	bookings := []*Booking{{SlotIDs: []int64{slotA.ID}, Status: StatusPending}}

	conflicts := ConflictingSlots([]Slot{slotB, slotC}, []Slot{slotA, slotB, slotC}, bookings)

	require.Len(t, conflicts, 1)
	assert.Equal(t, slotB.ID, conflicts[0].ID)
}

func TestOccupancyAndRemaining(t *testing.T) {
	bookings := []*Booking{
		{TicketCount: 30, Status: StatusApproved},
		{TicketCount: 18, Status: StatusPending},
		{TicketCount: 10, Status: StatusRejected},
	}

	occ := Occupancy(bookings)
	assert.Equal(t, 48, occ)
	assert.Equal(t, 2, Remaining(50, occ))
	assert.Equal(t, 50, Remaining(50, occ)+occ)
	assert.False(t, CanAdmit(50, occ, 3))
	assert.True(t, CanAdmit(50, occ, 2))
	assert.False(t, CanAdmit(50, occ, math.MaxInt))
	assert.False(t, CanAdmit(50, occ, -1))
	assert.Equal(t, 0, Remaining(40, occ))
}

func TestWithinBookingWindow(t *testing.T) {
	today := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)
	limited := IndividualTourConfig{WindowMode: BookingWindowLimit, WindowDays: 1}

	assert.True(t, WithinBookingWindow(limited, date(2024, 7, 2), today))
	assert.False(t, WithinBookingWindow(limited, date(2024, 7, 3), today))

	unlimited := IndividualTourConfig{WindowMode: BookingWindowNone}
	assert.True(t, WithinBookingWindow(unlimited, date(2025, 1, 1), today))
}

func TestBlackoutReasons(t *testing.T) {
	bt := &BookingType{WeekendDays: []int{int(time.Friday)}}
	friday := date(2024, 6, 7)

	assert.Equal(t, []BlockReason{BlockedWeekend, BlockedHoliday}, BlackoutReasons(bt, friday, true))
	assert.Empty(t, BlackoutReasons(bt, date(2024, 6, 6), false))
}

func TestTourStarted(t *testing.T) {
	day := date(2024, 6, 1)
	assert.True(t, TourStarted("09:00", day, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)))
	assert.False(t, TourStarted("09:00", day, time.Date(2024, 6, 1, 8, 59, 0, 0, time.UTC)))
	assert.False(t, TourStarted("09:00", day, time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, IsDateInPast(date(2024, 5, 31), now))
	assert.False(t, IsDateInPast(date(2024, 6, 1), now))
}

func TestBookingType_LockKeySharedByPartners(t *testing.T) {
	individual := &BookingType{ID: 7, Config: IndividualTourConfig{ExclusiveWithType: ptr.Ptr(int64(4))}}
	event := &BookingType{ID: 4, Config: EventTourConfig{ExclusiveWithType: ptr.Ptr(int64(7))}}
	hall := &BookingType{ID: 9, Config: HallConfig{}}

	assert.Equal(t, int64(4), individual.LockKey())
	assert.Equal(t, int64(4), event.LockKey())
	assert.Equal(t, int64(9), hall.LockKey())
}
