package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/service/holidays"
	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
	"github.com/m04kA/SMC-HubBookingService/pkg/ptr"
)

// 2025-10-15 среда, 10:30
var now = time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)

func date(day int) time.Time {
	return time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store *memstore.Store
	uc    *UseCase

	hall       *domain.BookingType
	individual *domain.BookingType
	event      *domain.BookingType

	slotA, slotB, slotC domain.Slot
	projector           domain.Addon
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	f := &fixture{store: store}

	f.hall = store.PutType(&domain.BookingType{
		Name: "Main Hall", Category: domain.CategoryHall,
		WeekendDays: []int{0}, Config: domain.HallConfig{},
	})
	f.individual = store.PutType(&domain.BookingType{
		ID: 10, Name: "Museum Tour", Category: domain.CategoryIndividualTour,
		Config: domain.IndividualTourConfig{
			TourStart: "09:00", TourEnd: "17:00", MaxDailyCapacity: 50, TicketPrice: 20,
			WindowMode: domain.BookingWindowLimit, WindowDays: 5, ExclusiveWithType: ptr.Ptr(int64(11)),
		},
	})
	f.event = store.PutType(&domain.BookingType{
		ID: 11, Name: "Group Tour", Category: domain.CategoryEventTour,
		Config: domain.EventTourConfig{
			TourStart: "11:00", TourEnd: "15:00", MaxClusters: 4, MembersPerCluster: 20, PricePerCluster: 50,
			ExclusiveWithType: ptr.Ptr(int64(10)),
		},
	})

	f.slotA = store.PutSlot(domain.Slot{BookingTypeID: f.hall.ID, Name: "Morning", StartTime: "10:00", EndTime: "12:00", Price: 100})
	f.slotB = store.PutSlot(domain.Slot{BookingTypeID: f.hall.ID, Name: "Late morning", StartTime: "11:00", EndTime: "13:00", Price: 150})
	f.slotC = store.PutSlot(domain.Slot{BookingTypeID: f.hall.ID, Name: "Afternoon", StartTime: "13:00", EndTime: "15:00", Price: 120})
	f.projector = store.PutAddon(domain.Addon{BookingTypeID: f.hall.ID, Name: "Projector", Price: 30, MaxQuantity: 2})

	log := memstore.NopLogger{}
	f.uc = NewUseCase(
		store.Bookings(), store.Types(), store.Slots(), store.Addons(),
		holidays.NewService(store.Holidays(), 10, log),
		10, time.UTC, log,
	).WithTimeProvider(memstore.Clock{T: now})

	return f
}

func (f *fixture) book(typeID int64, day time.Time, status domain.BookingStatus, mutate func(b *domain.Booking)) {
	b := &domain.Booking{BookingTypeID: typeID, BookingDate: day, TicketCount: 1, Status: status}
	if mutate != nil {
		mutate(b)
	}
	f.store.PutBooking(b)
}

func states(day Day) map[string]domain.SlotState {
	out := make(map[string]domain.SlotState, len(day.Slots))
	for _, s := range day.Slots {
		out[s.Slot.Name] = s.State
	}
	return out
}

func TestExecute_HallSlotStatesAndAddons(t *testing.T) {
	f := newFixture(t)
	f.book(f.hall.ID, date(20), domain.StatusApproved, func(b *domain.Booking) {
		b.SlotIDs = []int64{f.slotA.ID}
		b.Addons = []domain.BookingAddon{{AddonID: f.projector.ID, AddonName: "Projector", AddonPrice: 30, Quantity: 1}}
	})
	// отклонённое не занимает слот
	f.book(f.hall.ID, date(20), domain.StatusRejected, func(b *domain.Booking) {
		b.SlotIDs = []int64{f.slotC.ID}
	})

	resp, err := f.uc.Execute(context.Background(), &Request{TypeID: f.hall.ID, From: date(20)})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	day := resp.Days[0]
	assert.False(t, day.Blocked)
	assert.Equal(t, map[string]domain.SlotState{
		"Morning":      domain.SlotBooked,
		"Late morning": domain.SlotOverlapped,
		"Afternoon":    domain.SlotAvailable,
	}, states(day))

	require.Len(t, day.Addons, 1)
	assert.Equal(t, 1, day.Addons[0].Used)
	assert.Equal(t, 1, day.Addons[0].Remaining)
}

func TestExecute_HallFullyBooked(t *testing.T) {
	f := newFixture(t)
	f.book(f.hall.ID, date(20), domain.StatusPending, func(b *domain.Booking) {
		b.SlotIDs = []int64{f.slotA.ID, f.slotC.ID}
	})

	resp, err := f.uc.Execute(context.Background(), &Request{TypeID: f.hall.ID, From: date(20)})
	require.NoError(t, err)

	day := resp.Days[0]
	assert.True(t, day.Blocked)
	assert.Equal(t, []domain.BlockReason{domain.BlockedFullyBooked}, day.Reasons)
}

func TestExecute_HallTodayTimePassed(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{TypeID: f.hall.ID, From: date(15)})
	require.NoError(t, err)

	day := resp.Days[0]
	assert.Equal(t, domain.SlotTimePassed, states(day)["Morning"])
	assert.Equal(t, domain.SlotAvailable, states(day)["Late morning"])
	assert.False(t, day.Blocked)
	assert.Equal(t, "2025-10-15", resp.ServerDate)
	assert.Equal(t, "10:30", resp.ServerTime)
}

func TestExecute_RangeReasons(t *testing.T) {
	f := newFixture(t)
	err := holidays.NewService(f.store.Holidays(), 10, memstore.NopLogger{}).
		SetHoliday(context.Background(), date(21), true)
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{TypeID: f.hall.ID, From: date(14), To: date(21)})
	require.NoError(t, err)
	require.Len(t, resp.Days, 8)

	byDate := make(map[string]Day, len(resp.Days))
	for _, d := range resp.Days {
		byDate[d.Date.Format(domain.DateFormat)] = d
	}

	assert.Equal(t, []domain.BlockReason{domain.BlockedPast}, byDate["2025-10-14"].Reasons)
	assert.Equal(t, []domain.BlockReason{domain.BlockedWeekend}, byDate["2025-10-19"].Reasons)
	assert.Equal(t, []domain.BlockReason{domain.BlockedHoliday}, byDate["2025-10-21"].Reasons)
	assert.False(t, byDate["2025-10-20"].Blocked)
}

func TestExecute_IndividualTourCapacityAndPartner(t *testing.T) {
	f := newFixture(t)
	f.book(f.individual.ID, date(16), domain.StatusApproved, func(b *domain.Booking) { b.TicketCount = 48 })
	f.book(f.event.ID, date(17), domain.StatusPending, func(b *domain.Booking) { b.ClusterHours = []int{1} })

	resp, err := f.uc.Execute(context.Background(), &Request{TypeID: f.individual.ID, From: date(16), To: date(21)})
	require.NoError(t, err)
	require.Len(t, resp.Days, 6)

	d16 := resp.Days[0]
	assert.False(t, d16.Blocked)
	assert.Equal(t, 50, d16.Capacity)
	assert.Equal(t, 2, d16.Remaining)

	d17 := resp.Days[1]
	assert.True(t, d17.Blocked)
	assert.Equal(t, []domain.BlockReason{domain.BlockedExclusive}, d17.Reasons)
	assert.Equal(t, 50, d17.Remaining)

	// окно 5 дней от 15-го заканчивается 20-го
	assert.False(t, resp.Days[4].Blocked)
	assert.Equal(t, []domain.BlockReason{domain.BlockedOutsideWindow}, resp.Days[5].Reasons)
}

func TestExecute_EventTourStartedToday(t *testing.T) {
	f := newFixture(t)
	f.uc.WithTimeProvider(memstore.Clock{T: time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC)})
	f.book(f.event.ID, date(16), domain.StatusApproved, func(b *domain.Booking) {
		b.TicketCount = 4
		b.ClusterHours = []int{1, 1, 1, 1}
	})

	resp, err := f.uc.Execute(context.Background(), &Request{TypeID: f.event.ID, From: date(15), To: date(16)})
	require.NoError(t, err)

	assert.Equal(t, []domain.BlockReason{domain.BlockedTimePassed}, resp.Days[0].Reasons)
	assert.Equal(t, []domain.BlockReason{domain.BlockedFullyBooked}, resp.Days[1].Reasons)
	assert.Equal(t, 0, resp.Days[1].Remaining)
}

func TestExecute_InvalidRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{TypeID: f.hall.ID, From: date(20), To: date(19)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(ctx, &Request{TypeID: f.hall.ID, From: date(1), To: date(20)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	msg, _ := domain.UserMessage(err)
	assert.Equal(t, "Date range must not exceed 10 days", msg)

	_, err = f.uc.Execute(ctx, &Request{TypeID: f.hall.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(ctx, &Request{TypeID: 999, From: date(20)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestDaysInclusive_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	from := time.Date(2025, 10, 25, 0, 0, 0, 0, loc)
	to := time.Date(2025, 10, 27, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, daysInclusive(from, to))
}
