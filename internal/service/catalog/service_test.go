package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

var day = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store *memstore.Store
	svc   *Service

	hall      *domain.BookingType
	staircase *domain.BookingType
	tour      *domain.BookingType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	f := &fixture{store: store}
	f.hall = store.PutType(&domain.BookingType{Name: "Main Hall", Category: domain.CategoryHall, Config: domain.HallConfig{}})
	f.staircase = store.PutType(&domain.BookingType{Name: "Grand Staircase", Category: domain.CategoryStaircase, Config: domain.StaircaseConfig{}})
	f.tour = store.PutType(&domain.BookingType{
		Name: "Museum Tour", Category: domain.CategoryIndividualTour,
		Config: domain.IndividualTourConfig{TourStart: "09:00", TourEnd: "17:00", MaxDailyCapacity: 50},
	})

	f.svc = NewService(store.Types(), store.Slots(), store.Addons(), store.Bookings(), memstore.NopLogger{})
	return f
}

func TestAddSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.svc.AddSlot(ctx, AddSlotRequest{TypeID: f.staircase.ID, Name: " Sunset ", StartTime: "18:00:00", EndTime: "19:30", Price: 80})
	require.NoError(t, err)
	assert.Equal(t, "Sunset", slot.Name)
	assert.Equal(t, types.TimeString("18:00"), slot.StartTime)

	_, err = f.svc.AddSlot(ctx, AddSlotRequest{TypeID: f.hall.ID, Name: "Morning", StartTime: "08:00", EndTime: "10:00"})
	require.NoError(t, err)

	slots, err := f.svc.ListSlots(ctx, f.staircase.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestAddSlot_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  AddSlotRequest
		kind error
		msg  string
	}{
		{name: "missing name", req: AddSlotRequest{TypeID: f.hall.ID, StartTime: "08:00", EndTime: "10:00"},
			kind: domain.ErrValidation, msg: "Name, start time and end time are required"},
		{name: "bad time", req: AddSlotRequest{TypeID: f.hall.ID, Name: "x", StartTime: "8am", EndTime: "10:00"},
			kind: domain.ErrValidation, msg: `Invalid start time "8am", expected HH:MM`},
		{name: "end before start", req: AddSlotRequest{TypeID: f.hall.ID, Name: "x", StartTime: "10:00", EndTime: "10:00"},
			kind: domain.ErrValidation, msg: "End time must be after start time"},
		{name: "negative price", req: AddSlotRequest{TypeID: f.hall.ID, Name: "x", StartTime: "08:00", EndTime: "10:00", Price: -1},
			kind: domain.ErrValidation, msg: "Price must not be negative"},
		{name: "tour", req: AddSlotRequest{TypeID: f.tour.ID, Name: "x", StartTime: "08:00", EndTime: "10:00"},
			kind: domain.ErrValidation, msg: "Slots can only be added to hall or staircase types"},
		{name: "unknown type", req: AddSlotRequest{TypeID: 999, Name: "x", StartTime: "08:00", EndTime: "10:00"},
			kind: domain.ErrNotFound, msg: "Invalid booking type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddSlot(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			msg, _ := domain.UserMessage(err)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestDeleteSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.svc.AddSlot(ctx, AddSlotRequest{TypeID: f.hall.ID, Name: "Morning", StartTime: "08:00", EndTime: "10:00"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSlot(ctx, slot.ID))
	assert.ErrorIs(t, f.svc.DeleteSlot(ctx, slot.ID), ErrSlotNotFound)
}

func TestAddons_OnlyForHall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddAddon(ctx, f.staircase.ID, AddonInput{Name: "Chairs", Price: 2, MaxQuantity: 10})
	assert.ErrorIs(t, err, ErrWrongCategory)

	_, err = f.svc.AddAddon(ctx, f.hall.ID, AddonInput{Name: " ", Price: 2})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AddAddon(ctx, f.hall.ID, AddonInput{Name: "Chairs", MaxQuantity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRemainingForDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	projector, err := f.svc.AddAddon(ctx, f.hall.ID, AddonInput{Name: "Projector", Price: 30, MaxQuantity: 3})
	require.NoError(t, err)
	chairs, err := f.svc.AddAddon(ctx, f.hall.ID, AddonInput{Name: "Chairs", Price: 2, MaxQuantity: 10})
	require.NoError(t, err)

	book := func(status domain.BookingStatus, date time.Time, qty int) {
		f.store.PutBooking(&domain.Booking{
			BookingTypeID: f.hall.ID, BookingDate: date, TicketCount: 1, Status: status,
			Addons: []domain.BookingAddon{{AddonID: projector.ID, AddonName: "Projector", AddonPrice: 30, Quantity: qty}},
		})
	}
	book(domain.StatusPending, day, 1)
	book(domain.StatusApproved, day, 1)
	book(domain.StatusRejected, day, 1)
	book(domain.StatusApproved, day.AddDate(0, 0, 1), 1)

	got, err := f.svc.RemainingForDate(ctx, projector.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Used)
	assert.Equal(t, 1, got.Remaining)

	batch, err := f.svc.RemainingForDateBatch(ctx, f.hall.ID, day)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, chairs.ID, batch[0].Addon.ID)
	assert.Equal(t, 10, batch[0].Remaining)

	// уменьшение запаса ниже занятого не уходит в минус
	_, err = f.svc.UpdateAddon(ctx, projector.ID, AddonInput{Name: "Projector", Price: 35, MaxQuantity: 1})
	require.NoError(t, err)

	got, err = f.svc.RemainingForDate(ctx, projector.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining)

	empty, err := f.svc.RemainingForDateBatch(ctx, f.staircase.ID, day)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.RemainingForDate(ctx, 999, day)
	assert.ErrorIs(t, err, ErrAddonNotFound)
}

func TestDeleteAddon_KeepsBookingLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	projector, err := f.svc.AddAddon(ctx, f.hall.ID, AddonInput{Name: "Projector", Price: 30, MaxQuantity: 3})
	require.NoError(t, err)
	b := f.store.PutBooking(&domain.Booking{
		BookingTypeID: f.hall.ID, BookingDate: day, TicketCount: 1, Status: domain.StatusApproved,
		Addons: []domain.BookingAddon{{AddonID: projector.ID, AddonName: "Projector", AddonPrice: 30, Quantity: 2}},
	})

	require.NoError(t, f.svc.DeleteAddon(ctx, projector.ID))
	assert.ErrorIs(t, f.svc.DeleteAddon(ctx, projector.ID), ErrAddonNotFound)

	got, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Addons, 1)
	assert.Equal(t, "Projector", got.Addons[0].AddonName)
	assert.Equal(t, 60.0, got.AddonsTotal())
}
