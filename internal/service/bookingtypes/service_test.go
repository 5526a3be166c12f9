package bookingtypes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
	"github.com/m04kA/SMC-HubBookingService/pkg/ptr"
	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

type fixture struct {
	store *memstore.Store
	svc   *Service

	hall       *domain.BookingType
	individual *domain.BookingType
	event      *domain.BookingType
	otherEvent *domain.BookingType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	f := &fixture{store: store}

	f.hall = store.PutType(&domain.BookingType{Name: "Main Hall", Category: domain.CategoryHall, Config: domain.HallConfig{}})
	f.individual = store.PutType(&domain.BookingType{
		Name: "Museum Tour", Category: domain.CategoryIndividualTour,
		Config: domain.IndividualTourConfig{TourStart: "09:00", TourEnd: "17:00", MaxDailyCapacity: 50, TicketPrice: 20},
	})
	f.event = store.PutType(&domain.BookingType{
		Name: "Group Tour", Category: domain.CategoryEventTour,
		Config: domain.EventTourConfig{TourStart: "09:00", TourEnd: "17:00", MaxClusters: 5, MembersPerCluster: 20},
	})
	f.otherEvent = store.PutType(&domain.BookingType{
		Name: "School Tour", Category: domain.CategoryEventTour,
		Config: domain.EventTourConfig{TourStart: "10:00", TourEnd: "14:00", MaxClusters: 2, MembersPerCluster: 30},
	})

	f.svc = NewService(store.Types(), memstore.NewTxManager(store), memstore.NopLogger{})
	return f
}

func (f *fixture) partnerOf(t *testing.T, id int64) *int64 {
	t.Helper()
	bt, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	return bt.ExclusivePartner()
}

func TestUpdateSettings_PairingIsMutual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateSettings(ctx, f.individual.ID, domain.BookingTypeSettings{ExclusiveWithType: ptr.Ptr(f.event.ID)})
	require.NoError(t, err)

	assert.Equal(t, ptr.Ptr(f.event.ID), f.partnerOf(t, f.individual.ID))
	assert.Equal(t, ptr.Ptr(f.individual.ID), f.partnerOf(t, f.event.ID))

	// смена партнёра отвязывает прежнего
	_, err = f.svc.UpdateSettings(ctx, f.individual.ID, domain.BookingTypeSettings{ExclusiveWithType: ptr.Ptr(f.otherEvent.ID)})
	require.NoError(t, err)

	assert.Nil(t, f.partnerOf(t, f.event.ID))
	assert.Equal(t, ptr.Ptr(f.individual.ID), f.partnerOf(t, f.otherEvent.ID))

	// 0 снимает связь с обеих сторон
	_, err = f.svc.UpdateSettings(ctx, f.individual.ID, domain.BookingTypeSettings{ExclusiveWithType: ptr.Ptr(int64(0))})
	require.NoError(t, err)

	assert.Nil(t, f.partnerOf(t, f.individual.ID))
	assert.Nil(t, f.partnerOf(t, f.otherEvent.ID))
}

func TestUpdateSettings_InvalidPartner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		partner int64
		msg     string
	}{
		{name: "self", partner: f.individual.ID, msg: "A tour cannot be exclusive with itself"},
		{name: "missing", partner: 999, msg: "Exclusive partner type 999 not found"},
		{name: "hall", partner: f.hall.ID, msg: "Exclusive partner must be a tour of the other category, got hall"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateSettings(ctx, f.individual.ID, domain.BookingTypeSettings{ExclusiveWithType: ptr.Ptr(tt.partner)})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPartner)
			msg, _ := domain.UserMessage(err)
			assert.Equal(t, tt.msg, msg)
		})
	}

	assert.Nil(t, f.partnerOf(t, f.individual.ID))
}

func TestUpdateSettings_TourFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.svc.UpdateSettings(ctx, f.individual.ID, domain.BookingTypeSettings{
		Name:             ptr.Ptr("  Evening Tour "),
		TourStart:        ptr.Ptr(types.TimeString("18:00")),
		TourEnd:          ptr.Ptr(types.TimeString("21:00")),
		MaxDailyCapacity: ptr.Ptr(30),
		WindowMode:       ptr.Ptr(domain.BookingWindowLimit),
		WindowDays:       ptr.Ptr(3),
		WeekendDays:      ptr.Ptr([]int{6, 0, 6}),
	})
	require.NoError(t, err)

	assert.Equal(t, "Evening Tour", updated.Name)
	assert.Equal(t, []int{0, 6}, updated.WeekendDays)
	cfg, ok := updated.IndividualTour()
	require.True(t, ok)
	assert.Equal(t, types.TimeString("18:00"), cfg.TourStart)
	assert.Equal(t, 30, cfg.MaxDailyCapacity)
	assert.Equal(t, 3, cfg.WindowDays)
	assert.Equal(t, 20.0, cfg.TicketPrice)
}

func TestUpdateSettings_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		id       int64
		settings domain.BookingTypeSettings
		msg      string
	}{
		{
			name:     "end before start",
			id:       f.event.ID,
			settings: domain.BookingTypeSettings{TourEnd: ptr.Ptr(types.TimeString("08:00"))},
			msg:      "Tour end time must be after start time",
		},
		{
			name:     "cluster fields on individual",
			id:       f.individual.ID,
			settings: domain.BookingTypeSettings{MaxClusters: ptr.Ptr(3)},
			msg:      "Cluster settings apply to event tours only",
		},
		{
			name:     "ticket fields on event",
			id:       f.event.ID,
			settings: domain.BookingTypeSettings{TicketPrice: ptr.Ptr(10.0)},
			msg:      "Ticket and booking window settings apply to individual tours only",
		},
		{
			name:     "tour fields on hall",
			id:       f.hall.ID,
			settings: domain.BookingTypeSettings{TourStart: ptr.Ptr(types.TimeString("09:00"))},
			msg:      "Tour settings do not apply to hall types",
		},
		{
			name:     "weekday out of range",
			id:       f.hall.ID,
			settings: domain.BookingTypeSettings{WeekendDays: ptr.Ptr([]int{7})},
			msg:      "Weekend day 7 is out of range 0-6",
		},
		{
			name:     "empty name",
			id:       f.hall.ID,
			settings: domain.BookingTypeSettings{Name: ptr.Ptr("  ")},
			msg:      "Name must not be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateSettings(ctx, tt.id, tt.settings)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			msg, _ := domain.UserMessage(err)
			assert.Equal(t, tt.msg, msg)
		})
	}

	_, err := f.svc.UpdateSettings(ctx, 999, domain.BookingTypeSettings{IsHidden: ptr.Ptr(true)})
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestList_HidesHiddenTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateSettings(ctx, f.otherEvent.ID, domain.BookingTypeSettings{IsHidden: ptr.Ptr(true)})
	require.NoError(t, err)

	public, err := f.svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, public, 3)

	all, err := f.svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
