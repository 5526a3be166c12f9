package holidays

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
)

func date(day int) time.Time {
	return time.Date(2025, 12, day, 0, 0, 0, 0, time.UTC)
}

func newService(pageSize int) *Service {
	return NewService(memstore.New().Holidays(), pageSize, memstore.NopLogger{})
}

func TestSetHoliday_Idempotent(t *testing.T) {
	svc := newService(10)
	ctx := context.Background()

	require.NoError(t, svc.SetHoliday(ctx, date(25), true))
	require.NoError(t, svc.SetHoliday(ctx, date(25), true))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	ok, err := svc.IsHoliday(ctx, date(25))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.SetHoliday(ctx, date(25), false))
	require.NoError(t, svc.SetHoliday(ctx, date(25), false))

	ok, err = svc.IsHoliday(ctx, date(25))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetHoliday_ZeroDate(t *testing.T) {
	err := newService(10).SetHoliday(context.Background(), time.Time{}, true)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestInRange(t *testing.T) {
	svc := newService(10)
	ctx := context.Background()

	for _, d := range []int{1, 24, 25, 31} {
		require.NoError(t, svc.SetHoliday(ctx, date(d), true))
	}

	set, err := svc.InRange(ctx, date(20), date(30))
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"2025-12-24": {}, "2025-12-25": {}}, set)
}

func TestList_NewestFirst(t *testing.T) {
	svc := newService(2)
	ctx := context.Background()

	for _, d := range []int{1, 24, 25} {
		require.NoError(t, svc.SetHoliday(ctx, date(d), true))
	}

	page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Holidays, 2)
	assert.Equal(t, "2025-12-25", page.Holidays[0].Date.Format(domain.DateFormat))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page, err = svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, page.Holidays, 1)
	assert.Equal(t, "2025-12-01", page.Holidays[0].Date.Format(domain.DateFormat))
}
