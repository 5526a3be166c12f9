package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTourConfig_MaxHoursPerCluster(t *testing.T) {
	assert.Equal(t, 8, EventTourConfig{TourStart: "09:00", TourEnd: "17:00"}.MaxHoursPerCluster())
	assert.Equal(t, 4, EventTourConfig{TourStart: "09:00", TourEnd: "12:30"}.MaxHoursPerCluster())
	assert.Equal(t, 1, EventTourConfig{TourStart: "09:00", TourEnd: "09:20"}.MaxHoursPerCluster())
	assert.Equal(t, 1, EventTourConfig{TourStart: "17:00", TourEnd: "09:00"}.MaxHoursPerCluster())
}

func TestNormalizeClusterHours(t *testing.T) {
	tests := []struct {
		name         string
		hours        []int
		count        int
		want         []int
		wantAdjusted bool
	}{
		{name: "exact", hours: []int{2, 3}, count: 2, want: []int{2, 3}},
		{name: "clamped high", hours: []int{10, 3}, count: 2, want: []int{4, 3}},
		{name: "clamped low", hours: []int{0, -2}, count: 2, want: []int{1, 1}},
		{name: "padded", hours: []int{2}, count: 3, want: []int{2, 1, 1}, wantAdjusted: true},
		{name: "truncated", hours: []int{2, 3, 4}, count: 1, want: []int{2}, wantAdjusted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, adjusted := NormalizeClusterHours(tt.hours, tt.count, 4)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAdjusted, adjusted)
		})
	}
}

func TestEventTourPrice(t *testing.T) {
	hours, _ := NormalizeClusterHours([]int{2, 3}, 2, 4)
	assert.Equal(t, 500.0, EventTourPrice(100, hours))

	clamped, _ := NormalizeClusterHours([]int{10}, 1, 4)
	assert.Equal(t, 400.0, EventTourPrice(100, clamped))
}

func TestDefaultClusterRanges(t *testing.T) {
	ranges, err := DefaultClusterRanges("09:00", "13:00", []int{2, 3})
	require.NoError(t, err)

	assert.Equal(t, []TimeRange{
		{Start: "09:00", End: "11:00"},
		{Start: "11:00", End: "13:00"},
	}, ranges)
}

func TestParseClusterRanges(t *testing.T) {
	ranges, err := ParseClusterRanges([][2]string{{"09:00:00", "10:30"}, {"11:00", "12:00"}}, 2)
	require.NoError(t, err)
	assert.Equal(t, TimeRange{Start: "09:00", End: "10:30"}, ranges[0])

	_, err = ParseClusterRanges([][2]string{{"09:00", "10:00"}}, 2)
	assert.ErrorIs(t, err, ErrClusterRangeCount)

	_, err = ParseClusterRanges([][2]string{{"10:00", "09:00"}}, 1)
	assert.ErrorIs(t, err, ErrClusterRangeOrder)

	_, err = ParseClusterRanges([][2]string{{"ten", "11:00"}}, 1)
	assert.Error(t, err)
}

func TestPricing(t *testing.T) {
	assert.Equal(t, 90.0, SlotsPrice([]Slot{slotA, slotB}))
	assert.Equal(t, 250.0, AddonLinesPrice([]BookingAddon{
		{AddonPrice: 100, Quantity: 2},
		{AddonPrice: 50, Quantity: 1},
	}))
	assert.Equal(t, 300.0, IndividualTourPrice(100, 3))
}
