package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

var (
	// ErrClusterRangeCount количество интервалов не совпадает с количеством кластеров
	ErrClusterRangeCount = errors.New("cluster ranges count mismatch")

	// ErrClusterRangeOrder конец интервала не позже начала
	ErrClusterRangeOrder = errors.New("cluster range end must be after start")
)

// ClampClusterHours часы кластера в пределах [1, maxHours]
func ClampClusterHours(hours, maxHours int) int {
	if maxHours < MinClusterHours {
		maxHours = MinClusterHours
	}
	if hours < MinClusterHours {
		return MinClusterHours
	}
	if hours > maxHours {
		return maxHours
	}
	return hours
}

// NormalizeClusterHours приводит список часов к длине count:
// недостающие кластеры получают 1 час, лишние отбрасываются, значения ограничиваются [1, maxHours]
// adjusted = true, если длина не совпала с count
func NormalizeClusterHours(hours []int, count, maxHours int) (normalized []int, adjusted bool) {
	if count < 0 {
		count = 0
	}
	adjusted = len(hours) != count

	normalized = make([]int, count)
	for i := 0; i < count; i++ {
		h := MinClusterHours
		if i < len(hours) {
			h = hours[i]
		}
		normalized[i] = ClampClusterHours(h, maxHours)
	}
	return normalized, adjusted
}

// TotalHours сумма часов
func TotalHours(hours []int) int {
	total := 0
	for _, h := range hours {
		total += h
	}
	return total
}

// DefaultClusterRanges раскладывает кластеры подряд от начала тура
// Каждый занимает hours*60 минут, интервалы не выходят за конец тура
func DefaultClusterRanges(tourStart, tourEnd types.TimeString, hours []int) ([]TimeRange, error) {
	cursor, err := tourStart.Minutes()
	if err != nil {
		return nil, err
	}
	limit, err := tourEnd.Minutes()
	if err != nil {
		return nil, err
	}
	if cursor > limit {
		cursor = limit
	}

	ranges := make([]TimeRange, 0, len(hours))
	for _, h := range hours {
		end := cursor + h*MinutesPerClusterHour
		if end > limit {
			end = limit
		}

		startTS, err := types.NewTimeStringFromMinutes(cursor)
		if err != nil {
			return nil, err
		}
		endTS, err := types.NewTimeStringFromMinutes(end)
		if err != nil {
			return nil, err
		}

		ranges = append(ranges, TimeRange{Start: startTS, End: endTS})
		cursor = end
	}
	return ranges, nil
}

// ParseClusterRanges проверяет интервалы, заданные администратором
// Количество должно совпадать с count, время в формате HH:MM[:SS], конец позже начала
func ParseClusterRanges(raw [][2]string, count int) ([]TimeRange, error) {
	if len(raw) != count {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrClusterRangeCount, len(raw), count)
	}

	ranges := make([]TimeRange, 0, len(raw))
	for i, r := range raw {
		start, err := types.NewTimeStringFromString(r[0])
		if err != nil {
			return nil, fmt.Errorf("cluster %d start: %w", i+1, err)
		}
		end, err := types.NewTimeStringFromString(r[1])
		if err != nil {
			return nil, fmt.Errorf("cluster %d end: %w", i+1, err)
		}
		if !end.IsAfter(start) {
			return nil, fmt.Errorf("cluster %d: %w", i+1, ErrClusterRangeOrder)
		}
		ranges = append(ranges, TimeRange{Start: start, End: end})
	}
	return ranges, nil
}
