package update_cluster_ranges

import "github.com/m04kA/SMC-HubBookingService/internal/api/handlers"

// UpdateClusterRangesRequest HTTP request model
// Один интервал на каждый кластер бронирования
type UpdateClusterRangesRequest struct {
	Ranges []handlers.TimeRangeResponse `json:"ranges"`
}

// ToServiceRanges конвертирует интервалы в пары "начало, конец"
func (r *UpdateClusterRangesRequest) ToServiceRanges() [][2]string {
	out := make([][2]string, 0, len(r.Ranges))
	for _, rng := range r.Ranges {
		out = append(out, [2]string{rng.Start, rng.End})
	}
	return out
}
