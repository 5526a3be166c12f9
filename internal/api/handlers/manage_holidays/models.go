package manage_holidays

import "github.com/m04kA/SMC-HubBookingService/internal/domain"

// HolidayPageResponse страница праздников для администратора
type HolidayPageResponse struct {
	Holidays   []string `json:"holidays"` // "2025-12-31"
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	Total      int64    `json:"total"`
	TotalPages int      `json:"totalPages"`
}

// HolidayStateResponse состояние даты после изменения
type HolidayStateResponse struct {
	Date      string `json:"date"`
	IsHoliday bool   `json:"isHoliday"`
}

func dates(holidays []domain.Holiday) []string {
	out := make([]string, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, h.Date.Format(domain.DateFormat))
	}
	return out
}

// FromDomainHolidayPage конвертирует страницу праздников
func FromDomainHolidayPage(page *domain.HolidayPage) HolidayPageResponse {
	return HolidayPageResponse{
		Holidays:   dates(page.Holidays),
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
