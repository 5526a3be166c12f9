package get_availability

import (
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

// Request модель запроса доступности
type Request struct {
	TypeID int64     // ID типа бронирования
	From   time.Time // Первая дата (без времени)
	To     time.Time // Последняя дата включительно, нулевая = From
}

// Response доступность типа по датам
type Response struct {
	TypeID     int64
	Category   domain.Category
	ServerDate string // "2025-10-15" в часовом поясе оператора
	ServerTime string // "14:30"
	Days       []Day
}

// Day состояние одной даты
type Day struct {
	Date    time.Time
	Blocked bool
	Reasons []domain.BlockReason

	// Capacity и Remaining для туров: билеты или кластеры
	Capacity  int
	Remaining int

	Slots  []domain.SlotStatus        // зал и лестница
	Addons []domain.AddonAvailability // только зал
}
