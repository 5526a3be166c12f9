package domain

// Значения по умолчанию для новых туров
const (
	DefaultTourStartTime     = "09:00"
	DefaultTourEndTime       = "17:00"
	DefaultMaxDailyCapacity  = 50
	DefaultBookingWindowDays = 1
	DefaultMembersPerCluster = 1
)

// Ограничения
const (
	MaxUploadSizeBytes    = 1 << 20 // 1 MB
	MaxAvailabilityDays   = 62
	MaxNotesLength        = 2000
	MaxWeekdayIndex       = 6
	MinutesPerClusterHour = 60
	MinClusterHours       = 1
	PageSize              = 10
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses бронирования, которые занимают слоты, места и доп. услуги
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}

// InactiveStatuses бронирования, которые на доступность не влияют
var InactiveStatuses = []BookingStatus{
	StatusRejected,
}

// AllowedUploadTypes MIME типы скриншота оплаты
var AllowedUploadTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}
