package submit_booking

import (
	"io"
	"time"
)

// Request модель заявки на бронирование
type Request struct {
	TypeID       int64     // ID типа бронирования
	Date         time.Time // Дата бронирования (без времени, в часовом поясе оператора)
	SlotIDs      []int64   // Слоты зала или лестницы
	TicketCount  int       // Билеты индивидуального тура или кластеры группового
	ClusterHours []int     // Часы по кластерам группового тура
	Addons       []AddonLine

	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`
	TransactionID *string
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`

	// PaymentImage содержимое скриншота оплаты, nil если файл не приложен
	PaymentImage io.Reader
}

// AddonLine запрошенная доп. услуга
type AddonLine struct {
	AddonID  int64
	Quantity int
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                int64
	TypeID            int64
	Category          string
	BookingDate       time.Time
	SlotIDs           []int64
	TicketCount       int
	ClusterHours      []int
	ClusterTimeRanges [][2]string
	Addons            []AddonResponse
	TotalPrice        float64
	Status            string
	PaymentImage      *string
	CreatedAt         time.Time
}

// AddonResponse строка доп. услуги с ценой на момент бронирования
type AddonResponse struct {
	AddonID  int64
	Name     string
	Price    float64
	Quantity int
}
