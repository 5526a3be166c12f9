package submit_booking

import (
	"encoding/json"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	submitBooking "github.com/m04kA/SMC-HubBookingService/internal/usecase/submit_booking"
)

// FieldError некорректное или отсутствующее поле формы
type FieldError struct {
	Field   string
	Missing bool
}

func (e *FieldError) Error() string {
	if e.Missing {
		return "missing field: " + e.Field
	}
	return "invalid field: " + e.Field
}

func invalidField(name string) error {
	return &FieldError{Field: name}
}

// Поля multipart формы заявки
const (
	fieldTypeID        = "type_id"
	fieldBookingDate   = "booking_date"
	fieldSlotIDs       = "slot_ids"     // "3,4,7"
	fieldTicketCount   = "ticket_count" // билеты или кластеры
	fieldClusterHours  = "cluster_hours"
	fieldAddons        = "addons" // JSON {"<addonId>": quantity}
	fieldCustomerName  = "customer_name"
	fieldCustomerEmail = "customer_email"
	fieldCustomerPhone = "customer_phone"
	fieldTransactionID = "transaction_id"
	fieldNotes         = "notes"
	fieldPaymentImage  = "payment_image"
)

// ToUseCaseRequest собирает запрос use case из полей формы
// Поле total_price клиента игнорируется, цена считается на сервере
func ToUseCaseRequest(form *multipart.Form, loc *time.Location) (*submitBooking.Request, error) {
	get := func(name string) string {
		if v := form.Value[name]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	typeID, err := strconv.ParseInt(get(fieldTypeID), 10, 64)
	if err != nil || typeID <= 0 {
		return nil, invalidField(fieldTypeID)
	}

	dateStr := get(fieldBookingDate)
	if dateStr == "" {
		return nil, &FieldError{Field: fieldBookingDate, Missing: true}
	}
	date, err := handlers.ParseDate(dateStr, loc)
	if err != nil {
		return nil, invalidField(fieldBookingDate)
	}

	req := &submitBooking.Request{
		TypeID:        typeID,
		Date:          date,
		CustomerName:  get(fieldCustomerName),
		CustomerEmail: get(fieldCustomerEmail),
		CustomerPhone: get(fieldCustomerPhone),
	}

	if req.SlotIDs, err = parseIDs(get(fieldSlotIDs)); err != nil {
		return nil, invalidField(fieldSlotIDs)
	}

	if v := get(fieldTicketCount); v != "" {
		if req.TicketCount, err = strconv.Atoi(v); err != nil {
			return nil, invalidField(fieldTicketCount)
		}
	}

	if req.ClusterHours, err = parseInts(get(fieldClusterHours)); err != nil {
		return nil, invalidField(fieldClusterHours)
	}

	if req.Addons, err = parseAddons(get(fieldAddons)); err != nil {
		return nil, invalidField(fieldAddons)
	}

	if v := get(fieldTransactionID); v != "" {
		req.TransactionID = &v
	}
	if v := get(fieldNotes); v != "" {
		req.Notes = &v
	}

	return req, nil
}

func parseIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func parseInts(raw string) ([]int, error) {
	ids, err := parseIDs(raw)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		out = append(out, int(v))
	}
	return out, nil
}

// parseAddons разбирает {"12": 2, "15": 1}, строки с нулевым количеством отбрасываются
func parseAddons(raw string) ([]submitBooking.AddonLine, error) {
	if raw == "" || raw == "{}" || raw == "[]" {
		return nil, nil
	}

	var quantities map[string]int
	if err := json.Unmarshal([]byte(raw), &quantities); err != nil {
		return nil, err
	}

	lines := make([]submitBooking.AddonLine, 0, len(quantities))
	for key, qty := range quantities {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, err
		}
		if qty == 0 {
			continue
		}
		lines = append(lines, submitBooking.AddonLine{AddonID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].AddonID < lines[j].AddonID })
	return lines, nil
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	ID                int64                           `json:"id"`
	TypeID            int64                           `json:"typeId"`
	Category          string                          `json:"category"`
	BookingDate       string                          `json:"bookingDate"`
	SlotIDs           []int64                         `json:"slotIds,omitempty"`
	TicketCount       int                             `json:"ticketCount"`
	ClusterHours      []int                           `json:"clusterHours,omitempty"`
	ClusterTimeRanges []handlers.TimeRangeResponse    `json:"clusterTimeRanges,omitempty"`
	Addons            []handlers.BookingAddonResponse `json:"addons,omitempty"`
	TotalPrice        float64                         `json:"totalPrice"`
	Status            string                          `json:"status"`
	PaymentImage      *string                         `json:"paymentImage,omitempty"`
	CreatedAt         time.Time                       `json:"createdAt"`
	Message           string                          `json:"message"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *submitBooking.Response) SubmitBookingResponse {
	out := SubmitBookingResponse{
		ID:           resp.ID,
		TypeID:       resp.TypeID,
		Category:     resp.Category,
		BookingDate:  resp.BookingDate.Format(domain.DateFormat),
		SlotIDs:      resp.SlotIDs,
		TicketCount:  resp.TicketCount,
		ClusterHours: resp.ClusterHours,
		TotalPrice:   resp.TotalPrice,
		Status:       resp.Status,
		PaymentImage: resp.PaymentImage,
		CreatedAt:    resp.CreatedAt,
		Message:      "Booking submitted successfully! Awaiting approval.",
	}
	for _, r := range resp.ClusterTimeRanges {
		out.ClusterTimeRanges = append(out.ClusterTimeRanges, handlers.TimeRangeResponse{Start: r[0], End: r[1]})
	}
	for _, a := range resp.Addons {
		out.Addons = append(out.Addons, handlers.BookingAddonResponse{
			AddonID:  a.AddonID,
			Name:     a.Name,
			Price:    a.Price,
			Quantity: a.Quantity,
			Total:    a.Price * float64(a.Quantity),
		})
	}
	return out
}
