package submit_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
	submitBooking "github.com/m04kA/SMC-HubBookingService/internal/usecase/submit_booking"
)

type stubUseCase struct {
	got     *submitBooking.Request
	payload []byte
	resp    *submitBooking.Response
	err     error
}

func (s *stubUseCase) Execute(_ context.Context, req *submitBooking.Request) (*submitBooking.Response, error) {
	s.got = req
	if req.PaymentImage != nil {
		s.payload, _ = io.ReadAll(req.PaymentImage)
	}
	return s.resp, s.err
}

func newRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile(fieldPaymentImage, "receipt.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func serve(h *Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, r)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHandle_ParsesForm(t *testing.T) {
	uc := &stubUseCase{resp: &submitBooking.Response{
		ID: 5, TypeID: 1, Category: "hall", BookingDate: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		SlotIDs: []int64{3, 4}, TicketCount: 1, TotalPrice: 250, Status: "pending",
		Addons: []submitBooking.AddonResponse{{AddonID: 12, Name: "Projector", Price: 30, Quantity: 2}},
	}}
	h := NewHandler(uc, time.UTC, memstore.NopLogger{})

	rec := serve(h, newRequest(t, map[string]string{
		fieldTypeID:        "1",
		fieldBookingDate:   "2025-10-20",
		fieldSlotIDs:       "3, 4,",
		fieldAddons:        `{"15": 0, "12": 2, "9": 1}`,
		fieldCustomerName:  "Alice",
		fieldCustomerEmail: "alice@example.com",
		fieldCustomerPhone: "+100",
		fieldTransactionID: " TX-1 ",
		"total_price":      "0.01",
	}, []byte("\x89PNG")))

	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.TypeID)
	assert.Equal(t, "2025-10-20", uc.got.Date.Format(domain.DateFormat))
	assert.Equal(t, []int64{3, 4}, uc.got.SlotIDs)
	assert.Equal(t, []submitBooking.AddonLine{{AddonID: 9, Quantity: 1}, {AddonID: 12, Quantity: 2}}, uc.got.Addons)
	require.NotNil(t, uc.got.TransactionID)
	assert.Equal(t, "TX-1", *uc.got.TransactionID)
	assert.Nil(t, uc.got.Notes)
	assert.Equal(t, []byte("\x89PNG"), uc.payload)

	var body SubmitBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Booking submitted successfully! Awaiting approval.", body.Message)
	assert.Equal(t, "2025-10-20", body.BookingDate)
	assert.Equal(t, 250.0, body.TotalPrice)
	require.Len(t, body.Addons, 1)
	assert.Equal(t, 60.0, body.Addons[0].Total)
}

func TestHandle_TourFields(t *testing.T) {
	uc := &stubUseCase{resp: &submitBooking.Response{ID: 1}}
	h := NewHandler(uc, time.UTC, memstore.NopLogger{})

	rec := serve(h, newRequest(t, map[string]string{
		fieldTypeID:       "4",
		fieldBookingDate:  "2025-10-20",
		fieldTicketCount:  "3",
		fieldClusterHours: "2,1,1",
		fieldNotes:        "school group",
	}, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3, uc.got.TicketCount)
	assert.Equal(t, []int{2, 1, 1}, uc.got.ClusterHours)
	assert.Nil(t, uc.got.PaymentImage)
	require.NotNil(t, uc.got.Notes)
	assert.Equal(t, "school group", *uc.got.Notes)
}

func TestHandle_BadForm(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		msg    string
	}{
		{name: "missing date", fields: map[string]string{fieldTypeID: "1"}, msg: msgMissingDate},
		{name: "bad type", fields: map[string]string{fieldTypeID: "hall", fieldBookingDate: "2025-10-20"}, msg: msgInvalidField + ": type_id"},
		{name: "bad date", fields: map[string]string{fieldTypeID: "1", fieldBookingDate: "20.10.2025"}, msg: msgInvalidField + ": booking_date"},
		{name: "bad slots", fields: map[string]string{fieldTypeID: "1", fieldBookingDate: "2025-10-20", fieldSlotIDs: "a,b"}, msg: msgInvalidField + ": slot_ids"},
		{name: "bad addons", fields: map[string]string{fieldTypeID: "1", fieldBookingDate: "2025-10-20", fieldAddons: "[1,2]"}, msg: msgInvalidField + ": addons"},
		{name: "bad tickets", fields: map[string]string{fieldTypeID: "1", fieldBookingDate: "2025-10-20", fieldTicketCount: "many"}, msg: msgInvalidField + ": ticket_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(NewHandler(uc, time.UTC, memstore.NopLogger{}), newRequest(t, tt.fields, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, errorBody(t, rec))
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_NotMultipart(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(`{"type_id":1}`))
	r.Header.Set("Content-Type", "application/json")

	rec := serve(NewHandler(&stubUseCase{}, time.UTC, memstore.NopLogger{}), r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidForm, errorBody(t, rec))
}

func TestHandle_UseCaseErrors(t *testing.T) {
	fields := map[string]string{fieldTypeID: "1", fieldBookingDate: "2025-10-20", fieldSlotIDs: "3"}

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "conflict",
			err:    domain.NewConflictError(errors.New("taken"), "Some slots are already booked. Please refresh and try again."),
			status: http.StatusConflict,
			msg:    "Some slots are already booked. Please refresh and try again.",
		},
		{
			name:   "validation",
			err:    domain.NewValidationError(errors.New("past"), "Cannot book past dates"),
			status: http.StatusBadRequest,
			msg:    "Cannot book past dates",
		},
		{
			name:   "internal",
			err:    fmt.Errorf("%w: connection refused", domain.ErrStorage),
			status: http.StatusInternalServerError,
			msg:    "внутренняя ошибка сервера",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}
			rec := serve(NewHandler(uc, time.UTC, memstore.NopLogger{}), newRequest(t, fields, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, errorBody(t, rec))
		})
	}
}
