package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{name: "validation", err: domain.NewValidationError(cause, "Cannot book past dates"),
			status: http.StatusBadRequest, body: `{"error":"Cannot book past dates"}`},
		{name: "not found", err: domain.NewNotFoundError(cause, "Booking not found"),
			status: http.StatusNotFound, body: `{"error":"Booking not found"}`},
		{name: "conflict wrapped", err: fmt.Errorf("tx: %w", domain.NewConflictError(cause, "Only %d remaining.", 2)),
			status: http.StatusConflict, body: `{"error":"Only 2 remaining."}`},
		{name: "storage", err: fmt.Errorf("%w: pq: connection refused", domain.ErrStorage),
			status: http.StatusInternalServerError, body: `{"error":"внутренняя ошибка сервера"}`},
		{name: "unknown", err: errors.New("boom"),
			status: http.StatusInternalServerError, body: `{"error":"внутренняя ошибка сервера"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.Equal(t, tt.status, RespondDomainError(rec, tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42", "neg": "-1", "bad": "x"})

	id, err := PathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathID(r, "neg")
	assert.Error(t, err)
	_, err = PathID(r, "bad")
	assert.Error(t, err)
	_, err = PathID(r, "missing")
	assert.Error(t, err)
}

func TestParseDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)

	d, err := ParseDate("2025-10-20", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, d.Location())
	assert.Equal(t, 0, d.Hour())

	_, err = ParseDate("2025-13-01", loc)
	assert.Error(t, err)
}
