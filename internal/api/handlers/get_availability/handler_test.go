package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
	getAvailability "github.com/m04kA/SMC-HubBookingService/internal/usecase/get_availability"
)

type stubUseCase struct {
	got  *getAvailability.Request
	resp *getAvailability.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	s.got = req
	return s.resp, s.err
}

func request(typeID, query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/types/"+typeID+"/availability?"+query, nil)
	return mux.SetURLVars(r, map[string]string{"typeId": typeID})
}

func TestParseRequest(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	req, _, err := ParseRequest(request("3", "from=2025-10-20&to=2025-10-25"), loc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), req.TypeID)
	assert.Equal(t, time.Date(2025, 10, 20, 0, 0, 0, 0, loc), req.From)
	assert.Equal(t, time.Date(2025, 10, 25, 0, 0, 0, 0, loc), req.To)

	req, _, err = ParseRequest(request("3", "date=2025-10-20"), loc)
	require.NoError(t, err)
	assert.True(t, req.To.IsZero())

	tests := []struct {
		name   string
		typeID string
		query  string
		msg    string
	}{
		{name: "bad type", typeID: "x", query: "from=2025-10-20", msg: msgInvalidTypeID},
		{name: "zero type", typeID: "0", query: "from=2025-10-20", msg: msgInvalidTypeID},
		{name: "no date", typeID: "3", query: "", msg: msgMissingDate},
		{name: "bad from", typeID: "3", query: "from=2025/10/20", msg: msgInvalidDate},
		{name: "bad to", typeID: "3", query: "from=2025-10-20&to=tomorrow", msg: msgInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msg, err := ParseRequest(request(tt.typeID, tt.query), loc)
			require.Error(t, err)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestHandle_RendersDays(t *testing.T) {
	day := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &getAvailability.Response{
		TypeID: 4, Category: domain.CategoryIndividualTour, ServerDate: "2025-10-15", ServerTime: "10:30",
		Days: []getAvailability.Day{
			{Date: day, Capacity: 50, Remaining: 0, Blocked: true,
				Reasons: []domain.BlockReason{domain.BlockedExclusive, domain.BlockedFullyBooked}},
		},
	}}
	rec := httptest.NewRecorder()
	NewHandler(uc, time.UTC, memstore.NopLogger{}).Handle(rec, request("4", "from=2025-10-20"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Days, 1)
	assert.Equal(t, "2025-10-20", body.Days[0].Date)
	assert.Equal(t, []string{"exclusive", "fully_booked"}, body.Days[0].Reasons)
	require.NotNil(t, body.Days[0].Remaining)
	assert.Equal(t, 0, *body.Days[0].Remaining)
	assert.Equal(t, 50, *body.Days[0].Capacity)
}

func TestHandle_HallOmitsCapacity(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailability.Response{
		TypeID: 1, Category: domain.CategoryHall,
		Days: []getAvailability.Day{{
			Date:  time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
			Slots: []domain.SlotStatus{{Slot: domain.Slot{ID: 3, Name: "Morning", StartTime: "10:00", EndTime: "12:00"}, State: domain.SlotOverlapped}},
		}},
	}}
	rec := httptest.NewRecorder()
	NewHandler(uc, time.UTC, memstore.NopLogger{}).Handle(rec, request("1", "from=2025-10-20"))

	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Days []map[string]any `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	dayJSON := raw.Days[0]
	assert.NotContains(t, dayJSON, "capacity")
	assert.NotContains(t, dayJSON, "remaining")

	slots := dayJSON["slots"].([]any)
	assert.Equal(t, "overlap", slots[0].(map[string]any)["state"])
}

func TestHandle_Errors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&stubUseCase{}, time.UTC, memstore.NopLogger{}).Handle(rec, request("1", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uc := &stubUseCase{err: domain.NewNotFoundError(errors.New("missing"), "Invalid booking type")}
	rec = httptest.NewRecorder()
	NewHandler(uc, time.UTC, memstore.NopLogger{}).Handle(rec, request("9", "from=2025-10-20"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid booking type"}`, rec.Body.String())
}
