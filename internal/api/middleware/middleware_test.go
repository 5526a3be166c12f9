package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HubBookingService/internal/testkit/memstore"
	"github.com/m04kA/SMC-HubBookingService/pkg/metrics"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		header   string
		status   int
	}{
		{name: "valid token", expected: "secret", header: "secret", status: http.StatusNoContent},
		{name: "wrong token", expected: "secret", header: "guess", status: http.StatusUnauthorized},
		{name: "missing token", expected: "secret", header: "", status: http.StatusUnauthorized},
		{name: "unset token locks admin", expected: "", header: "", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
			if tt.header != "" {
				r.Header.Set(AdminTokenHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			AdminAuth(tt.expected, memstore.NopLogger{})(ok).ServeHTTP(rec, r)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	limited := NewRateLimiter(1, 2, []string{"10.0.0.1"}, memstore.NopLogger{}).Limit(ok)

	send := func(remote, forwarded string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		r.RemoteAddr = remote
		if forwarded != "" {
			r.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:5000", ""))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:5001", ""))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5002", ""))

	// другой клиент за доверенным прокси не делит лимит
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:5003", "203.0.113.9, 10.0.0.1"))

	// клиент без прокси не обходит лимит подменой заголовка
	assert.Equal(t, http.StatusNoContent, send("198.51.100.7:1", ""))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.7:2", "192.0.2.10"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.7:3", "192.0.2.11"))
}

func TestRateLimiter_ClientIP(t *testing.T) {
	rl := NewRateLimiter(10, 1, []string{"10.0.0.0/8", "bogus"}, memstore.NopLogger{})

	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{name: "direct", remote: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "untrusted sender ignores header", remote: "192.0.2.1:1234", forwarded: "203.0.113.9", want: "192.0.2.1"},
		{name: "trusted proxy", remote: "10.1.2.3:80", forwarded: " 203.0.113.9 , 10.0.0.1", want: "203.0.113.9"},
		{name: "spoofed leftmost hop", remote: "10.1.2.3:80", forwarded: "1.1.1.1, 203.0.113.9", want: "203.0.113.9"},
		{name: "only proxies", remote: "10.1.2.3:80", forwarded: "10.0.0.5", want: "10.1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, rl.clientIP(r))
		})
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(10, 1, nil, memstore.NopLogger{})
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	rl.getLimiter("192.0.2.1", start)
	rl.getLimiter("192.0.2.2", start.Add(time.Minute))
	assert.Len(t, rl.visitors, 2)

	rl.getLimiter("192.0.2.3", start.Add(15*time.Minute))
	assert.Len(t, rl.visitors, 1, "idle visitors are dropped once the sweep interval has passed")
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegisterer("booking_test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.Handle("/types/{typeId}/availability", ok).Methods(http.MethodGet)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/types/"+id+"/availability", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/types/{typeId}/availability", "204")))
}
