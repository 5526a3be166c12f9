package middleware

import (
	"net/http"
	"time"
)

// Logging пишет метод, путь, статус и длительность каждого запроса
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("%s %s - status=%d, remote=%s, duration=%v",
				r.Method, r.URL.Path, rec.status, r.RemoteAddr, time.Since(start))
		})
	}
}
