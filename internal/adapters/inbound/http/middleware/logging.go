package middleware

import (
	"net/http"
	"time"

	"github.com/carlosduarte/devices-api/pkg/logger"
)

func AccessLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ShouldSkipAccessLog(r.Context()) {
				next.ServeHTTP(w, r)

				return
			}

			start := time.Now()
			wrapped := newStatusRecorder(w)

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)

			reqLogger := log.WithContext(r.Context()).
				With().
				Str("component", "http").
				Logger()

			event := reqLogger.Info()
			if wrapped.StatusCode() >= http.StatusInternalServerError {
				event = reqLogger.Error()
			} else if wrapped.StatusCode() >= http.StatusBadRequest {
				event = reqLogger.Warn()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Int("status", wrapped.StatusCode()).
				Uint64("bytes", wrapped.BytesWritten()).
				Int64("duration_ms", duration.Milliseconds())

			if r.URL.RawQuery != "" {
				event.Str("query", r.URL.RawQuery)
			}

			event.Send()
		})
	}
}
