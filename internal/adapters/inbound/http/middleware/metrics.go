package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlosduarte/devices-api/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	httpMethodKey     = "http.method"
	httpPathKey       = "http.path"
	httpStatusCodeKey = "http.status_code"

	httpRequestTotal    = "http_requests_total"
	httpRequestDuration = "http_request_duration_seconds"
	httpResponseSize    = "http_response_size_bytes"
)

type MetricsMiddleware struct {
	metricsClient metrics.Client
}

func NewMetricsMiddleware(metricsClient metrics.Client) *MetricsMiddleware {
	return &MetricsMiddleware{
		metricsClient: metricsClient,
	}
}

func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		wrapped := newStatusRecorder(w)

		next.ServeHTTP(wrapped, r)

		m.recordHTTPRequest(
			r.Context(),
			r.Method,
			r.URL.Path,
			uint(wrapped.StatusCode()),
			time.Since(startTime),
			wrapped.BytesWritten(),
		)
	})
}

func (m *MetricsMiddleware) recordHTTPRequest(
	ctx context.Context,
	method, path string,
	statusCode uint,
	duration time.Duration,
	responseSize uint64,
) {
	attrs := []attribute.KeyValue{
		attribute.String(httpMethodKey, method),
		attribute.String(httpPathKey, path),
		attribute.String(httpStatusCodeKey, fmt.Sprintf("%d", statusCode)),
	}

	m.metricsClient.Inc(ctx, httpRequestTotal, int64(1), attrs...)
	m.metricsClient.Observe(ctx, httpRequestDuration, duration.Seconds(), attrs...)
	m.metricsClient.Inc(ctx, httpResponseSize, int64(responseSize), attrs...)
}
