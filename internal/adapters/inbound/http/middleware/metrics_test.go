package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

// mockMetricsClient is a test double for metrics.Client that keeps
// counter increments and histogram observations apart.
type mockMetricsClient struct {
	increments   map[string][]mockMetricRecord
	observations map[string][]mockMetricRecord
}

type mockMetricRecord struct {
	value      any
	attributes map[string]string
}

func (m *mockMetricsClient) Inc(_ context.Context, key string, value any, attrs ...attribute.KeyValue) {
	if m.increments == nil {
		m.increments = make(map[string][]mockMetricRecord)
	}

	m.increments[key] = append(m.increments[key], mockMetricRecord{
		value:      value,
		attributes: attrsToMap(attrs),
	})
}

func (m *mockMetricsClient) Observe(_ context.Context, key string, value float64, attrs ...attribute.KeyValue) {
	if m.observations == nil {
		m.observations = make(map[string][]mockMetricRecord)
	}

	m.observations[key] = append(m.observations[key], mockMetricRecord{
		value:      value,
		attributes: attrsToMap(attrs),
	})
}

func (m *mockMetricsClient) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (m *mockMetricsClient) Shutdown(_ context.Context) error {
	return nil
}

func attrsToMap(attrs []attribute.KeyValue) map[string]string {
	attrMap := make(map[string]string)
	for _, attr := range attrs {
		attrMap[string(attr.Key)] = attr.Value.AsString()
	}

	return attrMap
}

func TestMetricsMiddleware_RecordsRequest(t *testing.T) {
	t.Parallel()

	client := &mockMetricsClient{}
	mw := NewMetricsMiddleware(client)

	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/device", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Len(t, client.increments["http_requests_total"], 1)
	total := client.increments["http_requests_total"][0]
	assert.Equal(t, int64(1), total.value)
	assert.Equal(t, "POST", total.attributes["http.method"])
	assert.Equal(t, "/api/device", total.attributes["http.path"])
	assert.Equal(t, "201", total.attributes["http.status_code"])

	require.Len(t, client.increments["http_response_size_bytes"], 1)
	assert.Equal(t, int64(8), client.increments["http_response_size_bytes"][0].value)
}

// Request duration must land on the histogram as a float64 sample
// rather than being folded into a counter increment.
func TestMetricsMiddleware_ObservesDuration(t *testing.T) {
	t.Parallel()

	client := &mockMetricsClient{}
	mw := NewMetricsMiddleware(client)

	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/device/7", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Len(t, client.observations["http_request_duration_seconds"], 1)
	duration, ok := client.observations["http_request_duration_seconds"][0].value.(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, duration, 0.0)

	assert.Empty(t, client.increments["http_request_duration_seconds"],
		"duration must not be recorded through the counter path")
}
