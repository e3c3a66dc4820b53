package metrics

import (
	"context"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelClient is a Client backed by an OpenTelemetry meter. Counters are
// created lazily per key and exported through the configured meter
// provider; there is no scrape endpoint, export happens via OTLP push.
type OTelClient struct {
	meter    metric.Meter
	shutdown func(ctx context.Context) error

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

func NewOTelClient(meterProvider metric.MeterProvider, scope string, shutdown func(ctx context.Context) error) *OTelClient {
	return &OTelClient{
		meter:      meterProvider.Meter(scope),
		shutdown:   shutdown,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

func (c *OTelClient) Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue) {
	counter, err := c.counter(key)
	if err != nil {
		return
	}

	var delta int64
	switch v := value.(type) {
	case int:
		delta = int64(v)
	case int64:
		delta = v
	case uint:
		delta = int64(v)
	default:
		delta = 1
	}

	counter.Add(ctx, delta, metric.WithAttributes(attributes...))
}

// Observe records a sample on the float64 histogram named key.
func (c *OTelClient) Observe(ctx context.Context, key string, value float64, attributes ...attribute.KeyValue) {
	histogram, err := c.histogram(key)
	if err != nil {
		return
	}

	histogram.Record(ctx, value, metric.WithAttributes(attributes...))
}

func (c *OTelClient) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (c *OTelClient) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}

	return c.shutdown(ctx)
}

func (c *OTelClient) counter(key string) (metric.Int64Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[key]; ok {
		return counter, nil
	}

	counter, err := RegisterInt64Counter(c.meter, Descriptor{Unit: "1"}, key)
	if err != nil {
		return nil, err
	}

	c.counters[key] = counter

	return counter, nil
}

func (c *OTelClient) histogram(key string) (metric.Float64Histogram, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if histogram, ok := c.histograms[key]; ok {
		return histogram, nil
	}

	histogram, err := RegisterFloat64Histogram(c.meter, Descriptor{Unit: "s"}, key)
	if err != nil {
		return nil, err
	}

	c.histograms[key] = histogram

	return histogram, nil
}
