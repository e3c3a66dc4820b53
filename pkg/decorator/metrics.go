package decorator

import (
	"context"
	"strings"

	"github.com/carlosduarte/devices-api/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

type commandMetricsDecorator[C Command, R any] struct {
	base   CommandHandler[C, R]
	action string
	client metrics.Client
}

func (d commandMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	result, err := d.base.Handle(ctx, cmd)

	d.client.Inc(ctx, metricKey("commands", d.action), 1,
		attribute.Bool("success", err == nil),
	)

	return result, err
}

type queryMetricsDecorator[Q Query, R Result] struct {
	base   QueryHandler[Q, R]
	action string
	client metrics.Client
}

func (d queryMetricsDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	result, err := d.base.Execute(ctx, query)

	d.client.Inc(ctx, metricKey("queries", d.action), 1,
		attribute.Bool("success", err == nil),
	)

	return result, err
}

func metricKey(kind, action string) string {
	return kind + "." + strings.ToLower(action)
}
