// Package decorator applies cross-cutting behavior (logging, metrics,
// tracing) around CQRS command and query handlers.
package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/carlosduarte/devices-api/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Command any

	CommandHandler[C Command, R any] interface {
		Handle(context.Context, C) (R, error)
	}
)

func ApplyCommandDecorators[C Command, R any](
	handler CommandHandler[C, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CommandHandler[C, R] {
	action := generateActionName(handler)

	return commandLoggingDecorator[C, R]{
		base: commandMetricsDecorator[C, R]{
			base: commandTracingDecorator[C, R]{
				base:           handler,
				action:         action,
				tracerProvider: tracerProvider,
			},
			action: action,
			client: metricsClient,
		},
		action: action,
		logger: log,
	}
}

func generateActionName(handler any) string {
	return strings.Split(fmt.Sprintf("%T", handler), ".")[1]
}
