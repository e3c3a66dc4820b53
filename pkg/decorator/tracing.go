package decorator

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "devices-api/usecases"

type commandTracingDecorator[C Command, R any] struct {
	base           CommandHandler[C, R]
	action         string
	tracerProvider otelTrace.TracerProvider
}

func (d commandTracingDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	ctx, span := d.tracerProvider.Tracer(tracerName).Start(ctx, d.action)
	defer span.End()

	result, err := d.base.Handle(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}

type queryTracingDecorator[Q Query, R Result] struct {
	base           QueryHandler[Q, R]
	action         string
	tracerProvider otelTrace.TracerProvider
}

func (d queryTracingDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	ctx, span := d.tracerProvider.Tracer(tracerName).Start(ctx, d.action)
	defer span.End()

	result, err := d.base.Execute(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}
