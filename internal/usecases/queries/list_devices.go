package queries

import (
	"context"

	"github.com/carlosduarte/devices-api/internal/domain/model"
	"github.com/carlosduarte/devices-api/internal/ports"
	"github.com/carlosduarte/devices-api/pkg/decorator"
	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/carlosduarte/devices-api/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	// ListDevicesQuery selects devices by brand, by state, or all of
	// them when neither filter is set. Brand takes precedence when
	// both are set.
	ListDevicesQuery struct {
		Brand *string
		State *model.State
	}

	ListDevicesQueryHandler = decorator.QueryHandler[ListDevicesQuery, []*model.Device]

	listDevicesQueryHandler struct {
		devicesService ports.DevicesService
	}
)

func NewListDevicesQueryHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ListDevicesQueryHandler {
	return decorator.ApplyQueryDecorators[ListDevicesQuery, []*model.Device](
		listDevicesQueryHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listDevicesQueryHandler) Execute(ctx context.Context, query ListDevicesQuery) ([]*model.Device, error) {
	switch {
	case query.Brand != nil:
		return h.devicesService.FindAllByBrand(ctx, *query.Brand)
	case query.State != nil:
		return h.devicesService.FindAllByState(ctx, *query.State)
	default:
		return h.devicesService.FindAll(ctx)
	}
}
