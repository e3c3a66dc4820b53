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
	GetDeviceQuery struct {
		ID model.DeviceID
	}

	GetDeviceQueryHandler = decorator.QueryHandler[GetDeviceQuery, *model.Device]

	getDeviceQueryHandler struct {
		devicesService ports.DevicesService
	}
)

func NewGetDeviceQueryHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetDeviceQueryHandler {
	return decorator.ApplyQueryDecorators[GetDeviceQuery, *model.Device](
		getDeviceQueryHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getDeviceQueryHandler) Execute(ctx context.Context, query GetDeviceQuery) (*model.Device, error) {
	return h.devicesService.FindByID(ctx, query.ID)
}
