package commands

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
	UpdateDeviceCommand struct {
		ID      model.DeviceID
		Request model.CreateUpdateDevice
	}

	UpdateDeviceCommandHandler = decorator.CommandHandler[UpdateDeviceCommand, struct{}]

	updateDeviceCommandHandler struct {
		devicesService ports.DevicesService
	}
)

func NewUpdateDeviceCommandHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) UpdateDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[UpdateDeviceCommand, struct{}](
		updateDeviceCommandHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h updateDeviceCommandHandler) Handle(ctx context.Context, cmd UpdateDeviceCommand) (struct{}, error) {
	return struct{}{}, h.devicesService.UpdateDevice(ctx, cmd.ID, cmd.Request)
}
