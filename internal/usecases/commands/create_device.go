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
	CreateDeviceCommand struct {
		Request model.CreateUpdateDevice
	}

	CreateDeviceCommandHandler = decorator.CommandHandler[CreateDeviceCommand, *model.Device]

	createDeviceCommandHandler struct {
		devicesService ports.DevicesService
	}
)

func NewCreateDeviceCommandHandler(
	svc ports.DevicesService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CreateDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[CreateDeviceCommand, *model.Device](
		createDeviceCommandHandler{devicesService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h createDeviceCommandHandler) Handle(ctx context.Context, cmd CreateDeviceCommand) (*model.Device, error) {
	return h.devicesService.CreateDevice(ctx, cmd.Request)
}
