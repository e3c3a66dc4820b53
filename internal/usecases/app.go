package usecases

import (
	"github.com/carlosduarte/devices-api/internal/ports"
	"github.com/carlosduarte/devices-api/internal/usecases/commands"
	"github.com/carlosduarte/devices-api/internal/usecases/queries"
	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/carlosduarte/devices-api/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		CreateDevice commands.CreateDeviceCommandHandler
		UpdateDevice commands.UpdateDeviceCommandHandler
		DeleteDevice commands.DeleteDeviceCommandHandler
	}

	Queries struct {
		GetDevice      queries.GetDeviceQueryHandler
		ListDevices    queries.ListDevicesQueryHandler
		FetchLiveness  queries.FetchLivenessQueryHandler
		FetchReadiness queries.FetchReadinessQueryHandler
	}

	Application struct {
		Commands Commands
		Queries  Queries
	}
)

func NewApplication(
	devicesSvc ports.DevicesService,
	dbHealthChecker ports.DatabaseHealthChecker,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) *Application {
	return &Application{
		Commands: Commands{
			CreateDevice: commands.NewCreateDeviceCommandHandler(devicesSvc, log, metricsClient, tracerProvider),
			UpdateDevice: commands.NewUpdateDeviceCommandHandler(devicesSvc, log, metricsClient, tracerProvider),
			DeleteDevice: commands.NewDeleteDeviceCommandHandler(devicesSvc, log, metricsClient, tracerProvider),
		},
		Queries: Queries{
			GetDevice:      queries.NewGetDeviceQueryHandler(devicesSvc, log, metricsClient, tracerProvider),
			ListDevices:    queries.NewListDevicesQueryHandler(devicesSvc, log, metricsClient, tracerProvider),
			FetchLiveness:  queries.NewFetchLivenessQueryHandler(log, metricsClient, tracerProvider),
			FetchReadiness: queries.NewFetchReadinessQueryHandler(dbHealthChecker, log, metricsClient, tracerProvider),
		},
	}
}
