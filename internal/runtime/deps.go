package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/carlosduarte/devices-api/internal/adapters/repos"
	"github.com/carlosduarte/devices-api/internal/config"
	"github.com/carlosduarte/devices-api/internal/ports"
	"github.com/carlosduarte/devices-api/internal/usecases"
	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/carlosduarte/devices-api/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		httpServer     *http.Server
		tracerProvider otelTrace.TracerProvider
		metricsClient  metrics.Client
		logger         logger.Logger
		dbPool         *pgxpool.Pool
	}

	repositories struct {
		deviceRepo  ports.DeviceRepository
		secretsRepo ports.SecretsRepository
	}

	dependencies struct {
		config       *config.ServiceConfig
		configLoader *config.Loader

		infra infrastructureDep

		repos repositories

		devicesService ports.DevicesService

		app *usecases.Application

		cleanupFuncs map[string]func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{
		cleanupFuncs: make(map[string]func(ctx context.Context) error),
	}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

func (d *dependencies) getDBHealthChecker() ports.DatabaseHealthChecker {
	return d.repos.deviceRepo.(*repos.DevicesRepository)
}
