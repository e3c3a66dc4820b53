package runtime

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	inboundhttp "github.com/carlosduarte/devices-api/internal/adapters/inbound/http"
	"github.com/carlosduarte/devices-api/internal/adapters/repos"
	"github.com/carlosduarte/devices-api/internal/config"
	"github.com/carlosduarte/devices-api/internal/infrastructure"
	infraPostgres "github.com/carlosduarte/devices-api/internal/infrastructure/postgres"
	"github.com/carlosduarte/devices-api/internal/services"
	"github.com/carlosduarte/devices-api/internal/usecases"
	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/carlosduarte/devices-api/pkg/metrics"
	"github.com/carlosduarte/devices-api/pkg/metrics/noop"
	"github.com/hashicorp/vault/api"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithSecretsRepository(),
		WithConfigLoader(ctx),
		WithLogger(),
		WithTracing(),
		WithMetrics(),
		WithDatabase(ctx),
		WithDevicesRepository(),
		WithDevicesService(),
		WithApplication(),
		WithHTTPServer(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithSecretsRepository() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled {
			return nil
		}

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = d.config.SecretsStorage.Address
		vaultConfig.Timeout = d.config.SecretsStorage.Timeout

		if d.config.SecretsStorage.TLSSkipVerify {
			vaultConfig.HttpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("creating Vault client: %w", err)
		}

		if d.config.SecretsStorage.Namespace != "" {
			client.SetNamespace(d.config.SecretsStorage.Namespace)
		}

		d.repos.secretsRepo = repos.NewVaultRepository(client)

		return nil
	}
}

func WithConfigLoader(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled || d.repos.secretsRepo == nil {
			return nil
		}

		loader := config.NewLoader(d.config, d.repos.secretsRepo, 0)

		version, err := loader.Load(ctx, d.repos.secretsRepo, d.config)
		if err != nil {
			return fmt.Errorf("loading secrets from Vault: %w", err)
		}

		d.configLoader = config.NewLoader(d.config, d.repos.secretsRepo, version)

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithTracing() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Traces.Enabled || d.config.Telemetry.OTLPEndpoint == "" {
			d.infra.tracerProvider = infrastructure.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := infrastructure.NewTracerProvider(
			d.config.Telemetry.ServiceName,
			d.config.Telemetry.ServiceVersion,
			d.config.Telemetry.OTLPEndpoint,
			d.config.Telemetry.Traces.SamplerRatio,
		)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.cleanupFuncs["tracer"] = shutdown

		return nil
	}
}

func WithMetrics() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Metrics.Enabled || d.config.Telemetry.OTLPEndpoint == "" {
			d.infra.metricsClient = noop.NewMetricsClient()

			return nil
		}

		mp, shutdown, err := infrastructure.NewMeterProvider(
			d.config.Telemetry.ServiceName,
			d.config.Telemetry.ServiceVersion,
			d.config.Telemetry.OTLPEndpoint,
		)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}

		d.infra.metricsClient = metrics.NewOTelClient(mp, d.config.Telemetry.ServiceName, shutdown)
		d.cleanupFuncs["metrics"] = d.infra.metricsClient.Shutdown

		return nil
	}
}

func WithDatabase(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		pool, err := infraPostgres.NewPool(ctx, d.config.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.cleanupFuncs["database"] = func(_ context.Context) error {
			pool.Close()

			return nil
		}

		return nil
	}
}

func WithDevicesRepository() DependencyOption {
	return func(d *dependencies) error {
		d.repos.deviceRepo = repos.NewDevicesRepository(d.infra.dbPool, repos.NewPgxScanner(), d.infra.logger)

		return nil
	}
}

func WithDevicesService() DependencyOption {
	return func(d *dependencies) error {
		d.devicesService = services.NewDevicesService(d.repos.deviceRepo)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		d.app = usecases.NewApplication(
			d.devicesService,
			d.getDBHealthChecker(),
			d.infra.logger,
			d.infra.tracerProvider,
			d.infra.metricsClient,
		)

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		router := inboundhttp.NewRouter(inboundhttp.RouterConfig{
			App:           d.app,
			Logger:        d.infra.logger,
			MetricsClient: d.infra.metricsClient,
			Config:        d.config,
		})

		server := &http.Server{
			Handler:           router,
			ReadTimeout:       d.config.HTTPServer.ReadTimeout,
			ReadHeaderTimeout: d.config.HTTPServer.ReadHeaderTimeout,
			WriteTimeout:      d.config.HTTPServer.WriteTimeout,
			IdleTimeout:       d.config.HTTPServer.IdleTimeout,
		}

		d.infra.httpServer = server
		d.cleanupFuncs["http_server"] = server.Shutdown

		return nil
	}
}
