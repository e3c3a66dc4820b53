package http

import (
	"net/http"

	"github.com/carlosduarte/devices-api/internal/adapters/inbound/http/handlers"
	"github.com/carlosduarte/devices-api/internal/adapters/inbound/http/middleware"
	"github.com/carlosduarte/devices-api/internal/config"
	"github.com/carlosduarte/devices-api/internal/usecases"
	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/carlosduarte/devices-api/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	baseURL = "/api"
)

type RouterConfig struct {
	App           *usecases.Application
	Logger        logger.Logger
	MetricsClient metrics.Client
	Config        *config.ServiceConfig
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	// Core middlewares - always applied
	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(chimiddleware.Timeout(cfg.Config.HTTPServer.RequestTimeout))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS([]string{"*"}))

	// Metrics middleware
	if cfg.Config.Telemetry.Metrics.Enabled {
		metricsMiddleware := middleware.NewMetricsMiddleware(cfg.MetricsClient)
		router.Use(metricsMiddleware.Middleware)
		cfg.Logger.Info().Msg("HTTP metrics collection enabled")
	}

	// Access logging with health check filtering
	if cfg.Config.Logging.AccessLog.Enabled {
		healthFilter := middleware.NewHealthCheckFilter(cfg.Config.Logging.AccessLog.LogHealthChecks)
		accessLogger := middleware.AccessLogger(cfg.Logger)

		router.Use(healthFilter.Middleware)
		router.Use(accessLogger)
		cfg.Logger.Info().
			Bool("log_health_checks", cfg.Config.Logging.AccessLog.LogHealthChecks).
			Msg("structured access logging enabled")
	}

	deviceHandler := handlers.NewDeviceHandler(cfg.App)
	healthHandler := handlers.NewHealthHandler(cfg.App)

	router.Route(baseURL, func(r chi.Router) {
		r.Route("/device", func(r chi.Router) {
			r.Get("/", deviceHandler.ListDevices)
			r.Post("/", deviceHandler.CreateDevice)
			r.Get("/{id}", deviceHandler.GetDevice)
			r.Put("/{id}", deviceHandler.UpdateDevice)
			r.Delete("/{id}", deviceHandler.DeleteDevice)
			r.Get("/brand/{brand}", deviceHandler.ListDevicesByBrand)
			r.Get("/state/{state}", deviceHandler.ListDevicesByState)
		})

		r.Get("/liveness", healthHandler.Liveness)
		r.Get("/readiness", healthHandler.Readiness)
	})

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	return router
}
