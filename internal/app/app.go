package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"dataclean/internal/config"
	"dataclean/internal/dataprocessing"
	"dataclean/internal/datasets"
	apierrors "dataclean/internal/errors"
	"dataclean/internal/infrastructure"
	customMiddleware "dataclean/internal/middleware"
	"dataclean/internal/services"
	handlers "dataclean/internal/transport/http"
	"dataclean/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	Store          *datasets.MemoryStore
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
	ErrorHandler   *apierrors.ErrorHandler
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetFullVersionString()))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	edgePolicy, err := dataprocessing.ParseEdgePolicy(a.Config.Cleaning.EdgePolicy)
	if err != nil {
		return fmt.Errorf("invalid cleaning config: %w", err)
	}

	a.Store = datasets.NewMemoryStore(a.Config.Datasets.TTL, a.Config.Datasets.MaxEntries)
	if err := infrastructure.RegisterDatasetGauge(a.OTelProviders.Meter, a.Store.Count); err != nil {
		return err
	}

	cleaner := dataprocessing.NewCleaner(a.Logger, dataprocessing.ProcessingOptions{EdgePolicy: edgePolicy})
	profiler := dataprocessing.NewProfiler(a.Logger, dataprocessing.ProfilerConfig{PreviewRows: a.Config.Datasets.PreviewRows})

	a.DatasetService = services.NewDatasetService(services.DatasetServiceConfig{
		Store:       a.Store,
		Cleaner:     cleaner,
		Profiler:    profiler,
		Tracer:      a.OTelProviders.Tracer,
		Metrics:     a.Metrics,
		TTL:         a.Config.Datasets.TTL,
		PreviewRows: a.Config.Datasets.PreviewRows,
	}, a.Logger)

	a.HealthService = services.NewHealthService(contracts.Version, a.Store, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Full middleware chain: RequestID → RealIP → OTel → Logger/Recoverer → Security → CORS → RateLimit
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{}))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus scrape endpoint stays outside the instrumented group
	r.With(apierrors.RecoveryMiddleware(a.ErrorHandler)).
		Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	datasetHandler := handlers.NewDatasetHandler(a.DatasetService, a.Logger, a.ErrorHandler)
	operationsHandler := handlers.NewOperationsHandler(a.DatasetService, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
		r.Get("/operations", operationsHandler.ListOperations)

		// Upload bodies are bounded; every dataset route may carry one
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.MaxBodySize(a.Config.Datasets.MaxUploadBytes))
			r.Mount("/datasets", datasetHandler.Routes())
			r.Mount("/clean", datasetHandler.CleanRoutes())
		})
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run listens on the configured address and serves until ctx is cancelled
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln together with the store cleanup loop.
// It returns after ctx is cancelled and shutdown has completed, or as soon
// as the server fails.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening",
			slog.String("address", ln.Addr().String()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.Store.RunCleanup(gctx, a.Config.Datasets.CleanupInterval, a.Logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}
