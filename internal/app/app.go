// Package app wires configuration, services, and the HTTP transport
// into a runnable application.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"marketlens/internal/config"
	"marketlens/internal/errors"
	"marketlens/internal/infrastructure"
	customMiddleware "marketlens/internal/middleware"
	"marketlens/internal/services"
	handlers "marketlens/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application is the dependency container for the web server.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *infrastructure.Metrics
	Router    *chi.Mux
	Server    *http.Server
	Analytics *services.AnalyticsService
}

// NewApplication loads configuration and wires every component. The
// templateFS must contain the HTML page templates.
func NewApplication(templateFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg, templateFS)
}

// NewApplicationWithConfig wires the application around an existing
// configuration. Used directly by tests.
func NewApplicationWithConfig(cfg *config.Config, templateFS fs.FS) (*Application, error) {
	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.String("data_file", cfg.Data.File),
		slog.Int("port", cfg.Server.Port))

	metrics := infrastructure.NewMetrics()
	analyticsService := services.NewAnalyticsService(cfg, logger, metrics)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Analytics: analyticsService,
	}

	if err := app.setupRouter(templateFS); err != nil {
		return nil, err
	}

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// setupRouter assembles the chi router with the full middleware chain.
func (a *Application) setupRouter(templateFS fs.FS) error {
	errorHandler := errors.NewErrorHandler(a.Logger, false)

	htmlHandler, err := handlers.NewHTMLHandler(a.Analytics, templateFS, a.Logger)
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}
	analyticsHandler := handlers.NewAnalyticsHandler(a.Analytics, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Config.Data.File, a.Logger)

	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Metrics(a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))

	// Prometheus endpoint sits outside the heavier middleware below.
	r.Handle("/metrics", a.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/health", healthHandler.Health)
			r.Mount("/", analyticsHandler.Routes())
		})

		r.Mount("/", htmlHandler.Routes())
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

// Start begins serving; it returns once the listener is running. A
// listener failure cancels the supplied context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	go func() {
		a.Logger.InfoContext(ctx, "http server listening",
			slog.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop shuts the server down gracefully within the configured timeout.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run serves until the process receives an interrupt, then shuts down
// gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
