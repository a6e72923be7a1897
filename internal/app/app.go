// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openfacility/facility-status/internal/config"
	"github.com/openfacility/facility-status/internal/domain"
	"github.com/openfacility/facility-status/internal/pkg/httputil"
	"github.com/openfacility/facility-status/internal/simulator"
	"github.com/openfacility/facility-status/internal/store/memory"
	"github.com/openfacility/facility-status/internal/version"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	repo          *memory.Repository
	simulator     *simulator.Service
	scheduler     *simulator.Scheduler
	server        *http.Server
	metricsServer *http.Server
	startedAt     time.Time
}

// New creates a new application instance: seeds the in-memory store
// and wires the simulator and the two HTTP servers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)
	slog.SetDefault(logger)

	repo := memory.NewRepository()
	hrefs := domain.NewHrefBuilder(cfg.Simulator.BaseURL)

	facility, err := memory.Seed(ctx, repo, hrefs, memory.SeedConfig{
		FacilityName:     cfg.Seed.FacilityName,
		ResourcesPerType: cfg.Seed.ResourcesPerType,
	})
	if err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	logger.Info("store seeded",
		"facility", facility.Name,
		"resources_per_type", cfg.Seed.ResourcesPerType,
	)

	simConfig := simulator.Config{
		BaseURL:            cfg.Simulator.BaseURL,
		HistorySize:        cfg.Simulator.HistorySize,
		GenerateInterval:   cfg.Simulator.GenerateInterval,
		TransitionInterval: cfg.Simulator.TransitionInterval,
		PruneInterval:      cfg.Simulator.PruneInterval,
	}

	tracker := simulator.NewAvailabilityTracker()
	sim := simulator.NewService(repo, tracker, simConfig)

	app := &App{
		config:    cfg,
		logger:    logger,
		repo:      repo,
		simulator: sim,
		scheduler: simulator.NewScheduler(sim, simConfig, logger),
		startedAt: time.Now(),
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           app.setupRouter(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run bootstraps the simulation and starts the HTTP servers.
func (a *App) Run(ctx context.Context) error {
	// History pruning runs before the startup bootstrap so stale data
	// from a previous seed never survives the bound.
	if err := a.simulator.PruneHistory(ctx); err != nil {
		return fmt.Errorf("initial prune: %w", err)
	}
	if err := a.simulator.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap simulation: %w", err)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	// Stop the simulation timers first so no sweep races the shutdown
	a.scheduler.Stop()

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

// Simulator returns the simulation service. Used by tests to drive
// sweeps without waiting on timers.
func (a *App) Simulator() *simulator.Service {
	return a.simulator
}

func (a *App) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)

	// The version payload is static for the life of the process
	r.Group(func(r chi.Router) {
		r.Use(httputil.ConditionalGet(func(*http.Request) (time.Time, bool) {
			return a.startedAt, true
		}))
		r.Get("/version", a.versionHandler)
	})

	return r
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	facilities, err := a.repo.ListFacilities(r.Context())
	if err != nil || len(facilities) == 0 {
		httputil.Text(w, http.StatusServiceUnavailable, "Store not seeded")
		return
	}
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
