// Package main is the entry point for the Somata dashboard server.
//
// It loads configuration, wires the upstream metrics gateway, the signal
// registry, the filter state machine, and the page orchestrators, builds the
// HTTP server with the core chassis (middleware, routing, health checks), and
// starts listening for requests.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/api/handlers"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/cache"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/config"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/core"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/db"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/filters"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/pages"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/registry"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/telemetry"
	"github.com/parandev-inditech/Somata-UI-sub000/internal/upstream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on
// error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("somata dashboard starting",
		"environment", cfg.Environment,
		"service", cfg.Service,
		"port", cfg.Server.Port,
		"metrics_api", cfg.Upstream.BaseURL,
	)

	// Root context for background workers; canceled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics, err := telemetry.New(ctx, cfg.Observability, cfg.AWS, logger)
	if err != nil {
		return fmt.Errorf("initializing metrics publisher: %w", err)
	}

	var gatewayOpts []upstream.ClientOption
	if metrics != nil {
		gatewayOpts = append(gatewayOpts, upstream.WithCallObserver(func(ctx context.Context, endpoint string, err error) {
			result := telemetry.ResultSuccess
			if err != nil {
				result = telemetry.ResultFailure
			}
			metrics.RecordUpstreamCall(ctx, endpoint, result)
		}))
	}
	gateway := upstream.NewGateway(cfg.Upstream, gatewayOpts...)

	reg := registry.New(gateway, cfg.Registry, logger)
	go reg.Run(ctx)

	optionCache, err := cache.New(ctx, cfg.Cache, logger)
	if err != nil {
		return fmt.Errorf("connecting to cache: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	// Saved filter defaults fall back to in-process storage when no database
	// is configured.
	var defaults filters.DefaultsStore
	if pool != nil {
		defaults = db.NewDefaultsRepository(pool)
	} else {
		logger.Info("no database configured, saved filter defaults are in-memory")
		defaults = db.NewMemoryDefaults()
	}
	var options filters.OptionCache
	if optionCache != nil {
		options = optionCache
	}

	store := filters.NewStore()
	manager := filters.NewManager(store, gateway, options, defaults, logger)
	go manager.LoadOptions(ctx)

	set := handlers.PageSet{
		Dashboard:   pages.NewDashboard(gateway, reg, logger),
		Operations:  pages.NewOperationsPage(gateway, reg, logger),
		Maintenance: pages.NewMaintenancePage(gateway, reg, logger),
		Watchdog:    pages.NewWatchdog(gateway, cfg.Watchdog.DebounceWait, logger),
		Health:      pages.NewHealth(gateway, logger),
		Summary:     pages.NewSummaryTrend(gateway, logger),
	}

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	if metrics != nil {
		srv.Metrics = metrics
	}
	srv.HealthProbes = buildProbes(pool, optionCache, reg)
	srv.OnShutdown = append(srv.OnShutdown, func(context.Context) error {
		set.Watchdog.Stop()
		return nil
	})
	if optionCache != nil {
		srv.OnShutdown = append(srv.OnShutdown, func(context.Context) error {
			return optionCache.Close()
		})
	}
	if pool != nil {
		srv.OnShutdown = append(srv.OnShutdown, func(context.Context) error {
			pool.Close()
			return nil
		})
	}

	filterHandler := handlers.NewFilterHandler(manager, srv.Validator, logger)
	pageHandler := handlers.NewPageHandler(store, set, metrics, srv.Validator, logger)
	chartHandler := handlers.NewChartHandler(set, logger)
	signalHandler := handlers.NewSignalHandler(reg, logger)
	srv.RouteRegistrars = append(srv.RouteRegistrars,
		filterHandler.RegisterRoutes,
		pageHandler.RegisterRoutes,
		chartHandler.RegisterRoutes,
		signalHandler.RegisterRoutes,
	)

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// buildProbes assembles the health probes for the configured subsystems.
// Unconfigured subsystems contribute no probe.
func buildProbes(pool *pgxpool.Pool, optionCache *cache.OptionCache, reg *registry.Registry) []core.HealthProbe {
	var probes []core.HealthProbe
	if pool != nil {
		probes = append(probes, dbProbe{pool: pool})
	}
	if optionCache != nil {
		probes = append(probes, cacheProbe{cache: optionCache})
	}
	probes = append(probes, registryProbe{reg: reg})
	return probes
}

type dbProbe struct {
	pool *pgxpool.Pool
}

func (p dbProbe) Name() string                    { return "database" }
func (p dbProbe) Check(ctx context.Context) error { return p.pool.Ping(ctx) }

type cacheProbe struct {
	cache *cache.OptionCache
}

func (p cacheProbe) Name() string                    { return "cache" }
func (p cacheProbe) Check(ctx context.Context) error { return p.cache.Ping(ctx) }

// registryProbe reports degraded only when the registry has never loaded:
// an empty registry means maps cannot render at all.
type registryProbe struct {
	reg *registry.Registry
}

func (p registryProbe) Name() string { return "signal-registry" }

func (p registryProbe) Check(context.Context) error {
	if p.reg.Len() == 0 {
		return errors.New("signal registry is empty")
	}
	return nil
}

// runHTTPServer starts the server with graceful shutdown on SIGINT/SIGTERM.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
