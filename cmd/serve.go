package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/roommatch/internal/adapters/http/api"
	"github.com/okian/roommatch/internal/adapters/http/site"
	"github.com/okian/roommatch/internal/adapters/http/swagger"
	repository "github.com/okian/roommatch/internal/adapters/repository"
	service "github.com/okian/roommatch/internal/app"
	"github.com/okian/roommatch/internal/config"
	"github.com/okian/roommatch/pkg/logger"
	"github.com/okian/roommatch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: "Start the HTTP API. Configuration is read from defaults, the YAML file named by " +
			config.EnvConfigFile + " and " + config.EnvPrefix + "* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithMaxMatches(cfg.MaxMatchesLimit),
	}
	if cfg.Store == config.StorePostgres {
		store, err := repository.Connect(ctx, cfg.DatabaseURL,
			repository.WithMetricsUpdateInterval(cfg.MetricsInterval()))
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return fmt.Errorf("failed to migrate postgres: %w", err)
		}
		opts = append(opts, service.WithStore(store))
		log.Info(ctx, "using postgres store")
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx, cfg.MetricsInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log.Named("api")),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

// newHandler builds the routed, middleware-wrapped HTTP handler.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	server := api.NewServer(svc, svc,
		api.WithMaxMatches(cfg.MaxMatchesLimit),
		api.WithCORSOrigins(cfg.AllowedOrigins()),
		api.WithRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow()),
		api.WithLogger(log),
	)
	server.Register(ctx, mux)
	return server.Handler(mux)
}

// startSystemMetricsUpdater samples runtime metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
