package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/banquet/internal/adapters/http/api"
	"github.com/okian/banquet/internal/adapters/http/swagger"
	app "github.com/okian/banquet/internal/app"
	"github.com/okian/banquet/internal/config"
	"github.com/okian/banquet/pkg/logger"
	"github.com/okian/banquet/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	// Handlers are done; now drain the batch queue.
	svc.Stop()

	loggerInstance.Info(ctx, "server stopped")
}

// newService builds the quoting service from configuration.
func newService(cfg *config.Config) *app.Service {
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithDefaultRulesID(cfg.DefaultRulesID),
		app.WithRulesFile(cfg.RulesFile),
		app.WithBatchWorkers(cfg.BatchWorkers),
		app.WithMaxBatchSize(cfg.MaxBatchSize),
	)
}

// newHandler registers the business API and its docs on a fresh mux.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	api.NewServer(svc, svc, cfg.MaxBodyBytes).Register(ctx, mux)
	swagger.Register(ctx, mux)
	return mux
}

// startServiceMetricsUpdater periodically mirrors service stats into gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if ruleSets, ok := stats["ruleSets"].(int); ok {
		metrics.UpdateRulesCount(ruleSets)
	}
}
