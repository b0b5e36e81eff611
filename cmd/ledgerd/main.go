package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecotrack/recycle-ledger-go/internal/clock"
	"github.com/ecotrack/recycle-ledger-go/internal/config"
	"github.com/ecotrack/recycle-ledger-go/internal/handler"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/cache"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/observability"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/regions"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/resilience"
	"github.com/ecotrack/recycle-ledger-go/internal/infra/store"
	"github.com/ecotrack/recycle-ledger-go/internal/ledger"
	"github.com/ecotrack/recycle-ledger-go/internal/port"
	"github.com/ecotrack/recycle-ledger-go/internal/service"
	"github.com/ecotrack/recycle-ledger-go/internal/session"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_remote_sync", cfg.UseRemoteSync),
		zap.String("state_file", cfg.StateFile),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("dedupe_window", cfg.DedupeWindow),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "recycle-ledger")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Persistence gateway ---
	var stateStore port.StateStore
	if cfg.UseRemoteSync && cfg.SyncAPIURL != "" {
		logger.Info("using remote sync API as state store",
			zap.String("sync_api_url", cfg.SyncAPIURL),
			zap.String("device_id", cfg.DeviceID),
		)
		stateStore = store.NewRESTStore(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.SyncAPIURL,
			cfg.SyncAPIKey,
			cfg.DeviceID,
			resilience.NewCircuitBreaker("sync-api"),
			resilience.Config{
				MaxRetries:     cfg.MaxRetries,
				InitialBackoff: cfg.InitialBackoff,
				MaxConcurrency: cfg.MaxConcurrency,
			},
			logger,
		)
	} else {
		logger.Info("using local file as state store", zap.String("state_file", cfg.StateFile))
		stateStore = store.NewFileStore(cfg.StateFile, logger)
	}

	// --- Region reward profiles ---
	regionTable := regions.Defaults()
	if cfg.RegionsFile != "" {
		regionTable, err = regions.LoadFile(cfg.RegionsFile, logger)
		if err != nil {
			logger.Fatal("failed to load regions file", zap.Error(err))
		}
	}

	// --- Duplicate-scan suppression ---
	var dedupe port.Cache[time.Time]
	if cfg.DedupeWindow > 0 {
		dedupe = cache.New[time.Time](cfg.DedupeWindow)
	}

	// --- Engine ---
	clk := clock.System{}
	svc := service.NewCollectionService(
		ledger.New(clk),
		session.NewTracker(clk),
		regionTable,
		stateStore,
		dedupe,
		clk,
		metrics,
		logger,
	)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Bootstrap(bootCtx); err != nil {
		logger.Warn("starting with empty ledger", zap.Error(err))
	}
	bootCancel()

	// --- Router ---
	router := handler.NewRouter(svc, metrics, logger, cfg.JWTSecret)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	// Last chance to make the ledger durable before exiting.
	if err := svc.Flush(ctx); err != nil {
		logger.Error("final flush failed, unsynced events will replay from last save", zap.Error(err))
	}

	logger.Info("server stopped")
}
