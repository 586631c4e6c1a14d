package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"luuno-orchestrator/internal/api"
	"luuno-orchestrator/internal/common/config"
	"luuno-orchestrator/internal/common/database"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/common/observability"
	"luuno-orchestrator/internal/orchestrator"
	"luuno-orchestrator/internal/orchestrator/gateway"
	"luuno-orchestrator/internal/orchestrator/recommendation"
	"luuno-orchestrator/internal/orchestrator/status"
	"luuno-orchestrator/internal/orchestrator/synthetic"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting orchestrator server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("ollamaURL", cfg.Backend.OllamaURL),
	)

	var obs *observability.Observability
	if cfg.Metrics.Enabled {
		obs = observability.New(cfg.Metrics.ServiceName)
		defer obs.Shutdown()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Model gateway and status ---
	gw := gateway.NewGateway(gateway.ConfigFromBackend(cfg.Backend), log)

	var checker status.Checker = gw
	if cfg.Cache.Redis.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Cache.Redis)
			if err != nil {
				return err
			}
			pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
			defer pingCancel()
			return redis.Ping(pingCtx)
		}, 5, time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, status cache disabled", zap.Error(err))
			if redis != nil {
				_ = redis.Close()
			}
		} else {
			defer redis.Close()
			checker = status.NewCachedChecker(gw, redis, cfg.Cache.Redis.KeyPrefix,
				config.GetDuration(cfg.Cache.Redis.TTL), log)
			zapLog.Info("Redis status cache enabled", zap.String("address", cfg.Cache.Redis.Address))
		}
	}

	monitor := status.NewMonitor(&status.Config{
		RefreshInterval: cfg.Status.RefreshIntervalDuration(),
		Timeout:         config.GetDuration(cfg.Status.Timeout),
	}, checker, log)

	// --- Recommendation engine ---
	gen := synthetic.NewTimeSeeded()
	engine, err := recommendation.NewEngine(&recommendation.Config{
		RegistryPath: cfg.Recommendation.RegistryPath,
	}, gen, log)
	if err != nil {
		zapLog.Fatal("recommendation engine init failed", zap.Error(err))
	}
	if cfg.Recommendation.WatchRegistry && cfg.Recommendation.RegistryPath != "" {
		if _, err := engine.WatchRegistry(ctx); err != nil {
			zapLog.Warn("template registry watch disabled", zap.Error(err))
		} else {
			zapLog.Info("Watching template registry", zap.String("path", cfg.Recommendation.RegistryPath))
		}
	}

	orch := orchestrator.New(&orchestrator.Config{}, orchestrator.Dependencies{
		Gateway:   gw,
		Status:    monitor,
		Reports:   engine,
		Synthetic: gen,
		Telemetry: obs,
	}, log)
	orch.Start(ctx)

	handler, err := api.NewHandler(orch, log)
	if err != nil {
		zapLog.Fatal("api handler init failed", zap.Error(err))
	}

	// --- HTTP server ---
	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		s := orch.CurrentStatus()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":           "ready",
			"backendAvailable": s.BackendAvailable,
			"time":             time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("HTTP server failed", zap.Error(err))
			cancel()
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	orch.Stop()

	zapLog.Info("Orchestrator server stopped gracefully")
}
