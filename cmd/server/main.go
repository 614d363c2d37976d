package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/user/workspace-engine/internal/adapter/api"
	"github.com/user/workspace-engine/internal/adapter/api/middleware"
	"github.com/user/workspace-engine/internal/adapter/fixture"
	"github.com/user/workspace-engine/internal/adapter/metrics"
	"github.com/user/workspace-engine/internal/adapter/repository/postgres"
	"github.com/user/workspace-engine/internal/adapter/repository/rediscache"
	"github.com/user/workspace-engine/internal/domain"
	"github.com/user/workspace-engine/internal/pkg/config"
	"github.com/user/workspace-engine/internal/pkg/logger"
	"github.com/user/workspace-engine/internal/rules"
	"github.com/user/workspace-engine/internal/usecase"

	_ "github.com/lib/pq" // postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewEngineMetrics()

	// --- Start Admin and Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection Pool ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open postgres pool", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to reach postgres", "error", err)
		os.Exit(1)
	}

	// --- Tenant Directory (with optional Redis cache) ---
	var defaultTenantID *uuid.UUID
	if cfg.DefaultTenantID != "" {
		id, err := uuid.Parse(cfg.DefaultTenantID)
		if err != nil {
			logger.Error("invalid DEFAULT_TENANT_ID", "error", err)
			os.Exit(1)
		}
		defaultTenantID = &id
	}

	var directory domain.TenantDirectory = postgres.NewTenantDirectory(db, defaultTenantID, logger)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, tenant cache degraded to passthrough", "error", err)
		}
		directory = rediscache.NewTenantDirectory(redisClient, directory, cfg.TenantCacheTTL, logger, m)
	}

	// --- Scoped Connection Provider ---
	provider := postgres.NewConnProvider(db, directory, cfg.AcquireTimeout, logger, m)

	// --- Rule Registry ---
	demo := fixture.Demo()
	registry := rules.NewRegistry()
	if err := rules.RegisterBuiltin(registry, demo.CompanyIDs()); err != nil {
		logger.Error("failed to register rules", "error", err)
		os.Exit(1)
	}
	logger.Info("rules registered", "rules", registry.Names())

	// --- Use Cases ---
	locks := usecase.NewTenantLocks()
	evaluateUseCase := usecase.NewEvaluateUseCase(directory, provider, registry, locks, logger, m)
	resetUseCase := usecase.NewResetUseCase(directory, provider, postgres.NewLifecycleStore(demo, logger), locks, logger, m)

	// --- HTTP Server ---
	router := api.NewRouter(cfg, logger, evaluateUseCase, resetUseCase)
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.Logging(logger)(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		logger.Info("starting engine server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("engine server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("engine server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
