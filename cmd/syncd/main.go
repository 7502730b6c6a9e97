package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"feed-syncer/internal/core/config"
	"feed-syncer/internal/core/locker"
	"feed-syncer/internal/core/logger"
	"feed-syncer/internal/core/server"
	"feed-syncer/internal/features/sync/adapters"
	"feed-syncer/internal/features/sync/runner"
	"feed-syncer/internal/features/sync/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		l.Fatal("Database unreachable", zap.Error(err))
	}
	l.Info("Database connection verified")

	// Run lock
	lock, err := locker.New(cfg.RedisURL, time.Duration(cfg.Sync.LockTTLSeconds)*time.Second)
	if err != nil {
		l.Fatal("Failed to create run locker", zap.Error(err))
	}
	defer lock.Close()
	if err := lock.Ping(ctx); err != nil {
		l.Fatal("Redis unreachable", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Marketplace API
	marketplace, err := adapters.NewMarketplaceAdapter(cfg.Marketplace)
	if err != nil {
		l.Fatal("Failed to create marketplace adapter", zap.Error(err))
	}
	if err := marketplace.HealthCheck(ctx); err != nil {
		l.Fatal("Marketplace health check failed", zap.Error(err))
	}
	l.Info("Marketplace connection verified")

	// Sync service
	syncService := service.NewSyncService(
		marketplace,
		adapters.NewStoreConfigAdapter(cfg.Sync),
		adapters.NewPgOrderRepository(pool),
		adapters.NewPgTicketRepository(pool),
		adapters.NewPgLogRepository(pool),
		adapters.NewPgTrackCollector(pool),
	)

	stores := adapters.NewPgStoreRepository(pool)

	srv := server.New(cfg, map[string]server.HealthCheck{
		"database":    pool.Ping,
		"redis":       lock.Ping,
		"marketplace": marketplace.HealthCheck,
	})

	go func() {
		if err := srv.Run(); err != nil {
			l.Error("Ops server stopped", zap.Error(err))
		}
	}()

	r := runner.New(stores, lock, syncService, time.Duration(cfg.Sync.IntervalSeconds)*time.Second)
	r.Run(ctx)

	if err := srv.Shutdown(); err != nil {
		l.Error("Ops server shutdown failed", zap.Error(err))
	}
	l.Info("Application stopped")
}
