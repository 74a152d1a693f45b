package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopdeskhq/shopdesk/internal/adapter/handler"
	"github.com/shopdeskhq/shopdesk/internal/adapter/storage"
	"github.com/shopdeskhq/shopdesk/internal/config"
	"github.com/shopdeskhq/shopdesk/internal/core/service"
	"github.com/shopdeskhq/shopdesk/internal/outbox"
	"github.com/shopdeskhq/shopdesk/internal/scheduler"
	"github.com/shopdeskhq/shopdesk/pkg/logger"
)

func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping mysql", zap.Error(err))
	}
	log.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	log.Info("connected to redis")

	// Adapters
	store := storage.NewMySQLAdapter(db)
	idempotency := storage.NewRedisAdapter(rdb, cfg.Redis.IdempotencyTTL)

	// Services
	saleService := service.NewSaleService(store, idempotency,
		log.Named("sales"), cfg.Sale.TxTimeout, cfg.Sale.MaxRetries)
	notificationService := service.NewNotificationService(store, log.Named("notifications"))
	inventoryService := service.NewInventoryService(store, log.Named("inventory"))
	analyticsService := service.NewAnalyticsService(store)
	authService := service.NewAuthService(store, store,
		log.Named("auth"), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Outbox dispatcher delivers staged sale notifications post-commit.
	dispatcher := outbox.NewDispatcher(store, log.Named("outbox"),
		cfg.Outbox.PollInterval, cfg.Outbox.BatchSize)
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(ctx)
	}()

	// Scheduled jobs
	jobs := scheduler.New(store, store, store, log.Named("scheduler"),
		cfg.LowStock.Threshold, cfg.LowStock.CronSchedule)
	if err := jobs.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	// HTTP server
	router := handler.NewRouter(handler.Services{
		Auth:          authService,
		Sales:         saleService,
		Inventory:     inventoryService,
		Notifications: notificationService,
		Analytics:     analyticsService,
	})
	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	log.Info("http server stopped")

	jobs.Stop()

	cancel()
	<-dispatcherDone

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
