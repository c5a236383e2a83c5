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

	"github.com/redis/go-redis/v9"

	"github.com/Lumby98/web-bot/internal/adapter"
	"github.com/Lumby98/web-bot/internal/api"
	"github.com/Lumby98/web-bot/internal/browser"
	"github.com/Lumby98/web-bot/internal/config"
	"github.com/Lumby98/web-bot/internal/crawler"
	"github.com/Lumby98/web-bot/internal/database"
	"github.com/Lumby98/web-bot/internal/events"
	"github.com/Lumby98/web-bot/internal/jobs"
	"github.com/Lumby98/web-bot/internal/queue"
	"github.com/Lumby98/web-bot/internal/ratelimit"
	"github.com/Lumby98/web-bot/internal/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		Database:    cfg.Database.Name,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    1,
		MaxConnLife: 5 * time.Minute,
		MaxConnIdle: 1 * time.Minute,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		Locale:         cfg.Browser.Locale,
		TimezoneID:     cfg.Browser.TimezoneID,
	})
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	relay := database.NewRelay(db, redisClient, logger, database.RelayConfig{})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("relay stopped with error", "error", err)
		}
	}()

	registry := adapter.DefaultRegistry()
	catalog := database.NewCatalogStore(db)
	reconciler := reconcile.NewReconciler(catalog, logger)
	limiter := ratelimit.NewJitteredLimiter(cfg.Crawler.DelayMin, cfg.Crawler.DelayMax)

	sessions := crawler.SessionFactory(func(ctx context.Context) (crawler.Page, error) {
		return b.NewSession(ctx)
	})
	crawlerService := crawler.NewService(sessions, registry, reconciler, limiter,
		crawler.RetryPolicy{Attempts: cfg.Crawler.RetryAttempts, Backoff: cfg.Crawler.RetryBackoff},
		logger)

	publisher := events.NewPublisher(db, logger)
	taskQueue := queue.NewInMemoryQueue(cfg.Crawler.QueueSize)
	defer taskQueue.Close()

	jobManager := jobs.NewManager(db, crawlerService, publisher, taskQueue, logger)
	go jobManager.StartWorker(ctx)

	handlers := api.NewHandlers(jobManager, catalog, registry, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handlers, relay),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Server.Port, "suppliers", registry.IDs())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
