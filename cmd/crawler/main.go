// Command crawler runs a single crawl against one supplier portal and
// prints the reconciled catalog records.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lumby98/web-bot/internal/adapter"
	"github.com/Lumby98/web-bot/internal/browser"
	"github.com/Lumby98/web-bot/internal/config"
	"github.com/Lumby98/web-bot/internal/crawler"
	"github.com/Lumby98/web-bot/internal/database"
	"github.com/Lumby98/web-bot/internal/ratelimit"
	"github.com/Lumby98/web-bot/internal/reconcile"
)

func main() {
	var (
		supplier = flag.String("supplier", "", "Supplier id to crawl (see -list)")
		username = flag.String("username", os.Getenv("CRAWL_USERNAME"), "Portal username")
		password = flag.String("password", os.Getenv("CRAWL_PASSWORD"), "Portal password")
		headless = flag.Bool("headless", true, "Run browser in headless mode")
		list     = flag.Bool("list", false, "List registered suppliers and exit")
	)
	flag.Parse()

	registry := adapter.DefaultRegistry()
	if *list {
		for _, id := range registry.IDs() {
			fmt.Println(id)
		}
		return
	}
	if *supplier == "" || *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: crawler -supplier <id> -username <user> -password <pass>")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

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

	b, err := browser.New(&browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
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

	reconciler := reconcile.NewReconciler(database.NewCatalogStore(db), logger)
	limiter := ratelimit.NewJitteredLimiter(cfg.Crawler.DelayMin, cfg.Crawler.DelayMax)
	sessions := crawler.SessionFactory(func(ctx context.Context) (crawler.Page, error) {
		return b.NewSession(ctx)
	})
	service := crawler.NewService(sessions, registry, reconciler, limiter,
		crawler.RetryPolicy{Attempts: cfg.Crawler.RetryAttempts, Backoff: cfg.Crawler.RetryBackoff},
		logger)

	reconciled, err := service.Run(ctx, *supplier, *username, *password)
	if err != nil {
		logger.Error("crawl failed", "supplier", *supplier,
			"kind", crawler.KindOf(err), "error", err)
		os.Exit(1)
	}

	for _, rec := range reconciled {
		fmt.Printf("%-8s %-20s %-40s %s\n", rec.Op, rec.Brand, rec.ArticleName, rec.ArticleNumber)
	}
	logger.Info("crawl finished", "supplier", *supplier, "records", len(reconciled))
}
