package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/api"
	"github.com/ayurbazaar/storefront/internal/cart"
	"github.com/ayurbazaar/storefront/internal/catalog"
	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/internal/events"
	"github.com/ayurbazaar/storefront/internal/pricing"
	"github.com/ayurbazaar/storefront/internal/repository"
	"github.com/ayurbazaar/storefront/internal/repository/postgres"
	"github.com/ayurbazaar/storefront/internal/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	logger := newLogger(cfg)
	defer logger.Sync()

	// Upstream catalog client and services
	client := upstream.NewClient(cfg.Upstream, logger)
	catalogService := catalog.NewService(client, logger)
	pricer := pricing.NewEngine(cfg.Pricing.TaxRate, logger)

	// Optional cart snapshot store
	var snapshots repository.CartSnapshots
	if cfg.Database.Enabled() {
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Fatal("Failed to open database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Fatal("Failed to ping database", zap.Error(err))
		}
		snapshots = postgres.NewCartSnapshotRepository(db, logger)
	}

	// Optional cart event publisher
	var sink cart.EventSink
	if cfg.Events.Enabled() {
		publisher := events.NewPublisher(cfg.Events, logger)
		defer publisher.Close()
		sink = publisher
	}

	store := cart.NewStore(cfg.Pricing.MOQ, pricer, snapshots, sink, logger)

	// Restore the persisted cart when snapshots are on. The storefront
	// serves one shopper session, so the snapshot key is fixed.
	if snapshots != nil {
		if items, err := snapshots.Load(context.Background(), "default"); err == nil {
			store.Restore("default", items)
			logger.Info("Restored cart from snapshot", zap.Int("items", len(items)))
		}
	}

	router := api.NewRouter(cfg, api.Deps{
		Catalog:    catalogService,
		Cart:       store,
		Selections: cart.NewSelectionTracker(),
		Pricer:     pricer,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}
