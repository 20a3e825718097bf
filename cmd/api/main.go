package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ecocycle/ecocycle-backend/api/routes"
	"github.com/ecocycle/ecocycle-backend/internal/cart"
	"github.com/ecocycle/ecocycle-backend/internal/catalog"
	checkoutsvc "github.com/ecocycle/ecocycle-backend/internal/checkout"
	"github.com/ecocycle/ecocycle-backend/internal/orders"
	"github.com/ecocycle/ecocycle-backend/internal/sellers"
	"github.com/ecocycle/ecocycle-backend/internal/session"
	"github.com/ecocycle/ecocycle-backend/internal/settlement"
	"github.com/ecocycle/ecocycle-backend/internal/watchlist"
	"github.com/ecocycle/ecocycle-backend/pkg/config"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	kv, err := storage.Open(ctx, cfg.Storage, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to open storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(registry)

	taxRate, err := cfg.Cart.Rate()
	if err != nil {
		logg.Error(ctx, "invalid tax rate", err)
		os.Exit(1)
	}

	sessionService, err := session.NewService(ctx, session.ServiceParams{
		KV:      kv,
		Logger:  logg,
		Metrics: storeMetrics,
		Latency: cfg.Session.LoginLatency,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(ctx, cart.ServiceParams{
		KV:      kv,
		Logger:  logg,
		Metrics: storeMetrics,
		TaxRate: taxRate,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	watchlistService, err := watchlist.NewService(ctx, watchlist.ServiceParams{
		KV:      kv,
		Logger:  logg,
		Metrics: storeMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create watchlist service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(ctx, catalog.ServiceParams{
		KV:      kv,
		Logger:  logg,
		Metrics: storeMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ctx, orders.ServiceParams{
		KV:      kv,
		Logger:  logg,
		Metrics: storeMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create order service", err)
		os.Exit(1)
	}

	sellerService, err := sellers.NewService(ctx, sellers.ServiceParams{
		KV:      kv,
		Logger:  logg,
		Metrics: storeMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create seller profile service", err)
		os.Exit(1)
	}

	settler := settlement.NewSimulator(settlement.SimulatorParams{
		Logger:      logg,
		Delay:       cfg.Payment.SettleDelay,
		FailureRate: cfg.Payment.FailureRate,
	})

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Cart:    cartService,
		Orders:  ordersService,
		Settler: settler,
		Logger:  logg,
		Metrics: storeMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.Storage.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			kv,
			registry,
			sessionService,
			cartService,
			watchlistService,
			catalogService,
			checkoutService,
			ordersService,
			sellerService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
