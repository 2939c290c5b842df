package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/westwooddairy/storefront-backend/api/routes"
	cartsvc "github.com/westwooddairy/storefront-backend/internal/cart"
	checkoutsvc "github.com/westwooddairy/storefront-backend/internal/checkout"
	"github.com/westwooddairy/storefront-backend/internal/orders"
	"github.com/westwooddairy/storefront-backend/internal/payments"
	"github.com/westwooddairy/storefront-backend/internal/products"
	paystackwebhook "github.com/westwooddairy/storefront-backend/internal/webhooks/paystack"
	"github.com/westwooddairy/storefront-backend/pkg/config"
	"github.com/westwooddairy/storefront-backend/pkg/db"
	"github.com/westwooddairy/storefront-backend/pkg/instance"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
	"github.com/westwooddairy/storefront-backend/pkg/metrics"
	"github.com/westwooddairy/storefront-backend/pkg/migrate"
	"github.com/westwooddairy/storefront-backend/pkg/paystack"
	"github.com/westwooddairy/storefront-backend/pkg/redis"
	"github.com/westwooddairy/storefront-backend/pkg/supabase"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	productService, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartStorage, err := cartsvc.NewRedisStorage(redisClient, cfg.Cart.StorageKey)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart storage", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(cartStorage)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(productService)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	// Order bookkeeping is best effort: without Supabase credentials the
	// store stays nil and payments still go through.
	orderStore := orders.NewSupabaseStore(supabase.NewClient(cfg.Supabase))
	if orderStore == nil {
		logg.Warn(context.Background(), "supabase not configured, order bookkeeping disabled")
	}

	var paystackClient *paystack.Client
	var paymentService payments.Service
	if cfg.Paystack.Configured() {
		opts := []paystack.Option{}
		if cfg.Paystack.BaseURL != "" {
			opts = append(opts, paystack.WithBaseURL(cfg.Paystack.BaseURL))
		}
		paystackClient, err = paystack.NewClient(cfg.Paystack.SecretKey, opts...)
		if err != nil {
			logg.Error(context.Background(), "failed to create paystack client", err)
			os.Exit(1)
		}
		paymentService, err = payments.NewService(paystackClient, orderStore, logg, storefrontMetrics, cfg.Paystack.CallbackURL)
		if err != nil {
			logg.Error(context.Background(), "failed to create payment service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "paystack not configured, payment routes disabled")
	}

	webhookGuard, err := paystackwebhook.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL, paystackwebhook.GuardScope)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}
	webhookService, err := paystackwebhook.NewService(paystackwebhook.ServiceParams{
		Store:   orderStore,
		Guard:   webhookGuard,
		Logger:  logg,
		Metrics: storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			productService,
			cartService,
			checkoutService,
			paymentService,
			paystackClient,
			webhookService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
