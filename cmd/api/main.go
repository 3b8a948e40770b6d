package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/mnavarro-dev/storefront-backend/api/routes"
	"github.com/mnavarro-dev/storefront-backend/internal/alerts"
	"github.com/mnavarro-dev/storefront-backend/internal/cart"
	"github.com/mnavarro-dev/storefront-backend/internal/catalog"
	"github.com/mnavarro-dev/storefront-backend/internal/checkout"
	"github.com/mnavarro-dev/storefront-backend/internal/identity"
	"github.com/mnavarro-dev/storefront-backend/internal/location"
	"github.com/mnavarro-dev/storefront-backend/internal/orders"
	"github.com/mnavarro-dev/storefront-backend/internal/session"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/db"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/migrate"
	"github.com/mnavarro-dev/storefront-backend/pkg/redis"
	"github.com/mnavarro-dev/storefront-backend/pkg/upstream"
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

	var upstreamClient *upstream.Client
	if cfg.Upstream.Configured() {
		upstreamClient, err = upstream.NewClient(
			cfg.Upstream.BaseURL,
			cfg.Upstream.APIKey,
			upstream.WithTimeout(cfg.Upstream.Timeout),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to build upstream client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "no upstream configured, serving seed catalog")
	}

	alertService, err := alerts.NewService(alerts.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, alertService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	var authenticator session.Authenticator
	if upstreamClient != nil {
		authenticator = upstreamClient
	}
	sessionService, err := session.NewService(
		session.NewRepository(dbClient.DB()),
		authenticator,
		redisClient,
		cartService,
		alertService,
		cfg.JWT,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}

	var fetcher catalog.Fetcher
	if upstreamClient != nil {
		fetcher = upstreamClient
	}
	catalogService, err := catalog.NewService(fetcher, redisClient, cfg.Catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	var submitter checkout.Submitter
	if upstreamClient != nil {
		submitter = upstreamClient
	} else {
		submitter = localSubmitter{}
	}

	checkoutService, err := checkout.NewService(
		cfg.Location,
		location.NewResolverClient(cfg.Location.ResolverBaseURL, cfg.Location.ResolverAPIKey),
		cartGateway{cartService},
		submitter,
		alertService,
		orderService,
		identity.NewResolver(cfg.Telegram.DefaultChatID, logg),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Session:  sessionService,
			Catalog:  catalogService,
			Cart:     cartService,
			Checkout: checkoutService,
			Alerts:   alertService,
			Orders:   orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
