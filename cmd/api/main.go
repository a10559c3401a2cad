package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/ordering-backend/api"
	"github.com/angelmondragon/ordering-backend/api/routes"
	"github.com/angelmondragon/ordering-backend/internal/branches"
	"github.com/angelmondragon/ordering-backend/internal/catalog"
	"github.com/angelmondragon/ordering-backend/internal/customers"
	"github.com/angelmondragon/ordering-backend/internal/delivery"
	"github.com/angelmondragon/ordering-backend/internal/intake"
	"github.com/angelmondragon/ordering-backend/internal/orders"
	"github.com/angelmondragon/ordering-backend/internal/sequence"
	"github.com/angelmondragon/ordering-backend/pkg/config"
	"github.com/angelmondragon/ordering-backend/pkg/db"
	"github.com/angelmondragon/ordering-backend/pkg/logger"
	"github.com/angelmondragon/ordering-backend/pkg/maps"
	"github.com/angelmondragon/ordering-backend/pkg/metrics"
	"github.com/angelmondragon/ordering-backend/pkg/migrate"
	"github.com/angelmondragon/ordering-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(runCtx, cfg.DB, logg)
	requireResource(runCtx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	requireResource(runCtx, logg, "dev migrations", migrate.MaybeRunDev(runCtx, cfg, logg, dbClient))

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(runCtx, cfg.Redis, logg)
		requireResource(runCtx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(runCtx, "redis not configured: idempotency and rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	intakeMetrics := metrics.NewIntakeMetrics(reg)

	var routeComputer delivery.RouteComputer
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey, maps.WithBaseURL(cfg.GoogleMaps.BaseURL))
		requireResource(runCtx, logg, "google maps", err)
		routeComputer = mapsClient
	} else {
		logg.Warn(runCtx, "google maps not configured: delivery priced by straight-line distance")
	}

	gdb := dbClient.DB()
	branchRepo := branches.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)

	catalogResolver, err := catalog.NewResolver(catalog.NewRepository(gdb), cfg.Intake.CatalogTimeout)
	requireResource(runCtx, logg, "catalog resolver", err)

	deliveryResolver, err := delivery.NewResolver(delivery.NewDistanceQuoter(routeComputer), branchRepo, cfg.Intake.DeliveryTimeout, logg, intakeMetrics)
	requireResource(runCtx, logg, "delivery resolver", err)

	var counter sequence.Counter
	if redisClient != nil {
		counter = redisClient
	}
	allocator, err := sequence.New(cfg.Intake.SequenceBackend, gdb, counter, cfg.Intake.SequenceTimeout)
	requireResource(runCtx, logg, "sequence allocator", err)

	writer, err := orders.NewWriter(ordersRepo, cfg.Intake.WriteTimeout, logg, intakeMetrics)
	requireResource(runCtx, logg, "order writer", err)

	tracker, err := orders.NewTracker(ordersRepo, cfg.Intake.BranchTimeout)
	requireResource(runCtx, logg, "order tracker", err)

	intakeService, err := intake.NewService(intake.Deps{
		Branches: branchRepo,
		Profiles: customers.NewRepository(gdb),
		Catalog:  catalogResolver,
		Delivery: deliveryResolver,
		Sequence: allocator,
		Writer:   writer,
		Logger:   logg,
		Metrics:  intakeMetrics,
		Config: intake.Config{
			Channel:        cfg.Intake.Channel,
			Location:       cfg.Intake.Location(),
			BranchTimeout:  cfg.Intake.BranchTimeout,
			ProfileTimeout: cfg.Intake.ProfileTimeout,
		},
	})
	requireResource(runCtx, logg, "intake service", err)

	server := api.NewServer(cfg, routes.NewRouter(routes.Deps{
		Config:  cfg,
		Logger:  logg,
		DB:      dbClient,
		Redis:   redisClient,
		Intake:  intakeService,
		Tracker: tracker,
		Metrics: reg,
	}))

	ctx := logg.WithFields(runCtx, map[string]any{
		"env":              cfg.App.Env,
		"addr":             server.Addr,
		"sequence_backend": cfg.Intake.SequenceBackend,
		"channel":          cfg.Intake.Channel,
	})
	logg.Info(ctx, "starting api server")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.HTTP.ShutdownTimeout > 0 {
		return cfg.HTTP.ShutdownTimeout
	}
	return 15 * time.Second
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
