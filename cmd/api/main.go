package main

import (
	"context"
	"net/http"
	"os"

	"github.com/codecollab/casevault-backend/api/routes"
	"github.com/codecollab/casevault-backend/internal/catalog"
	"github.com/codecollab/casevault-backend/internal/game"
	"github.com/codecollab/casevault-backend/internal/inventory"
	"github.com/codecollab/casevault-backend/internal/profiles"
	"github.com/codecollab/casevault-backend/pkg/config"
	"github.com/codecollab/casevault-backend/pkg/db"
	"github.com/codecollab/casevault-backend/pkg/logger"
	"github.com/codecollab/casevault-backend/pkg/metrics"
	"github.com/codecollab/casevault-backend/pkg/migrate"
	"github.com/codecollab/casevault-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
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
	gameMetrics := metrics.NewGameMetrics(registry)

	profileRepo := profiles.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())

	gameService, err := game.NewService(game.ServiceParams{
		ProfileRepo:          profileRepo,
		CatalogRepo:          catalogRepo,
		InventoryRepo:        inventoryRepo,
		Tx:                   dbClient,
		Metrics:              gameMetrics,
		Logger:               logg,
		StartingBalanceCents: cfg.Game.StartingBalanceCents,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create game service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(profileRepo, cfg.Game.StartingBalanceCents)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
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
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Registry:     registry,
			GameSvc:      gameService,
			CatalogSvc:   catalogService,
			InventorySvc: inventoryService,
			ProfileSvc:   profileService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
