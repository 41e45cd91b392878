package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hexcorp/hive-ai/internal/api"
	"github.com/hexcorp/hive-ai/internal/core/service"
	"github.com/hexcorp/hive-ai/internal/infrastructure/config"
	mongodb "github.com/hexcorp/hive-ai/internal/infrastructure/db/mongo"
	redisdb "github.com/hexcorp/hive-ai/internal/infrastructure/db/redis"
	"github.com/hexcorp/hive-ai/internal/infrastructure/gateway"
	"github.com/hexcorp/hive-ai/internal/infrastructure/queue"
	"github.com/hexcorp/hive-ai/internal/scheduler"
	"github.com/hexcorp/hive-ai/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Persistence ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	orderRepo := mongodb.NewOrderRepository(db)
	storageRepo := mongodb.NewStorageRepository(db)
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("order index creation failed")
	}
	if err := storageRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("storage index creation failed")
	}

	// --- Core services ---
	gw := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Token:   cfg.Gateway.Token,
	})
	dedup := redisdb.NewNoticeDedup(rdb)

	orders := service.NewOrderService(orderRepo, gw, gateway.ParseDroneID, dedup, service.OrderConfig{
		ReportingChannel: cfg.Hive.OrdersChannel,
	}, log)
	storage := service.NewStorageService(storageRepo, gw, gateway.ParseDroneID, service.StorageConfig{
		DroneRole:       cfg.Hive.DroneRole,
		StoredRole:      cfg.Hive.StoredRole,
		ElevatedRole:    cfg.Hive.ElevatedRole,
		ProtectedRoles:  cfg.Hive.ProtectedRoles,
		ChambersChannel: cfg.Hive.ChambersChannel,
	}, log)

	// --- Message dispatch (release before store, facility channel only) ---
	router := service.NewMessageRouter(log,
		service.InChannel(cfg.Hive.FacilityChannel, service.HandlerFunc(storage.HandleRelease)),
		service.InChannel(cfg.Hive.FacilityChannel, storage),
	)
	dispatcher := queue.NewDispatcher(cfg.Hive.MessageWorkers, router, log)
	dispatcher.Start(ctx)

	// --- Background sweeps ---
	supervisor := scheduler.New(log)
	supervisor.Add(scheduler.Task{Name: "order_completion", Interval: cfg.Hive.OrderSweepInterval, Run: orders.SweepCompleted})
	supervisor.Add(scheduler.Task{Name: "storage_release", Interval: cfg.Hive.ReleaseSweepInterval, Run: storage.SweepReleases})
	supervisor.Add(scheduler.Task{Name: "storage_report", Interval: cfg.Hive.ReportInterval, Run: storage.ReportStorage})
	supervisor.Start(ctx)

	// --- HTTP surface ---
	e := api.NewRouter(api.Deps{
		Mongo:      db,
		Redis:      rdb,
		Dispatcher: dispatcher,
		Orders:     orders,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("hive automation service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("hive automation service stopped")
}
