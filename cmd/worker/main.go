package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightsearch/config"
	"github.com/Domenick1991/flightsearch/internal/audit"
	"github.com/Domenick1991/flightsearch/internal/cache"
	"github.com/Domenick1991/flightsearch/internal/kafka"
	"github.com/Domenick1991/flightsearch/internal/logging"
	"github.com/Domenick1991/flightsearch/internal/repository"
	"github.com/Domenick1991/flightsearch/internal/service/flights"
	"github.com/Domenick1991/flightsearch/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logging.Fatal("load config", "error", err)
	}
	if err := logging.Init(cfg.App.Env); err != nil {
		logging.Fatal("init logger", "error", err)
	}
	defer logging.Close()
	logger := logging.L().Named("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logging.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	redisClient := cache.NewRedisClient(cfg.Redis)
	defer redisClient.Close()
	flightCache := cache.NewRedisCache(redisClient, cfg.Search.FlightsCacheTTL())
	if err := flightCache.Ping(ctx); err != nil {
		logging.Fatal("connect redis", "error", err)
	}

	flightService := flights.NewFlightService(
		repository.NewFlightRepository(pool),
		repository.NewAirportRepository(pool),
		repository.NewAirlineRepository(pool),
		flightCache,
		flights.WithLogger(logger),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.CatalogTopic, logger)
	defer consumer.Close()

	w := worker.New(flightCache, flightService, audit.NewRecorder(logger), logger)
	logger.Infow("worker started", "topic", cfg.Kafka.CatalogTopic, "warm_interval", cfg.Worker.CacheWarmInterval().String())
	if err := w.Run(ctx, consumer, cfg.Worker.CacheWarmInterval()); err != nil {
		logging.Error("worker stopped", "error", err)
		return
	}
	logger.Infow("worker stopped")
}
