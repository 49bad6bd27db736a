package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightsearch/api"
	"github.com/Domenick1991/flightsearch/config"
	"github.com/Domenick1991/flightsearch/internal/bootstrap"
	"github.com/Domenick1991/flightsearch/internal/cache"
	"github.com/Domenick1991/flightsearch/internal/kafka"
	"github.com/Domenick1991/flightsearch/internal/logging"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/Domenick1991/flightsearch/internal/repository"
	"github.com/Domenick1991/flightsearch/internal/service/auth"
	"github.com/Domenick1991/flightsearch/internal/service/catalog"
	"github.com/Domenick1991/flightsearch/internal/service/events"
	"github.com/Domenick1991/flightsearch/internal/service/fares"
	"github.com/Domenick1991/flightsearch/internal/service/flights"
	"github.com/Domenick1991/flightsearch/internal/service/search"
	"github.com/Domenick1991/flightsearch/internal/session"
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
	logger := logging.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logging.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	gormDB, err := repository.OpenGorm(cfg.Database.DSN())
	if err != nil {
		logging.Fatal("connect gorm", "error", err)
	}

	redisClient := cache.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		logging.Warn("kafka unavailable, catalog events will be dropped", "error", err)
	}

	reg := metrics.NewRegistry()
	notifier := events.NewNotifier(producer, cfg.Kafka.CatalogTopic, cfg.Kafka.PublishRetry, logger, reg)

	flightRepo := repository.NewFlightRepository(pool)
	fareRepo := repository.NewFareRepository(pool)
	airportRepo := repository.NewAirportRepository(pool)
	airlineRepo := repository.NewAirlineRepository(pool)
	userRepo := repository.NewUserRepository(gormDB)

	flightService := flights.NewFlightService(
		flightRepo,
		airportRepo,
		airlineRepo,
		cache.NewRedisCache(redisClient, cfg.Search.FlightsCacheTTL()),
		flights.WithNotifier(notifier),
		flights.WithLogger(logger),
		flights.WithMetrics(reg),
	)
	fareService := fares.NewFareService(
		fareRepo,
		airlineRepo,
		cache.NewFareCache(cfg.Search.FaresCacheTTL()),
		fares.WithNotifier(notifier),
		fares.WithLogger(logger),
		fares.WithMetrics(reg),
	)
	searchService := search.NewSearchService(
		flightService,
		fareService,
		search.WithLogger(logger),
		search.WithMetrics(reg),
		search.WithFareLoadLimit(cfg.Search.FareLoadConcurrency),
	)
	authService := auth.NewAuthService(
		userRepo,
		airlineRepo,
		session.NewRedisStore(redisClient, cfg.Auth.SessionTTL()),
		cfg.Auth.BcryptCost,
		logger,
	)

	deps := bootstrap.Deps{
		Services: api.Services{
			Search:  searchService,
			Flights: flightService,
			Fares:   fareService,
			Catalog: catalog.NewCatalogService(airportRepo, airlineRepo, logger),
			Auth:    authService,
		},
		Metrics: reg,
		Logger:  logger,
	}
	if err := bootstrap.Run(ctx, cfg, deps); err != nil {
		logging.Fatal("server error", "error", err)
	}
}
