package api

import (
	"net/http"

	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/Domenick1991/flightsearch/internal/service/auth"
	"github.com/Domenick1991/flightsearch/internal/service/catalog"
	"github.com/Domenick1991/flightsearch/internal/service/fares"
	"github.com/Domenick1991/flightsearch/internal/service/flights"
	"github.com/Domenick1991/flightsearch/internal/service/search"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Search  search.SearchUseCase
	Flights flights.FlightUseCase
	Fares   fares.FareUseCase
	Catalog catalog.CatalogUseCase
	Auth    auth.AuthUseCase
}

type RouterConfig struct {
	Logger         *zap.SugaredLogger
	Metrics        *metrics.Registry
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the gin engine with every public and session-protected route.
func NewRouter(cfg RouterConfig, svc Services) *gin.Engine {
	logger := orNop(cfg.Logger)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Metrics(cfg.Metrics), AccessLog(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/")
	searchGroup := router.Group("/", RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Metrics))
	private := router.Group("/", RequireSession(svc.Auth, logger))

	NewSearchHandler(svc.Search, logger).Register(searchGroup)
	NewFlightHandler(svc.Flights, logger).Register(public, private)
	NewFareHandler(svc.Fares, logger).Register(private)
	NewReferenceHandler(svc.Catalog, logger).Register(public, private)
	NewAuthHandler(svc.Auth, logger).Register(public, private)

	return router
}
