package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightsearch/api"
	"github.com/Domenick1991/flightsearch/config"
	searchapi "github.com/Domenick1991/flightsearch/internal/api/search_service_api"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const swaggerSpecURL = "/swagger/flightsearch.swagger.json"

type Deps struct {
	Services api.Services
	Metrics  *metrics.Registry
	Logger   *zap.SugaredLogger
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	s, err := newServers(cfg, deps)
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Infow("gRPC server listening", "address", cfg.GRPC.Address)
		return s.grpcServer.Serve(lis)
	})
	g.Go(func() error {
		deps.Logger.Infow("HTTP server listening", "address", cfg.HTTP.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Infow("shutting down servers")
		s.health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newServers(cfg *config.Config, deps Deps) (*Servers, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryLogger(deps.Logger)))
	searchSrv := searchapi.NewServer(deps.Services.Search, deps.Logger)
	searchapi.RegisterSearchServiceServer(grpcSrv, searchSrv)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(searchapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	engine := api.NewRouter(api.RouterConfig{
		Logger:         deps.Logger,
		Metrics:        deps.Metrics,
		RateLimitRPS:   cfg.Search.RateLimitRPS,
		RateLimitBurst: cfg.Search.RateLimitBurst,
	}, deps.Services)

	handler, err := newHTTPHandler(cfg.HTTP, deps.Metrics, searchSrv, engine, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("build http handler: %w", err)
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: healthSrv,
	}, nil
}

// newHTTPHandler serves the gin API behind a gateway mux that also carries
// metrics scraping, the swagger UI and the REST view of SearchFlights.
func newHTTPHandler(cfg config.HTTPConfig, reg *metrics.Registry, search searchapi.SearchServiceServer, app http.Handler, logger *zap.SugaredLogger) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	mux := newGatewayMux(logger)
	if err := mountApp(mux, app); err != nil {
		return nil, fmt.Errorf("mount api: %w", err)
	}
	if err := mux.HandlePath(http.MethodPost, gatewaySearchPath, gatewaySearch(mux, search)); err != nil {
		return nil, fmt.Errorf("register gateway search: %w", err)
	}

	if reg != nil {
		metricsHandler := reg.Handler()
		if err := mux.HandlePath(http.MethodGet, "/metrics", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
			metricsHandler.ServeHTTP(w, r)
		}); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	if cfg.SwaggerDir != "" {
		files := http.StripPrefix("/swagger/", http.FileServer(http.Dir(cfg.SwaggerDir)))
		if err := mux.HandlePath(http.MethodGet, "/swagger/{file}", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
			files.ServeHTTP(w, r)
		}); err != nil {
			return nil, fmt.Errorf("register swagger files: %w", err)
		}
		ui := httpSwagger.Handler(httpSwagger.URL(swaggerSpecURL))
		if err := mux.HandlePath(http.MethodGet, "/docs/**", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
			ui.ServeHTTP(w, r)
		}); err != nil {
			return nil, fmt.Errorf("register swagger ui: %w", err)
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", api.SessionHeader, api.RequestIDHeader},
		ExposedHeaders: []string{api.SessionHeader, api.RequestIDHeader},
		MaxAge:         300,
	})(mux), nil
}

func unaryLogger(logger *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Infow("gRPC request completed",
			"method", info.FullMethod,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return resp, err
	}
}
