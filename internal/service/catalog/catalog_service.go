package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/permission"
	"github.com/Domenick1991/flightsearch/internal/repository"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"go.uber.org/zap"
)

type CatalogUseCase interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	GetAirport(ctx context.Context, code string) (*domain.Airport, error)
	CreateAirport(ctx context.Context, actor *domain.User, airport domain.Airport) (*domain.Airport, error)
	ListAirlines(ctx context.Context) ([]domain.Airline, error)
	GetAirline(ctx context.Context, code string) (*domain.Airline, error)
	CreateAirline(ctx context.Context, actor *domain.User, airline domain.Airline) (*domain.Airline, error)
}

// CatalogService manages airports and airlines. Both are reference data that
// only unrestricted administrators may create.
type CatalogService struct {
	airports repository.AirportRepository
	airlines repository.AirlineRepository
	logger   *zap.SugaredLogger
}

func NewCatalogService(airports repository.AirportRepository, airlines repository.AirlineRepository, logger *zap.SugaredLogger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CatalogService{airports: airports, airlines: airlines, logger: logger}
}

func (s *CatalogService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.airports.List(ctx)
}

func (s *CatalogService) GetAirport(ctx context.Context, code string) (*domain.Airport, error) {
	return s.airports.GetByCode(ctx, normalize(code))
}

func (s *CatalogService) CreateAirport(ctx context.Context, actor *domain.User, airport domain.Airport) (*domain.Airport, error) {
	if err := permission.RequireSuperAdmin(actor); err != nil {
		return nil, err
	}
	airport.Code = normalize(airport.Code)
	airport.Name = strings.TrimSpace(airport.Name)
	airport.City = strings.TrimSpace(airport.City)
	airport.Country = strings.TrimSpace(airport.Country)
	if err := validation.Struct(airport); err != nil {
		return nil, err
	}
	if !domain.IsAirportCode(airport.Code) {
		return nil, fmt.Errorf("%w: airport code must be three letters", domain.ErrValidation)
	}

	if err := s.airports.Create(ctx, &airport); err != nil {
		return nil, err
	}
	s.logger.Infow("airport created", "code", airport.Code, "actor", actor.Username)
	return &airport, nil
}

func (s *CatalogService) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	return s.airlines.List(ctx)
}

func (s *CatalogService) GetAirline(ctx context.Context, code string) (*domain.Airline, error) {
	return s.airlines.GetByCode(ctx, normalize(code))
}

func (s *CatalogService) CreateAirline(ctx context.Context, actor *domain.User, airline domain.Airline) (*domain.Airline, error) {
	if err := permission.RequireSuperAdmin(actor); err != nil {
		return nil, err
	}
	airline.Code = normalize(airline.Code)
	airline.Name = strings.TrimSpace(airline.Name)
	airline.Country = strings.TrimSpace(airline.Country)
	if err := validation.Struct(airline); err != nil {
		return nil, err
	}
	if !domain.IsAirlineCode(airline.Code) {
		return nil, fmt.Errorf("%w: airline code must be 2-3 letters or digits", domain.ErrValidation)
	}

	if err := s.airlines.Create(ctx, &airline); err != nil {
		return nil, err
	}
	s.logger.Infow("airline created", "code", airline.Code, "actor", actor.Username)
	return &airline, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var _ CatalogUseCase = (*CatalogService)(nil)
