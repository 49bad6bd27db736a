package flights

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/kafka"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/Domenick1991/flightsearch/internal/permission"
	"github.com/Domenick1991/flightsearch/internal/repository"
	"github.com/Domenick1991/flightsearch/internal/service/events"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error)
	Create(ctx context.Context, actor *domain.User, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, actor *domain.User, id string, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

// FlightInput is the writable part of a flight. Times are local date-times.
type FlightInput struct {
	FlightNumber           string   `json:"flightNumber" binding:"required,max=10"`
	SourceAirportCode      string   `json:"sourceAirportCode" binding:"required,len=3"`
	DestinationAirportCode string   `json:"destinationAirportCode" binding:"required,len=3"`
	DepartureTime          string   `json:"departureTime" binding:"required"`
	ArrivalTime            string   `json:"arrivalTime" binding:"required"`
	AirlineCodes           []string `json:"airlineCodes" binding:"required,min=1,dive,min=2,max=3"`
}

type FlightService struct {
	repo     repository.FlightRepository
	airports repository.AirportRepository
	airlines repository.AirlineRepository
	cache    FlightCache
	notifier *events.Notifier
	logger   *zap.SugaredLogger
	metrics  *metrics.Registry
	now      func() time.Time
}

type Option func(*FlightService)

func WithNotifier(n *events.Notifier) Option {
	return func(s *FlightService) {
		s.notifier = n
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *FlightService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *FlightService) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(
	repo repository.FlightRepository,
	airports repository.AirportRepository,
	airlines repository.AirlineRepository,
	cache FlightCache,
	opts ...Option,
) *FlightService {
	s := &FlightService{
		repo:     repo,
		airports: airports,
		airlines: airlines,
		cache:    cache,
		logger:   zap.NewNop().Sugar(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every active flight, served from the shared cache when warm.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.logger.Warnw("flight cache read failed", "error", err)
		} else if cached != nil {
			s.metrics.CacheHit("flights")
			return cached, nil
		}
		s.metrics.CacheMiss("flights")
	}

	flights, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.logger.Warnw("flight cache write failed", "error", err)
		}
	}
	return flights, nil
}

// RefreshCache reloads the active flight set into the cache and reports its size.
func (s *FlightService) RefreshCache(ctx context.Context) (int, error) {
	flights, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	if s.cache == nil {
		return len(flights), nil
	}
	if err := s.cache.SetFlights(ctx, flights); err != nil {
		return 0, err
	}
	return len(flights), nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error) {
	return s.repo.ListByAirline(ctx, strings.ToUpper(strings.TrimSpace(airlineCode)))
}

func (s *FlightService) Create(ctx context.Context, actor *domain.User, input FlightInput) (*domain.Flight, error) {
	flight, err := s.buildFlight(input)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAirlines(actor, flight.AirlineCodes...); err != nil {
		return nil, err
	}
	if !flight.DepartureTime.After(domain.WallClock(s.now())) {
		return nil, fmt.Errorf("%w: departure time must be in the future", domain.ErrValidation)
	}
	if err := s.checkReferences(ctx, flight); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, kafka.FlightCreated, flight.ID, actor, flight.AirlineCodes)
	return flight, nil
}

// Update replaces the flight's schedule, route and airline set. The actor must
// manage both the current and the requested airlines.
func (s *FlightService) Update(ctx context.Context, actor *domain.User, id string, input FlightInput) (*domain.Flight, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	flight, err := s.buildFlight(input)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAirlines(actor, union(existing.AirlineCodes, flight.AirlineCodes)...); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, flight); err != nil {
		return nil, err
	}

	flight.ID = existing.ID
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, kafka.FlightUpdated, flight.ID, actor, union(existing.AirlineCodes, flight.AirlineCodes))
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, actor *domain.User, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := permission.RequireAirlines(actor, existing.AirlineCodes...); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, existing.ID); err != nil {
		return err
	}
	s.afterWrite(ctx, kafka.FlightDeleted, existing.ID, actor, existing.AirlineCodes)
	return nil
}

func (s *FlightService) buildFlight(input FlightInput) (*domain.Flight, error) {
	input.AirlineCodes = normalizeCodes(input.AirlineCodes)
	input.FlightNumber = strings.TrimSpace(input.FlightNumber)
	input.SourceAirportCode = strings.ToUpper(strings.TrimSpace(input.SourceAirportCode))
	input.DestinationAirportCode = strings.ToUpper(strings.TrimSpace(input.DestinationAirportCode))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	codes, number := input.AirlineCodes, input.FlightNumber
	src, dst := input.SourceAirportCode, input.DestinationAirportCode
	if src == dst {
		return nil, fmt.Errorf("%w: source and destination airports must differ", domain.ErrValidation)
	}

	dep, err := domain.ParseLocalDateTime(input.DepartureTime)
	if err != nil {
		return nil, fmt.Errorf("departureTime: %w", err)
	}
	arr, err := domain.ParseLocalDateTime(input.ArrivalTime)
	if err != nil {
		return nil, fmt.Errorf("arrivalTime: %w", err)
	}
	if !arr.After(dep) {
		return nil, fmt.Errorf("%w: arrival time must be after departure time", domain.ErrValidation)
	}

	return &domain.Flight{
		FlightNumber:    number,
		SourceCode:      src,
		DestinationCode: dst,
		DepartureTime:   dep,
		ArrivalTime:     arr,
		AirlineCodes:    codes,
	}, nil
}

// checkReferences requires every airport and airline of the flight to exist and be active.
func (s *FlightService) checkReferences(ctx context.Context, f *domain.Flight) error {
	for _, code := range []string{f.SourceCode, f.DestinationCode} {
		if _, err := s.airports.GetByCode(ctx, code); err != nil {
			return referenceError(err)
		}
	}
	for _, code := range f.AirlineCodes {
		if _, err := s.airlines.GetByCode(ctx, code); err != nil {
			return referenceError(err)
		}
	}
	return nil
}

func (s *FlightService) afterWrite(ctx context.Context, eventType kafka.EventType, id string, actor *domain.User, codes []string) {
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			s.logger.Warnw("flight cache invalidation failed", "error", err)
		}
	}
	s.logger.Infow("flight changed", "event", string(eventType), "flight_id", id, "actor", actor.Username)
	s.notifier.Notify(ctx, eventType, id, actor.ID, codes)
}

// referenceError turns a missing referenced record into a validation failure of the request.
func referenceError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return err
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func union(a, b []string) []string {
	return normalizeCodes(append(slices.Clone(a), b...))
}

var _ FlightUseCase = (*FlightService)(nil)
