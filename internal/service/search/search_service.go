package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/Domenick1991/flightsearch/internal/pricing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SearchUseCase interface {
	Search(ctx context.Context, source, destination string, departureFloor *time.Time) (*domain.SearchResult, error)
}

// FlightSource yields the active flight set.
type FlightSource interface {
	List(ctx context.Context) ([]domain.Flight, error)
}

// FareSource yields the active fares of one airline with their restrictions.
type FareSource interface {
	ListByAirline(ctx context.Context, airlineCode string) ([]domain.Fare, error)
}

type SearchService struct {
	flights   FlightSource
	fares     FareSource
	logger    *zap.SugaredLogger
	metrics   *metrics.Registry
	loadLimit int
}

type Option func(*SearchService)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *SearchService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *SearchService) {
		s.metrics = m
	}
}

// WithFareLoadLimit caps how many airlines' fares are fetched concurrently.
func WithFareLoadLimit(n int) Option {
	return func(s *SearchService) {
		if n > 0 {
			s.loadLimit = n
		}
	}
}

func NewSearchService(flights FlightSource, fares FareSource, opts ...Option) *SearchService {
	s := &SearchService{
		flights:   flights,
		fares:     fares,
		logger:    zap.NewNop().Sugar(),
		loadLimit: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SearchService) Search(ctx context.Context, source, destination string, departureFloor *time.Time) (*domain.SearchResult, error) {
	started := time.Now()

	q, err := NewQuery(source, destination, departureFloor)
	if err != nil {
		s.observe("invalid", started, 0)
		return nil, err
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		s.observe("error", started, 0)
		return nil, fmt.Errorf("load flights: %w", err)
	}

	book, err := s.loadFares(ctx, FirstLegAirlines(flights, q))
	if err != nil {
		s.observe("error", started, 0)
		return nil, err
	}

	selector := pricing.NewSelector(book,
		pricing.WithLogger(s.logger),
		pricing.WithFaultHook(s.recordFault),
	)
	trips := Enumerate(flights, q, selector)

	s.observe("ok", started, len(trips))
	s.logger.Debugw("search completed",
		"source", q.Source,
		"destination", q.Destination,
		"results", len(trips),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return domain.NewSearchResult(trips, domain.SearchCriteria{
		SourceAirport:      q.Source,
		DestinationAirport: q.Destination,
		DepartureTime:      q.DepartureFloor,
	}), nil
}

func (s *SearchService) loadFares(ctx context.Context, airlines []string) (pricing.FareBookMap, error) {
	book := make(pricing.FareBookMap, len(airlines))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.loadLimit)
	for _, code := range airlines {
		g.Go(func() error {
			fares, err := s.fares.ListByAirline(gctx, code)
			if err != nil {
				return fmt.Errorf("load fares for %s: %w", code, err)
			}
			mu.Lock()
			book[code] = fares
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *SearchService) recordFault(fare domain.Fare, _ error) {
	if s.metrics != nil {
		s.metrics.FareFaultsTotal.WithLabelValues(fare.AirlineCode).Inc()
	}
}

func (s *SearchService) observe(outcome string, started time.Time, results int) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		s.metrics.SearchDuration.Observe(time.Since(started).Seconds())
		s.metrics.SearchResults.Observe(float64(results))
	}
}

// NewQuery normalizes airport codes to upper case and checks their shape.
func NewQuery(source, destination string, departureFloor *time.Time) (Query, error) {
	q := Query{
		Source:         strings.ToUpper(strings.TrimSpace(source)),
		Destination:    strings.ToUpper(strings.TrimSpace(destination)),
		DepartureFloor: departureFloor,
	}
	if !domain.IsAirportCode(q.Source) {
		return Query{}, fmt.Errorf("%w: sourceAirport must be a three-letter airport code", domain.ErrValidation)
	}
	if !domain.IsAirportCode(q.Destination) {
		return Query{}, fmt.Errorf("%w: destinationAirport must be a three-letter airport code", domain.ErrValidation)
	}
	return q, nil
}

// ParseDepartureTime parses an optional departure floor. Blank input means no floor.
func ParseDepartureTime(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := domain.ParseLocalDateTime(value)
	if err != nil {
		return nil, fmt.Errorf("departureTime: %w", err)
	}
	return &t, nil
}

var _ SearchUseCase = (*SearchService)(nil)
