package pricing

import (
	"sync"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"go.uber.org/zap"
)

// FareBook gives the fares an airline sells. Implementations must be safe for concurrent reads.
type FareBook interface {
	Fares(airlineCode string) []domain.Fare
}

// FareBookMap is an in-memory FareBook keyed by airline code.
type FareBookMap map[string][]domain.Fare

func (m FareBookMap) Fares(airlineCode string) []domain.Fare {
	return m[airlineCode]
}

// Selector picks the cheapest applicable fare of an airline for a leg.
type Selector struct {
	book    FareBook
	logger  *zap.SugaredLogger
	onFault func(domain.Fare, error)
	faulted sync.Map
}

type SelectorOption func(*Selector)

func WithLogger(logger *zap.SugaredLogger) SelectorOption {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFaultHook registers fn to be told once per fare about malformed restrictions.
func WithFaultHook(fn func(domain.Fare, error)) SelectorOption {
	return func(s *Selector) {
		s.onFault = fn
	}
}

func NewSelector(book FareBook, opts ...SelectorOption) *Selector {
	s := &Selector{book: book, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectPrice returns the lowest base price among the airline's fares that apply
// to leg, or false when none apply. Fares with malformed restrictions are skipped.
func (s *Selector) SelectPrice(airlineCode string, leg Leg, legCount int) (domain.Cents, bool) {
	var (
		best  domain.Cents
		found bool
	)
	for _, fare := range s.book.Fares(airlineCode) {
		ok, err := FareApplies(fare, leg, legCount)
		if err != nil {
			s.reportFault(fare, err)
			continue
		}
		if !ok {
			continue
		}
		if !found || fare.BasePrice < best {
			best = fare.BasePrice
			found = true
		}
	}
	return best, found
}

func (s *Selector) reportFault(fare domain.Fare, err error) {
	if _, seen := s.faulted.LoadOrStore(fare.ID, struct{}{}); seen {
		return
	}
	s.logger.Errorw("skipping fare with malformed restriction",
		"fare_id", fare.ID,
		"airline", fare.AirlineCode,
		"fare_name", fare.Name,
		"error", err.Error(),
	)
	if s.onFault != nil {
		s.onFault(fare, err)
	}
}
