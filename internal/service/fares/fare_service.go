package fares

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/kafka"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/Domenick1991/flightsearch/internal/permission"
	"github.com/Domenick1991/flightsearch/internal/pricing"
	"github.com/Domenick1991/flightsearch/internal/repository"
	"github.com/Domenick1991/flightsearch/internal/service/events"
	"github.com/Domenick1991/flightsearch/internal/validation"
	"go.uber.org/zap"
)

type FareUseCase interface {
	ListByAirline(ctx context.Context, airlineCode string) ([]domain.Fare, error)
	GetByID(ctx context.Context, id string) (*domain.Fare, error)
	Create(ctx context.Context, actor *domain.User, input FareInput) (*domain.Fare, error)
	Update(ctx context.Context, actor *domain.User, id string, input FareInput) (*domain.Fare, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

type FareCache interface {
	Get(airlineCode string) ([]domain.Fare, bool)
	Set(airlineCode string, fares []domain.Fare)
	Invalidate(airlineCode string)
}

type RestrictionInput struct {
	Kind  domain.RestrictionKind `json:"restrictionType" binding:"required"`
	Value string                 `json:"restrictionValue" binding:"required,max=50"`
}

type FareInput struct {
	AirlineCode  string             `json:"airlineCode" binding:"omitempty,min=2,max=3"`
	BasePrice    domain.Cents       `json:"basePrice" binding:"gt=0"`
	Name         string             `json:"fareName" binding:"required,max=100"`
	Description  string             `json:"description" binding:"max=500"`
	Restrictions []RestrictionInput `json:"restrictions" binding:"dive"`
}

type FareService struct {
	repo     repository.FareRepository
	airlines repository.AirlineRepository
	cache    FareCache
	notifier *events.Notifier
	logger   *zap.SugaredLogger
	metrics  *metrics.Registry
}

type Option func(*FareService)

func WithNotifier(n *events.Notifier) Option {
	return func(s *FareService) {
		s.notifier = n
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *FareService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *FareService) {
		s.metrics = m
	}
}

func NewFareService(repo repository.FareRepository, airlines repository.AirlineRepository, cache FareCache, opts ...Option) *FareService {
	s := &FareService{
		repo:     repo,
		airlines: airlines,
		cache:    cache,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListByAirline returns the airline's active fares with restrictions, cached in process.
func (s *FareService) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Fare, error) {
	code := strings.ToUpper(strings.TrimSpace(airlineCode))
	if s.cache != nil {
		if fares, ok := s.cache.Get(code); ok {
			s.metrics.CacheHit("fares")
			return fares, nil
		}
		s.metrics.CacheMiss("fares")
	}

	fares, err := s.repo.ListByAirline(ctx, code)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(code, fares)
	}
	return fares, nil
}

func (s *FareService) GetByID(ctx context.Context, id string) (*domain.Fare, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FareService) Create(ctx context.Context, actor *domain.User, input FareInput) (*domain.Fare, error) {
	code := strings.ToUpper(strings.TrimSpace(input.AirlineCode))
	if code == "" {
		return nil, fmt.Errorf("%w: airline code is required", domain.ErrValidation)
	}
	if err := permission.RequireAirlines(actor, code); err != nil {
		return nil, err
	}
	fare, err := buildFare(code, input)
	if err != nil {
		return nil, err
	}
	if _, err := s.airlines.GetByCode(ctx, code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, fare); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, kafka.FareCreated, fare, actor)
	return fare, nil
}

// Update rewrites a fare and replaces its restriction set wholesale. The owning
// airline cannot change.
func (s *FareService) Update(ctx context.Context, actor *domain.User, id string, input FareInput) (*domain.Fare, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAirlines(actor, existing.AirlineCode); err != nil {
		return nil, err
	}
	if code := strings.ToUpper(strings.TrimSpace(input.AirlineCode)); code != "" && code != existing.AirlineCode {
		return nil, fmt.Errorf("%w: a fare cannot move to another airline", domain.ErrValidation)
	}
	fare, err := buildFare(existing.AirlineCode, input)
	if err != nil {
		return nil, err
	}

	fare.ID = existing.ID
	if err := s.repo.Update(ctx, fare); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, kafka.FareUpdated, fare, actor)
	return fare, nil
}

func (s *FareService) Delete(ctx context.Context, actor *domain.User, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := permission.RequireAirlines(actor, existing.AirlineCode); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, existing.ID); err != nil {
		return err
	}
	s.afterWrite(ctx, kafka.FareDeleted, existing, actor)
	return nil
}

func (s *FareService) afterWrite(ctx context.Context, eventType kafka.EventType, fare *domain.Fare, actor *domain.User) {
	if s.cache != nil {
		s.cache.Invalidate(fare.AirlineCode)
	}
	s.logger.Infow("fare changed", "event", string(eventType), "fare_id", fare.ID, "airline", fare.AirlineCode, "actor", actor.Username)
	s.notifier.Notify(ctx, eventType, fare.ID, actor.ID, []string{fare.AirlineCode})
}

func buildFare(airlineCode string, input FareInput) (*domain.Fare, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	normalized := make([]RestrictionInput, len(input.Restrictions))
	for i, in := range input.Restrictions {
		normalized[i] = RestrictionInput{
			Kind:  domain.RestrictionKind(strings.ToUpper(strings.TrimSpace(string(in.Kind)))),
			Value: strings.TrimSpace(in.Value),
		}
	}
	input.Restrictions = normalized
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	restrictions := make([]domain.FareRestriction, 0, len(input.Restrictions))
	for _, in := range input.Restrictions {
		r := domain.FareRestriction{Kind: in.Kind, Value: in.Value}
		if r.Kind == domain.RestrictionEndpoint {
			r.Value = strings.ToUpper(r.Value)
		}
		if err := pricing.ValidateRestriction(r); err != nil {
			return nil, err
		}
		restrictions = append(restrictions, r)
	}

	return &domain.Fare{
		AirlineCode:  airlineCode,
		BasePrice:    input.BasePrice,
		Name:         input.Name,
		Description:  input.Description,
		Restrictions: restrictions,
	}, nil
}

var _ FareUseCase = (*FareService)(nil)
