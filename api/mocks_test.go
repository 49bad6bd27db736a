package api

import (
	"context"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/service/auth"
	"github.com/Domenick1991/flightsearch/internal/service/fares"
	"github.com/Domenick1991/flightsearch/internal/service/flights"
	"github.com/stretchr/testify/mock"
)

type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Search(ctx context.Context, source, destination string, departureFloor *time.Time) (*domain.SearchResult, error) {
	args := m.Called(ctx, source, destination, departureFloor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error) {
	args := m.Called(ctx, airlineCode)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, actor *domain.User, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, actor *domain.User, id string, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, actor *domain.User, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockFareUseCase struct {
	mock.Mock
}

func (m *MockFareUseCase) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Fare, error) {
	args := m.Called(ctx, airlineCode)
	return args.Get(0).([]domain.Fare), args.Error(1)
}

func (m *MockFareUseCase) GetByID(ctx context.Context, id string) (*domain.Fare, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fare), args.Error(1)
}

func (m *MockFareUseCase) Create(ctx context.Context, actor *domain.User, input fares.FareInput) (*domain.Fare, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fare), args.Error(1)
}

func (m *MockFareUseCase) Update(ctx context.Context, actor *domain.User, id string, input fares.FareInput) (*domain.Fare, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fare), args.Error(1)
}

func (m *MockFareUseCase) Delete(ctx context.Context, actor *domain.User, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockCatalogUseCase) GetAirport(ctx context.Context, code string) (*domain.Airport, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockCatalogUseCase) CreateAirport(ctx context.Context, actor *domain.User, airport domain.Airport) (*domain.Airport, error) {
	args := m.Called(ctx, actor, airport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockCatalogUseCase) ListAirlines(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockCatalogUseCase) GetAirline(ctx context.Context, code string) (*domain.Airline, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockCatalogUseCase) CreateAirline(ctx context.Context, actor *domain.User, airline domain.Airline) (*domain.Airline, error) {
	args := m.Called(ctx, actor, airline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, usernameOrEmail, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, usernameOrEmail, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthUseCase) Authenticate(ctx context.Context, sessionID string) (*domain.User, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthUseCase) Register(ctx context.Context, actor *domain.User, input auth.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
