package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/kafka"
	"github.com/Domenick1991/flightsearch/internal/service/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) ListActive(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error) {
	args := m.Called(ctx, airlineCode)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	if args.Error(0) == nil {
		flight.ID = "new-flight"
		flight.Status = domain.StatusActive
	}
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAirportRepository struct {
	mock.Mock
}

func (m *MockAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	return m.Called(ctx, airport).Error(0)
}

type MockAirlineRepository struct {
	mock.Mock
}

func (m *MockAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) GetByCode(ctx context.Context, code string) (*domain.Airline, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	return m.Called(ctx, airline).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	return m.Called(ctx, topic, key, payload, maxRetries).Error(0)
}

type fixture struct {
	repo     *MockFlightRepository
	airports *MockAirportRepository
	airlines *MockAirlineRepository
	cache    *MockCache
	producer *MockProducer
	service  *FlightService
}

var fixedNow = time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repo:     &MockFlightRepository{},
		airports: &MockAirportRepository{},
		airlines: &MockAirlineRepository{},
		cache:    &MockCache{},
		producer: &MockProducer{},
	}
	f.service = NewFlightService(f.repo, f.airports, f.airlines, f.cache,
		WithNotifier(events.NewNotifier(f.producer, "catalog-events", 1, nil, nil)),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func (f *fixture) referencesExist(airports []string, airlines []string) {
	for _, code := range airports {
		f.airports.On("GetByCode", mock.Anything, code).Return(&domain.Airport{Code: code}, nil)
	}
	for _, code := range airlines {
		f.airlines.On("GetByCode", mock.Anything, code).Return(&domain.Airline{Code: code}, nil)
	}
}

var (
	superAdmin = &domain.User{ID: "u-root", Username: "root", Role: domain.RoleAdmin}
	aaAdmin    = &domain.User{ID: "u-aa", Username: "aa-admin", Role: domain.RoleAdmin, AssignedAirlineCode: "AA"}
	customer   = &domain.User{ID: "u-joe", Username: "joe", Role: domain.RoleUser}
)

func validInput() FlightInput {
	return FlightInput{
		FlightNumber:           "AA100",
		SourceAirportCode:      "bos",
		DestinationAirportCode: "LAX",
		DepartureTime:          "2030-03-20T08:00:00",
		ArrivalTime:            "2030-03-20T14:00:00",
		AirlineCodes:           []string{"aa"},
	}
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flights := []domain.Flight{{ID: "f1", SourceCode: "SVO", DestinationCode: "LED", AirlineCodes: []string{"SU"}}}

	f.cache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), nil).Once()
	f.repo.On("ListActive", ctx).Return(flights, nil).Once()
	f.cache.On("SetFlights", ctx, flights).Return(nil).Once()

	result, err := f.service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	f.cache.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flights := []domain.Flight{{ID: "f1", SourceCode: "SVO", DestinationCode: "LED", AirlineCodes: []string{"SU"}}}
	f.cache.On("GetFlights", ctx).Return(flights, nil).Once()

	result, err := f.service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	f.repo.AssertNotCalled(t, "ListActive", mock.Anything)
}

func TestFlightService_List_CacheErrorFallsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flights := []domain.Flight{{ID: "f1"}}
	f.cache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), errors.New("redis down")).Once()
	f.repo.On("ListActive", ctx).Return(flights, nil).Once()
	f.cache.On("SetFlights", ctx, flights).Return(errors.New("redis down")).Once()

	result, err := f.service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
}

func TestFlightService_List_RepoError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.cache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), nil).Once()
	f.repo.On("ListActive", ctx).Return(([]domain.Flight)(nil), errors.New("db error")).Once()

	_, err := f.service.List(ctx)
	assert.Error(t, err)
	f.cache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything)
}

func TestFlightService_RefreshCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flights := []domain.Flight{{ID: "f1"}, {ID: "f2"}}
	f.repo.On("ListActive", ctx).Return(flights, nil).Once()
	f.cache.On("SetFlights", ctx, flights).Return(nil).Once()

	n, err := f.service.RefreshCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFlightService_Create_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.referencesExist([]string{"BOS", "LAX"}, []string{"AA"})

	f.repo.On("Create", ctx, mock.MatchedBy(func(fl *domain.Flight) bool {
		return fl.SourceCode == "BOS" && fl.DestinationCode == "LAX" && len(fl.AirlineCodes) == 1 && fl.AirlineCodes[0] == "AA"
	})).Return(nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, "catalog-events", "new-flight", mock.MatchedBy(func(e kafka.CatalogEvent) bool {
		return e.Type == kafka.FlightCreated && e.ActorID == "u-aa"
	}), 1).Return(nil).Once()

	flight, err := f.service.Create(ctx, aaAdmin, validInput())

	require.NoError(t, err)
	assert.Equal(t, "new-flight", flight.ID)
	assert.Equal(t, 6*time.Hour, flight.Duration())
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestFlightService_Create_PermissionDeniedBeforeAnyWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	input := validInput()
	input.AirlineCodes = []string{"AA", "UA"}

	_, err := f.service.Create(ctx, aaAdmin, input)

	assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.airports.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestFlightService_Create_NonAdminDenied(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), customer, validInput())
	assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
}

func TestFlightService_Create_Validation(t *testing.T) {
	cases := map[string]func(*FlightInput){
		"no airlines":        func(in *FlightInput) { in.AirlineCodes = nil },
		"arrival too early":  func(in *FlightInput) { in.ArrivalTime = in.DepartureTime },
		"same airports":      func(in *FlightInput) { in.DestinationAirportCode = "BOS" },
		"missing number":     func(in *FlightInput) { in.FlightNumber = " " },
		"long number":        func(in *FlightInput) { in.FlightNumber = "AA123456789" },
		"bad departure time": func(in *FlightInput) { in.DepartureTime = "soon" },
		"departure in past":  func(in *FlightInput) { in.DepartureTime = "2030-02-01T08:00:00" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			input := validInput()
			mutate(&input)

			_, err := f.service.Create(context.Background(), superAdmin, input)

			assert.True(t, errors.Is(err, domain.ErrValidation), err)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestFlightService_Create_UnknownAirportIsValidationFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.airports.On("GetByCode", mock.Anything, "BOS").Return(nil, domain.ErrNotFound).Once()

	_, err := f.service.Create(ctx, superAdmin, validInput())

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_Update_ChecksExistingAndRequestedAirlines(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	existing := &domain.Flight{ID: "f1", AirlineCodes: []string{"UA"}}
	f.repo.On("GetByID", ctx, "f1").Return(existing, nil).Once()

	_, err := f.service.Update(ctx, aaAdmin, "f1", validInput())

	assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFlightService_Update_AllowsPastDeparture(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.referencesExist([]string{"BOS", "LAX"}, []string{"AA"})

	existing := &domain.Flight{ID: "f1", AirlineCodes: []string{"AA"}}
	f.repo.On("GetByID", ctx, "f1").Return(existing, nil).Once()
	f.repo.On("Update", ctx, mock.MatchedBy(func(fl *domain.Flight) bool { return fl.ID == "f1" })).Return(nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(errors.New("redis down")).Once()
	f.producer.On("PublishWithRetry", ctx, "catalog-events", "f1", mock.Anything, 1).Return(errors.New("kafka down")).Once()

	input := validInput()
	input.DepartureTime = "2030-02-01T08:00:00"
	input.ArrivalTime = "2030-02-01T10:00:00"

	flight, err := f.service.Update(ctx, aaAdmin, "f1", input)

	require.NoError(t, err)
	assert.Equal(t, "f1", flight.ID)
	f.repo.AssertExpectations(t)
}

func TestFlightService_Update_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

	_, err := f.service.Update(ctx, superAdmin, "missing", validInput())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFlightService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	existing := &domain.Flight{ID: "f1", AirlineCodes: []string{"AA", "BA"}}
	f.repo.On("GetByID", ctx, "f1").Return(existing, nil)

	err := f.service.Delete(ctx, aaAdmin, "f1")
	assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	f.repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)

	f.repo.On("SoftDelete", ctx, "f1").Return(nil).Once()
	f.cache.On("InvalidateFlights", ctx).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, "catalog-events", "f1", mock.Anything, 1).Return(nil).Once()

	require.NoError(t, f.service.Delete(ctx, superAdmin, "f1"))
	f.repo.AssertExpectations(t)
}

func TestFlightService_ListByAirline_Normalizes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("ListByAirline", ctx, "AA").Return([]domain.Flight{{ID: "f1"}}, nil).Once()

	got, err := f.service.ListByAirline(ctx, " aa ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
