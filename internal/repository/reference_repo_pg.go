package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type AirportRepository interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
	Create(ctx context.Context, airport *domain.Airport) error
}

type AirlineRepository interface {
	List(ctx context.Context) ([]domain.Airline, error)
	GetByCode(ctx context.Context, code string) (*domain.Airline, error)
	Create(ctx context.Context, airline *domain.Airline) error
}

type PGAirportRepository struct {
	db DB
}

func NewAirportRepository(db DB) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name, city, country, status FROM airports WHERE status=$1 ORDER BY code`, activeStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var (
			a      domain.Airport
			status string
		)
		if err := rows.Scan(&a.Code, &a.Name, &a.City, &a.Country, &status); err != nil {
			return nil, err
		}
		a.Status = domain.RecordStatus(status)
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	var (
		a      domain.Airport
		status string
	)
	err := r.db.QueryRow(ctx, `SELECT code, name, city, country, status FROM airports WHERE code=$1 AND status=$2`, code, activeStatus).
		Scan(&a.Code, &a.Name, &a.City, &a.Country, &status)
	if err != nil {
		return nil, notFound(err, "airport "+code)
	}
	a.Status = domain.RecordStatus(status)
	return &a, nil
}

func (r *PGAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	airport.Status = domain.StatusActive
	_, err := r.db.Exec(ctx, `INSERT INTO airports (code, name, city, country, status) VALUES ($1, $2, $3, $4, $5)`,
		airport.Code, airport.Name, airport.City, airport.Country, string(airport.Status))
	return duplicate(err, "airport "+airport.Code)
}

type PGAirlineRepository struct {
	db DB
}

func NewAirlineRepository(db DB) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

func (r *PGAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name, country, status FROM airlines WHERE status=$1 ORDER BY code`, activeStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var (
			a      domain.Airline
			status string
		)
		if err := rows.Scan(&a.Code, &a.Name, &a.Country, &status); err != nil {
			return nil, err
		}
		a.Status = domain.RecordStatus(status)
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) GetByCode(ctx context.Context, code string) (*domain.Airline, error) {
	var (
		a      domain.Airline
		status string
	)
	err := r.db.QueryRow(ctx, `SELECT code, name, country, status FROM airlines WHERE code=$1 AND status=$2`, code, activeStatus).
		Scan(&a.Code, &a.Name, &a.Country, &status)
	if err != nil {
		return nil, notFound(err, "airline "+code)
	}
	a.Status = domain.RecordStatus(status)
	return &a, nil
}

func (r *PGAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	airline.Status = domain.StatusActive
	_, err := r.db.Exec(ctx, `INSERT INTO airlines (code, name, country, status) VALUES ($1, $2, $3, $4)`,
		airline.Code, airline.Name, airline.Country, string(airline.Status))
	return duplicate(err, "airline "+airline.Code)
}

func duplicate(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s already exists", domain.ErrValidation, what)
	}
	return err
}

var (
	_ AirportRepository = (*PGAirportRepository)(nil)
	_ AirlineRepository = (*PGAirlineRepository)(nil)
)
