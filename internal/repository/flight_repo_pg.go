package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	ListActive(ctx context.Context) ([]domain.Flight, error)
	ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	SoftDelete(ctx context.Context, id string) error
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightSelect = `SELECT f.id::text, f.flight_number, f.source_airport_code, f.destination_airport_code,
	f.departure_time, f.arrival_time, f.status, f.created_at, f.updated_at,
	COALESCE(array_agg(fa.airline_code ORDER BY fa.airline_code) FILTER (WHERE fa.airline_code IS NOT NULL), '{}')
	FROM flights f
	LEFT JOIN flight_airlines fa ON fa.flight_id = f.id`

func (r *PGFlightRepository) ListActive(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, flightSelect+`
		WHERE f.status = $1
		GROUP BY f.id
		ORDER BY f.departure_time, f.id`, activeStatus)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

func (r *PGFlightRepository) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, flightSelect+`
		WHERE f.status = $1
		  AND EXISTS (SELECT 1 FROM flight_airlines x WHERE x.flight_id = f.id AND x.airline_code = $2)
		GROUP BY f.id
		ORDER BY f.departure_time, f.id`, activeStatus, airlineCode)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	fid, err := parseID(id, "flight")
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, flightSelect+`
		WHERE f.id = $1 AND f.status = $2
		GROUP BY f.id`, fid, activeStatus)
	f, err := scanFlight(row)
	if err != nil {
		return nil, notFound(err, "flight "+id)
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	id := uuid.New()
	flight.Status = domain.StatusActive
	if err := tx.QueryRow(ctx, `INSERT INTO flights (id, flight_number, source_airport_code, destination_airport_code, departure_time, arrival_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		id, flight.FlightNumber, flight.SourceCode, flight.DestinationCode, flight.DepartureTime, flight.ArrivalTime, string(flight.Status)).
		Scan(&flight.CreatedAt, &flight.UpdatedAt); err != nil {
		return err
	}
	if err := insertFlightAirlines(ctx, tx, id, flight.AirlineCodes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	flight.ID = id.String()
	slices.Sort(flight.AirlineCodes)
	return nil
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	fid, err := parseID(flight.ID, "flight")
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `UPDATE flights
		SET flight_number=$1, source_airport_code=$2, destination_airport_code=$3, departure_time=$4, arrival_time=$5, updated_at=now()
		WHERE id=$6 AND status=$7
		RETURNING created_at, updated_at`,
		flight.FlightNumber, flight.SourceCode, flight.DestinationCode, flight.DepartureTime, flight.ArrivalTime, fid, activeStatus).
		Scan(&flight.CreatedAt, &flight.UpdatedAt); err != nil {
		return notFound(err, "flight "+flight.ID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flight_airlines WHERE flight_id=$1`, fid); err != nil {
		return err
	}
	if err := insertFlightAirlines(ctx, tx, fid, flight.AirlineCodes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	flight.Status = domain.StatusActive
	slices.Sort(flight.AirlineCodes)
	return nil
}

func (r *PGFlightRepository) SoftDelete(ctx context.Context, id string) error {
	fid, err := parseID(id, "flight")
	if err != nil {
		return err
	}
	res, err := r.db.Exec(ctx, `UPDATE flights SET status=$1, updated_at=now() WHERE id=$2 AND status=$3`,
		string(domain.StatusInactive), fid, activeStatus)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w: flight %s", domain.ErrNotFound, id)
	}
	return nil
}

// insertFlightAirlines writes the whole airline set with one statement inside tx.
func insertFlightAirlines(ctx context.Context, tx pgx.Tx, flightID uuid.UUID, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, `INSERT INTO flight_airlines (flight_id, airline_code)
		SELECT $1, code FROM unnest($2::text[]) AS code
		ON CONFLICT DO NOTHING`, flightID, codes); err != nil {
		return fmt.Errorf("insert flight airlines: %w", err)
	}
	return nil
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		f      domain.Flight
		status string
	)
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.SourceCode, &f.DestinationCode,
		&f.DepartureTime, &f.ArrivalTime, &status, &f.CreatedAt, &f.UpdatedAt, &f.AirlineCodes); err != nil {
		return nil, err
	}
	f.Status = domain.RecordStatus(status)
	f.DepartureTime = domain.WallClock(f.DepartureTime)
	f.ArrivalTime = domain.WallClock(f.ArrivalTime)
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
