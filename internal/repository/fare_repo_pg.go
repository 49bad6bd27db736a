package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FareRepository interface {
	ListByAirline(ctx context.Context, airlineCode string) ([]domain.Fare, error)
	GetByID(ctx context.Context, id string) (*domain.Fare, error)
	Create(ctx context.Context, fare *domain.Fare) error
	Update(ctx context.Context, fare *domain.Fare) error
	SoftDelete(ctx context.Context, id string) error
}

type PGFareRepository struct {
	db DB
}

func NewFareRepository(db DB) FareRepository {
	return &PGFareRepository{db: db}
}

const fareSelect = `SELECT id::text, airline_code, base_price_cents, fare_name, description, status, created_at, updated_at FROM fares`

func (r *PGFareRepository) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Fare, error) {
	rows, err := r.db.Query(ctx, fareSelect+` WHERE airline_code=$1 AND status=$2 ORDER BY base_price_cents, created_at`, airlineCode, activeStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fares := make([]domain.Fare, 0)
	for rows.Next() {
		f, err := scanFare(rows)
		if err != nil {
			return nil, err
		}
		fares = append(fares, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(fares) == 0 {
		return fares, nil
	}

	ids := make([]uuid.UUID, 0, len(fares))
	for _, f := range fares {
		fid, err := uuid.Parse(f.ID)
		if err != nil {
			return nil, fmt.Errorf("fare %s: %w", f.ID, err)
		}
		ids = append(ids, fid)
	}
	restrictions, err := r.restrictionsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	return attachRestrictions(fares, restrictions), nil
}

func (r *PGFareRepository) GetByID(ctx context.Context, id string) (*domain.Fare, error) {
	fid, err := parseID(id, "fare")
	if err != nil {
		return nil, err
	}
	f, err := scanFare(r.db.QueryRow(ctx, fareSelect+` WHERE id=$1 AND status=$2`, fid, activeStatus))
	if err != nil {
		return nil, notFound(err, "fare "+id)
	}

	restrictions, err := r.restrictionsFor(ctx, []uuid.UUID{fid})
	if err != nil {
		return nil, err
	}
	f.Restrictions = restrictions
	return f, nil
}

func (r *PGFareRepository) Create(ctx context.Context, fare *domain.Fare) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	id := uuid.New()
	fare.Status = domain.StatusActive
	if err := tx.QueryRow(ctx, `INSERT INTO fares (id, airline_code, base_price_cents, fare_name, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		id, fare.AirlineCode, int64(fare.BasePrice), fare.Name, fare.Description, string(fare.Status)).
		Scan(&fare.CreatedAt, &fare.UpdatedAt); err != nil {
		return err
	}
	if err := insertRestrictions(ctx, tx, id, fare.Restrictions); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	fare.ID = id.String()
	for i := range fare.Restrictions {
		fare.Restrictions[i].FareID = fare.ID
	}
	return nil
}

// Update rewrites the fare row and replaces its whole restriction set in one transaction.
func (r *PGFareRepository) Update(ctx context.Context, fare *domain.Fare) error {
	fid, err := parseID(fare.ID, "fare")
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `UPDATE fares
		SET base_price_cents=$1, fare_name=$2, description=$3, updated_at=now()
		WHERE id=$4 AND status=$5
		RETURNING airline_code, created_at, updated_at`,
		int64(fare.BasePrice), fare.Name, fare.Description, fid, activeStatus).
		Scan(&fare.AirlineCode, &fare.CreatedAt, &fare.UpdatedAt); err != nil {
		return notFound(err, "fare "+fare.ID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM fare_restrictions WHERE fare_id=$1`, fid); err != nil {
		return err
	}
	if err := insertRestrictions(ctx, tx, fid, fare.Restrictions); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	fare.Status = domain.StatusActive
	for i := range fare.Restrictions {
		fare.Restrictions[i].FareID = fare.ID
	}
	return nil
}

func (r *PGFareRepository) SoftDelete(ctx context.Context, id string) error {
	fid, err := parseID(id, "fare")
	if err != nil {
		return err
	}
	res, err := r.db.Exec(ctx, `UPDATE fares SET status=$1, updated_at=now() WHERE id=$2 AND status=$3`,
		string(domain.StatusInactive), fid, activeStatus)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w: fare %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PGFareRepository) restrictionsFor(ctx context.Context, fareIDs []uuid.UUID) ([]domain.FareRestriction, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text, fare_id::text, restriction_type, restriction_value
		FROM fare_restrictions
		WHERE fare_id = ANY($1)
		ORDER BY fare_id, id`, fareIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restrictions := make([]domain.FareRestriction, 0)
	for rows.Next() {
		var (
			fr   domain.FareRestriction
			kind string
		)
		if err := rows.Scan(&fr.ID, &fr.FareID, &kind, &fr.Value); err != nil {
			return nil, err
		}
		fr.Kind = domain.RestrictionKind(kind)
		restrictions = append(restrictions, fr)
	}
	return restrictions, rows.Err()
}

// insertRestrictions writes the whole set with one statement inside tx.
func insertRestrictions(ctx context.Context, tx pgx.Tx, fareID uuid.UUID, restrictions []domain.FareRestriction) error {
	if len(restrictions) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(restrictions))
	kinds := make([]string, len(restrictions))
	values := make([]string, len(restrictions))
	for i, r := range restrictions {
		ids[i] = uuid.New()
		kinds[i] = string(r.Kind)
		values[i] = r.Value
	}
	if _, err := tx.Exec(ctx, `INSERT INTO fare_restrictions (id, fare_id, restriction_type, restriction_value)
		SELECT r.id, $2, r.kind, r.value
		FROM unnest($1::uuid[], $3::text[], $4::text[]) AS r(id, kind, value)`,
		ids, fareID, kinds, values); err != nil {
		return fmt.Errorf("insert fare restrictions: %w", err)
	}
	for i := range restrictions {
		restrictions[i].ID = ids[i].String()
	}
	return nil
}

// attachRestrictions distributes restrictions onto their fares. Every fare ends up
// with a non-nil slice.
func attachRestrictions(fares []domain.Fare, restrictions []domain.FareRestriction) []domain.Fare {
	byFare := make(map[string][]domain.FareRestriction, len(fares))
	for _, r := range restrictions {
		byFare[r.FareID] = append(byFare[r.FareID], r)
	}
	for i := range fares {
		rs := byFare[fares[i].ID]
		if rs == nil {
			rs = []domain.FareRestriction{}
		}
		fares[i].Restrictions = rs
	}
	return fares
}

func scanFare(row pgx.Row) (*domain.Fare, error) {
	var (
		f      domain.Fare
		cents  int64
		status string
	)
	if err := row.Scan(&f.ID, &f.AirlineCode, &cents, &f.Name, &f.Description, &status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.BasePrice = domain.Cents(cents)
	f.Status = domain.RecordStatus(status)
	return &f, nil
}

var _ FareRepository = (*PGFareRepository)(nil)
