package waitercall

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGAdmissionStore implements the gate's compare-and-set on the
// restaurant_tables row. The admission condition is evaluated inside a
// single conditional UPDATE, so the database serializes concurrent
// attempts for the same table: at most one of them matches the WHERE
// clause within a window.
type PGAdmissionStore struct {
	pool *pgxpool.Pool
}

// NewPGAdmissionStore creates a Postgres-backed AdmissionStore.
func NewPGAdmissionStore(pool *pgxpool.Pool) *PGAdmissionStore {
	return &PGAdmissionStore{pool: pool}
}

func (s *PGAdmissionStore) Admit(ctx context.Context, subjectID uuid.UUID, now time.Time, minInterval time.Duration) (Admission, error) {
	const update = `
		UPDATE restaurant_tables
		SET last_called_at = $2
		WHERE id = $1
		  AND (last_called_at IS NULL OR last_called_at <= $3)`

	threshold := now.Add(-minInterval)
	tag, err := s.pool.Exec(ctx, update, subjectID, now, threshold)
	if err != nil {
		return Admission{}, err
	}
	if tag.RowsAffected() > 0 {
		return Admission{Admitted: true}, nil
	}

	// Lost the window. Read the winning timestamp to compute the wait;
	// it may have moved again since the UPDATE, which only lengthens
	// the reported wait, never shortens it below the true one.
	const read = `SELECT last_called_at FROM restaurant_tables WHERE id = $1`

	var last *time.Time
	if err := s.pool.QueryRow(ctx, read, subjectID).Scan(&last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admission{}, ErrTableNotFound
		}
		return Admission{}, err
	}
	if last == nil {
		// Row exists with no timestamp yet the UPDATE matched nothing:
		// a concurrent admit won and committed between our statements.
		return Admission{Admitted: false, RetryAfter: minInterval}, nil
	}

	retryAfter := minInterval - now.Sub(*last)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return Admission{Admitted: false, RetryAfter: retryAfter}, nil
}

// PGTableStore reads and updates restaurant tables.
type PGTableStore struct {
	pool *pgxpool.Pool
}

// NewPGTableStore creates a Postgres-backed TableStore.
func NewPGTableStore(pool *pgxpool.Pool) *PGTableStore {
	return &PGTableStore{pool: pool}
}

func (s *PGTableStore) Get(ctx context.Context, id uuid.UUID) (Table, error) {
	const query = `
		SELECT id, organization_id, label, is_active, needs_service, last_called_at
		FROM restaurant_tables
		WHERE id = $1`

	var t Table
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.OrgID, &t.Label, &t.Active, &t.NeedsService, &t.LastCalledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Table{}, ErrTableNotFound
		}
		return Table{}, err
	}
	return t, nil
}

func (s *PGTableStore) MarkNeedsService(ctx context.Context, id uuid.UUID) error {
	const update = `UPDATE restaurant_tables SET needs_service = TRUE WHERE id = $1`

	tag, err := s.pool.Exec(ctx, update, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTableNotFound
	}
	return nil
}

// PGRequestStore persists waiter calls.
type PGRequestStore struct {
	pool *pgxpool.Pool
}

// NewPGRequestStore creates a Postgres-backed RequestStore.
func NewPGRequestStore(pool *pgxpool.Pool) *PGRequestStore {
	return &PGRequestStore{pool: pool}
}

func (s *PGRequestStore) Create(ctx context.Context, req ServiceRequest) error {
	const insert = `
		INSERT INTO service_requests (id, table_id, organization_id, requested_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, insert, req.ID, req.TableID, req.OrgID, req.RequestedAt)
	return err
}
