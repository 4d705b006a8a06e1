package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGOverrideStore reads capability overrides from Postgres.
type PGOverrideStore struct {
	pool *pgxpool.Pool
}

// NewPGOverrideStore creates a Postgres-backed OverrideStore.
func NewPGOverrideStore(pool *pgxpool.Pool) *PGOverrideStore {
	return &PGOverrideStore{pool: pool}
}

func (s *PGOverrideStore) Find(ctx context.Context, orgID uuid.UUID, capability Capability) (Override, error) {
	const query = `
		SELECT organization_id, capability, limit_value, expires_at
		FROM capability_overrides
		WHERE organization_id = $1 AND capability = $2`

	var ov Override
	err := s.pool.QueryRow(ctx, query, orgID, string(capability)).
		Scan(&ov.OrgID, &ov.Capability, &ov.Limit, &ov.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Override{}, ErrOverrideNotFound
		}
		return Override{}, err
	}
	return ov, nil
}

// PGEntitlementStore reads the tenant's plan entitlements from the
// org_plan_entitlements view. The view resolves each org to its single
// active plan; when a store ever carries more than one assignment, the
// view picks the most recent one, keeping the one-active-plan invariant
// at the query boundary.
type PGEntitlementStore struct {
	pool *pgxpool.Pool
}

// NewPGEntitlementStore creates a Postgres-backed EntitlementStore.
func NewPGEntitlementStore(pool *pgxpool.Pool) *PGEntitlementStore {
	return &PGEntitlementStore{pool: pool}
}

func (s *PGEntitlementStore) Find(ctx context.Context, orgID uuid.UUID, capability Capability) (PlanEntitlement, error) {
	const query = `
		SELECT organization_id, capability, limit_value, plan_name, feature_type
		FROM org_plan_entitlements
		WHERE organization_id = $1 AND capability = $2`

	var ent PlanEntitlement
	err := s.pool.QueryRow(ctx, query, orgID, string(capability)).
		Scan(&ent.OrgID, &ent.Capability, &ent.Limit, &ent.PlanName, &ent.FeatureType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlanEntitlement{}, ErrEntitlementNotFound
		}
		return PlanEntitlement{}, err
	}
	return ent, nil
}

func (s *PGEntitlementStore) List(ctx context.Context, orgID uuid.UUID) ([]PlanEntitlement, error) {
	const query = `
		SELECT organization_id, capability, limit_value, plan_name, feature_type
		FROM org_plan_entitlements
		WHERE organization_id = $1
		ORDER BY capability`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ents []PlanEntitlement
	for rows.Next() {
		var ent PlanEntitlement
		if err := rows.Scan(&ent.OrgID, &ent.Capability, &ent.Limit, &ent.PlanName, &ent.FeatureType); err != nil {
			return nil, err
		}
		ents = append(ents, ent)
	}
	return ents, rows.Err()
}

// countableTables maps resource kinds to the tables that hold them.
// Identifiers are compile-time constants, never caller input.
var countableTables = map[ResourceKind]string{
	KindCategories: "menu_categories",
	KindProducts:   "products",
	KindTables:     "restaurant_tables",
	KindMenus:      "menus",
	KindLanguages:  "menu_languages",
}

// NewPGCounter returns a CounterFunc counting live rows of the given
// kind by organization. Count failures propagate; an empty table is a
// legitimate zero, a failed query is not.
func NewPGCounter(pool *pgxpool.Pool, kind ResourceKind) (CounterFunc, error) {
	table, ok := countableTables[kind]
	if !ok {
		return nil, fmt.Errorf("entitlement: no table mapped for resource kind %q", kind)
	}

	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE organization_id = $1`, table)
	return func(ctx context.Context, orgID uuid.UUID) (int64, error) {
		var n int64
		if err := pool.QueryRow(ctx, query, orgID).Scan(&n); err != nil {
			return 0, err
		}
		return n, nil
	}, nil
}

// RegisterPGCounters registers a Postgres counter for every countable
// resource kind on the given registry.
func RegisterPGCounters(reg CounterRegistry, pool *pgxpool.Pool) error {
	for kind := range countableTables {
		counter, err := NewPGCounter(pool, kind)
		if err != nil {
			return err
		}
		reg.Register(kind, counter)
	}
	return nil
}
