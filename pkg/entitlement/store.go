package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// OverrideStore reads tenant-scoped limit overrides. Overrides are
// written by operator tooling outside this package; the engine only
// consumes them.
type OverrideStore interface {
	// Find returns the override for the given (org, capability) pair.
	// Returns ErrOverrideNotFound if none exists. Implementations may
	// return expired or nil-limit rows; the resolver filters them.
	Find(ctx context.Context, orgID uuid.UUID, capability Capability) (Override, error)
}

// EntitlementStore reads the tenant's plan-derived capability limits.
// Each (org, capability) pair resolves to at most one row through the
// tenant's single active plan.
type EntitlementStore interface {
	// Find returns the plan entitlement for the given (org, capability)
	// pair. Returns ErrEntitlementNotFound if the tenant has no active
	// plan or the plan does not carry the capability.
	Find(ctx context.Context, orgID uuid.UUID, capability Capability) (PlanEntitlement, error)

	// List returns all plan entitlements of the tenant's active plan,
	// both limit and boolean typed. Returns an empty slice for a tenant
	// with no active plan.
	List(ctx context.Context, orgID uuid.UUID) ([]PlanEntitlement, error)
}
