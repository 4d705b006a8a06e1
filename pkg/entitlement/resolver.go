package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Resolver computes the effective limit for a (tenant, capability) pair.
// Precedence is a hard contract: an unexpired, limit-bearing override
// always wins over the plan entitlement; absence of both is a
// deny-by-default, not an error.
type Resolver struct {
	overrides    OverrideStore
	entitlements EntitlementStore
	now          func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverClock injects the clock used for override expiry checks.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver over the given stores. Panics if either
// store is nil: resolution without both lookups is meaningless.
func NewResolver(overrides OverrideStore, entitlements EntitlementStore, opts ...ResolverOption) *Resolver {
	if overrides == nil || entitlements == nil {
		panic("entitlement: NewResolver requires non-nil stores")
	}

	r := &Resolver{
		overrides:    overrides,
		entitlements: entitlements,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the effective limit and its provenance.
//
// Lookup order:
//  1. Override for (org, capability), unexpired and carrying a limit value.
//     An expired or nil-limit override falls through as if absent.
//  2. The tenant's plan entitlement for capability.
//  3. Neither present: {Limit: 0, Unlimited: false, Source: none}.
//
// Store failures propagate as errors and are never coerced into a
// decision.
func (r *Resolver) Resolve(ctx context.Context, orgID uuid.UUID, capability Capability) (Resolution, error) {
	ov, err := r.overrides.Find(ctx, orgID, capability)
	switch {
	case err == nil:
		if ov.Active(r.now()) {
			return Resolution{
				Limit:     *ov.Limit,
				Unlimited: *ov.Limit < 0,
				Source:    SourceOverride,
			}, nil
		}
		// Inert override (expired or carrying no limit): fall through to plan.
	case errors.Is(err, ErrOverrideNotFound):
		// No override, fall through to plan.
	default:
		return Resolution{}, errors.Join(ErrFailedToResolveLimit, err)
	}

	ent, err := r.entitlements.Find(ctx, orgID, capability)
	switch {
	case err == nil:
		return Resolution{
			Limit:     ent.Limit,
			Unlimited: ent.Limit < 0,
			Source:    SourcePlan,
			PlanName:  ent.PlanName,
		}, nil
	case errors.Is(err, ErrEntitlementNotFound):
		return Resolution{Limit: 0, Unlimited: false, Source: SourceNone}, nil
	default:
		return Resolution{}, errors.Join(ErrFailedToResolveLimit, err)
	}
}
