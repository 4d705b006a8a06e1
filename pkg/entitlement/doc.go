// Package entitlement decides whether a tenant operation may proceed
// under its subscription plan and per-tenant overrides.
//
// The engine resolves the effective limit for a (tenant, capability)
// pair from two layers: an operator-granted override wins when present,
// unexpired and carrying a limit value; otherwise the tenant's plan
// entitlement applies; absence of both denies by default. A negative
// limit is the unlimited sentinel.
//
// Admission checks combine the resolved limit with a live resource
// count:
//
//	resolver := entitlement.NewResolver(overrides, entitlements)
//	counters := entitlement.NewRegistry()
//	counters.Register(entitlement.KindProducts, productCounter)
//	svc := entitlement.NewService(resolver, counters)
//
//	result, err := svc.CheckLimit(ctx, orgID, entitlement.CapMaxProducts, entitlement.KindProducts)
//	if err != nil {
//	    // store failure, refuse the write and report an internal error
//	}
//	if !result.CanAdd {
//	    // surface result.Message to the user
//	}
//
// Decisions are advisory: checks do not reserve capacity, so concurrent
// callers can overshoot a limit by one. Hard ceilings belong in a
// store-level constraint around the check-then-write sequence.
package entitlement
