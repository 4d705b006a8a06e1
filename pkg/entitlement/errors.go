package entitlement

import "errors"

// Domain errors for entitlement operations
var (
	// Store lookup misses (legitimate terminal states, handled internally)
	ErrOverrideNotFound    = errors.New("entitlement.errors.override_not_found")
	ErrEntitlementNotFound = errors.New("entitlement.errors.entitlement_not_found")

	// Input validation errors (rejected before any store access)
	ErrInvalidBulkCount    = errors.New("entitlement.errors.invalid_bulk_count")
	ErrUnknownCapability   = errors.New("entitlement.errors.unknown_capability")
	ErrNoCounterRegistered = errors.New("entitlement.errors.no_counter_registered")

	// System errors (store failures, never coerced into a decision)
	ErrFailedToResolveLimit       = errors.New("entitlement.errors.failed_to_resolve_limit")
	ErrFailedToCountResourceUsage = errors.New("entitlement.errors.failed_to_count_resource_usage")
	ErrFailedToListEntitlements   = errors.New("entitlement.errors.failed_to_list_entitlements")

	// Catalog errors
	ErrInvalidPlanCatalog = errors.New("entitlement.errors.invalid_plan_catalog")
	ErrPlanNotFound       = errors.New("entitlement.errors.plan_not_found")
)
