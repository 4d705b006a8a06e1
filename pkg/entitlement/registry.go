package entitlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CounterFunc returns the current live count of a tenant resource.
// Counts are evaluated fresh on every admission check; do any caching
// at the repository level, not here.
type CounterFunc func(ctx context.Context, orgID uuid.UUID) (int64, error)

// CounterRegistry maps a ResourceKind to its CounterFunc.
// Not thread-safe: register all counters at startup only.
type CounterRegistry map[ResourceKind]CounterFunc

// NewRegistry returns a new, empty CounterRegistry.
func NewRegistry() CounterRegistry {
	return make(CounterRegistry)
}

// Register sets or replaces the CounterFunc for the given kind. Panics if fn is nil.
func (r CounterRegistry) Register(kind ResourceKind, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("entitlement: CounterFunc for resource kind %q cannot be nil", kind))
	}
	r[kind] = fn
}
