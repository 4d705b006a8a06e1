package waitercall

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Table is the rate-limit subject: a physical restaurant table guests
// call a waiter from. LastCalledAt moves only on admitted calls.
type Table struct {
	ID           uuid.UUID
	OrgID        uuid.UUID
	Label        string
	Active       bool
	NeedsService bool
	LastCalledAt *time.Time
}

// ServiceRequest is one admitted waiter call.
type ServiceRequest struct {
	ID          uuid.UUID
	TableID     uuid.UUID
	OrgID       uuid.UUID
	RequestedAt time.Time
}

// Admission is the gate's verdict for a single call attempt.
type Admission struct {
	Admitted   bool
	RetryAfter time.Duration // zero when admitted
}

// RetryAfterSeconds returns the wait rounded up to whole seconds, the
// unit surfaced to guests and in the Retry-After header.
func (a Admission) RetryAfterSeconds() int {
	if a.Admitted || a.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(a.RetryAfter.Seconds()))
}

// Outcome classifies the result of a waiter-call attempt. Rejections
// here are expected outcomes, not errors.
type Outcome string

const (
	OutcomeAdmitted      Outcome = "admitted"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeTableInactive Outcome = "table_inactive"
)

// CallResult is the structured outcome of Service.Call.
//
// StatusMarked reports whether the table's needs-service flag was set
// after the request was created. The request itself is the primary
// effect; marking the table is best-effort, so a false StatusMarked
// with OutcomeAdmitted means "request created, table status uncertain".
type CallResult struct {
	Outcome      Outcome
	RetryAfter   time.Duration // set only for OutcomeRateLimited
	RequestID    uuid.UUID     // set only for OutcomeAdmitted
	StatusMarked bool
}

// Config holds the gate's tunables.
type Config struct {
	// MinInterval is the minimum time between two admitted calls from
	// the same table.
	MinInterval time.Duration `env:"WAITER_CALL_MIN_INTERVAL" envDefault:"30s"`
}
