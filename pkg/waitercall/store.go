package waitercall

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdmissionStore persists the single last-admitted timestamp per
// subject. Admit must be atomic at the store level: a read-in-app
// then-write implementation lets two concurrent calls both observe a
// stale timestamp and both pass, breaking the one-admission-per-window
// invariant.
type AdmissionStore interface {
	// Admit records now as the subject's last admission iff at least
	// minInterval elapsed since the previous admitted call (or the
	// subject has none). On rejection the timestamp is left untouched
	// and the returned Admission carries the remaining wait.
	Admit(ctx context.Context, subjectID uuid.UUID, now time.Time, minInterval time.Duration) (Admission, error)
}

// TableStore reads tables and flips their needs-service flag.
type TableStore interface {
	// Get returns the table. Returns ErrTableNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (Table, error)

	// MarkNeedsService flags the table for staff attention.
	MarkNeedsService(ctx context.Context, id uuid.UUID) error
}

// RequestStore persists admitted waiter calls.
type RequestStore interface {
	Create(ctx context.Context, req ServiceRequest) error
}
