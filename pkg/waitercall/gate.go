package waitercall

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultMinInterval is the minimum spacing between admitted calls
// from the same table unless configured otherwise.
const DefaultMinInterval = 30 * time.Second

// Gate is a fixed-window-per-subject admission control: at most one
// admission per subject within the configured minimum interval,
// measured from the previous admitted call only. Rejected calls never
// move the window. There is no burst allowance.
type Gate struct {
	store       AdmissionStore
	minInterval time.Duration
	now         func() time.Time
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithNow injects the gate's clock.
func WithNow(now func() time.Time) GateOption {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate creates a Gate over the given store. A non-positive interval
// is rejected: a zero window would admit everything and a config typo
// should not silently disable spam protection.
func NewGate(store AdmissionStore, cfg Config, opts ...GateOption) (*Gate, error) {
	if store == nil {
		return nil, errors.New("waitercall: NewGate requires a non-nil store")
	}
	if cfg.MinInterval <= 0 {
		return nil, errors.Join(ErrInvalidInterval,
			errors.New("minimum interval must be positive"))
	}

	g := &Gate{
		store:       store,
		minInterval: cfg.MinInterval,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Admit runs one admission attempt for the subject. Rate-limited is an
// expected verdict carried in the Admission; only store failures return
// an error.
func (g *Gate) Admit(ctx context.Context, subjectID uuid.UUID) (Admission, error) {
	adm, err := g.store.Admit(ctx, subjectID, g.now().UTC(), g.minInterval)
	if err != nil {
		return Admission{}, errors.Join(ErrFailedToAdmit, err)
	}
	return adm, nil
}
