package waitercall

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service runs the public waiter-call flow: validate the table, pass
// the gate, create the request, then flag the table for staff.
type Service struct {
	tables   TableStore
	requests RequestStore
	gate     *Gate
	log      *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for best-effort failures.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithServiceNow injects the service's clock.
func WithServiceNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a waiter-call Service. Panics on nil dependencies.
func NewService(tables TableStore, requests RequestStore, gate *Gate, opts ...ServiceOption) *Service {
	if tables == nil || requests == nil || gate == nil {
		panic("waitercall: NewService requires tables, requests and a gate")
	}

	s := &Service{
		tables:   tables,
		requests: requests,
		gate:     gate,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Call handles one waiter-call attempt for the table.
//
// An unknown table is an error (the public endpoint turns it into a
// 404); an inactive table and a rate-limited call are expected
// outcomes carried in the result. The request row is the primary
// effect: once it is created the call has succeeded, and a failure to
// flip the table's needs-service flag is logged and reported as
// StatusMarked=false rather than failing the call.
func (s *Service) Call(ctx context.Context, tableID uuid.UUID) (CallResult, error) {
	table, err := s.tables.Get(ctx, tableID)
	if err != nil {
		return CallResult{}, err
	}
	if !table.Active {
		return CallResult{Outcome: OutcomeTableInactive}, nil
	}

	adm, err := s.gate.Admit(ctx, table.ID)
	if err != nil {
		return CallResult{}, err
	}
	if !adm.Admitted {
		return CallResult{
			Outcome:    OutcomeRateLimited,
			RetryAfter: adm.RetryAfter,
		}, nil
	}

	req := ServiceRequest{
		ID:          uuid.New(),
		TableID:     table.ID,
		OrgID:       table.OrgID,
		RequestedAt: s.now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return CallResult{}, errors.Join(ErrFailedToCreateRequest, err)
	}

	result := CallResult{
		Outcome:      OutcomeAdmitted,
		RequestID:    req.ID,
		StatusMarked: true,
	}
	if err := s.tables.MarkNeedsService(ctx, table.ID); err != nil {
		s.log.WarnContext(ctx, "failed to mark table as needing service",
			"table_id", table.ID, "request_id", req.ID, "error", err)
		result.StatusMarked = false
	}
	return result, nil
}
