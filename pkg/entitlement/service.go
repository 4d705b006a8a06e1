package entitlement

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Service combines limit resolution with live resource counts into
// admission decisions and usage reports.
//
// Decisions are advisory: CheckLimit and ValidateBulkAdd are pure reads
// and do not reserve capacity, so two concurrent callers can both pass
// the check and jointly overshoot a limit by one. Callers that need a
// hard ceiling must enforce it with a store-level constraint around the
// check-then-write sequence.
type Service struct {
	resolver *Resolver
	counters CounterRegistry
	lang     language.Tag
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLanguage sets the language for user-facing rationale messages.
// Unsupported tags fall back to English.
func WithLanguage(tag language.Tag) ServiceOption {
	return func(s *Service) { s.lang = tag }
}

// NewService creates an admission Service. Panics on a nil resolver.
// A nil registry is replaced with an empty one; checks for countable
// capabilities then fail with ErrNoCounterRegistered.
func NewService(resolver *Resolver, counters CounterRegistry, opts ...ServiceOption) *Service {
	if resolver == nil {
		panic("entitlement: NewService requires a non-nil resolver")
	}
	if counters == nil {
		counters = NewRegistry()
	}

	s := &Service{
		resolver: resolver,
		counters: counters,
		lang:     language.English,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckLimit reports whether the tenant may add one more resource of the
// given kind under the given capability. Pure decision, no side effects:
// repeated calls without an intervening write return the same result.
func (s *Service) CheckLimit(ctx context.Context, orgID uuid.UUID, capability Capability, kind ResourceKind) (LimitCheckResult, error) {
	current, res, err := s.evaluate(ctx, orgID, capability, kind)
	if err != nil {
		return LimitCheckResult{}, err
	}

	out := LimitCheckResult{
		CurrentCount: current,
		Limit:        res.Limit,
		Unlimited:    res.Unlimited,
		Remaining:    remaining(current, res),
		Source:       res.Source,
		PlanName:     res.PlanName,
	}

	switch {
	case res.Source == SourceNone:
		out.Message = localize(s.lang, msgNoEntitlement)
	case res.Unlimited:
		out.CanAdd = true
		out.Message = localize(s.lang, msgUnlimited)
	case current < res.Limit:
		out.CanAdd = true
		out.Message = localize(s.lang, msgUnderLimit, out.Remaining)
	default:
		out.Message = localize(s.lang, msgAtLimit)
	}

	return out, nil
}

// ValidateBulkAdd reports whether the tenant may add n more resources at
// once. n must be at least 1; non-positive counts are rejected before
// any store access.
func (s *Service) ValidateBulkAdd(ctx context.Context, orgID uuid.UUID, capability Capability, kind ResourceKind, n int64) (LimitCheckResult, error) {
	if n < 1 {
		return LimitCheckResult{}, errors.Join(ErrInvalidBulkCount,
			fmt.Errorf("bulk count must be at least 1, got %d", n))
	}

	current, res, err := s.evaluate(ctx, orgID, capability, kind)
	if err != nil {
		return LimitCheckResult{}, err
	}

	out := LimitCheckResult{
		CurrentCount: current,
		Limit:        res.Limit,
		Unlimited:    res.Unlimited,
		Remaining:    remaining(current, res),
		Source:       res.Source,
		PlanName:     res.PlanName,
	}

	switch {
	case res.Source == SourceNone:
		out.Message = localize(s.lang, msgNoEntitlement)
	case res.Unlimited:
		out.CanAdd = true
		out.Message = localize(s.lang, msgUnlimited)
	case out.Remaining >= n:
		out.CanAdd = true
		out.Message = localize(s.lang, msgUnderLimit, out.Remaining)
	default:
		out.Message = localize(s.lang, msgBulkDenied, n, out.Remaining)
	}

	return out, nil
}

// AllStatuses returns one usage row per quota capability of the
// tenant's plan, for dashboard display. Boolean feature flags are
// excluded. Capabilities with no countable resource kind (AI tokens,
// retention days) report zero consumption: usage tracking for
// standalone quotas is a named limitation of this engine, not an error.
func (s *Service) AllStatuses(ctx context.Context, orgID uuid.UUID) ([]UsageStatus, error) {
	ents, err := s.resolver.entitlements.List(ctx, orgID)
	if err != nil {
		return nil, errors.Join(ErrFailedToListEntitlements, err)
	}

	statuses := make([]UsageStatus, 0, len(ents))
	for _, ent := range ents {
		if ent.FeatureType != FeatureTypeLimit {
			continue
		}

		// Overrides still win on the dashboard.
		res, err := s.resolver.Resolve(ctx, orgID, ent.Capability)
		if err != nil {
			return nil, err
		}

		var current int64
		if kind, ok := KindFor(ent.Capability); ok {
			counter, registered := s.counters[kind]
			if !registered {
				return nil, errors.Join(ErrNoCounterRegistered,
					fmt.Errorf("no counter for resource kind %q", kind))
			}
			current, err = counter(ctx, orgID)
			if err != nil {
				return nil, errors.Join(ErrFailedToCountResourceUsage, err)
			}
		}

		statuses = append(statuses, UsageStatus{
			Capability:   ent.Capability,
			CurrentCount: current,
			Limit:        res.Limit,
			Unlimited:    res.Unlimited,
			UsagePercent: usagePercent(current, res),
			Source:       res.Source,
			PlanName:     res.PlanName,
		})
	}

	return statuses, nil
}

// evaluate runs the shared validate+count+resolve step of both
// admission checks. Input validation happens before any store access.
func (s *Service) evaluate(ctx context.Context, orgID uuid.UUID, capability Capability, kind ResourceKind) (int64, Resolution, error) {
	if !capability.Known() {
		return 0, Resolution{}, errors.Join(ErrUnknownCapability,
			fmt.Errorf("capability %q is not in the vocabulary", capability))
	}

	counter, ok := s.counters[kind]
	if !ok {
		return 0, Resolution{}, errors.Join(ErrNoCounterRegistered,
			fmt.Errorf("no counter for resource kind %q", kind))
	}

	current, err := counter(ctx, orgID)
	if err != nil {
		// A failed count must never be coerced to zero: that would
		// falsely report free capacity.
		return 0, Resolution{}, errors.Join(ErrFailedToCountResourceUsage, err)
	}

	res, err := s.resolver.Resolve(ctx, orgID, capability)
	if err != nil {
		return 0, Resolution{}, err
	}

	return current, res, nil
}

func remaining(current int64, res Resolution) int64 {
	if res.Unlimited {
		return 0
	}
	return max(0, res.Limit-current)
}

func usagePercent(current int64, res Resolution) int {
	if res.Unlimited || res.Limit <= 0 {
		return 0
	}
	pct := float64(current) / float64(res.Limit) * 100
	return int(math.Round(math.Min(100, pct)))
}
