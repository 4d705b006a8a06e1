package entitlement

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// OrgResolverFunc extracts the tenant organization from a request,
// typically from an authenticated session set by upstream middleware.
type OrgResolverFunc func(r *http.Request) (uuid.UUID, error)

// BulkCountFunc extracts the number of items a bulk write intends to
// create, e.g. from a parsed import payload.
type BulkCountFunc func(r *http.Request) (int64, error)

type guardConfig struct {
	log *slog.Logger
}

// GuardOption configures a write-path guard.
type GuardOption func(*guardConfig)

// WithGuardLogger sets the logger for store failures. Internal detail
// is only logged, never surfaced to the caller.
func WithGuardLogger(log *slog.Logger) GuardOption {
	return func(c *guardConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// RequireCapacity guards a single-item write: the wrapped handler runs
// only when the tenant has room for one more resource of the given
// kind. Denials respond 403 with the decision body; the engine never
// performs the refused write itself.
func RequireCapacity(svc *Service, capability Capability, kind ResourceKind, orgFrom OrgResolverFunc, opts ...GuardOption) func(http.Handler) http.Handler {
	cfg := newGuardConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, err := orgFrom(r)
			if err != nil {
				http.Error(w, "unknown organization", http.StatusBadRequest)
				return
			}

			result, err := svc.CheckLimit(r.Context(), orgID, capability, kind)
			if err != nil {
				cfg.log.ErrorContext(r.Context(), "limit check failed",
					"org_id", orgID, "capability", capability, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if !result.CanAdd {
				writeDecision(w, http.StatusForbidden, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireBulkCapacity guards a bulk write of countFrom(r) items, e.g. a
// product import. A non-positive or unparseable count is a client error
// distinct from a quota denial.
func RequireBulkCapacity(svc *Service, capability Capability, kind ResourceKind, orgFrom OrgResolverFunc, countFrom BulkCountFunc, opts ...GuardOption) func(http.Handler) http.Handler {
	cfg := newGuardConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, err := orgFrom(r)
			if err != nil {
				http.Error(w, "unknown organization", http.StatusBadRequest)
				return
			}

			n, err := countFrom(r)
			if err != nil || n < 1 {
				http.Error(w, "invalid item count", http.StatusBadRequest)
				return
			}

			result, err := svc.ValidateBulkAdd(r.Context(), orgID, capability, kind, n)
			if err != nil {
				cfg.log.ErrorContext(r.Context(), "bulk limit check failed",
					"org_id", orgID, "capability", capability, "count", n, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if !result.CanAdd {
				writeDecision(w, http.StatusForbidden, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func newGuardConfig(opts []GuardOption) *guardConfig {
	cfg := &guardConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func writeDecision(w http.ResponseWriter, status int, result LimitCheckResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
