package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Capability identifies a quota-bearing or boolean plan feature.
type Capability string

// Capability vocabulary. Keys are opaque to the engine; it only cares
// whether a capability maps to a countable resource kind.
const (
	CapMaxCategories      Capability = "max_categories"
	CapMaxProducts        Capability = "max_products"
	CapMaxTables          Capability = "max_tables"
	CapMaxMenus           Capability = "max_menus"
	CapMaxLanguages       Capability = "max_languages"
	CapAuditRetentionDays Capability = "audit_retention_days"
	CapExportFormats      Capability = "export_formats"
	CapAITokenQuota       Capability = "ai_token_quota"
)

// knownCapabilities is the fixed, externally-defined vocabulary. The
// engine does not interpret keys beyond countability, but rejects keys
// outside the vocabulary before touching the store.
var knownCapabilities = map[Capability]struct{}{
	CapMaxCategories:      {},
	CapMaxProducts:        {},
	CapMaxTables:          {},
	CapMaxMenus:           {},
	CapMaxLanguages:       {},
	CapAuditRetentionDays: {},
	CapExportFormats:      {},
	CapAITokenQuota:       {},
}

// Known reports whether the capability belongs to the fixed vocabulary.
func (c Capability) Known() bool {
	_, ok := knownCapabilities[c]
	return ok
}

// ResourceKind represents a countable tenant resource type.
type ResourceKind string

// Predefined resource kinds.
const (
	KindCategories ResourceKind = "categories"
	KindProducts   ResourceKind = "products"
	KindTables     ResourceKind = "tables"
	KindMenus      ResourceKind = "menus"
	KindLanguages  ResourceKind = "languages"
)

// Unlimited is the sentinel limit value meaning "no cap" (-1 chosen for SQL compatibility).
const Unlimited int64 = -1

// FeatureType distinguishes numeric quotas from boolean feature flags.
type FeatureType string

const (
	FeatureTypeLimit   FeatureType = "limit"
	FeatureTypeBoolean FeatureType = "boolean"
)

// Source reports where an effective limit came from.
type Source string

const (
	SourceOverride Source = "override"
	SourcePlan     Source = "plan"
	SourceNone     Source = "none"
)

// Override is a tenant-scoped replacement of a plan-derived limit.
// A nil Limit carries no value and never wins resolution; a past
// ExpiresAt makes the record inert.
type Override struct {
	OrgID      uuid.UUID
	Capability Capability
	Limit      *int64
	ExpiresAt  *time.Time
}

// Active reports whether the override is limit-bearing and unexpired at now.
func (o Override) Active(now time.Time) bool {
	if o.Limit == nil {
		return false
	}
	return o.ExpiresAt == nil || o.ExpiresAt.After(now)
}

// PlanEntitlement is one row of the tenant's resolved plan view: the
// limit its current plan grants for a capability.
type PlanEntitlement struct {
	OrgID       uuid.UUID
	Capability  Capability
	Limit       int64
	PlanName    string
	FeatureType FeatureType
}

// Resolution is the effective limit for a (tenant, capability) pair
// plus provenance.
type Resolution struct {
	Limit     int64
	Unlimited bool
	Source    Source
	PlanName  string // set only when Source == SourcePlan
}

// LimitCheckResult is the outcome of a single-item or bulk admission check.
type LimitCheckResult struct {
	CanAdd       bool   `json:"can_add"`
	CurrentCount int64  `json:"current_count"`
	Limit        int64  `json:"limit"`
	Unlimited    bool   `json:"unlimited"`
	Remaining    int64  `json:"remaining"` // 0 when unlimited; callers should check Unlimited first
	Source       Source `json:"source"`
	PlanName     string `json:"plan_name,omitempty"`
	Message      string `json:"message"`
}

// UsageStatus is one dashboard row: a quota capability with its current
// consumption.
type UsageStatus struct {
	Capability   Capability `json:"capability"`
	CurrentCount int64      `json:"current_count"`
	Limit        int64      `json:"limit"`
	Unlimited    bool       `json:"unlimited"`
	UsagePercent int        `json:"usage_percent"`
	Source       Source     `json:"source"`
	PlanName     string     `json:"plan_name,omitempty"`
}

// countableKinds maps quota capabilities to the resource kind they count.
// Capabilities absent here (AI tokens, retention days, export formats)
// are standalone numeric quotas with no live count; the usage reporter
// shows them at zero consumption.
var countableKinds = map[Capability]ResourceKind{
	CapMaxCategories: KindCategories,
	CapMaxProducts:   KindProducts,
	CapMaxTables:     KindTables,
	CapMaxMenus:      KindMenus,
	CapMaxLanguages:  KindLanguages,
}

// KindFor returns the countable resource kind for a capability, if any.
func KindFor(c Capability) (ResourceKind, bool) {
	kind, ok := countableKinds[c]
	return kind, ok
}
