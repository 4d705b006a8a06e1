package entitlement

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type storeKey struct {
	org        uuid.UUID
	capability Capability
}

// MemoryOverrideStore is an in-memory OverrideStore for tests and
// single-process deployments.
type MemoryOverrideStore struct {
	mu        sync.RWMutex
	overrides map[storeKey]Override
}

// NewMemoryOverrideStore returns an empty in-memory override store.
func NewMemoryOverrideStore() *MemoryOverrideStore {
	return &MemoryOverrideStore{overrides: make(map[storeKey]Override)}
}

// Set stores or replaces the override for its (org, capability) pair.
func (s *MemoryOverrideStore) Set(ov Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[storeKey{ov.OrgID, ov.Capability}] = ov
}

// Delete removes the override for the given pair, if present.
func (s *MemoryOverrideStore) Delete(orgID uuid.UUID, capability Capability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, storeKey{orgID, capability})
}

func (s *MemoryOverrideStore) Find(ctx context.Context, orgID uuid.UUID, capability Capability) (Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ov, ok := s.overrides[storeKey{orgID, capability}]
	if !ok {
		return Override{}, ErrOverrideNotFound
	}
	return ov, nil
}

// MemoryEntitlementStore is an in-memory EntitlementStore for tests and
// single-process deployments.
type MemoryEntitlementStore struct {
	mu           sync.RWMutex
	entitlements map[uuid.UUID][]PlanEntitlement
}

// NewMemoryEntitlementStore returns an empty in-memory entitlement store.
func NewMemoryEntitlementStore() *MemoryEntitlementStore {
	return &MemoryEntitlementStore{entitlements: make(map[uuid.UUID][]PlanEntitlement)}
}

// SetPlan replaces all entitlements of the org, modelling a plan switch.
func (s *MemoryEntitlementStore) SetPlan(orgID uuid.UUID, ents []PlanEntitlement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]PlanEntitlement, len(ents))
	copy(copied, ents)
	s.entitlements[orgID] = copied
}

func (s *MemoryEntitlementStore) Find(ctx context.Context, orgID uuid.UUID, capability Capability) (PlanEntitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ent := range s.entitlements[orgID] {
		if ent.Capability == capability {
			return ent, nil
		}
	}
	return PlanEntitlement{}, ErrEntitlementNotFound
}

func (s *MemoryEntitlementStore) List(ctx context.Context, orgID uuid.UUID) ([]PlanEntitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ents := s.entitlements[orgID]
	copied := make([]PlanEntitlement, len(ents))
	copy(copied, ents)
	return copied, nil
}
