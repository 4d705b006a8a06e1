package entitlement_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapmenu/tapmenu/pkg/entitlement"
)

func TestMemoryOverrideStore(t *testing.T) {
	t.Parallel()

	t.Run("set then find", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		store := entitlement.NewMemoryOverrideStore()
		store.Set(entitlement.Override{OrgID: orgID, Capability: entitlement.CapMaxProducts, Limit: int64Ptr(7)})

		ov, err := store.Find(context.Background(), orgID, entitlement.CapMaxProducts)

		require.NoError(t, err)
		assert.Equal(t, int64(7), *ov.Limit)
	})

	t.Run("missing override", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewMemoryOverrideStore()

		_, err := store.Find(context.Background(), uuid.New(), entitlement.CapMaxProducts)

		assert.ErrorIs(t, err, entitlement.ErrOverrideNotFound)
	})

	t.Run("delete removes the override", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		store := entitlement.NewMemoryOverrideStore()
		store.Set(entitlement.Override{OrgID: orgID, Capability: entitlement.CapMaxProducts, Limit: int64Ptr(7)})
		store.Delete(orgID, entitlement.CapMaxProducts)

		_, err := store.Find(context.Background(), orgID, entitlement.CapMaxProducts)

		assert.ErrorIs(t, err, entitlement.ErrOverrideNotFound)
	})
}

func TestMemoryEntitlementStore(t *testing.T) {
	t.Parallel()

	t.Run("plan switch replaces entitlements", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		store := entitlement.NewMemoryEntitlementStore()
		store.SetPlan(orgID, proPlan(orgID))
		store.SetPlan(orgID, []entitlement.PlanEntitlement{
			{OrgID: orgID, Capability: entitlement.CapMaxProducts, Limit: 5, PlanName: "Free", FeatureType: entitlement.FeatureTypeLimit},
		})

		ent, err := store.Find(context.Background(), orgID, entitlement.CapMaxProducts)
		require.NoError(t, err)
		assert.Equal(t, "Free", ent.PlanName)

		_, err = store.Find(context.Background(), orgID, entitlement.CapMaxCategories)
		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		t.Parallel()

		orgA, orgB := uuid.New(), uuid.New()
		store := entitlement.NewMemoryEntitlementStore()
		store.SetPlan(orgA, proPlan(orgA))

		_, err := store.Find(context.Background(), orgB, entitlement.CapMaxProducts)

		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
	})
}
