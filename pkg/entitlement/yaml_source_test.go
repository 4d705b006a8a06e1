package entitlement_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapmenu/tapmenu/pkg/entitlement"
)

const testCatalogYAML = `
plans:
  free:
    name: Free
    limits:
      max_categories: 3
      max_products: 20
      max_tables: 5
    flags: []
  pro:
    name: Pro
    limits:
      max_categories: -1
      max_products: -1
      max_tables: 50
      ai_token_quota: 100000
    flags: [export_formats]
`

func staticPlanResolver(planID string) entitlement.PlanIDResolver {
	return func(ctx context.Context, orgID uuid.UUID) (string, error) {
		return planID, nil
	}
}

func TestLoadPlanCatalog(t *testing.T) {
	t.Parallel()

	t.Run("parses a valid catalog", func(t *testing.T) {
		t.Parallel()

		catalog, err := entitlement.LoadPlanCatalog(strings.NewReader(testCatalogYAML))

		require.NoError(t, err)
		require.Len(t, catalog.Plans, 2)
		assert.Equal(t, "Free", catalog.Plans["free"].Name)
		assert.Equal(t, int64(20), catalog.Plans["free"].Limits[entitlement.CapMaxProducts])
		assert.Equal(t, entitlement.Unlimited, catalog.Plans["pro"].Limits[entitlement.CapMaxProducts])
	})

	t.Run("rejects unknown capabilities", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.LoadPlanCatalog(strings.NewReader(`
plans:
  free:
    name: Free
    limits:
      max_spaceships: 3
`))

		assert.ErrorIs(t, err, entitlement.ErrInvalidPlanCatalog)
	})

	t.Run("rejects a plan without a name", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.LoadPlanCatalog(strings.NewReader(`
plans:
  free:
    limits:
      max_products: 20
`))

		assert.ErrorIs(t, err, entitlement.ErrInvalidPlanCatalog)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.LoadPlanCatalog(strings.NewReader("plans: ["))

		assert.ErrorIs(t, err, entitlement.ErrInvalidPlanCatalog)
	})
}

func TestCatalogEntitlementStore(t *testing.T) {
	t.Parallel()

	catalog, err := entitlement.LoadPlanCatalog(strings.NewReader(testCatalogYAML))
	require.NoError(t, err)

	t.Run("finds a limit entitlement", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewCatalogEntitlementStore(catalog, staticPlanResolver("free"))

		ent, err := store.Find(context.Background(), uuid.New(), entitlement.CapMaxProducts)

		require.NoError(t, err)
		assert.Equal(t, int64(20), ent.Limit)
		assert.Equal(t, "Free", ent.PlanName)
		assert.Equal(t, entitlement.FeatureTypeLimit, ent.FeatureType)
	})

	t.Run("finds a boolean flag", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewCatalogEntitlementStore(catalog, staticPlanResolver("pro"))

		ent, err := store.Find(context.Background(), uuid.New(), entitlement.CapExportFormats)

		require.NoError(t, err)
		assert.Equal(t, entitlement.FeatureTypeBoolean, ent.FeatureType)
	})

	t.Run("capability not in plan is not found", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewCatalogEntitlementStore(catalog, staticPlanResolver("free"))

		_, err := store.Find(context.Background(), uuid.New(), entitlement.CapAITokenQuota)

		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)
	})

	t.Run("tenant without a plan has no entitlements", func(t *testing.T) {
		t.Parallel()

		noPlan := func(ctx context.Context, orgID uuid.UUID) (string, error) {
			return "", entitlement.ErrPlanNotFound
		}
		store := entitlement.NewCatalogEntitlementStore(catalog, noPlan)

		_, err := store.Find(context.Background(), uuid.New(), entitlement.CapMaxProducts)
		assert.ErrorIs(t, err, entitlement.ErrEntitlementNotFound)

		ents, err := store.List(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Empty(t, ents)
	})

	t.Run("list covers limits and flags", func(t *testing.T) {
		t.Parallel()

		store := entitlement.NewCatalogEntitlementStore(catalog, staticPlanResolver("pro"))

		ents, err := store.List(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Len(t, ents, 5)
	})

	t.Run("works end to end with the resolver", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		store := entitlement.NewCatalogEntitlementStore(catalog, staticPlanResolver("free"))
		r := entitlement.NewResolver(entitlement.NewMemoryOverrideStore(), store)

		res, err := r.Resolve(context.Background(), orgID, entitlement.CapMaxTables)

		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Limit)
		assert.Equal(t, entitlement.SourcePlan, res.Source)
	})
}
