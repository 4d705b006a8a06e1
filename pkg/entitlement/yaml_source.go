package entitlement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// CatalogPlan is one plan of the YAML plan catalog.
type CatalogPlan struct {
	Name   string               `yaml:"name"`
	Limits map[Capability]int64 `yaml:"limits"`
	Flags  []Capability         `yaml:"flags"`
}

// PlanCatalog holds the platform's plan definitions as loaded from
// configuration. The catalog is immutable after loading.
//
// Catalog format:
//
//	plans:
//	  free:
//	    name: Free
//	    limits:
//	      max_categories: 3
//	      max_products: 20
//	    flags: []
//	  pro:
//	    name: Pro
//	    limits:
//	      max_products: -1
//	    flags: [export_formats]
type PlanCatalog struct {
	Plans map[string]CatalogPlan `yaml:"plans"`
}

// LoadPlanCatalog parses and validates a plan catalog from r.
func LoadPlanCatalog(r io.Reader) (*PlanCatalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidPlanCatalog, err)
	}

	var catalog PlanCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, errors.Join(ErrInvalidPlanCatalog, err)
	}

	for planID, plan := range catalog.Plans {
		if plan.Name == "" {
			return nil, errors.Join(ErrInvalidPlanCatalog,
				fmt.Errorf("plan %q has no display name", planID))
		}
		for capability := range plan.Limits {
			if !capability.Known() {
				return nil, errors.Join(ErrInvalidPlanCatalog,
					fmt.Errorf("plan %q limits unknown capability %q", planID, capability))
			}
		}
		for _, capability := range plan.Flags {
			if !capability.Known() {
				return nil, errors.Join(ErrInvalidPlanCatalog,
					fmt.Errorf("plan %q flags unknown capability %q", planID, capability))
			}
		}
	}

	return &catalog, nil
}

// LoadPlanCatalogFile loads a plan catalog from a YAML file.
func LoadPlanCatalogFile(path string) (*PlanCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidPlanCatalog, err)
	}
	defer f.Close()
	return LoadPlanCatalog(f)
}

// PlanIDResolver resolves the tenant's current plan ID. Absence of a
// plan is reported with ErrPlanNotFound.
type PlanIDResolver func(ctx context.Context, orgID uuid.UUID) (string, error)

// CatalogEntitlementStore projects a static plan catalog plus a tenant
// plan assignment into the EntitlementStore contract. Useful when the
// plan catalog ships as configuration instead of living in the database.
type CatalogEntitlementStore struct {
	catalog *PlanCatalog
	planID  PlanIDResolver
}

// NewCatalogEntitlementStore creates an EntitlementStore over a plan
// catalog. Panics on nil arguments.
func NewCatalogEntitlementStore(catalog *PlanCatalog, planID PlanIDResolver) *CatalogEntitlementStore {
	if catalog == nil || planID == nil {
		panic("entitlement: NewCatalogEntitlementStore requires a catalog and a plan resolver")
	}
	return &CatalogEntitlementStore{catalog: catalog, planID: planID}
}

func (s *CatalogEntitlementStore) Find(ctx context.Context, orgID uuid.UUID, capability Capability) (PlanEntitlement, error) {
	plan, err := s.resolvePlan(ctx, orgID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return PlanEntitlement{}, ErrEntitlementNotFound
		}
		return PlanEntitlement{}, err
	}

	if limit, ok := plan.Limits[capability]; ok {
		return PlanEntitlement{
			OrgID:       orgID,
			Capability:  capability,
			Limit:       limit,
			PlanName:    plan.Name,
			FeatureType: FeatureTypeLimit,
		}, nil
	}
	for _, flag := range plan.Flags {
		if flag == capability {
			return PlanEntitlement{
				OrgID:       orgID,
				Capability:  capability,
				Limit:       0,
				PlanName:    plan.Name,
				FeatureType: FeatureTypeBoolean,
			}, nil
		}
	}
	return PlanEntitlement{}, ErrEntitlementNotFound
}

func (s *CatalogEntitlementStore) List(ctx context.Context, orgID uuid.UUID) ([]PlanEntitlement, error) {
	plan, err := s.resolvePlan(ctx, orgID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return []PlanEntitlement{}, nil
		}
		return nil, err
	}

	ents := make([]PlanEntitlement, 0, len(plan.Limits)+len(plan.Flags))
	for capability, limit := range plan.Limits {
		ents = append(ents, PlanEntitlement{
			OrgID:       orgID,
			Capability:  capability,
			Limit:       limit,
			PlanName:    plan.Name,
			FeatureType: FeatureTypeLimit,
		})
	}
	for _, flag := range plan.Flags {
		ents = append(ents, PlanEntitlement{
			OrgID:       orgID,
			Capability:  flag,
			Limit:       0,
			PlanName:    plan.Name,
			FeatureType: FeatureTypeBoolean,
		})
	}
	return ents, nil
}

func (s *CatalogEntitlementStore) resolvePlan(ctx context.Context, orgID uuid.UUID) (CatalogPlan, error) {
	planID, err := s.planID(ctx, orgID)
	if err != nil {
		return CatalogPlan{}, err
	}

	plan, ok := s.catalog.Plans[planID]
	if !ok {
		return CatalogPlan{}, errors.Join(ErrPlanNotFound,
			fmt.Errorf("plan %q is not in the catalog", planID))
	}
	return plan, nil
}
