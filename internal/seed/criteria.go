package seed

import (
	"context"
	"fmt"

	"propertypulse/internal/store"
	"propertypulse/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
)

// DefaultCriteriaName is the name of the system inspection criteria every
// installation starts with.
const DefaultCriteriaName = "Standard Property Inspection"

// SeedInspectionCriteria creates the default criteria with its system
// fields if it does not exist. Safe to run repeatedly.
func SeedInspectionCriteria(ctx context.Context, repo *store.CriteriaRepository) (*types.InspectionCriteria, error) {
	existing, err := repo.CriteriaByName(ctx, DefaultCriteriaName)
	if err != nil {
		return nil, fmt.Errorf("check default criteria: %w", err)
	}
	if existing != nil {
		logrus.WithField("name", DefaultCriteriaName).Info("default criteria already present, skipping")
		return existing, nil
	}

	criteria := &types.InspectionCriteria{
		ID:          "Jp4mWxT2eKr8ZvLhQc6BnDy1SgUoA3fN",
		Name:        DefaultCriteriaName,
		Description: "Baseline inspection configuration covering the major building systems.",
		IsActive:    true,
		HeaderFields: []types.HeaderField{
			{Key: "inspection_date", Label: "Inspection Date", Type: types.HeaderFieldDate, Required: true, IsSystem: true, Order: 1},
			{Key: "inspector_name", Label: "Inspector Name", Type: types.HeaderFieldText, Required: true, IsSystem: true, Order: 2},
			{Key: "weather_conditions", Label: "Weather Conditions", Type: types.HeaderFieldDropdown, Options: []string{"Clear", "Rain", "Snow", "Wind"}, IsSystem: true, Order: 3},
		},
		ScoringCategories: []types.ScoringCategory{
			{Key: "roof", Label: "Roof", MaxPoints: 25, IsSystem: true, Order: 1},
			{Key: "structure", Label: "Structure", MaxPoints: 20, IsSystem: true, Order: 2},
			{Key: "plumbing", Label: "Plumbing", MaxPoints: 15, IsSystem: true, Order: 3},
			{Key: "electrical", Label: "Electrical", MaxPoints: 15, IsSystem: true, Order: 4},
			{Key: "hvac", Label: "HVAC", MaxPoints: 15, IsSystem: true, Order: 5},
			{Key: "site_safety", Label: "Site Safety", MaxPoints: 10, IsSystem: true, Order: 6},
		},
		MediaFields: []types.MediaField{
			{Key: "site_photos", Label: "Site Photos", Accept: []string{"image/jpeg", "image/png"}, MaxFiles: 20, IsSystem: true, Order: 1},
		},
		AdditionalNotesConfig: &types.AdditionalNotesConfig{
			Enabled:   true,
			Label:     "Additional Notes",
			MaxLength: 2000,
		},
		RepairPlanningConfig: &types.RepairPlanningConfig{
			Statuses: []string{"PLANNED", "IN_PROGRESS", "COMPLETED", "DEFERRED"},
		},
		HealthThresholdConfig: &types.HealthThresholdConfig{
			Good: types.HealthThresholdTier{MinScore: 70, MaxScore: 100, RemainingLifeMinYears: 10, RemainingLifeMaxYears: 25},
			Fair: types.HealthThresholdTier{MinScore: 40, MaxScore: 69, RemainingLifeMinYears: 4, RemainingLifeMaxYears: 9},
			Poor: types.HealthThresholdTier{MinScore: 0, MaxScore: 39, RemainingLifeMinYears: 0, RemainingLifeMaxYears: 3},
		},
	}

	if err := repo.Create(ctx, criteria); err != nil {
		return nil, fmt.Errorf("create default criteria: %w", err)
	}

	pp.Println(criteria.Name, criteria.ScoringCategories)
	logrus.WithField("id", criteria.ID).Info("default criteria created")
	return criteria, nil
}
