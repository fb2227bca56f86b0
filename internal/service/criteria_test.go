package service

import (
	"context"
	"testing"

	"propertypulse/internal/utils"
	"propertypulse/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCriteria(t *testing.T) (*CriteriaService, *fakeCriteriaRepo, string) {
	t.Helper()

	repo := newFakeCriteriaRepo()
	svc := NewCriteriaService(repo, newFakeTemplateRepo())

	created, err := svc.CreateCriteria(context.Background(), CreateCriteriaInput{
		Name: "Standard Inspection",
		HeaderFields: []types.HeaderField{
			{Key: "inspection_date", Label: "Inspection Date", Type: types.HeaderFieldDate, Required: true},
			{Key: "inspector_name", Label: "Inspector Name", Type: types.HeaderFieldText, Required: true},
		},
		ScoringCategories: []types.ScoringCategory{
			{Key: "roof", Label: "Roof", MaxPoints: 25},
			{Key: "structure", Label: "Structure", MaxPoints: 20},
			{Key: "plumbing", Label: "Plumbing", MaxPoints: 15},
			{Key: "electrical", Label: "Electrical", MaxPoints: 10},
			{Key: "hvac", Label: "HVAC", MaxPoints: 10},
			{Key: "site_safety", Label: "Site Safety", MaxPoints: 10},
		},
		MediaFields: []types.MediaField{
			{Key: "site_photos", Label: "Site Photos", MaxFiles: 20},
		},
	})
	require.NoError(t, err)

	return svc, repo, created.ID
}

func TestCreateCriteria(t *testing.T) {
	ctx := context.Background()

	t.Run("marks caller fields as system and numbers them", func(t *testing.T) {
		repo := newFakeCriteriaRepo()
		svc := NewCriteriaService(repo, newFakeTemplateRepo())

		created, err := svc.CreateCriteria(ctx, CreateCriteriaInput{
			Name: "Basic",
			HeaderFields: []types.HeaderField{
				{Key: "a", Label: "A", Type: types.HeaderFieldText},
				{Key: "b", Label: "B", Type: types.HeaderFieldNumber},
			},
		})
		require.NoError(t, err)

		for i, f := range created.HeaderFields {
			assert.True(t, f.IsSystem)
			assert.Equal(t, i+1, f.Order)
		}
		assert.True(t, created.IsActive)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		repo := newFakeCriteriaRepo()
		svc := NewCriteriaService(repo, newFakeTemplateRepo())

		_, err := svc.CreateCriteria(ctx, CreateCriteriaInput{Name: "Dup"})
		require.NoError(t, err)

		_, err = svc.CreateCriteria(ctx, CreateCriteriaInput{Name: "Dup"})
		assert.Equal(t, types.ErrKindConflict, types.KindOf(err))
	})

	t.Run("rejects duplicate field keys", func(t *testing.T) {
		svc := NewCriteriaService(newFakeCriteriaRepo(), newFakeTemplateRepo())

		_, err := svc.CreateCriteria(ctx, CreateCriteriaInput{
			Name: "Keys",
			HeaderFields: []types.HeaderField{
				{Key: "dup", Label: "One", Type: types.HeaderFieldText},
				{Key: "dup", Label: "Two", Type: types.HeaderFieldText},
			},
		})
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))
	})

	t.Run("rejects categories totalling over the budget", func(t *testing.T) {
		svc := NewCriteriaService(newFakeCriteriaRepo(), newFakeTemplateRepo())

		_, err := svc.CreateCriteria(ctx, CreateCriteriaInput{
			Name: "Heavy",
			ScoringCategories: []types.ScoringCategory{
				{Key: "a", Label: "A", MaxPoints: 60},
				{Key: "b", Label: "B", MaxPoints: 50},
			},
		})
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))
	})
}

func TestScoringPointBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an addition that would exceed 100 points", func(t *testing.T) {
		svc, repo, id := seedCriteria(t)

		// Seeded categories already hold 90 points.
		_, err := svc.AddScoringCategory(ctx, id, ScoringCategoryInput{Label: "Landscaping", MaxPoints: 15})
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

		stored, err := repo.Criteria(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 90, stored.TotalScoringPoints())
		assert.Len(t, stored.ScoringCategories, 6)
	})

	t.Run("accepts an addition that lands exactly on 100", func(t *testing.T) {
		svc, _, id := seedCriteria(t)

		updated, err := svc.AddScoringCategory(ctx, id, ScoringCategoryInput{Label: "Landscaping", MaxPoints: 10})
		require.NoError(t, err)
		assert.Equal(t, 100, updated.TotalScoringPoints())

		added := updated.ScoringCategories[len(updated.ScoringCategories)-1]
		assert.False(t, added.IsSystem)
		assert.Equal(t, 7, added.Order)
		assert.Contains(t, added.Key, "custom_")
	})

	t.Run("rechecks the budget on update against the other categories", func(t *testing.T) {
		svc, _, id := seedCriteria(t)

		updated, err := svc.AddScoringCategory(ctx, id, ScoringCategoryInput{Label: "Landscaping", MaxPoints: 5})
		require.NoError(t, err)
		key := updated.ScoringCategories[len(updated.ScoringCategories)-1].Key

		// Other categories hold 90, so 11 pushes past the ceiling.
		_, err = svc.UpdateScoringCategory(ctx, id, key, UpdateScoringCategoryInput{MaxPoints: utils.IntPtr(11)})
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

		_, err = svc.UpdateScoringCategory(ctx, id, key, UpdateScoringCategoryInput{MaxPoints: utils.IntPtr(10)})
		assert.NoError(t, err)
	})
}

func TestSystemFieldProtection(t *testing.T) {
	ctx := context.Background()

	t.Run("system category maxPoints cannot change", func(t *testing.T) {
		svc, _, id := seedCriteria(t)

		_, err := svc.UpdateScoringCategory(ctx, id, "roof", UpdateScoringCategoryInput{MaxPoints: utils.IntPtr(30)})
		assert.Equal(t, types.ErrKindForbidden, types.KindOf(err))

		// Label edits remain allowed.
		updated, err := svc.UpdateScoringCategory(ctx, id, "roof", UpdateScoringCategoryInput{Label: utils.StringPtr("Roof & Gutters")})
		require.NoError(t, err)
		assert.Equal(t, "Roof & Gutters", updated.ScoringCategories[0].Label)
	})

	t.Run("system fields cannot be removed", func(t *testing.T) {
		svc, _, id := seedCriteria(t)

		_, err := svc.RemoveHeaderField(ctx, id, "inspection_date")
		assert.Equal(t, types.ErrKindForbidden, types.KindOf(err))

		_, err = svc.RemoveScoringCategory(ctx, id, "roof")
		assert.Equal(t, types.ErrKindForbidden, types.KindOf(err))

		_, err = svc.RemoveMediaField(ctx, id, "site_photos")
		assert.Equal(t, types.ErrKindForbidden, types.KindOf(err))
	})

	t.Run("system header type and required flag are frozen", func(t *testing.T) {
		svc, _, id := seedCriteria(t)

		newType := types.HeaderFieldNumber
		_, err := svc.UpdateHeaderField(ctx, id, "inspection_date", UpdateHeaderFieldInput{Type: &newType})
		assert.Equal(t, types.ErrKindForbidden, types.KindOf(err))

		_, err = svc.UpdateHeaderField(ctx, id, "inspection_date", UpdateHeaderFieldInput{Required: utils.BoolPtr(false)})
		assert.Equal(t, types.ErrKindForbidden, types.KindOf(err))
	})
}

func TestRemoveCustomFieldRenumbers(t *testing.T) {
	ctx := context.Background()
	svc, _, id := seedCriteria(t)

	first, err := svc.AddHeaderField(ctx, id, HeaderFieldInput{Label: "Access Notes", Type: types.HeaderFieldText})
	require.NoError(t, err)
	firstKey := first.HeaderFields[len(first.HeaderFields)-1].Key

	second, err := svc.AddHeaderField(ctx, id, HeaderFieldInput{Label: "Key Box Code", Type: types.HeaderFieldText})
	require.NoError(t, err)
	require.Len(t, second.HeaderFields, 4)

	after, err := svc.RemoveHeaderField(ctx, id, firstKey)
	require.NoError(t, err)
	require.Len(t, after.HeaderFields, 3)

	for i, f := range after.HeaderFields {
		assert.Equal(t, i+1, f.Order)
	}
}

func TestAddHeaderFieldValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, id := seedCriteria(t)

	_, err := svc.AddHeaderField(ctx, id, HeaderFieldInput{Label: "", Type: types.HeaderFieldText})
	assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

	_, err = svc.AddHeaderField(ctx, id, HeaderFieldInput{Label: "Bad", Type: "CHECKBOX"})
	assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

	_, err = svc.AddHeaderField(ctx, id, HeaderFieldInput{Label: "Pick", Type: types.HeaderFieldDropdown})
	assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

	updated, err := svc.AddHeaderField(ctx, id, HeaderFieldInput{
		Label:   "Pick",
		Type:    types.HeaderFieldDropdown,
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)
	assert.Len(t, updated.HeaderFields, 3)
}

func TestDeleteCriteriaGuardedByTemplates(t *testing.T) {
	ctx := context.Background()

	repo := newFakeCriteriaRepo()
	templates := newFakeTemplateRepo()
	svc := NewCriteriaService(repo, templates)

	created, err := svc.CreateCriteria(ctx, CreateCriteriaInput{Name: "Guarded"})
	require.NoError(t, err)

	templates.countCriteria[created.ID] = 2

	err = svc.DeleteCriteria(ctx, created.ID)
	assert.Equal(t, types.ErrKindConflict, types.KindOf(err))

	templates.countCriteria[created.ID] = 0
	require.NoError(t, svc.DeleteCriteria(ctx, created.ID))

	_, err = svc.Criteria(ctx, created.ID)
	assert.ErrorIs(t, err, types.ErrCriteriaNotFound)
}

func TestRepairPlanningConfigValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, id := seedCriteria(t)

	_, err := svc.UpdateRepairPlanningConfig(ctx, id, types.RepairPlanningConfig{})
	assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

	_, err = svc.UpdateRepairPlanningConfig(ctx, id, types.RepairPlanningConfig{
		Statuses: []string{"PLANNED", "PLANNED"},
	})
	assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

	updated, err := svc.UpdateRepairPlanningConfig(ctx, id, types.RepairPlanningConfig{
		Statuses: []string{"PLANNED", "DONE"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PLANNED", "DONE"}, updated.RepairPlanningConfig.Statuses)
}

func TestHealthThresholdConfigValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, id := seedCriteria(t)

	bad := types.HealthThresholdConfig{
		Good: types.HealthThresholdTier{MinScore: 80, MaxScore: 70},
	}
	_, err := svc.UpdateHealthThresholdConfig(ctx, id, bad)
	assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

	good := types.HealthThresholdConfig{
		Good: types.HealthThresholdTier{MinScore: 70, MaxScore: 100, RemainingLifeMinYears: 10, RemainingLifeMaxYears: 25},
		Fair: types.HealthThresholdTier{MinScore: 40, MaxScore: 69, RemainingLifeMinYears: 4, RemainingLifeMaxYears: 9},
		Poor: types.HealthThresholdTier{MinScore: 0, MaxScore: 39, RemainingLifeMaxYears: 3},
	}
	updated, err := svc.UpdateHealthThresholdConfig(ctx, id, good)
	require.NoError(t, err)
	assert.Equal(t, 70, updated.HealthThresholdConfig.Good.MinScore)
}
