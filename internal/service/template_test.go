package service

import (
	"context"
	"testing"

	"propertypulse/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTemplate(t *testing.T) (*TemplateService, *fakeTemplateRepo, string) {
	t.Helper()

	criteria := newFakeCriteriaRepo()
	require.NoError(t, criteria.Create(context.Background(), &types.InspectionCriteria{
		ID:       "crit-1",
		Name:     "Standard Inspection",
		IsActive: true,
	}))

	repo := newFakeTemplateRepo()
	svc := NewTemplateService(repo, criteria, newFakePropertyRepo())

	created, err := svc.CreateTemplate(context.Background(), CreateTemplateInput{
		Name:       "Default Dashboard",
		CriteriaID: "crit-1",
	})
	require.NoError(t, err)

	return svc, repo, created.ID
}

func sectionTypes(sections []types.TemplateSection) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Type
	}
	return out
}

func TestCreateTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("always carries the three fixed sections", func(t *testing.T) {
		_, repo, id := seedTemplate(t)

		template, err := repo.Template(ctx, id)
		require.NoError(t, err)
		require.Len(t, template.Sections, 3)

		assert.Equal(t, types.OrderRepairPlanning, template.Sections[0].Order)
		assert.Equal(t, types.OrderDocuments, template.Sections[1].Order)
		assert.Equal(t, types.OrderAdditionalInfo, template.Sections[2].Order)
		for _, section := range template.Sections {
			assert.False(t, section.IsDynamic)
		}
		assert.Equal(t, types.TemplateStatusActive, template.Status)
	})

	t.Run("unions caller dynamic sections with the fixed three", func(t *testing.T) {
		criteria := newFakeCriteriaRepo()
		require.NoError(t, criteria.Create(ctx, &types.InspectionCriteria{ID: "crit-1", Name: "C"}))
		svc := NewTemplateService(newFakeTemplateRepo(), criteria, newFakePropertyRepo())

		created, err := svc.CreateTemplate(ctx, CreateTemplateInput{
			Name:       "Rich",
			CriteriaID: "crit-1",
			Sections: []types.TemplateSection{
				{Kind: types.SectionTextField, Title: "Summary", Order: 2},
				{Kind: types.SectionMediaField, Title: "Gallery", Order: 1},
			},
		})
		require.NoError(t, err)
		require.Len(t, created.Sections, 5)

		// Dynamic sections are renumbered 1..N in their given order and
		// sorted ahead of the fixed block.
		assert.Equal(t, "Gallery", created.Sections[0].Title)
		assert.Equal(t, 1, created.Sections[0].Order)
		assert.Equal(t, "Summary", created.Sections[1].Title)
		assert.Equal(t, 2, created.Sections[1].Order)
		assert.Equal(t, types.OrderRepairPlanning, created.Sections[2].Order)

		// Untyped dynamic sections get generated identities, each unique.
		assert.Contains(t, created.Sections[0].Type, "media_field_")
		assert.Contains(t, created.Sections[1].Type, "text_field_")
		assert.NotEqual(t, created.Sections[0].Type, created.Sections[1].Type)
	})

	t.Run("rejects duplicate caller-supplied section types", func(t *testing.T) {
		criteria := newFakeCriteriaRepo()
		require.NoError(t, criteria.Create(ctx, &types.InspectionCriteria{ID: "crit-1", Name: "C"}))
		svc := NewTemplateService(newFakeTemplateRepo(), criteria, newFakePropertyRepo())

		_, err := svc.CreateTemplate(ctx, CreateTemplateInput{
			Name:       "Dup",
			CriteriaID: "crit-1",
			Sections: []types.TemplateSection{
				{Kind: types.SectionTextField, Title: "One", Type: "text_field_1"},
				{Kind: types.SectionTextField, Title: "Two", Type: "text_field_1"},
			},
		})
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))
	})

	t.Run("rejects unknown criteria", func(t *testing.T) {
		svc := NewTemplateService(newFakeTemplateRepo(), newFakeCriteriaRepo(), newFakePropertyRepo())

		_, err := svc.CreateTemplate(ctx, CreateTemplateInput{Name: "X", CriteriaID: "missing"})
		assert.ErrorIs(t, err, types.ErrCriteriaNotFound)
	})

	t.Run("rejects unknown section kinds", func(t *testing.T) {
		criteria := newFakeCriteriaRepo()
		require.NoError(t, criteria.Create(ctx, &types.InspectionCriteria{ID: "crit-1", Name: "C"}))
		svc := NewTemplateService(newFakeTemplateRepo(), criteria, newFakePropertyRepo())

		_, err := svc.CreateTemplate(ctx, CreateTemplateInput{
			Name:       "Bad",
			CriteriaID: "crit-1",
			Sections:   []types.TemplateSection{{Kind: "CHART", Title: "Chart"}},
		})
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))
	})
}

func TestAddDynamicSections(t *testing.T) {
	ctx := context.Background()
	svc, _, id := seedTemplate(t)

	first, err := svc.AddTextField(ctx, id, AddSectionInput{Title: "Summary"})
	require.NoError(t, err)
	require.Len(t, first.Sections, 4)
	assert.Equal(t, 1, first.Sections[0].Order)
	assert.True(t, first.Sections[0].IsDynamic)

	second, err := svc.AddMediaField(ctx, id, AddSectionInput{Title: "Gallery"})
	require.NoError(t, err)
	require.Len(t, second.Sections, 5)
	assert.Equal(t, 2, second.Sections[1].Order)
	assert.Equal(t, types.SectionMediaField, second.Sections[1].Kind)

	// Generated identities never collide.
	assert.NotEqual(t, second.Sections[0].Type, second.Sections[1].Type)

	_, err = svc.AddTextField(ctx, id, AddSectionInput{Title: "   "})
	assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))
}

func TestRemoveDynamicSection(t *testing.T) {
	ctx := context.Background()
	svc, repo, id := seedTemplate(t)

	_, err := svc.AddTextField(ctx, id, AddSectionInput{Title: "One"})
	require.NoError(t, err)
	_, err = svc.AddTextField(ctx, id, AddSectionInput{Title: "Two"})
	require.NoError(t, err)

	t.Run("fixed sections cannot be removed", func(t *testing.T) {
		_, err := svc.RemoveDynamicSection(ctx, id, types.OrderDocuments)
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))
	})

	t.Run("missing order is not found", func(t *testing.T) {
		_, err := svc.RemoveDynamicSection(ctx, id, 9)
		assert.Equal(t, types.ErrKindNotFound, types.KindOf(err))
	})

	t.Run("removal renumbers the survivors", func(t *testing.T) {
		after, err := svc.RemoveDynamicSection(ctx, id, 1)
		require.NoError(t, err)
		require.Len(t, after.Sections, 4)

		assert.Equal(t, "Two", after.Sections[0].Title)
		assert.Equal(t, 1, after.Sections[0].Order)
		assert.Equal(t, types.OrderRepairPlanning, after.Sections[1].Order)

		stored, err := repo.Template(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, sectionTypes(after.Sections), sectionTypes(stored.Sections))
	})
}

func TestUpdateSectionStyleDeepMerges(t *testing.T) {
	ctx := context.Background()
	svc, _, id := seedTemplate(t)

	_, err := svc.UpdateSectionStyle(ctx, id, SectionStyleInput{
		Type: string(types.SectionDocuments),
		Style: map[string]any{
			"color": "blue",
			"font":  map[string]any{"size": 12.0, "family": "serif"},
		},
	})
	require.NoError(t, err)

	second, err := svc.UpdateSectionStyle(ctx, id, SectionStyleInput{
		Type: string(types.SectionDocuments),
		Style: map[string]any{
			"font": map[string]any{"size": 14.0},
		},
	})
	require.NoError(t, err)

	var section types.TemplateSection
	for _, s := range second.Sections {
		if s.Type == string(types.SectionDocuments) {
			section = s
		}
	}

	assert.Equal(t, "blue", section.Style["color"])
	font := section.Style["font"].(map[string]any)
	assert.Equal(t, 14.0, font["size"])
	assert.Equal(t, "serif", font["family"])

	t.Run("empty patch is rejected", func(t *testing.T) {
		_, err := svc.UpdateSectionStyle(ctx, id, SectionStyleInput{Type: string(types.SectionDocuments)})
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))
	})

	t.Run("unknown section is not found", func(t *testing.T) {
		_, err := svc.UpdateSectionStyle(ctx, id, SectionStyleInput{
			Type:  "nope",
			Style: map[string]any{"color": "red"},
		})
		assert.Equal(t, types.ErrKindNotFound, types.KindOf(err))
	})
}

func TestReorderSections(t *testing.T) {
	ctx := context.Background()
	svc, repo, id := seedTemplate(t)

	withDynamic, err := svc.AddTextField(ctx, id, AddSectionInput{Title: "Summary"})
	require.NoError(t, err)
	before := sectionTypes(withDynamic.Sections)

	t.Run("length mismatch leaves the template unchanged", func(t *testing.T) {
		_, err := svc.ReorderSections(ctx, id, before[:2])
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

		stored, err := repo.Template(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before, sectionTypes(stored.Sections))
	})

	t.Run("duplicate entry leaves the template unchanged", func(t *testing.T) {
		dup := []string{before[0], before[0], before[1], before[2]}
		_, err := svc.ReorderSections(ctx, id, dup)
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

		stored, err := repo.Template(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before, sectionTypes(stored.Sections))
	})

	t.Run("unknown entry leaves the template unchanged", func(t *testing.T) {
		bad := []string{"nope", before[1], before[2], before[3]}
		_, err := svc.ReorderSections(ctx, id, bad)
		assert.Equal(t, types.ErrKindBadRequest, types.KindOf(err))

		stored, err := repo.Template(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before, sectionTypes(stored.Sections))
	})

	t.Run("valid reorder reassigns order by position", func(t *testing.T) {
		reversed := []string{before[3], before[2], before[1], before[0]}
		after, err := svc.ReorderSections(ctx, id, reversed)
		require.NoError(t, err)

		assert.Equal(t, reversed, sectionTypes(after.Sections))
		for i, section := range after.Sections {
			assert.Equal(t, i+1, section.Order)
		}
	})
}

func TestDuplicateTemplate(t *testing.T) {
	ctx := context.Background()
	svc, _, id := seedTemplate(t)

	_, err := svc.AddTextField(ctx, id, AddSectionInput{Title: "Summary"})
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.TemplateStatusInactive, archived.Status)

	copied, err := svc.Duplicate(ctx, id, "")
	require.NoError(t, err)

	assert.Equal(t, "Default Dashboard (copy)", copied.Name)
	assert.Equal(t, types.TemplateStatusActive, copied.Status)
	assert.Equal(t, sectionTypes(archived.Sections), sectionTypes(copied.Sections))
	assert.NotEqual(t, id, copied.ID)

	_, err = svc.Duplicate(ctx, id, "Default Dashboard (copy)")
	assert.Equal(t, types.ErrKindConflict, types.KindOf(err))
}

func TestDeleteTemplateGuardedByProperties(t *testing.T) {
	ctx := context.Background()
	svc, repo, id := seedTemplate(t)

	properties := newFakePropertyRepo()
	properties.countTemplate[id] = 1
	guarded := NewTemplateService(repo, newFakeCriteriaRepo(), properties)

	err := guarded.DeleteTemplate(ctx, id)
	assert.Equal(t, types.ErrKindConflict, types.KindOf(err))

	properties.countTemplate[id] = 0
	require.NoError(t, guarded.DeleteTemplate(ctx, id))

	_, err = svc.Template(ctx, id)
	assert.ErrorIs(t, err, types.ErrTemplateNotFound)
}
