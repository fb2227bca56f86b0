package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"propertypulse/pkg/types"
)

type TemplateService struct {
	repo       TemplateRepo
	criteria   CriteriaRepo
	properties PropertyRepo
}

func NewTemplateService(repo TemplateRepo, criteria CriteriaRepo, properties PropertyRepo) *TemplateService {
	return &TemplateService{repo: repo, criteria: criteria, properties: properties}
}

type CreateTemplateInput struct {
	Name       string                  `json:"name"`
	CriteriaID string                  `json:"criteriaId"`
	Sections   []types.TemplateSection `json:"sections"`
}

// CreateTemplate builds a dashboard template from the caller's sections
// unioned with the three fixed sections, sorted by order.
func (s *TemplateService) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*types.DashboardTemplate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, types.NewBadRequest("template name is required")
	}

	if _, err := s.criteria.Criteria(ctx, input.CriteriaID); err != nil {
		return nil, err
	}

	existing, err := s.repo.TemplateByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check template name: %w", err)
	}
	if existing != nil {
		return nil, types.NewConflict("template %q already exists", name)
	}

	sections, err := normalizeSections(input.Sections)
	if err != nil {
		return nil, err
	}

	template := &types.DashboardTemplate{
		Name:       name,
		CriteriaID: input.CriteriaID,
		Status:     types.TemplateStatusActive,
		Sections:   sections,
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	return template, nil
}

func (s *TemplateService) Template(ctx context.Context, templateID string) (*types.DashboardTemplate, error) {
	return s.repo.Template(ctx, templateID)
}

func (s *TemplateService) ListTemplates(ctx context.Context, params types.PageParams) ([]*types.DashboardTemplate, int, error) {
	return s.repo.ListTemplates(ctx, params.Normalize())
}

type UpdateTemplateInput struct {
	Name     *string                 `json:"name"`
	Sections []types.TemplateSection `json:"sections"`
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, templateID string, input UpdateTemplateInput) (*types.DashboardTemplate, error) {
	template, err := s.repo.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, types.NewBadRequest("template name is required")
		}
		if name != template.Name {
			existing, err := s.repo.TemplateByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("check template name: %w", err)
			}
			if existing != nil {
				return nil, types.NewConflict("template %q already exists", name)
			}
		}
		template.Name = name
	}

	if input.Sections != nil {
		sections, err := normalizeSections(input.Sections)
		if err != nil {
			return nil, err
		}
		template.Sections = sections
	}

	if err := s.repo.Update(ctx, templateID, template); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}

	return template, nil
}

// Archive flips the template to INACTIVE. Always allowed.
func (s *TemplateService) Archive(ctx context.Context, templateID string) (*types.DashboardTemplate, error) {
	template, err := s.repo.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	template.Status = types.TemplateStatusInactive

	if err := s.repo.Update(ctx, templateID, template); err != nil {
		return nil, fmt.Errorf("archive template: %w", err)
	}

	return template, nil
}

// Duplicate copies the template's sections verbatim under a new unique
// name with status reset to ACTIVE.
func (s *TemplateService) Duplicate(ctx context.Context, templateID, newName string) (*types.DashboardTemplate, error) {
	template, err := s.repo.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(newName)
	if name == "" {
		name = template.Name + " (copy)"
	}

	existing, err := s.repo.TemplateByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check template name: %w", err)
	}
	if existing != nil {
		return nil, types.NewConflict("template %q already exists", name)
	}

	copied := &types.DashboardTemplate{
		Name:       name,
		CriteriaID: template.CriteriaID,
		Status:     types.TemplateStatusActive,
		Sections:   append([]types.TemplateSection(nil), template.Sections...),
	}

	if err := s.repo.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("duplicate template: %w", err)
	}

	return copied, nil
}

// DeleteTemplate removes a template unless a property still references it.
func (s *TemplateService) DeleteTemplate(ctx context.Context, templateID string) error {
	if _, err := s.repo.Template(ctx, templateID); err != nil {
		return err
	}

	count, err := s.properties.CountByTemplate(ctx, templateID)
	if err != nil {
		return fmt.Errorf("count referencing properties: %w", err)
	}
	if count > 0 {
		return types.NewConflict("template is referenced by %d property(ies)", count)
	}

	return s.repo.Delete(ctx, templateID)
}

type AddSectionInput struct {
	Title string         `json:"title"`
	Style map[string]any `json:"style"`
}

func (s *TemplateService) AddTextField(ctx context.Context, templateID string, input AddSectionInput) (*types.DashboardTemplate, error) {
	return s.addDynamicSection(ctx, templateID, types.SectionTextField, input)
}

func (s *TemplateService) AddMediaField(ctx context.Context, templateID string, input AddSectionInput) (*types.DashboardTemplate, error) {
	return s.addDynamicSection(ctx, templateID, types.SectionMediaField, input)
}

func (s *TemplateService) addDynamicSection(ctx context.Context, templateID string, kind types.SectionKind, input AddSectionInput) (*types.DashboardTemplate, error) {
	template, err := s.repo.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, types.NewBadRequest("section title is required")
	}

	taken := make(map[string]bool, len(template.Sections))
	nextOrder := 1
	for _, section := range template.Sections {
		taken[section.Type] = true
		if section.IsDynamic && section.Order >= nextOrder {
			nextOrder = section.Order + 1
		}
	}

	template.Sections = append(template.Sections, types.TemplateSection{
		Type:      nextSectionType(kind, taken),
		Kind:      kind,
		Title:     strings.TrimSpace(input.Title),
		IsDynamic: true,
		Order:     nextOrder,
		Style:     input.Style,
	})
	sortSections(template.Sections)

	if err := s.repo.Update(ctx, templateID, template); err != nil {
		return nil, fmt.Errorf("add dynamic section: %w", err)
	}

	return template, nil
}

// RemoveDynamicSection deletes the dynamic section at the given order and
// renumbers the remaining dynamic sections to 1..N. Fixed sections keep
// their orders.
func (s *TemplateService) RemoveDynamicSection(ctx context.Context, templateID string, order int) (*types.DashboardTemplate, error) {
	template, err := s.repo.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, section := range template.Sections {
		if section.Order == order {
			if !section.IsDynamic {
				return nil, types.NewBadRequest("section at order %d is fixed and cannot be removed", order)
			}
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, types.NewNotFound("no section at order %d", order)
	}

	template.Sections = append(template.Sections[:idx], template.Sections[idx+1:]...)

	next := 1
	for i := range template.Sections {
		if template.Sections[i].IsDynamic {
			template.Sections[i].Order = next
			next++
		}
	}
	sortSections(template.Sections)

	if err := s.repo.Update(ctx, templateID, template); err != nil {
		return nil, fmt.Errorf("remove dynamic section: %w", err)
	}

	return template, nil
}

type SectionStyleInput struct {
	Type  string         `json:"type"`
	Style map[string]any `json:"style"`
}

// UpdateSectionStyle deep-merges the patch onto the addressed section's
// style, leaving unspecified nested keys intact.
func (s *TemplateService) UpdateSectionStyle(ctx context.Context, templateID string, input SectionStyleInput) (*types.DashboardTemplate, error) {
	template, err := s.repo.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if len(input.Style) == 0 {
		return nil, types.NewBadRequest("style patch is required")
	}

	idx := -1
	for i, section := range template.Sections {
		if section.Type == input.Type {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, types.NewNotFound("section %q not found", input.Type)
	}

	template.Sections[idx].Style = types.MergeStyles(template.Sections[idx].Style, input.Style)

	if err := s.repo.Update(ctx, templateID, template); err != nil {
		return nil, fmt.Errorf("update section style: %w", err)
	}

	return template, nil
}

// ReorderSections reassigns order = index+1 for every section named in
// orderedTypes. The list must cover every existing section exactly once.
func (s *TemplateService) ReorderSections(ctx context.Context, templateID string, orderedTypes []string) (*types.DashboardTemplate, error) {
	template, err := s.repo.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if len(orderedTypes) != len(template.Sections) {
		return nil, types.NewBadRequest("reorder list has %d entries, template has %d sections",
			len(orderedTypes), len(template.Sections))
	}

	byType := make(map[string]int, len(template.Sections))
	for i, section := range template.Sections {
		byType[section.Type] = i
	}

	seen := make(map[string]bool, len(orderedTypes))
	for _, sectionType := range orderedTypes {
		if seen[sectionType] {
			return nil, types.NewBadRequest("section %q named more than once", sectionType)
		}
		seen[sectionType] = true
		if _, ok := byType[sectionType]; !ok {
			return nil, types.NewBadRequest("section %q not found", sectionType)
		}
	}

	for i, sectionType := range orderedTypes {
		template.Sections[byType[sectionType]].Order = i + 1
	}
	sortSections(template.Sections)

	if err := s.repo.Update(ctx, templateID, template); err != nil {
		return nil, fmt.Errorf("reorder sections: %w", err)
	}

	return template, nil
}

// normalizeSections validates caller sections, forces fixed sections to
// their canonical identity and orders, injects any missing fixed section,
// renumbers dynamic sections to 1..N, and sorts the union by order.
func normalizeSections(input []types.TemplateSection) ([]types.TemplateSection, error) {
	fixed := make(map[types.SectionKind]types.TemplateSection, 3)
	for _, section := range types.FixedSectionDefaults() {
		fixed[section.Kind] = section
	}

	dynamic := make([]types.TemplateSection, 0, len(input))
	seenTypes := make(map[string]bool, len(input))

	for _, section := range input {
		switch section.Kind {
		case types.SectionRepairPlanning, types.SectionDocuments, types.SectionAdditionalInfo:
			canonical := fixed[section.Kind]
			if strings.TrimSpace(section.Title) != "" {
				canonical.Title = strings.TrimSpace(section.Title)
			}
			canonical.Style = section.Style
			fixed[section.Kind] = canonical
		case types.SectionTextField, types.SectionMediaField:
			section.IsDynamic = true
			if strings.TrimSpace(section.Title) == "" {
				return nil, types.NewBadRequest("dynamic section title is required")
			}
			if strings.TrimSpace(section.Type) == "" {
				section.Type = nextSectionType(section.Kind, seenTypes)
			} else {
				if seenTypes[section.Type] {
					return nil, types.NewBadRequest("duplicate section type %q", section.Type)
				}
				seenTypes[section.Type] = true
			}
			dynamic = append(dynamic, section)
		default:
			return nil, types.NewBadRequest("unknown section kind %q", section.Kind)
		}
	}

	sort.SliceStable(dynamic, func(i, j int) bool { return dynamic[i].Order < dynamic[j].Order })
	for i := range dynamic {
		dynamic[i].Order = i + 1
	}

	sections := dynamic
	for _, kind := range []types.SectionKind{types.SectionRepairPlanning, types.SectionDocuments, types.SectionAdditionalInfo} {
		sections = append(sections, fixed[kind])
	}
	sortSections(sections)

	return sections, nil
}

func sortSections(sections []types.TemplateSection) {
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
}

func nextSectionType(kind types.SectionKind, taken map[string]bool) string {
	prefix := "text_field"
	if kind == types.SectionMediaField {
		prefix = "media_field"
	}

	base := time.Now().UnixMilli()
	for {
		sectionType := fmt.Sprintf("%s_%d", prefix, base)
		if !taken[sectionType] {
			taken[sectionType] = true
			return sectionType
		}
		base++
	}
}
