package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"propertypulse/pkg/types"
)

type CriteriaService struct {
	repo      CriteriaRepo
	templates TemplateRepo
}

func NewCriteriaService(repo CriteriaRepo, templates TemplateRepo) *CriteriaService {
	return &CriteriaService{repo: repo, templates: templates}
}

type CreateCriteriaInput struct {
	Name                  string                        `json:"name"`
	Description           string                        `json:"description"`
	HeaderFields          []types.HeaderField           `json:"headerFields"`
	ScoringCategories     []types.ScoringCategory       `json:"scoringCategories"`
	MediaFields           []types.MediaField            `json:"mediaFields"`
	AdditionalNotesConfig *types.AdditionalNotesConfig  `json:"additionalNotesConfig"`
	RepairPlanningConfig  *types.RepairPlanningConfig   `json:"repairPlanningConfig"`
	HealthThresholdConfig *types.HealthThresholdConfig  `json:"healthThresholdConfig"`
}

// CreateCriteria persists a new criteria. Every caller-supplied field is
// marked as a system field; only fields added afterward are custom.
func (s *CriteriaService) CreateCriteria(ctx context.Context, input CreateCriteriaInput) (*types.InspectionCriteria, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, types.NewBadRequest("criteria name is required")
	}

	existing, err := s.repo.CriteriaByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check criteria name: %w", err)
	}
	if existing != nil {
		return nil, types.NewConflict("criteria %q already exists", name)
	}

	if err := validateHeaderKeys(input.HeaderFields); err != nil {
		return nil, err
	}
	if err := validateCategoryKeys(input.ScoringCategories); err != nil {
		return nil, err
	}
	if err := validateMediaKeys(input.MediaFields); err != nil {
		return nil, err
	}

	for i := range input.HeaderFields {
		f := &input.HeaderFields[i]
		if !f.Type.Valid() {
			return nil, types.NewBadRequest("header field %q has unknown type %q", f.Key, f.Type)
		}
		f.IsSystem = true
		f.Order = i + 1
	}

	total := 0
	for i := range input.ScoringCategories {
		c := &input.ScoringCategories[i]
		if c.MaxPoints <= 0 {
			return nil, types.NewBadRequest("scoring category %q must have positive maxPoints", c.Key)
		}
		total += c.MaxPoints
		c.IsSystem = true
		c.Order = i + 1
	}
	if total > types.MaxScoringPoints {
		return nil, types.NewBadRequest("scoring categories total %d points, must not exceed %d", total, types.MaxScoringPoints)
	}

	for i := range input.MediaFields {
		f := &input.MediaFields[i]
		f.IsSystem = true
		f.Order = i + 1
	}

	if input.HealthThresholdConfig != nil {
		if err := validateHealthThresholds(input.HealthThresholdConfig); err != nil {
			return nil, err
		}
	}

	criteria := &types.InspectionCriteria{
		Name:                  name,
		Description:           strings.TrimSpace(input.Description),
		IsActive:              true,
		HeaderFields:          input.HeaderFields,
		ScoringCategories:     input.ScoringCategories,
		MediaFields:           input.MediaFields,
		AdditionalNotesConfig: input.AdditionalNotesConfig,
		RepairPlanningConfig:  input.RepairPlanningConfig,
		HealthThresholdConfig: input.HealthThresholdConfig,
	}

	if err := s.repo.Create(ctx, criteria); err != nil {
		return nil, fmt.Errorf("create criteria: %w", err)
	}

	return criteria, nil
}

func (s *CriteriaService) Criteria(ctx context.Context, criteriaID string) (*types.InspectionCriteria, error) {
	return s.repo.Criteria(ctx, criteriaID)
}

func (s *CriteriaService) ListCriteria(ctx context.Context, params types.PageParams, activeOnly bool) ([]*types.InspectionCriteria, int, error) {
	return s.repo.ListCriteria(ctx, params.Normalize(), activeOnly)
}

type UpdateCriteriaInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (s *CriteriaService) UpdateCriteria(ctx context.Context, criteriaID string, input UpdateCriteriaInput) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, types.NewBadRequest("criteria name is required")
		}
		if name != criteria.Name {
			existing, err := s.repo.CriteriaByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("check criteria name: %w", err)
			}
			if existing != nil {
				return nil, types.NewConflict("criteria %q already exists", name)
			}
		}
		criteria.Name = name
	}
	if input.Description != nil {
		criteria.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		criteria.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("update criteria: %w", err)
	}

	return criteria, nil
}

// DeleteCriteria removes a criteria unless a dashboard template still
// references it.
func (s *CriteriaService) DeleteCriteria(ctx context.Context, criteriaID string) error {
	if _, err := s.repo.Criteria(ctx, criteriaID); err != nil {
		return err
	}

	count, err := s.templates.CountByCriteria(ctx, criteriaID)
	if err != nil {
		return fmt.Errorf("count referencing templates: %w", err)
	}
	if count > 0 {
		return types.NewConflict("criteria is referenced by %d dashboard template(s)", count)
	}

	return s.repo.Delete(ctx, criteriaID)
}

type HeaderFieldInput struct {
	Label       string                `json:"label"`
	Type        types.HeaderFieldType `json:"type"`
	Placeholder string                `json:"placeholder"`
	Options     []string              `json:"options"`
	Required    bool                  `json:"required"`
}

func (s *CriteriaService) AddHeaderField(ctx context.Context, criteriaID string, input HeaderFieldInput) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Label) == "" {
		return nil, types.NewBadRequest("header field label is required")
	}
	if !input.Type.Valid() {
		return nil, types.NewBadRequest("unknown header field type %q", input.Type)
	}
	if input.Type == types.HeaderFieldDropdown && len(input.Options) == 0 {
		return nil, types.NewBadRequest("dropdown header field requires options")
	}

	keys := make(map[string]bool, len(criteria.HeaderFields))
	for _, f := range criteria.HeaderFields {
		keys[f.Key] = true
	}

	field := types.HeaderField{
		Key:         nextCustomKey(keys),
		Label:       strings.TrimSpace(input.Label),
		Type:        input.Type,
		Placeholder: input.Placeholder,
		Options:     input.Options,
		Required:    input.Required,
		IsSystem:    false,
		Order:       len(criteria.HeaderFields) + 1,
	}
	criteria.HeaderFields = append(criteria.HeaderFields, field)

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("add header field: %w", err)
	}

	return criteria, nil
}

type UpdateHeaderFieldInput struct {
	Label       *string                `json:"label"`
	Type        *types.HeaderFieldType `json:"type"`
	Placeholder *string                `json:"placeholder"`
	Options     []string               `json:"options"`
	Required    *bool                  `json:"required"`
}

// UpdateHeaderField edits a header field. System fields only allow their
// cosmetic attributes (label, placeholder, options) to change.
func (s *CriteriaService) UpdateHeaderField(ctx context.Context, criteriaID, key string, input UpdateHeaderFieldInput) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, f := range criteria.HeaderFields {
		if f.Key == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, types.NewNotFound("header field %q not found", key)
	}

	field := &criteria.HeaderFields[idx]

	if field.IsSystem {
		if input.Type != nil && *input.Type != field.Type {
			return nil, types.NewForbidden("cannot change the type of system field %q", key)
		}
		if input.Required != nil && *input.Required != field.Required {
			return nil, types.NewForbidden("cannot change the required flag of system field %q", key)
		}
	} else {
		if input.Type != nil {
			if !input.Type.Valid() {
				return nil, types.NewBadRequest("unknown header field type %q", *input.Type)
			}
			field.Type = *input.Type
		}
		if input.Required != nil {
			field.Required = *input.Required
		}
	}

	if input.Label != nil {
		if strings.TrimSpace(*input.Label) == "" {
			return nil, types.NewBadRequest("header field label is required")
		}
		field.Label = strings.TrimSpace(*input.Label)
	}
	if input.Placeholder != nil {
		field.Placeholder = *input.Placeholder
	}
	if input.Options != nil {
		field.Options = input.Options
	}

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("update header field: %w", err)
	}

	return criteria, nil
}

func (s *CriteriaService) RemoveHeaderField(ctx context.Context, criteriaID, key string) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	kept := make([]types.HeaderField, 0, len(criteria.HeaderFields))
	found := false
	for _, f := range criteria.HeaderFields {
		if f.Key == key {
			if f.IsSystem {
				return nil, types.NewForbidden("system field %q cannot be removed", key)
			}
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return nil, types.NewNotFound("header field %q not found", key)
	}

	for i := range kept {
		kept[i].Order = i + 1
	}
	criteria.HeaderFields = kept

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("remove header field: %w", err)
	}

	return criteria, nil
}

type ScoringCategoryInput struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	MaxPoints   int    `json:"maxPoints"`
}

func (s *CriteriaService) AddScoringCategory(ctx context.Context, criteriaID string, input ScoringCategoryInput) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Label) == "" {
		return nil, types.NewBadRequest("scoring category label is required")
	}
	if input.MaxPoints <= 0 {
		return nil, types.NewBadRequest("scoring category must have positive maxPoints")
	}

	if total := criteria.TotalScoringPoints() + input.MaxPoints; total > types.MaxScoringPoints {
		return nil, types.NewBadRequest("adding %d points would exceed %dpt total (currently %d)",
			input.MaxPoints, types.MaxScoringPoints, criteria.TotalScoringPoints())
	}

	keys := make(map[string]bool, len(criteria.ScoringCategories))
	for _, c := range criteria.ScoringCategories {
		keys[c.Key] = true
	}

	category := types.ScoringCategory{
		Key:         nextCustomKey(keys),
		Label:       strings.TrimSpace(input.Label),
		Description: strings.TrimSpace(input.Description),
		MaxPoints:   input.MaxPoints,
		IsSystem:    false,
		Order:       len(criteria.ScoringCategories) + 1,
	}
	criteria.ScoringCategories = append(criteria.ScoringCategories, category)

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("add scoring category: %w", err)
	}

	return criteria, nil
}

type UpdateScoringCategoryInput struct {
	Label       *string `json:"label"`
	Description *string `json:"description"`
	MaxPoints   *int    `json:"maxPoints"`
}

// UpdateScoringCategory edits a category. System categories keep their
// maxPoints; the budget is re-checked against all other categories.
func (s *CriteriaService) UpdateScoringCategory(ctx context.Context, criteriaID, key string, input UpdateScoringCategoryInput) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range criteria.ScoringCategories {
		if c.Key == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, types.NewNotFound("scoring category %q not found", key)
	}

	category := &criteria.ScoringCategories[idx]

	if input.MaxPoints != nil && *input.MaxPoints != category.MaxPoints {
		if category.IsSystem {
			return nil, types.NewForbidden("cannot change maxPoints of system category %q", key)
		}
		if *input.MaxPoints <= 0 {
			return nil, types.NewBadRequest("scoring category must have positive maxPoints")
		}

		others := criteria.TotalScoringPoints() - category.MaxPoints
		if others+*input.MaxPoints > types.MaxScoringPoints {
			return nil, types.NewBadRequest("setting %d points would exceed %dpt total (other categories hold %d)",
				*input.MaxPoints, types.MaxScoringPoints, others)
		}
		category.MaxPoints = *input.MaxPoints
	}

	if input.Label != nil {
		if strings.TrimSpace(*input.Label) == "" {
			return nil, types.NewBadRequest("scoring category label is required")
		}
		category.Label = strings.TrimSpace(*input.Label)
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("update scoring category: %w", err)
	}

	return criteria, nil
}

func (s *CriteriaService) RemoveScoringCategory(ctx context.Context, criteriaID, key string) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	kept := make([]types.ScoringCategory, 0, len(criteria.ScoringCategories))
	found := false
	for _, c := range criteria.ScoringCategories {
		if c.Key == key {
			if c.IsSystem {
				return nil, types.NewForbidden("system category %q cannot be removed", key)
			}
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return nil, types.NewNotFound("scoring category %q not found", key)
	}

	for i := range kept {
		kept[i].Order = i + 1
	}
	criteria.ScoringCategories = kept

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("remove scoring category: %w", err)
	}

	return criteria, nil
}

type MediaFieldInput struct {
	Label    string   `json:"label"`
	Accept   []string `json:"accept"`
	MaxFiles int      `json:"maxFiles"`
}

func (s *CriteriaService) AddMediaField(ctx context.Context, criteriaID string, input MediaFieldInput) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Label) == "" {
		return nil, types.NewBadRequest("media field label is required")
	}
	if input.MaxFiles <= 0 {
		input.MaxFiles = 1
	}

	keys := make(map[string]bool, len(criteria.MediaFields))
	for _, f := range criteria.MediaFields {
		keys[f.Key] = true
	}

	field := types.MediaField{
		Key:      nextCustomKey(keys),
		Label:    strings.TrimSpace(input.Label),
		Accept:   input.Accept,
		MaxFiles: input.MaxFiles,
		IsSystem: false,
		Order:    len(criteria.MediaFields) + 1,
	}
	criteria.MediaFields = append(criteria.MediaFields, field)

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("add media field: %w", err)
	}

	return criteria, nil
}

type UpdateMediaFieldInput struct {
	Label    *string  `json:"label"`
	Accept   []string `json:"accept"`
	MaxFiles *int     `json:"maxFiles"`
}

func (s *CriteriaService) UpdateMediaField(ctx context.Context, criteriaID, key string, input UpdateMediaFieldInput) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, f := range criteria.MediaFields {
		if f.Key == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, types.NewNotFound("media field %q not found", key)
	}

	field := &criteria.MediaFields[idx]

	if input.MaxFiles != nil && *input.MaxFiles != field.MaxFiles {
		if field.IsSystem {
			return nil, types.NewForbidden("cannot change maxFiles of system field %q", key)
		}
		if *input.MaxFiles <= 0 {
			return nil, types.NewBadRequest("media field must allow at least one file")
		}
		field.MaxFiles = *input.MaxFiles
	}

	if input.Label != nil {
		if strings.TrimSpace(*input.Label) == "" {
			return nil, types.NewBadRequest("media field label is required")
		}
		field.Label = strings.TrimSpace(*input.Label)
	}
	if input.Accept != nil {
		field.Accept = input.Accept
	}

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("update media field: %w", err)
	}

	return criteria, nil
}

func (s *CriteriaService) RemoveMediaField(ctx context.Context, criteriaID, key string) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	kept := make([]types.MediaField, 0, len(criteria.MediaFields))
	found := false
	for _, f := range criteria.MediaFields {
		if f.Key == key {
			if f.IsSystem {
				return nil, types.NewForbidden("system field %q cannot be removed", key)
			}
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return nil, types.NewNotFound("media field %q not found", key)
	}

	for i := range kept {
		kept[i].Order = i + 1
	}
	criteria.MediaFields = kept

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("remove media field: %w", err)
	}

	return criteria, nil
}

func (s *CriteriaService) UpdateAdditionalNotesConfig(ctx context.Context, criteriaID string, config types.AdditionalNotesConfig) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	if config.MaxLength < 0 {
		return nil, types.NewBadRequest("maxLength must not be negative")
	}

	criteria.AdditionalNotesConfig = &config

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("update additional notes config: %w", err)
	}

	return criteria, nil
}

func (s *CriteriaService) UpdateRepairPlanningConfig(ctx context.Context, criteriaID string, config types.RepairPlanningConfig) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	if len(config.Statuses) == 0 {
		return nil, types.NewBadRequest("repair planning config requires at least one status")
	}
	seen := make(map[string]bool, len(config.Statuses))
	for _, status := range config.Statuses {
		if strings.TrimSpace(status) == "" {
			return nil, types.NewBadRequest("repair planning statuses must not be blank")
		}
		if seen[status] {
			return nil, types.NewBadRequest("duplicate repair planning status %q", status)
		}
		seen[status] = true
	}

	criteria.RepairPlanningConfig = &config

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("update repair planning config: %w", err)
	}

	return criteria, nil
}

func (s *CriteriaService) UpdateHealthThresholdConfig(ctx context.Context, criteriaID string, config types.HealthThresholdConfig) (*types.InspectionCriteria, error) {
	criteria, err := s.repo.Criteria(ctx, criteriaID)
	if err != nil {
		return nil, err
	}

	if err := validateHealthThresholds(&config); err != nil {
		return nil, err
	}

	criteria.HealthThresholdConfig = &config

	if err := s.repo.Update(ctx, criteriaID, criteria); err != nil {
		return nil, fmt.Errorf("update health threshold config: %w", err)
	}

	return criteria, nil
}

func validateHealthThresholds(config *types.HealthThresholdConfig) error {
	tiers := map[string]types.HealthThresholdTier{
		"good": config.Good,
		"fair": config.Fair,
		"poor": config.Poor,
	}
	for name, tier := range tiers {
		if tier.MinScore > tier.MaxScore {
			return types.NewBadRequest("%s tier: minScore %d exceeds maxScore %d", name, tier.MinScore, tier.MaxScore)
		}
		if tier.RemainingLifeMinYears > tier.RemainingLifeMaxYears {
			return types.NewBadRequest("%s tier: remainingLifeMinYears %d exceeds remainingLifeMaxYears %d",
				name, tier.RemainingLifeMinYears, tier.RemainingLifeMaxYears)
		}
	}
	return nil
}

// nextCustomKey mints a custom_<millis> key, bumping the suffix if two
// fields are added within the same millisecond.
func nextCustomKey(taken map[string]bool) string {
	base := time.Now().UnixMilli()
	for {
		key := fmt.Sprintf("custom_%d", base)
		if !taken[key] {
			return key
		}
		base++
	}
}

func validateHeaderKeys(fields []types.HeaderField) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Key) == "" {
			return types.NewBadRequest("header field key is required")
		}
		if seen[f.Key] {
			return types.NewBadRequest("duplicate header field key %q", f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}

func validateCategoryKeys(categories []types.ScoringCategory) error {
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c.Key) == "" {
			return types.NewBadRequest("scoring category key is required")
		}
		if seen[c.Key] {
			return types.NewBadRequest("duplicate scoring category key %q", c.Key)
		}
		seen[c.Key] = true
	}
	return nil
}

func validateMediaKeys(fields []types.MediaField) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Key) == "" {
			return types.NewBadRequest("media field key is required")
		}
		if seen[f.Key] {
			return types.NewBadRequest("duplicate media field key %q", f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}
