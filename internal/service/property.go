package service

import (
	"context"
	"fmt"
	"strings"

	"propertypulse/pkg/types"
)

const auditEntityProperty = "property"

type PropertyService struct {
	repo      PropertyRepo
	templates TemplateRepo
	users     UserRepo
	audit     AuditRepo
}

func NewPropertyService(repo PropertyRepo, templates TemplateRepo, users UserRepo, audit AuditRepo) *PropertyService {
	return &PropertyService{repo: repo, templates: templates, users: users, audit: audit}
}

type CreatePropertyInput struct {
	Name                string  `json:"name"`
	Address             string  `json:"address"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	ZipCode             *string `json:"zipCode"`
	ManagerID           *string `json:"managerId"`
	DashboardTemplateID *string `json:"dashboardTemplateId"`
}

// CreateProperty inserts the property and its audit event in one
// transaction.
func (s *PropertyService) CreateProperty(ctx context.Context, actor *types.User, input CreatePropertyInput) (*types.Property, error) {
	if actor.Role != types.RoleAdmin {
		return nil, types.NewForbidden("only admins can create properties")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, types.NewBadRequest("property name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, types.NewBadRequest("property address is required")
	}

	if input.ManagerID != nil {
		if err := s.validateManager(ctx, *input.ManagerID); err != nil {
			return nil, err
		}
	}
	if input.DashboardTemplateID != nil {
		if _, err := s.templates.Template(ctx, *input.DashboardTemplateID); err != nil {
			return nil, err
		}
	}

	property := &types.Property{
		Name:                name,
		Address:             strings.TrimSpace(input.Address),
		City:                input.City,
		State:               input.State,
		ZipCode:             input.ZipCode,
		ManagerID:           input.ManagerID,
		DashboardTemplateID: input.DashboardTemplateID,
	}

	event := &types.AuditEvent{
		ActorID:    actor.ID,
		Action:     types.AuditPropertyCreated,
		EntityType: auditEntityProperty,
		Detail:     map[string]any{"name": name},
	}

	if err := s.repo.CreateWithAudit(ctx, property, event); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	return property, nil
}

func (s *PropertyService) Property(ctx context.Context, propertyID string) (*types.Property, error) {
	return s.repo.Property(ctx, propertyID)
}

// ListProperties scopes the listing to the actor: admins see everything,
// managers see their own portfolio.
func (s *PropertyService) ListProperties(ctx context.Context, actor *types.User, params types.PageParams) ([]*types.Property, int, error) {
	switch actor.Role {
	case types.RoleAdmin:
		return s.repo.ListProperties(ctx, params.Normalize())
	case types.RolePropertyManager:
		list, err := s.repo.PropertiesByManager(ctx, actor.ID)
		if err != nil {
			return nil, 0, err
		}
		return list, len(list), nil
	default:
		return nil, 0, types.NewForbidden("viewers cannot list properties")
	}
}

type UpdatePropertyInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
}

func (s *PropertyService) UpdateProperty(ctx context.Context, actor *types.User, propertyID string, input UpdatePropertyInput) (*types.Property, error) {
	property, err := s.repo.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if err := requireManagerOrAdmin(actor, property); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, types.NewBadRequest("property name is required")
		}
		property.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		if strings.TrimSpace(*input.Address) == "" {
			return nil, types.NewBadRequest("property address is required")
		}
		property.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		property.City = input.City
	}
	if input.State != nil {
		property.State = input.State
	}
	if input.ZipCode != nil {
		property.ZipCode = input.ZipCode
	}

	if err := s.repo.Update(ctx, propertyID, property); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}

	s.record(ctx, actor, types.AuditPropertyUpdated, propertyID, nil)

	return property, nil
}

// AssignManager sets or clears the property's single manager.
func (s *PropertyService) AssignManager(ctx context.Context, actor *types.User, propertyID string, managerID *string) (*types.Property, error) {
	if actor.Role != types.RoleAdmin {
		return nil, types.NewForbidden("only admins can assign managers")
	}

	property, err := s.repo.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if managerID != nil {
		if err := s.validateManager(ctx, *managerID); err != nil {
			return nil, err
		}
	}
	property.ManagerID = managerID

	if err := s.repo.Update(ctx, propertyID, property); err != nil {
		return nil, fmt.Errorf("assign manager: %w", err)
	}

	detail := map[string]any{}
	if managerID != nil {
		detail["managerId"] = *managerID
	}
	s.record(ctx, actor, types.AuditManagerAssigned, propertyID, detail)

	return property, nil
}

func (s *PropertyService) AssignTemplate(ctx context.Context, actor *types.User, propertyID, templateID string) (*types.Property, error) {
	property, err := s.repo.Property(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if err := requireManagerOrAdmin(actor, property); err != nil {
		return nil, err
	}

	template, err := s.templates.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.Status != types.TemplateStatusActive {
		return nil, types.NewBadRequest("template %q is archived", template.Name)
	}

	property.DashboardTemplateID = &template.ID

	if err := s.repo.Update(ctx, propertyID, property); err != nil {
		return nil, fmt.Errorf("assign template: %w", err)
	}

	s.record(ctx, actor, types.AuditTemplateAssigned, propertyID, map[string]any{"templateId": templateID})

	return property, nil
}

func (s *PropertyService) DeleteProperty(ctx context.Context, actor *types.User, propertyID string) error {
	if actor.Role != types.RoleAdmin {
		return types.NewForbidden("only admins can delete properties")
	}

	property, err := s.repo.Property(ctx, propertyID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, propertyID); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	s.record(ctx, actor, types.AuditPropertyDeleted, propertyID, map[string]any{"name": property.Name})

	return nil
}

func (s *PropertyService) validateManager(ctx context.Context, managerID string) error {
	manager, err := s.users.User(ctx, managerID)
	if err != nil {
		return err
	}
	if manager.Role != types.RolePropertyManager {
		return types.NewBadRequest("user %s is not a property manager", managerID)
	}
	if !manager.IsActive {
		return types.NewBadRequest("user %s is deactivated", managerID)
	}
	return nil
}

func (s *PropertyService) record(ctx context.Context, actor *types.User, action types.AuditAction, propertyID string, detail map[string]any) {
	event := &types.AuditEvent{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: auditEntityProperty,
		EntityID:   propertyID,
		Detail:     detail,
	}
	// Audit failures do not fail the operation they describe.
	_ = s.audit.Record(ctx, event)
}

func requireManagerOrAdmin(actor *types.User, property *types.Property) error {
	if actor.Role == types.RoleAdmin {
		return nil
	}
	if property.ManagerID != nil && *property.ManagerID == actor.ID {
		return nil
	}
	return types.NewForbidden("only the property's manager or an admin may do this")
}
