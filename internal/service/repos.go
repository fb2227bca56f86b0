// Package service holds the business rules between the HTTP layer and the
// store: configuration invariants, the access-request state machine, and
// the audit trail. Repositories are injected as narrow interfaces.
package service

import (
	"context"
	"time"

	"propertypulse/pkg/types"
)

type CriteriaRepo interface {
	Criteria(ctx context.Context, criteriaID string) (*types.InspectionCriteria, error)
	CriteriaByName(ctx context.Context, name string) (*types.InspectionCriteria, error)
	ListCriteria(ctx context.Context, params types.PageParams, activeOnly bool) ([]*types.InspectionCriteria, int, error)
	Create(ctx context.Context, criteria *types.InspectionCriteria) error
	Update(ctx context.Context, criteriaID string, criteria *types.InspectionCriteria) error
	Delete(ctx context.Context, criteriaID string) error
}

type TemplateRepo interface {
	Template(ctx context.Context, templateID string) (*types.DashboardTemplate, error)
	TemplateByName(ctx context.Context, name string) (*types.DashboardTemplate, error)
	ListTemplates(ctx context.Context, params types.PageParams) ([]*types.DashboardTemplate, int, error)
	CountByCriteria(ctx context.Context, criteriaID string) (int, error)
	Create(ctx context.Context, template *types.DashboardTemplate) error
	Update(ctx context.Context, templateID string, template *types.DashboardTemplate) error
	Delete(ctx context.Context, templateID string) error
}

type PropertyRepo interface {
	Property(ctx context.Context, propertyID string) (*types.Property, error)
	ListProperties(ctx context.Context, params types.PageParams) ([]*types.Property, int, error)
	PropertiesByManager(ctx context.Context, managerID string) ([]*types.Property, error)
	CountByTemplate(ctx context.Context, templateID string) (int, error)
	CreateWithAudit(ctx context.Context, property *types.Property, event *types.AuditEvent) error
	Update(ctx context.Context, propertyID string, property *types.Property) error
	Delete(ctx context.Context, propertyID string) error
}

type AccessRepo interface {
	Access(ctx context.Context, propertyID, userID string) (*types.PropertyAccess, error)
	AccessByProperty(ctx context.Context, propertyID string) ([]*types.PropertyAccess, error)
	UpsertGrant(ctx context.Context, access *types.PropertyAccess) error
	Revoke(ctx context.Context, propertyID, userID, revokedBy string) error
	Request(ctx context.Context, requestID string) (*types.PropertyAccessRequest, error)
	RequestsByProperty(ctx context.Context, propertyID string) ([]*types.PropertyAccessRequest, error)
	UpsertRequest(ctx context.Context, request *types.PropertyAccessRequest) error
	Decline(ctx context.Context, requestID, reviewerID, reason string) error
	ApproveWithGrant(ctx context.Context, request *types.PropertyAccessRequest, reviewerID string, expiresAt *time.Time, event *types.AuditEvent) error
}

type UserRepo interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Users(ctx context.Context, params types.PageParams) ([]*types.User, int, error)
	Create(ctx context.Context, user *types.User) error
	Update(ctx context.Context, userID string, user *types.User) error
	Delete(ctx context.Context, userID string) error
}

type SettingsRepo interface {
	Branding(ctx context.Context) (*types.BrandingSettings, error)
	UpsertBranding(ctx context.Context, branding *types.BrandingSettings) error
	RoleDefaults(ctx context.Context) (*types.RoleNotificationDefaults, error)
	UpsertRoleDefaults(ctx context.Context, defaults *types.RoleNotificationDefaults) error
	UserNotifications(ctx context.Context, userID string, role types.Role) (*types.UserNotificationSettings, error)
	UpsertUserNotifications(ctx context.Context, settings *types.UserNotificationSettings) error
}

type AuditRepo interface {
	Record(ctx context.Context, event *types.AuditEvent) error
	EventsByEntity(ctx context.Context, entityType, entityID string) ([]*types.AuditEvent, error)
}
