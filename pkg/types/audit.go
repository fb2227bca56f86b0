package types

import "time"

type AuditAction string

const (
	AuditPropertyCreated   AuditAction = "PROPERTY_CREATED"
	AuditPropertyUpdated   AuditAction = "PROPERTY_UPDATED"
	AuditPropertyDeleted   AuditAction = "PROPERTY_DELETED"
	AuditManagerAssigned   AuditAction = "MANAGER_ASSIGNED"
	AuditTemplateAssigned  AuditAction = "TEMPLATE_ASSIGNED"
	AuditAccessRequested   AuditAction = "ACCESS_REQUESTED"
	AuditAccessApproved    AuditAction = "ACCESS_APPROVED"
	AuditAccessDeclined    AuditAction = "ACCESS_DECLINED"
	AuditAccessShared      AuditAction = "ACCESS_SHARED"
	AuditAccessRevoked     AuditAction = "ACCESS_REVOKED"
)

type AuditEvent struct {
	ID         string         `db:"id" json:"id"`
	ActorID    string         `db:"actor_id" json:"actorId"`
	Action     AuditAction    `db:"action" json:"action"`
	EntityType string         `db:"entity_type" json:"entityType"`
	EntityID   string         `db:"entity_id" json:"entityId"`
	Detail     map[string]any `db:"detail" json:"detail,omitempty"` // jsonb
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}
