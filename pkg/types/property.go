package types

import "time"

type Property struct {
	ID                  string    `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Address             string    `db:"address" json:"address"`
	City                *string   `db:"city" json:"city"`
	State               *string   `db:"state" json:"state"`
	ZipCode             *string   `db:"zip_code" json:"zipCode"`
	ManagerID           *string   `db:"manager_id" json:"managerId"`
	DashboardTemplateID *string   `db:"dashboard_template_id" json:"dashboardTemplateId"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "PENDING"
	AccessRequestApproved AccessRequestStatus = "APPROVED"
	AccessRequestDeclined AccessRequestStatus = "DECLINED"
)

type PropertyAccessRequest struct {
	ID            string              `db:"id" json:"id"`
	PropertyID    string              `db:"property_id" json:"propertyId"`
	RequesterID   string              `db:"requester_id" json:"requesterId"`
	Status        AccessRequestStatus `db:"status" json:"status"`
	Message       *string             `db:"message" json:"message"`
	DeclineReason *string             `db:"decline_reason" json:"declineReason"`
	ReviewedAt    *time.Time          `db:"reviewed_at" json:"reviewedAt"`
	ReviewedBy    *string             `db:"reviewed_by" json:"reviewedBy"`
	CreatedAt     time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updatedAt"`
}

// PropertyAccess is a grant row. Revocation marks the row rather than
// deleting it so the grant history survives.
type PropertyAccess struct {
	ID         string     `db:"id" json:"id"`
	PropertyID string     `db:"property_id" json:"propertyId"`
	UserID     string     `db:"user_id" json:"userId"`
	GrantedAt  time.Time  `db:"granted_at" json:"grantedAt"`
	GrantedBy  string     `db:"granted_by" json:"grantedBy"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expiresAt"`
	RevokedAt  *time.Time `db:"revoked_at" json:"revokedAt"`
	RevokedBy  *string    `db:"revoked_by" json:"revokedBy"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

type AccessDenialReason string

const (
	AccessDenialNone    AccessDenialReason = "NO_ACCESS"
	AccessDenialRevoked AccessDenialReason = "REVOKED"
	AccessDenialExpired AccessDenialReason = "EXPIRED"
)

type AccessCheckResult struct {
	HasAccess bool               `json:"hasAccess"`
	Reason    AccessDenialReason `json:"reason,omitempty"`
}
