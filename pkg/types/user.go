package types

import "time"

type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RolePropertyManager  Role = "PROPERTY_MANAGER"
	RoleAuthorizedViewer Role = "AUTHORIZED_VIEWER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePropertyManager, RoleAuthorizedViewer:
		return true
	}
	return false
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	GivenName    *string   `db:"given_name" json:"givenName"`
	FamilyName   *string   `db:"family_name" json:"familyName"`
	Role         Role      `db:"role" json:"role"`
	Timezone     string    `db:"timezone" json:"timezone"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NotificationPrefs is one role's preference record. Every role gets its
// own record rather than sharing one flat struct of role-prefixed flags.
type NotificationPrefs struct {
	InspectionCompleted bool `json:"inspectionCompleted"`
	AccessRequested     bool `json:"accessRequested"`
	AccessDecision      bool `json:"accessDecision"`
	WeeklyDigest        bool `json:"weeklyDigest"`
}

type UserNotificationSettings struct {
	UserID    string            `db:"user_id" json:"userId"`
	Prefs     NotificationPrefs `db:"prefs" json:"prefs"` // jsonb
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}
