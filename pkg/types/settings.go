package types

import "time"

// SettingsRowID is the well-known key of each singleton settings row.
const SettingsRowID = "default"

type BrandingSettings struct {
	ID             string    `db:"id" json:"-"`
	CompanyName    string    `db:"company_name" json:"companyName"`
	LogoURL        *string   `db:"logo_url" json:"logoUrl"`
	PrimaryColor   string    `db:"primary_color" json:"primaryColor"`
	SecondaryColor string    `db:"secondary_color" json:"secondaryColor"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

func DefaultBranding() *BrandingSettings {
	return &BrandingSettings{
		ID:             SettingsRowID,
		CompanyName:    "PropertyPulse",
		PrimaryColor:   "#1f2a44",
		SecondaryColor: "#3fa7d6",
	}
}

// RoleNotificationDefaults is the system-wide singleton mapping each role
// to the notification record new users of that role start from.
type RoleNotificationDefaults struct {
	ID        string                     `db:"id" json:"-"`
	Defaults  map[Role]NotificationPrefs `db:"defaults" json:"defaults"` // jsonb
	UpdatedAt time.Time                  `db:"updated_at" json:"updatedAt"`
}

func DefaultRoleNotifications() *RoleNotificationDefaults {
	return &RoleNotificationDefaults{
		ID: SettingsRowID,
		Defaults: map[Role]NotificationPrefs{
			RoleAdmin:            {InspectionCompleted: true, AccessRequested: true, AccessDecision: true},
			RolePropertyManager:  {InspectionCompleted: true, AccessRequested: true, AccessDecision: true},
			RoleAuthorizedViewer: {AccessDecision: true},
		},
	}
}
