package service

import (
	"context"
	"fmt"
	"strings"

	"propertypulse/pkg/types"
)

type SettingsService struct {
	settings SettingsRepo
}

func NewSettingsService(settings SettingsRepo) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) Branding(ctx context.Context) (*types.BrandingSettings, error) {
	return s.settings.Branding(ctx)
}

type UpdateBrandingInput struct {
	CompanyName    *string `json:"companyName"`
	LogoURL        *string `json:"logoUrl"`
	PrimaryColor   *string `json:"primaryColor"`
	SecondaryColor *string `json:"secondaryColor"`
}

func (s *SettingsService) UpdateBranding(ctx context.Context, input UpdateBrandingInput) (*types.BrandingSettings, error) {
	branding, err := s.settings.Branding(ctx)
	if err != nil {
		return nil, err
	}

	if input.CompanyName != nil {
		if strings.TrimSpace(*input.CompanyName) == "" {
			return nil, types.NewBadRequest("company name must not be blank")
		}
		branding.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.LogoURL != nil {
		branding.LogoURL = input.LogoURL
	}
	if input.PrimaryColor != nil {
		branding.PrimaryColor = *input.PrimaryColor
	}
	if input.SecondaryColor != nil {
		branding.SecondaryColor = *input.SecondaryColor
	}

	if err := s.settings.UpsertBranding(ctx, branding); err != nil {
		return nil, fmt.Errorf("update branding: %w", err)
	}

	return branding, nil
}

func (s *SettingsService) RoleDefaults(ctx context.Context) (*types.RoleNotificationDefaults, error) {
	return s.settings.RoleDefaults(ctx)
}

// UpdateRoleDefaults patches the singleton per-role defaults; roles absent
// from the input keep their current record.
func (s *SettingsService) UpdateRoleDefaults(ctx context.Context, patch map[types.Role]types.NotificationPrefs) (*types.RoleNotificationDefaults, error) {
	defaults, err := s.settings.RoleDefaults(ctx)
	if err != nil {
		return nil, err
	}

	for role, prefs := range patch {
		if !role.Valid() {
			return nil, types.NewBadRequest("unknown role %q", role)
		}
		defaults.Defaults[role] = prefs
	}

	if err := s.settings.UpsertRoleDefaults(ctx, defaults); err != nil {
		return nil, fmt.Errorf("update role defaults: %w", err)
	}

	return defaults, nil
}
