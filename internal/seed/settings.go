package seed

import (
	"context"
	"fmt"

	"propertypulse/internal/store"

	"github.com/sirupsen/logrus"
)

// SeedSettings materializes the singleton branding and role-default rows.
// The repository accessors create the rows with defaults on first read, so
// this just forces that read.
func SeedSettings(ctx context.Context, repo *store.SettingsRepository) error {
	branding, err := repo.Branding(ctx)
	if err != nil {
		return fmt.Errorf("seed branding: %w", err)
	}
	logrus.WithField("companyName", branding.CompanyName).Info("branding settings ready")

	defaults, err := repo.RoleDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed role defaults: %w", err)
	}
	logrus.WithField("roles", len(defaults.Defaults)).Info("role notification defaults ready")

	return nil
}
