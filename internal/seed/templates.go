package seed

import (
	"context"
	"fmt"

	"propertypulse/internal/store"
	"propertypulse/pkg/types"

	"github.com/sirupsen/logrus"
)

// DefaultTemplateName is the name of the dashboard template every
// installation starts with.
const DefaultTemplateName = "Default Dashboard"

// SeedDefaultTemplate creates the default dashboard template bound to the
// given criteria if it does not exist. Safe to run repeatedly.
func SeedDefaultTemplate(ctx context.Context, repo *store.TemplateRepository, criteriaID string) error {
	existing, err := repo.TemplateByName(ctx, DefaultTemplateName)
	if err != nil {
		return fmt.Errorf("check default template: %w", err)
	}
	if existing != nil {
		logrus.WithField("name", DefaultTemplateName).Info("default template already present, skipping")
		return nil
	}

	template := &types.DashboardTemplate{
		ID:         "Xb9dRfA1yNs5TqEwKu7PjCm3VzHoL2gW",
		Name:       DefaultTemplateName,
		CriteriaID: criteriaID,
		Status:     types.TemplateStatusActive,
		Sections:   types.FixedSectionDefaults(),
	}

	if err := repo.Create(ctx, template); err != nil {
		return fmt.Errorf("create default template: %w", err)
	}

	logrus.WithField("id", template.ID).Info("default template created")
	return nil
}
