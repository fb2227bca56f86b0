package seed

import (
	"context"
	"errors"
	"fmt"

	"propertypulse/internal/store"
	"propertypulse/internal/utils"
	"propertypulse/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail = "admin@propertypulse.local"

	// First-login password. Rotate it immediately after seeding.
	adminPassword = "changeme-now"
)

// SeedAdminUser creates the bootstrap admin account if it does not exist.
// Safe to run repeatedly.
func SeedAdminUser(ctx context.Context, repo *store.UserRepository) error {
	existing, err := repo.UserByEmail(ctx, adminEmail)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		logrus.WithField("email", adminEmail).Info("admin user already present, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &types.User{
		ID:           "hQZ71kPcXW4fVgDm2sLtRa9BnYoE3juK",
		Email:        adminEmail,
		PasswordHash: string(hash),
		GivenName:    utils.StringPtr("Site"),
		FamilyName:   utils.StringPtr("Admin"),
		Role:         types.RoleAdmin,
		Timezone:     "UTC",
		IsActive:     true,
	}

	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	logrus.WithField("email", adminEmail).Warn("admin user created with the default password, change it")
	return nil
}
