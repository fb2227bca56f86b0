package main

import (
	"context"
	"fmt"

	"propertypulse/internal/db"
	"propertypulse/internal/seed"
	"propertypulse/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with initial data",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)
		criteriaRepo := store.NewCriteriaRepository(pool)
		templateRepo := store.NewTemplateRepository(pool)
		settingsRepo := store.NewSettingsRepository(pool)

		if err := seed.SeedAdminUser(ctx, userRepo); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}

		criteria, err := seed.SeedInspectionCriteria(ctx, criteriaRepo)
		if err != nil {
			return fmt.Errorf("failed to seed inspection criteria: %w", err)
		}

		if err := seed.SeedDefaultTemplate(ctx, templateRepo, criteria.ID); err != nil {
			return fmt.Errorf("failed to seed default template: %w", err)
		}

		if err := seed.SeedSettings(ctx, settingsRepo); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}

		logrus.Info("Seeding complete")

		return nil
	},
}
