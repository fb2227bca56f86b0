package store

import (
	"context"
	"fmt"
	"time"

	"propertypulse/internal/utils"
	"propertypulse/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	brandingTableName     = "propertypulse.branding_settings"
	roleDefaultsTableName = "propertypulse.role_notification_defaults"
	userNotifsTableName   = "propertypulse.user_notification_settings"
)

var (
	brandingColumns     = utils.StructTagValues(types.BrandingSettings{})
	roleDefaultsColumns = utils.StructTagValues(types.RoleNotificationDefaults{})
	userNotifsColumns   = utils.StructTagValues(types.UserNotificationSettings{})
)

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Branding returns the singleton branding row, creating the default one on
// first access.
func (r *SettingsRepository) Branding(ctx context.Context) (*types.BrandingSettings, error) {
	query, args, err := psql().
		Select(brandingColumns...).
		From(brandingTableName).
		Where(sq.Eq{"id": types.SettingsRowID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate branding query: %w", err)
	}

	var branding types.BrandingSettings
	err = pgxscan.Get(ctx, r.pool, &branding, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to fetch branding settings: %w", err)
	}

	if err != nil {
		defaults := types.DefaultBranding()
		if err := r.UpsertBranding(ctx, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}

	return &branding, nil
}

func (r *SettingsRepository) UpsertBranding(ctx context.Context, branding *types.BrandingSettings) error {
	branding.ID = types.SettingsRowID
	branding.UpdatedAt = time.Now()

	brandingMap := utils.StructToMap(branding)
	updateMap := make(map[string]any)
	for k, v := range brandingMap {
		if k != "id" {
			updateMap[k] = v
		}
	}

	query, args, err := psql().
		Insert(brandingTableName).
		SetMap(brandingMap).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(updateMap)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert branding query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert branding settings")
}

// RoleDefaults returns the singleton role-notification-defaults row,
// creating the default one on first access.
func (r *SettingsRepository) RoleDefaults(ctx context.Context) (*types.RoleNotificationDefaults, error) {
	query, args, err := psql().
		Select(roleDefaultsColumns...).
		From(roleDefaultsTableName).
		Where(sq.Eq{"id": types.SettingsRowID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate role defaults query: %w", err)
	}

	var defaults types.RoleNotificationDefaults
	err = pgxscan.Get(ctx, r.pool, &defaults, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to fetch role notification defaults: %w", err)
	}

	if err != nil {
		fresh := types.DefaultRoleNotifications()
		if err := r.UpsertRoleDefaults(ctx, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	return &defaults, nil
}

func (r *SettingsRepository) UpsertRoleDefaults(ctx context.Context, defaults *types.RoleNotificationDefaults) error {
	defaults.ID = types.SettingsRowID
	defaults.UpdatedAt = time.Now()

	query, args, err := psql().
		Insert(roleDefaultsTableName).
		SetMap(utils.StructToMap(defaults)).
		Suffix("ON CONFLICT (id) DO UPDATE SET defaults = EXCLUDED.defaults, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert role defaults query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert role notification defaults")
}

// UserNotifications returns a user's notification record, falling back to
// their role's defaults when the user has never saved one.
func (r *SettingsRepository) UserNotifications(ctx context.Context, userID string, role types.Role) (*types.UserNotificationSettings, error) {
	query, args, err := psql().
		Select(userNotifsColumns...).
		From(userNotifsTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user notifications query: %w", err)
	}

	var settings types.UserNotificationSettings
	err = pgxscan.Get(ctx, r.pool, &settings, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to fetch user notification settings: %w", err)
	}

	if err != nil {
		defaults, err := r.RoleDefaults(ctx)
		if err != nil {
			return nil, err
		}
		return &types.UserNotificationSettings{
			UserID: userID,
			Prefs:  defaults.Defaults[role],
		}, nil
	}

	return &settings, nil
}

func (r *SettingsRepository) UpsertUserNotifications(ctx context.Context, settings *types.UserNotificationSettings) error {
	settings.UpdatedAt = time.Now()

	query, args, err := psql().
		Insert(userNotifsTableName).
		SetMap(utils.StructToMap(settings)).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET prefs = EXCLUDED.prefs, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert user notifications query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert user notification settings")
}
