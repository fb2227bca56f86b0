package store

import (
	"context"
	"fmt"
	"time"

	"propertypulse/internal/utils"
	"propertypulse/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const propertyTableName = "propertypulse.properties"

var propertyColumns = utils.StructTagValues(types.Property{})

type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

func (r *PropertyRepository) Property(ctx context.Context, propertyID string) (*types.Property, error) {
	query, args, err := psql().
		Select(propertyColumns...).
		From(propertyTableName).
		Where(sq.Eq{"id": propertyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate property query: %w", err)
	}

	var property types.Property
	err = pgxscan.Get(ctx, r.pool, &property, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to fetch property: %w", err)
	}

	return &property, nil
}

func (r *PropertyRepository) ListProperties(ctx context.Context, params types.PageParams) ([]*types.Property, int, error) {
	query, args, err := psql().
		Select(propertyColumns...).
		From(propertyTableName).
		OrderBy("created_at desc").
		Limit(uint64(params.Limit)).
		Offset(params.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate property list query: %w", err)
	}

	var list = make([]*types.Property, 0)
	err = pgxscan.Select(ctx, r.pool, &list, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch property list: %w", err)
	}

	countQuery, countArgs, err := psql().
		Select("count(*)").
		From(propertyTableName).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate property count query: %w", err)
	}

	var total int
	err = pgxscan.Get(ctx, r.pool, &total, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	return list, total, nil
}

func (r *PropertyRepository) PropertiesByManager(ctx context.Context, managerID string) ([]*types.Property, error) {
	query, args, err := psql().
		Select(propertyColumns...).
		From(propertyTableName).
		Where(sq.Eq{"manager_id": managerID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate properties-by-manager query: %w", err)
	}

	var list = make([]*types.Property, 0)
	err = pgxscan.Select(ctx, r.pool, &list, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties by manager: %w", err)
	}

	return list, nil
}

func (r *PropertyRepository) CountByTemplate(ctx context.Context, templateID string) (int, error) {
	query, args, err := psql().
		Select("count(*)").
		From(propertyTableName).
		Where(sq.Eq{"dashboard_template_id": templateID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate properties-by-template count query: %w", err)
	}

	var total int
	err = pgxscan.Get(ctx, r.pool, &total, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count properties by template: %w", err)
	}

	return total, nil
}

// CreateWithAudit inserts the property and its creation audit event in a
// single transaction.
func (r *PropertyRepository) CreateWithAudit(ctx context.Context, property *types.Property, event *types.AuditEvent) error {
	now := time.Now()
	if property.ID == "" {
		property.ID = utils.NanoID()
	}
	property.CreatedAt = now
	property.UpdatedAt = now
	event.EntityID = property.ID

	query, args, err := psql().
		Insert(propertyTableName).
		SetMap(utils.StructToMap(property)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert property query: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create property: %w", err)
		}
		return insertAuditEvent(ctx, tx, event)
	})
}

func (r *PropertyRepository) Update(ctx context.Context, propertyID string, property *types.Property) error {
	property.ID = propertyID
	property.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(propertyTableName).
		SetMap(utils.StructToMap(property)).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update property query for property %s: %w", propertyID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update property")
}

func (r *PropertyRepository) Delete(ctx context.Context, propertyID string) error {
	query, args, err := psql().
		Delete(propertyTableName).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete property query for property %s: %w", propertyID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete property")
}
