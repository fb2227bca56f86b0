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

const criteriaTableName = "propertypulse.inspection_criteria"

var criteriaColumns = utils.StructTagValues(types.InspectionCriteria{})

type CriteriaRepository struct {
	pool *pgxpool.Pool
}

func NewCriteriaRepository(pool *pgxpool.Pool) *CriteriaRepository {
	return &CriteriaRepository{pool: pool}
}

func (r *CriteriaRepository) Criteria(ctx context.Context, criteriaID string) (*types.InspectionCriteria, error) {
	query, args, err := psql().
		Select(criteriaColumns...).
		From(criteriaTableName).
		Where(sq.Eq{"id": criteriaID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate criteria query: %w", err)
	}

	var criteria types.InspectionCriteria
	err = pgxscan.Get(ctx, r.pool, &criteria, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCriteriaNotFound
		}
		return nil, fmt.Errorf("failed to fetch criteria: %w", err)
	}

	return &criteria, nil
}

func (r *CriteriaRepository) CriteriaByName(ctx context.Context, name string) (*types.InspectionCriteria, error) {
	query, args, err := psql().
		Select(criteriaColumns...).
		From(criteriaTableName).
		Where(sq.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate criteria-by-name query: %w", err)
	}

	var criteria types.InspectionCriteria
	err = pgxscan.Get(ctx, r.pool, &criteria, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch criteria by name: %w", err)
	}

	return &criteria, nil
}

func (r *CriteriaRepository) ListCriteria(ctx context.Context, params types.PageParams, activeOnly bool) ([]*types.InspectionCriteria, int, error) {
	builder := psql().
		Select(criteriaColumns...).
		From(criteriaTableName)

	countBuilder := psql().
		Select("count(*)").
		From(criteriaTableName)

	if activeOnly {
		builder = builder.Where(sq.Eq{"is_active": true})
		countBuilder = countBuilder.Where(sq.Eq{"is_active": true})
	}

	query, args, err := builder.
		OrderBy("created_at desc").
		Limit(uint64(params.Limit)).
		Offset(params.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate criteria list query: %w", err)
	}

	var list = make([]*types.InspectionCriteria, 0)
	err = pgxscan.Select(ctx, r.pool, &list, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch criteria list: %w", err)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate criteria count query: %w", err)
	}

	var total int
	err = pgxscan.Get(ctx, r.pool, &total, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count criteria: %w", err)
	}

	return list, total, nil
}

func (r *CriteriaRepository) Create(ctx context.Context, criteria *types.InspectionCriteria) error {
	now := time.Now()
	if criteria.ID == "" {
		criteria.ID = utils.NanoID()
	}
	criteria.CreatedAt = now
	criteria.UpdatedAt = now

	query, args, err := psql().
		Insert(criteriaTableName).
		SetMap(utils.StructToMap(criteria)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert criteria query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create criteria")
}

func (r *CriteriaRepository) Update(ctx context.Context, criteriaID string, criteria *types.InspectionCriteria) error {
	criteria.ID = criteriaID
	criteria.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(criteriaTableName).
		SetMap(utils.StructToMap(criteria)).
		Where(sq.Eq{"id": criteriaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update criteria query for criteria %s: %w", criteriaID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update criteria")
}

func (r *CriteriaRepository) Delete(ctx context.Context, criteriaID string) error {
	query, args, err := psql().
		Delete(criteriaTableName).
		Where(sq.Eq{"id": criteriaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete criteria query for criteria %s: %w", criteriaID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete criteria")
}
