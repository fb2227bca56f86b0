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

const templateTableName = "propertypulse.dashboard_templates"

var templateColumns = utils.StructTagValues(types.DashboardTemplate{})

type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

func (r *TemplateRepository) Template(ctx context.Context, templateID string) (*types.DashboardTemplate, error) {
	query, args, err := psql().
		Select(templateColumns...).
		From(templateTableName).
		Where(sq.Eq{"id": templateID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate template query: %w", err)
	}

	var template types.DashboardTemplate
	err = pgxscan.Get(ctx, r.pool, &template, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}

	return &template, nil
}

func (r *TemplateRepository) TemplateByName(ctx context.Context, name string) (*types.DashboardTemplate, error) {
	query, args, err := psql().
		Select(templateColumns...).
		From(templateTableName).
		Where(sq.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate template-by-name query: %w", err)
	}

	var template types.DashboardTemplate
	err = pgxscan.Get(ctx, r.pool, &template, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch template by name: %w", err)
	}

	return &template, nil
}

func (r *TemplateRepository) ListTemplates(ctx context.Context, params types.PageParams) ([]*types.DashboardTemplate, int, error) {
	query, args, err := psql().
		Select(templateColumns...).
		From(templateTableName).
		OrderBy("created_at desc").
		Limit(uint64(params.Limit)).
		Offset(params.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate template list query: %w", err)
	}

	var list = make([]*types.DashboardTemplate, 0)
	err = pgxscan.Select(ctx, r.pool, &list, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch template list: %w", err)
	}

	countQuery, countArgs, err := psql().
		Select("count(*)").
		From(templateTableName).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate template count query: %w", err)
	}

	var total int
	err = pgxscan.Get(ctx, r.pool, &total, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	return list, total, nil
}

func (r *TemplateRepository) CountByCriteria(ctx context.Context, criteriaID string) (int, error) {
	query, args, err := psql().
		Select("count(*)").
		From(templateTableName).
		Where(sq.Eq{"criteria_id": criteriaID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate templates-by-criteria count query: %w", err)
	}

	var total int
	err = pgxscan.Get(ctx, r.pool, &total, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count templates by criteria: %w", err)
	}

	return total, nil
}

func (r *TemplateRepository) Create(ctx context.Context, template *types.DashboardTemplate) error {
	now := time.Now()
	if template.ID == "" {
		template.ID = utils.NanoID()
	}
	template.CreatedAt = now
	template.UpdatedAt = now

	query, args, err := psql().
		Insert(templateTableName).
		SetMap(utils.StructToMap(template)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert template query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create template")
}

func (r *TemplateRepository) Update(ctx context.Context, templateID string, template *types.DashboardTemplate) error {
	template.ID = templateID
	template.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(templateTableName).
		SetMap(utils.StructToMap(template)).
		Where(sq.Eq{"id": templateID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update template query for template %s: %w", templateID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update template")
}

func (r *TemplateRepository) Delete(ctx context.Context, templateID string) error {
	query, args, err := psql().
		Delete(templateTableName).
		Where(sq.Eq{"id": templateID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete template query for template %s: %w", templateID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete template")
}
