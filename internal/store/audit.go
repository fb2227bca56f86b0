package store

import (
	"context"
	"fmt"
	"time"

	"propertypulse/internal/utils"
	"propertypulse/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditTableName = "propertypulse.audit_events"

var auditColumns = utils.StructTagValues(types.AuditEvent{})

// execer is satisfied by both *pgxpool.Pool and pgx.Tx so audit writes can
// join another repository's transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Record(ctx context.Context, event *types.AuditEvent) error {
	return insertAuditEvent(ctx, r.pool, event)
}

func (r *AuditRepository) EventsByEntity(ctx context.Context, entityType, entityID string) ([]*types.AuditEvent, error) {
	query, args, err := psql().
		Select(auditColumns...).
		From(auditTableName).
		Where(sq.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate audit events query: %w", err)
	}

	var events = make([]*types.AuditEvent, 0)
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit events: %w", err)
	}

	return events, nil
}

func insertAuditEvent(ctx context.Context, db execer, event *types.AuditEvent) error {
	event.ID = utils.NanoID()
	event.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(auditTableName).
		SetMap(utils.StructToMap(event)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert audit event query: %w", err)
	}

	_, err = db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to record audit event")
}
