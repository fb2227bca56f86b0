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

const (
	accessTableName  = "propertypulse.property_access"
	requestTableName = "propertypulse.property_access_requests"
)

var (
	accessColumns  = utils.StructTagValues(types.PropertyAccess{})
	requestColumns = utils.StructTagValues(types.PropertyAccessRequest{})
)

type AccessRepository struct {
	pool *pgxpool.Pool
}

func NewAccessRepository(pool *pgxpool.Pool) *AccessRepository {
	return &AccessRepository{pool: pool}
}

func (r *AccessRepository) Access(ctx context.Context, propertyID, userID string) (*types.PropertyAccess, error) {
	query, args, err := psql().
		Select(accessColumns...).
		From(accessTableName).
		Where(sq.Eq{"property_id": propertyID, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access query: %w", err)
	}

	var access types.PropertyAccess
	err = pgxscan.Get(ctx, r.pool, &access, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAccessNotFound
		}
		return nil, fmt.Errorf("failed to fetch access: %w", err)
	}

	return &access, nil
}

func (r *AccessRepository) AccessByProperty(ctx context.Context, propertyID string) ([]*types.PropertyAccess, error) {
	query, args, err := psql().
		Select(accessColumns...).
		From(accessTableName).
		Where(sq.Eq{"property_id": propertyID}).
		OrderBy("granted_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access-by-property query: %w", err)
	}

	var grants = make([]*types.PropertyAccess, 0)
	err = pgxscan.Select(ctx, r.pool, &grants, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch access by property: %w", err)
	}

	return grants, nil
}

// UpsertGrant grants or re-grants access. Re-granting clears any prior
// revocation on the existing row.
func (r *AccessRepository) UpsertGrant(ctx context.Context, access *types.PropertyAccess) error {
	return r.upsertGrant(ctx, r.pool, access)
}

func (r *AccessRepository) upsertGrant(ctx context.Context, db execer, access *types.PropertyAccess) error {
	now := time.Now()
	access.ID = utils.NanoID()
	access.GrantedAt = now
	access.RevokedAt = nil
	access.RevokedBy = nil
	access.CreatedAt = now
	access.UpdatedAt = now

	query, args, err := psql().
		Insert(accessTableName).
		SetMap(utils.StructToMap(access)).
		Suffix(`ON CONFLICT (property_id, user_id) DO UPDATE SET
			granted_at = EXCLUDED.granted_at,
			granted_by = EXCLUDED.granted_by,
			expires_at = EXCLUDED.expires_at,
			revoked_at = NULL,
			revoked_by = NULL,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert grant query: %w", err)
	}

	_, err = db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert access grant")
}

// Revoke marks the grant revoked without deleting the row.
func (r *AccessRepository) Revoke(ctx context.Context, propertyID, userID, revokedBy string) error {
	now := time.Now()

	query, args, err := psql().
		Update(accessTableName).
		Set("revoked_at", now).
		Set("revoked_by", revokedBy).
		Set("updated_at", now).
		Where(sq.Eq{"property_id": propertyID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate revoke access query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to revoke access: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrAccessNotFound
	}

	return nil
}

func (r *AccessRepository) Request(ctx context.Context, requestID string) (*types.PropertyAccessRequest, error) {
	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access request query: %w", err)
	}

	var request types.PropertyAccessRequest
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch access request: %w", err)
	}

	return &request, nil
}

func (r *AccessRepository) RequestsByProperty(ctx context.Context, propertyID string) ([]*types.PropertyAccessRequest, error) {
	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"property_id": propertyID}).
		OrderBy("updated_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests-by-property query: %w", err)
	}

	var requests = make([]*types.PropertyAccessRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch access requests: %w", err)
	}

	return requests, nil
}

// UpsertRequest files a new request or resets a declined one back to
// PENDING for the same (property, requester) pair.
func (r *AccessRepository) UpsertRequest(ctx context.Context, request *types.PropertyAccessRequest) error {
	now := time.Now()
	request.ID = utils.NanoID()
	request.Status = types.AccessRequestPending
	request.DeclineReason = nil
	request.ReviewedAt = nil
	request.ReviewedBy = nil
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := psql().
		Insert(requestTableName).
		SetMap(utils.StructToMap(request)).
		Suffix(`ON CONFLICT (property_id, requester_id) DO UPDATE SET
			status = EXCLUDED.status,
			message = EXCLUDED.message,
			decline_reason = NULL,
			reviewed_at = NULL,
			reviewed_by = NULL,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert access request")
}

func (r *AccessRepository) Decline(ctx context.Context, requestID, reviewerID, reason string) error {
	now := time.Now()

	query, args, err := psql().
		Update(requestTableName).
		Set("status", types.AccessRequestDeclined).
		Set("decline_reason", reason).
		Set("reviewed_at", now).
		Set("reviewed_by", reviewerID).
		Set("updated_at", now).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate decline request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to decline access request")
}

// ApproveWithGrant marks the request approved, upserts the access grant,
// and records the audit event, all in one transaction.
func (r *AccessRepository) ApproveWithGrant(ctx context.Context, request *types.PropertyAccessRequest, reviewerID string, expiresAt *time.Time, event *types.AuditEvent) error {
	now := time.Now()

	query, args, err := psql().
		Update(requestTableName).
		Set("status", types.AccessRequestApproved).
		Set("reviewed_at", now).
		Set("reviewed_by", reviewerID).
		Set("updated_at", now).
		Where(sq.Eq{"id": request.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate approve request query: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to approve access request: %w", err)
		}

		access := &types.PropertyAccess{
			PropertyID: request.PropertyID,
			UserID:     request.RequesterID,
			GrantedBy:  reviewerID,
			ExpiresAt:  expiresAt,
		}
		if err := r.upsertGrant(ctx, tx, access); err != nil {
			return err
		}

		return insertAuditEvent(ctx, tx, event)
	})
}
