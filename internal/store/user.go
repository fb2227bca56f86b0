package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"propertypulse/internal/utils"
	"propertypulse/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userTableName = "propertypulse.users"

var userColumns = utils.StructTagValues(types.User{})

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user-by-email query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Users(ctx context.Context, params types.PageParams) ([]*types.User, int, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		OrderBy("created_at desc").
		Limit(uint64(params.Limit)).
		Offset(params.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate users query: %w", err)
	}

	var users = make([]*types.User, 0)
	err = pgxscan.Select(ctx, r.pool, &users, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	total, err := r.count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) UsersByRole(ctx context.Context, role types.Role) ([]*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"role": role, "is_active": true}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate users-by-role query: %w", err)
	}

	var users = make([]*types.User, 0)
	err = pgxscan.Select(ctx, r.pool, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by role: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create user")
}

func (r *UserRepository) Update(ctx context.Context, userID string, user *types.User) error {
	user.ID = userID
	user.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(userTableName).
		SetMap(utils.StructToMap(user)).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update user")
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	query, args, err := psql().
		Delete(userTableName).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete user")
}

func (r *UserRepository) count(ctx context.Context) (int, error) {
	query, args, err := psql().
		Select("count(*)").
		From(userTableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate user count query: %w", err)
	}

	var total int
	err = pgxscan.Get(ctx, r.pool, &total, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return total, nil
}
