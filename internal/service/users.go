package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"propertypulse/internal/utils"
	"propertypulse/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type UserAdminService struct {
	users UserRepo
}

func NewUserAdminService(users UserRepo) *UserAdminService {
	return &UserAdminService{users: users}
}

func (s *UserAdminService) ListUsers(ctx context.Context, actor *types.User, params types.PageParams) ([]*types.User, int, error) {
	if actor.Role != types.RoleAdmin {
		return nil, 0, types.NewForbidden("only admins can list users")
	}
	return s.users.Users(ctx, params.Normalize())
}

func (s *UserAdminService) User(ctx context.Context, actor *types.User, userID string) (*types.User, error) {
	if actor.Role != types.RoleAdmin {
		return nil, types.NewForbidden("only admins can view users")
	}
	return s.users.User(ctx, userID)
}

type CreateUserInput struct {
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	GivenName  *string    `json:"givenName"`
	FamilyName *string    `json:"familyName"`
	Role       types.Role `json:"role"`
	Timezone   string     `json:"timezone"`
}

func (s *UserAdminService) CreateUser(ctx context.Context, actor *types.User, input CreateUserInput) (*types.User, error) {
	if actor.Role != types.RoleAdmin {
		return nil, types.NewForbidden("only admins can create users")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, types.NewBadRequest("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, types.NewBadRequest("password must be at least 8 characters")
	}
	if !input.Role.Valid() {
		return nil, types.NewBadRequest("unknown role %q", input.Role)
	}

	existing, err := s.users.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		return nil, fmt.Errorf("check user email: %w", err)
	}
	if existing != nil {
		return nil, types.NewConflict("a user with email %q already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	user := &types.User{
		ID:           utils.NanoID(),
		Email:        email,
		PasswordHash: string(hash),
		GivenName:    input.GivenName,
		FamilyName:   input.FamilyName,
		Role:         input.Role,
		Timezone:     timezone,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

type UpdateUserInput struct {
	GivenName  *string     `json:"givenName"`
	FamilyName *string     `json:"familyName"`
	Role       *types.Role `json:"role"`
	IsActive   *bool       `json:"isActive"`
}

func (s *UserAdminService) UpdateUser(ctx context.Context, actor *types.User, userID string, input UpdateUserInput) (*types.User, error) {
	if actor.Role != types.RoleAdmin {
		return nil, types.NewForbidden("only admins can update users")
	}

	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, types.NewBadRequest("unknown role %q", *input.Role)
		}
		if userID == actor.ID && *input.Role != types.RoleAdmin {
			return nil, types.NewBadRequest("admins cannot demote themselves")
		}
		user.Role = *input.Role
	}
	if input.GivenName != nil {
		user.GivenName = input.GivenName
	}
	if input.FamilyName != nil {
		user.FamilyName = input.FamilyName
	}
	if input.IsActive != nil {
		if userID == actor.ID && !*input.IsActive {
			return nil, types.NewBadRequest("admins cannot deactivate themselves")
		}
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

func (s *UserAdminService) DeleteUser(ctx context.Context, actor *types.User, userID string) error {
	if actor.Role != types.RoleAdmin {
		return types.NewForbidden("only admins can delete users")
	}
	if userID == actor.ID {
		return types.NewBadRequest("admins cannot delete themselves")
	}

	if _, err := s.users.User(ctx, userID); err != nil {
		return err
	}

	return s.users.Delete(ctx, userID)
}
