package service

import (
	"context"
	"errors"

	"propertypulse/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users UserRepo
}

func NewAuthService(users UserRepo) *AuthService {
	return &AuthService{users: users}
}

// Authenticate checks credentials and returns the user. The error is the
// same whether the email or the password was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*types.User, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, types.NewBadRequest("invalid email or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, types.NewForbidden("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, types.NewBadRequest("invalid email or password")
	}

	return user, nil
}
