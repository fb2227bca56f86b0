package service

import (
	"context"
	"fmt"
	"strings"

	"propertypulse/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type ProfileService struct {
	users    UserRepo
	settings SettingsRepo
}

func NewProfileService(users UserRepo, settings SettingsRepo) *ProfileService {
	return &ProfileService{users: users, settings: settings}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*types.User, error) {
	return s.users.User(ctx, userID)
}

type UpdateProfileInput struct {
	GivenName  *string `json:"givenName"`
	FamilyName *string `json:"familyName"`
	Timezone   *string `json:"timezone"`
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*types.User, error) {
	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.GivenName != nil {
		user.GivenName = input.GivenName
	}
	if input.FamilyName != nil {
		user.FamilyName = input.FamilyName
	}
	if input.Timezone != nil {
		if strings.TrimSpace(*input.Timezone) == "" {
			return nil, types.NewBadRequest("timezone must not be blank")
		}
		user.Timezone = strings.TrimSpace(*input.Timezone)
	}

	if err := s.users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *ProfileService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if len(input.NewPassword) < 8 {
		return types.NewBadRequest("new password must be at least 8 characters")
	}

	user, err := s.users.User(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return types.NewBadRequest("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Update(ctx, userID, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (s *ProfileService) Notifications(ctx context.Context, user *types.User) (*types.UserNotificationSettings, error) {
	return s.settings.UserNotifications(ctx, user.ID, user.Role)
}

func (s *ProfileService) UpdateNotifications(ctx context.Context, user *types.User, prefs types.NotificationPrefs) (*types.UserNotificationSettings, error) {
	settings := &types.UserNotificationSettings{
		UserID: user.ID,
		Prefs:  prefs,
	}

	if err := s.settings.UpsertUserNotifications(ctx, settings); err != nil {
		return nil, fmt.Errorf("update notifications: %w", err)
	}

	return settings, nil
}
