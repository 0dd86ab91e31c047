// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package profile exposes reader profiles: the private "me" view with the
gamification counters, partial profile updates, and the public view other
readers see.

The package owns no storage of its own; it reads and writes through the auth
package's user repository.
*/
package profile

import (
	"context"
	"log/slog"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/users/auth"
)

// Repository is the slice of the user store this package needs.
type Repository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	Update(context context.Context, user *auth.User) error
}

// PublicProfile is the view of an account exposed to other readers. Email
// and role stay private.
type PublicProfile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Points       int    `json:"points"`
	ChaptersRead int64  `json:"chapters_read"`
}

// UpdateInput carries a partial profile update. Nil fields stay untouched.
type UpdateInput struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// Validation bounds for the mutable profile fields.
const (
	MinDisplayNameLength = 2
	MaxDisplayNameLength = 50
	MaxBioLength         = 500
)

// Service implements the profile use cases.
type Service struct {
	users  Repository
	logger *slog.Logger
}

// NewService constructs a new profile [Service].
func NewService(users Repository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// GetMine returns the caller's full private profile.
func (service *Service) GetMine(context context.Context, userID string) (*auth.User, error) {
	return service.users.FindByID(context, userID)
}

// GetPublic returns another reader's public profile.
func (service *Service) GetPublic(context context.Context, userID string) (*PublicProfile, error) {
	if !isUUID(userID) {
		return nil, apperr.NotFound("User")
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		AvatarURL:    user.AvatarURL,
		Bio:          user.Bio,
		Points:       user.Points,
		ChaptersRead: user.ChaptersRead,
	}, nil
}

// UpdateMine applies a partial update to the caller's profile and returns
// the refreshed record.
func (service *Service) UpdateMine(context context.Context, userID string, input UpdateInput) (*auth.User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	if err := service.users.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", "user_id", userID)

	return user, nil
}

func isUUID(s string) bool {
	return len(s) == 36
}
