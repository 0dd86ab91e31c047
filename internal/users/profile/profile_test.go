// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package profile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/sec"
	"github.com/tatami-reader/tatami/internal/users/auth"
	"github.com/tatami-reader/tatami/pkg/pointer"
)

type fakeRepository struct {
	byID map[string]*auth.User
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeRepository) Update(_ context.Context, user *auth.User) error {
	f.byID[user.ID] = user
	return nil
}

func newFixture() (*fakeRepository, *Service) {
	repo := &fakeRepository{byID: make(map[string]*auth.User)}
	return repo, NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const userID = "0198a1b2-0000-7000-8000-3c2f1a9d4e55"

func seedUser(repo *fakeRepository) *auth.User {
	user := &auth.User{
		ID:          userID,
		Username:    "rei",
		Email:       "rei@example.com",
		DisplayName: "Rei",
		Bio:         "long-form slice of life only",
		Role:        sec.RoleMember,
		Points:      120,
	}
	repo.byID[user.ID] = user
	return user
}

func TestUpdateMine_Partial(t *testing.T) {
	repo, service := newFixture()
	seedUser(repo)

	updated, err := service.UpdateMine(context.Background(), userID, UpdateInput{
		DisplayName: pointer.To("Rei A."),
	})
	require.NoError(t, err)

	assert.Equal(t, "Rei A.", updated.DisplayName)
	assert.Equal(t, "long-form slice of life only", updated.Bio, "nil fields stay untouched")

	updated, err = service.UpdateMine(context.Background(), userID, UpdateInput{
		Bio: pointer.To(""),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Bio, "empty string clears the field")
}

func TestGetPublic_HidesPrivateFields(t *testing.T) {
	repo, service := newFixture()
	seedUser(repo)

	view, err := service.GetPublic(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 120, view.Points)

	payload, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "rei@example.com")
	assert.NotContains(t, string(payload), "role")
}

func TestGetPublic_BadID(t *testing.T) {
	_, service := newFixture()

	_, err := service.GetPublic(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
