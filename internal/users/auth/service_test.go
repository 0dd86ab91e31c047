// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/sec"
	"github.com/tatami-reader/tatami/pkg/uuidv7"
)

// # Fakes

type fakeUserRepository struct {
	byID map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byID: make(map[string]*User)}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range f.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := f.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (f *fakeUserRepository) IncrementChaptersRead(_ context.Context, userID string, delta int) error {
	f.byID[userID].ChaptersRead += int64(delta)
	return nil
}

func (f *fakeUserRepository) AddReadingTime(_ context.Context, userID string, seconds int64) error {
	f.byID[userID].TotalReadingTime += seconds
	return nil
}

func (f *fakeUserRepository) AddPoints(_ context.Context, userID string, points int) error {
	f.byID[userID].Points += points
	return nil
}

type fakeSessionRepository struct {
	byHash map[string]*Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{byHash: make(map[string]*Session)}
}

func (f *fakeSessionRepository) Create(_ context.Context, tokenHash string, session *Session) error {
	f.byHash[tokenHash] = session
	return nil
}

func (f *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	if session, ok := f.byHash[tokenHash]; ok {
		return session, nil
	}
	return nil, apperr.NotFound("Session")
}

func (f *fakeSessionRepository) Revoke(_ context.Context, tokenHash string) error {
	delete(f.byHash, tokenHash)
	return nil
}

func (f *fakeSessionRepository) RevokeOthers(_ context.Context, userID, keepTokenHash string) error {
	for hash, session := range f.byHash {
		if session.UserID == userID && hash != keepTokenHash {
			delete(f.byHash, hash)
		}
	}
	return nil
}

type fakeResetTokenRepository struct {
	byToken map[string]string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{byToken: make(map[string]string)}
}

func (f *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	f.byToken[token] = userID
	return nil
}

func (f *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	if userID, ok := f.byToken[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token is invalid or expired")
}

func (f *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

// # Harness

type authFixture struct {
	users    *fakeUserRepository
	sessions *fakeSessionRepository
	resets   *fakeResetTokenRepository
	service  *Service
}

func newAuthFixture() *authFixture {
	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	resets := newFakeResetTokenRepository()
	service := NewService(users, sessions, resets, fakeTokenProvider{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &authFixture{users: users, sessions: sessions, resets: resets, service: service}
}

func (fixture *authFixture) seedUser(t *testing.T, username, email, password string) *User {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	user := &User{
		ID:           uuidv7.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  username,
		Role:         sec.RoleMember,
	}
	fixture.users.byID[user.ID] = user
	return user
}

// # Tests

func TestRegister(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	user, err := fixture.service.Register(ctx, RegisterInput{
		Username: "rei",
		Email:    "rei@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleMember, user.Role)
	assert.Equal(t, "rei", user.DisplayName, "display name falls back to the username")
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse", user.PasswordHash))
}

func TestRegister_Conflicts(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	fixture.seedUser(t, "rei", "rei@example.com", "correct horse")

	_, err := fixture.service.Register(ctx, RegisterInput{
		Username: "other", Email: "rei@example.com", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = fixture.service.Register(ctx, RegisterInput{
		Username: "rei", Email: "other@example.com", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestLogin(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	user := fixture.seedUser(t, "rei", "rei@example.com", "correct horse")

	tests := []struct {
		name  string
		login string
	}{
		{name: "by email", login: "rei@example.com"},
		{name: "by username", login: "rei"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			session, err := fixture.service.Login(ctx, LoginInput{Login: test.login, Password: "correct horse"})
			require.NoError(t, err)

			assert.Equal(t, "jwt-for-"+user.ID, session.AccessToken)
			assert.NotEmpty(t, session.RefreshToken)

			stored, err := fixture.sessions.FindByTokenHash(ctx, sec.HashToken(session.RefreshToken))
			require.NoError(t, err)
			assert.Equal(t, user.ID, stored.UserID)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	fixture.seedUser(t, "rei", "rei@example.com", "correct horse")

	// Unknown identity and wrong password must be indistinguishable.
	_, unknownErr := fixture.service.Login(ctx, LoginInput{Login: "ghost", Password: "whatever"})
	_, wrongErr := fixture.service.Login(ctx, LoginInput{Login: "rei", Password: "wrong"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestRefreshSession_Rotation(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	fixture.seedUser(t, "rei", "rei@example.com", "correct horse")

	session, err := fixture.service.Login(ctx, LoginInput{Login: "rei", Password: "correct horse"})
	require.NoError(t, err)

	rotated, err := fixture.service.RefreshSession(ctx, session.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// The consumed token must be dead; replaying it is a hard failure.
	_, err = fixture.service.RefreshSession(ctx, session.RefreshToken, "ua", "ip")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestLogout_Idempotent(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	fixture.seedUser(t, "rei", "rei@example.com", "correct horse")

	session, err := fixture.service.Login(ctx, LoginInput{Login: "rei", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(ctx, session.RefreshToken))
	require.NoError(t, fixture.service.Logout(ctx, session.RefreshToken))
	assert.Empty(t, fixture.sessions.byHash)
}

func TestChangePassword(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	user := fixture.seedUser(t, "rei", "rei@example.com", "correct horse")

	current, err := fixture.service.Login(ctx, LoginInput{Login: "rei", Password: "correct horse"})
	require.NoError(t, err)
	other, err := fixture.service.Login(ctx, LoginInput{Login: "rei", Password: "correct horse"})
	require.NoError(t, err)

	err = fixture.service.ChangePassword(ctx, user.ID, "wrong", "new password1", current.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	err = fixture.service.ChangePassword(ctx, user.ID, "correct horse", "new password1", current.RefreshToken)
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("new password1", user.PasswordHash))

	// The calling device stays logged in; every other session is gone.
	_, err = fixture.sessions.FindByTokenHash(ctx, sec.HashToken(current.RefreshToken))
	assert.NoError(t, err)
	_, err = fixture.sessions.FindByTokenHash(ctx, sec.HashToken(other.RefreshToken))
	assert.Error(t, err)
}

func TestPasswordReset_Flow(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()
	user := fixture.seedUser(t, "rei", "rei@example.com", "correct horse")

	session, err := fixture.service.Login(ctx, LoginInput{Login: "rei", Password: "correct horse"})
	require.NoError(t, err)

	token, err := fixture.service.RequestPasswordReset(ctx, "rei@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, fixture.service.ResetPassword(ctx, token, "brand new pass"))

	assert.True(t, sec.CheckPasswordHash("brand new pass", user.PasswordHash))
	assert.Empty(t, fixture.resets.byToken, "token is single use")

	// Every session dies with the old password.
	_, err = fixture.sessions.FindByTokenHash(ctx, sec.HashToken(session.RefreshToken))
	assert.Error(t, err)

	// Reusing the consumed token fails.
	err = fixture.service.ResetPassword(ctx, token, "another pass99")
	require.Error(t, err)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	fixture := newAuthFixture()

	token, err := fixture.service.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err, "unknown emails must not error, to prevent enumeration")
	assert.Empty(t, token)
}
