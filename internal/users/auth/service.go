// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/sec"
	"github.com/tatami-reader/tatami/pkg/uuidv7"
)

// TokenProvider is the contract for minting signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements the identity use cases.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	resets   ResetTokenRepository
	tokens   TokenProvider
	logger   *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(
	users UserRepository,
	sessions SessionRepository,
	resets ResetTokenRepository,
	tokens TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		resets:   resets,
		tokens:   tokens,
		logger:   logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new reader.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

/*
Register hashes the password and persists a new member account.

Description: Pre-checks identity uniqueness for friendly errors; the unique
constraints on username and email remain the real arbiter, and a violation
racing past the pre-check still surfaces as a Conflict.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created account
  - err: Conflict or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	if _, err := service.users.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if _, err := service.users.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Role:         sec.RoleMember,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", "user_id", user.ID, "username", user.Username)

	return user, nil
}

// # Authentication Flow

// LoginInput carries one authentication attempt.
type LoginInput struct {
	Login     string // Username or email
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is a freshly established session, ready for transport.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login verifies credentials and opens a session.

Description: Resolves the login as email first, then username. Both unknown
identity and wrong password answer with the same generic Unauthorized so the
endpoint cannot be used to enumerate accounts.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Access token, refresh token, and the account
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.users.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.users.FindByUsername(context, input.Login)
	}
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.openSession(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_logged_in", "user_id", user.ID)

	return session, nil
}

// openSession mints the access token and stores a refresh session keyed by
// the new token's hash.
func (service *Service) openSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(RefreshTokenTTL)
	session := &Session{
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if err := service.sessions.Create(context, sec.HashToken(refreshToken), session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

/*
RefreshSession rotates a refresh token.

Description: The presented token is revoked before its replacement is issued,
so a replayed token fails instead of minting a second session.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: Rotated credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessions.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if err := service.sessions.Revoke(context, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.users.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.openSession(context, user, userAgent, ipAddress)
}

// Logout revokes the presented refresh token. Unknown or already-revoked
// tokens log out successfully; the operation is idempotent.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)

	if _, err := service.sessions.FindByTokenHash(context, tokenHash); err != nil {
		return nil
	}

	if err := service.sessions.Revoke(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset starts the forgot-password flow.

Description: Unknown emails return an empty token and no error, so the
caller's response is identical either way and the endpoint cannot confirm
whether an address is registered.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Recovery token, empty when the email is unknown
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	if err := service.resets.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_reset_token_save_failed: %w", err)
	}

	// TODO: hand the token to the notification worker once outbound email
	// lands; until then the token only reaches users via support.

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Consumes the recovery token, replaces the hash, and revokes all
of the user's sessions so stolen refresh tokens die with the old password.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Token resolution or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	userID, err := service.resets.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_update_failed: %w", err)
	}

	_ = service.sessions.RevokeOthers(context, userID, "")
	_ = service.resets.Delete(context, token)

	service.logger.Info("password_reset", "user_id", userID)

	return nil
}

/*
ChangePassword rotates an authenticated reader's password.

Description: Requires the current password, then revokes every session other
than the caller's so other devices must log in again.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - currentRefreshToken: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	_ = service.sessions.RevokeOthers(context, userID, sec.HashToken(currentRefreshToken))

	return nil
}
