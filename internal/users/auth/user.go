// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package auth implements reader identity: registration, credential login,
refresh-token sessions, and password recovery.

# Architecture

  - Service: orchestrates the flows (Register, Login, RefreshSession).
  - UserRepository: PostgreSQL account records, including the gamification
    counters the library and achievement domains increment.
  - SessionRepository / ResetTokenRepository: volatile Redis state keyed by
    hashed tokens, expired by TTL rather than by sweeps.

Access tokens are RS256 JWTs; refresh tokens are opaque random strings that
never touch storage unhashed.
*/
package auth

import (
	"time"

	"github.com/tatami-reader/tatami/internal/platform/sec"
)

// # Domain Entities

// User is a registered reader account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	DisplayName  string       `json:"display_name"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Role         sec.UserRole `json:"role"`

	// Gamification counters. Only ever mutated through atomic relative
	// updates, never read-modify-write.
	Points           int   `json:"points"`
	ChaptersRead     int64 `json:"chapters_read"`
	TotalReadingTime int64 `json:"total_reading_time"` // Seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the volatile record behind one refresh token. It lives in Redis
// under the token hash and disappears when its TTL lapses.
type Session struct {
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldMessage         = "message"
)

// # Token Lifetimes

const (
	// AccessTokenTTL keeps the JWT short-lived so a leaked token has a
	// narrow window.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the session lifetime. Redis expires the session
	// record at exactly this horizon.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the opaque refresh token.
	RefreshTokenLength = 32

	// ResetTokenTTL bounds the password recovery window.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the opaque reset token.
	ResetTokenLength = 32
)

// # Validation Constraints

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
)
