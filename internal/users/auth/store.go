// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository is the data access contract for reader accounts.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)

	// Create persists a new account. A unique violation on username or
	// email surfaces as an apperr Conflict.
	Create(context context.Context, user *User) error

	// Update persists the mutable profile fields (display name, avatar,
	// bio). Counters and credentials have dedicated methods.
	Update(context context.Context, user *User) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(context context.Context, userID, newHash string) error

	// IncrementChaptersRead bumps the lifetime chapters-read counter by
	// delta as a single relative update.
	IncrementChaptersRead(context context.Context, userID string, delta int) error

	// AddReadingTime adds a finished session's seconds to the lifetime
	// reading-time counter.
	AddReadingTime(context context.Context, userID string, seconds int64) error

	// AddPoints credits achievement reward points atomically.
	AddPoints(context context.Context, userID string, points int) error
}

// # Session Data Access

// SessionRepository is the volatile store for refresh-token sessions, keyed
// by the SHA-256 hash of the opaque token.
type SessionRepository interface {
	// Create stores the session under tokenHash with the session's TTL.
	Create(context context.Context, tokenHash string, session *Session) error

	// FindByTokenHash resolves an unexpired, unrevoked session.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	// Revoke invalidates one session.
	Revoke(context context.Context, tokenHash string) error

	// RevokeOthers invalidates every session of the user except the one
	// identified by keepTokenHash.
	RevokeOthers(context context.Context, userID, keepTokenHash string) error
}

// # Volatile Token Access

// ResetTokenRepository stores single-use password recovery tokens.
type ResetTokenRepository interface {
	Set(context context.Context, token, userID string, ttl time.Duration) error
	Get(context context.Context, token string) (string, error)
	Delete(context context.Context, token string) error
}
