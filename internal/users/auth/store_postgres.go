// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/dberr"
)

const userColumns = `id, username, email, passwordhash, displayname,
	COALESCE(avatarurl, ''), COALESCE(bio, ''), role,
	points, chaptersread, totalreadingtime, createdat, updatedat`

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed account store.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.Role,
		&user.Points,
		&user.ChaptersRead,
		&user.TotalReadingTime,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value, missing string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE ` + column + ` = $1 AND deletedat IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(missing)
		}
		return nil, dberr.Wrap(err, "find_user")
	}

	return user, nil
}

// FindByID resolves an account by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, "id", id, "User")
}

// FindByEmail resolves an account by its unique email.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, "email", email, "User")
}

// FindByUsername resolves an account by its unique username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, "username", username, "User")
}

/*
Create persists a new account row.

Description: Counters start at zero server-side. A unique violation on the
username or email index comes back as a client-safe Conflict, which closes
the race the service-level pre-checks leave open.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - err: Conflict or storage failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, displayname, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return dberr.Wrap(err, "create_user")
	}

	return nil
}

// Update persists the mutable profile fields.
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET displayname = $2, avatarurl = NULLIF($3, ''), bio = NULLIF($4, ''), updatedat = $5
		WHERE id = $1 AND deletedat IS NULL`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.DisplayName,
		user.AvatarURL,
		user.Bio,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// UpdatePassword replaces only the password hash.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	if _, err := repository.pool.Exec(context, query, userID, newHash, time.Now()); err != nil {
		return dberr.Wrap(err, "update_password")
	}

	return nil
}

// # Gamification Counters

// Relative updates keep concurrent increments correct without any locking;
// the database serializes them per row.

// IncrementChaptersRead bumps the lifetime chapters-read counter.
func (repository *PostgresUserRepository) IncrementChaptersRead(context context.Context, userID string, delta int) error {
	const query = `UPDATE users.account SET chaptersread = chaptersread + $2 WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID, delta); err != nil {
		return dberr.Wrap(err, "increment_chapters_read")
	}

	return nil
}

// AddReadingTime adds a session's seconds to the lifetime reading-time counter.
func (repository *PostgresUserRepository) AddReadingTime(context context.Context, userID string, seconds int64) error {
	const query = `UPDATE users.account SET totalreadingtime = totalreadingtime + $2 WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID, seconds); err != nil {
		return dberr.Wrap(err, "add_reading_time")
	}

	return nil
}

// AddPoints credits achievement reward points.
func (repository *PostgresUserRepository) AddPoints(context context.Context, userID string, points int) error {
	const query = `UPDATE users.account SET points = points + $2 WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID, points); err != nil {
		return dberr.Wrap(err, "add_points")
	}

	return nil
}
