// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package rating

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami-reader/tatami/internal/platform/dberr"
	"github.com/tatami-reader/tatami/pkg/uuidv7"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed rating store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Upsert writes the score on the (userid, chapterid) natural key.
func (repository *PostgresRepository) Upsert(context context.Context, rating *Rating) error {
	query := `
		INSERT INTO social.rating (id, userid, chapterid, score, createdat, updatedat)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (userid, chapterid) DO UPDATE
			SET score = EXCLUDED.score, updatedat = NOW()
		RETURNING id, createdat, updatedat`

	err := repository.pool.QueryRow(context, query, uuidv7.New(), rating.UserID, rating.ChapterID, rating.Score).
		Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "upsert_rating")
	}

	return nil
}

// FindMine returns the caller's rating, or nil when absent.
func (repository *PostgresRepository) FindMine(context context.Context, userID, chapterID string) (*Rating, error) {
	query := `
		SELECT id, userid, chapterid, score, createdat, updatedat
		FROM social.rating
		WHERE userid = $1 AND chapterid = $2`

	rating := &Rating{}
	err := repository.pool.QueryRow(context, query, userID, chapterID).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.ChapterID,
		&rating.Score,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		// An unrated chapter is an ordinary outcome, not an error.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "find_my_rating")
	}

	return rating, nil
}
