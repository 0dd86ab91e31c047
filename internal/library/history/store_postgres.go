// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami-reader/tatami/internal/platform/dberr"
	"github.com/tatami-reader/tatami/pkg/uuidv7"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed history store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record inserts the (user, chapter) pair, relying on the unique constraint
// for idempotency under concurrent duplicate requests.
func (repository *PostgresRepository) Record(context context.Context, userID, chapterID string) (bool, error) {
	query := `
		INSERT INTO library.readinghistory (id, userid, chapterid, readat)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (userid, chapterid) DO NOTHING`

	tag, err := repository.pool.Exec(context, query, uuidv7.New(), userID, chapterID)
	if err != nil {
		return false, dberr.Wrap(err, "record_reading_history")
	}

	return tag.RowsAffected() > 0, nil
}

// ListRecent returns the newest entries joined with chapter and series
// context for the reading list.
func (repository *PostgresRepository) ListRecent(context context.Context, userID string, limit int) ([]*Entry, error) {
	query := `
		SELECT h.id, h.userid, h.chapterid, h.readat,
		       c.number, m.id, m.title, m.slug, m.coverurl
		FROM library.readinghistory h
		JOIN catalog.chapter c ON c.id = h.chapterid
		JOIN catalog.manga m ON m.id = c.mangaid
		WHERE h.userid = $1
		ORDER BY h.readat DESC
		LIMIT $2`

	rows, err := repository.pool.Query(context, query, userID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reading_history")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		entry := &Entry{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.ChapterID,
			&entry.ReadAt,
			&entry.ChapterNumber,
			&entry.MangaID,
			&entry.MangaTitle,
			&entry.MangaSlug,
			&entry.MangaCoverURL,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_reading_history")
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
