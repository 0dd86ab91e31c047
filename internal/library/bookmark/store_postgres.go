// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package bookmark

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

// NewPostgresRepository constructs a PostgreSQL backed bookmark store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns the user's bookmarks joined with series context, newest first.
func (repository *PostgresRepository) List(context context.Context, userID string) ([]*Bookmark, error) {
	query := `
		SELECT b.id, b.userid, b.mangaid, b.createdat,
		       m.title, m.slug, m.coverurl, m.status
		FROM library.bookmark b
		JOIN catalog.manga m ON m.id = b.mangaid
		WHERE b.userid = $1
		ORDER BY b.createdat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_bookmarks")
	}
	defer rows.Close()

	bookmarks := make([]*Bookmark, 0)
	for rows.Next() {
		bookmark := &Bookmark{}
		err := rows.Scan(
			&bookmark.ID,
			&bookmark.UserID,
			&bookmark.MangaID,
			&bookmark.CreatedAt,
			&bookmark.MangaTitle,
			&bookmark.MangaSlug,
			&bookmark.MangaCoverURL,
			&bookmark.MangaStatus,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_bookmark")
		}
		bookmarks = append(bookmarks, bookmark)
	}

	return bookmarks, nil
}

/*
Toggle flips the bookmark state atomically.

Description: The insert relies on the unique (userid, mangaid) constraint:
if the row already existed the insert is a no-op and the pair is deleted
instead. Concurrent duplicate toggles therefore settle on a single state
rather than erroring.
*/
func (repository *PostgresRepository) Toggle(context context.Context, userID, mangaID string) (bool, error) {
	insert := `
		INSERT INTO library.bookmark (id, userid, mangaid, createdat)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (userid, mangaid) DO NOTHING`

	tag, err := repository.pool.Exec(context, insert, uuidv7.New(), userID, mangaID)
	if err != nil {
		return false, dberr.Wrap(err, "toggle_bookmark")
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	remove := `DELETE FROM library.bookmark WHERE userid = $1 AND mangaid = $2`
	if _, err := repository.pool.Exec(context, remove, userID, mangaID); err != nil {
		return false, dberr.Wrap(err, "remove_bookmark")
	}

	return false, nil
}

// Check reports whether the (user, manga) pair exists.
func (repository *PostgresRepository) Check(context context.Context, userID, mangaID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM library.bookmark WHERE userid = $1 AND mangaid = $2)`

	var bookmarked bool
	if err := repository.pool.QueryRow(context, query, userID, mangaID).Scan(&bookmarked); err != nil {
		return false, dberr.Wrap(err, "check_bookmark")
	}

	return bookmarked, nil
}
