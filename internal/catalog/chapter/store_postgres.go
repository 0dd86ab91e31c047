// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami-reader/tatami/internal/platform/database/schema"
	"github.com/tatami-reader/tatami/internal/platform/dberr"
	"github.com/tatami-reader/tatami/pkg/uuidv7"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed chapter store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListByManga returns all chapters of a series ordered by number, with page
// counts and rating aggregates folded in.
func (repository *PostgresRepository) ListByManga(context context.Context, mangaID string) ([]*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		       (SELECT COUNT(*) FROM %s p WHERE p.%s = c.%s) AS page_count,
		       COALESCE((SELECT AVG(r.score)::float8 FROM social.rating r WHERE r.chapterid = c.%s), 0) AS avg_rating
		FROM %s c
		WHERE c.%s = $1
		ORDER BY c.%s ASC`,
		schema.CatalogChapter.ID, schema.CatalogChapter.MangaID, schema.CatalogChapter.Number,
		schema.CatalogChapter.Title, schema.CatalogChapter.ReleaseDate, schema.CatalogChapter.CreatedAt,
		schema.CatalogChapterPage.Table, schema.CatalogChapterPage.ChapterID, schema.CatalogChapter.ID,
		schema.CatalogChapter.ID,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.MangaID,
		schema.CatalogChapter.Number,
	)

	rows, err := repository.pool.Query(context, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_chapters")
	}
	defer rows.Close()

	chapters := make([]*Chapter, 0)
	for rows.Next() {
		chapter := &Chapter{}
		err := rows.Scan(
			&chapter.ID,
			&chapter.MangaID,
			&chapter.Number,
			&chapter.Title,
			&chapter.ReleaseDate,
			&chapter.CreatedAt,
			&chapter.PageCount,
			&chapter.AvgRating,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_chapter")
		}
		chapters = append(chapters, chapter)
	}

	return chapters, nil
}

/*
FindByID fetches a chapter detail row.

Description: The parent series title and the prev/next chapter identifiers
(by chapter number within the same series) come from correlated subqueries;
pages are loaded with a second ordered query.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		       m.%s AS manga_title,
		       COALESCE((SELECT AVG(r.score)::float8 FROM social.rating r WHERE r.chapterid = c.%s), 0) AS avg_rating,
		       (SELECT p.%s FROM %s p WHERE p.%s = c.%s AND p.%s < c.%s ORDER BY p.%s DESC LIMIT 1) AS prev_id,
		       (SELECT n.%s FROM %s n WHERE n.%s = c.%s AND n.%s > c.%s ORDER BY n.%s ASC LIMIT 1) AS next_id
		FROM %s c
		JOIN %s m ON m.%s = c.%s
		WHERE c.%s = $1`,
		schema.CatalogChapter.ID, schema.CatalogChapter.MangaID, schema.CatalogChapter.Number,
		schema.CatalogChapter.Title, schema.CatalogChapter.ReleaseDate, schema.CatalogChapter.CreatedAt,
		schema.CatalogManga.Title,
		schema.CatalogChapter.ID,
		schema.CatalogChapter.ID, schema.CatalogChapter.Table, schema.CatalogChapter.MangaID, schema.CatalogChapter.MangaID,
		schema.CatalogChapter.Number, schema.CatalogChapter.Number, schema.CatalogChapter.Number,
		schema.CatalogChapter.ID, schema.CatalogChapter.Table, schema.CatalogChapter.MangaID, schema.CatalogChapter.MangaID,
		schema.CatalogChapter.Number, schema.CatalogChapter.Number, schema.CatalogChapter.Number,
		schema.CatalogChapter.Table,
		schema.CatalogManga.Table, schema.CatalogManga.ID, schema.CatalogChapter.MangaID,
		schema.CatalogChapter.ID,
	)

	chapter := &Chapter{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&chapter.ID,
		&chapter.MangaID,
		&chapter.Number,
		&chapter.Title,
		&chapter.ReleaseDate,
		&chapter.CreatedAt,
		&chapter.MangaTitle,
		&chapter.AvgRating,
		&chapter.PrevChapterID,
		&chapter.NextChapterID,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_chapter")
	}

	pages, err := repository.listPages(context, id)
	if err != nil {
		return nil, err
	}
	chapter.Pages = pages
	chapter.PageCount = len(pages)

	return chapter, nil
}

func (repository *PostgresRepository) listPages(context context.Context, chapterID string) ([]Page, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.CatalogChapterPage.ID, schema.CatalogChapterPage.ChapterID, schema.CatalogChapterPage.PageNumber,
		schema.CatalogChapterPage.ImageURL, schema.CatalogChapterPage.OriginalFilename,
		schema.CatalogChapterPage.Width, schema.CatalogChapterPage.Height,
		schema.CatalogChapterPage.Table, schema.CatalogChapterPage.ChapterID, schema.CatalogChapterPage.PageNumber,
	)

	rows, err := repository.pool.Query(context, query, chapterID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_chapter_pages")
	}
	defer rows.Close()

	pages := make([]Page, 0)
	for rows.Next() {
		page := Page{}
		err := rows.Scan(
			&page.ID,
			&page.ChapterID,
			&page.PageNumber,
			&page.ImageURL,
			&page.OriginalFilename,
			&page.Width,
			&page.Height,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_chapter_page")
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// Update applies partial metadata changes to a chapter.
func (repository *PostgresRepository) Update(context context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = COALESCE(NULLIF($2, ''), %s),
			%s = COALESCE($3, %s)
		WHERE %s = $1`,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.Title, schema.CatalogChapter.Title,
		schema.CatalogChapter.ReleaseDate, schema.CatalogChapter.ReleaseDate,
		schema.CatalogChapter.ID,
	)

	tag, err := repository.pool.Exec(context, query, chapter.ID, chapter.Title, chapter.ReleaseDate)
	if err != nil {
		return dberr.Wrap(err, "update_chapter")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "update_chapter")
	}

	return nil
}

// Delete removes a chapter; page rows cascade at the schema level.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CatalogChapter.Table, schema.CatalogChapter.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_chapter")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_chapter")
	}

	return nil
}

/*
ReplaceChapterPages swaps a chapter's page set in one transaction.

Description: The chapter row is upserted on its (manga, number) natural key;
an empty title never clobbers an existing one. The previous page rows are
deleted and the new set inserted before the transaction commits, so readers
never observe a half-replaced chapter.
*/
func (repository *PostgresRepository) ReplaceChapterPages(context context.Context, mangaID string, number float64, title string, pages []Page) (string, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return "", dberr.Wrap(err, "begin_replace_pages")
	}
	defer tx.Rollback(context)

	upsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, %s) DO UPDATE
			SET %s = COALESCE(NULLIF(EXCLUDED.%s, ''), %s.%s)
		RETURNING %s`,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ID, schema.CatalogChapter.MangaID, schema.CatalogChapter.Number, schema.CatalogChapter.Title,
		schema.CatalogChapter.MangaID, schema.CatalogChapter.Number,
		schema.CatalogChapter.Title, schema.CatalogChapter.Title,
		schema.CatalogChapter.Table, schema.CatalogChapter.Title,
		schema.CatalogChapter.ID,
	)

	var chapterID string
	if err := tx.QueryRow(context, upsert, uuidv7.New(), mangaID, number, title).Scan(&chapterID); err != nil {
		return "", dberr.Wrap(err, "upsert_chapter")
	}

	deletePages := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.CatalogChapterPage.Table, schema.CatalogChapterPage.ChapterID)
	if _, err := tx.Exec(context, deletePages, chapterID); err != nil {
		return "", dberr.Wrap(err, "delete_chapter_pages")
	}

	insertPage := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.CatalogChapterPage.Table,
		schema.CatalogChapterPage.ID, schema.CatalogChapterPage.ChapterID, schema.CatalogChapterPage.PageNumber,
		schema.CatalogChapterPage.ImageURL, schema.CatalogChapterPage.OriginalFilename,
		schema.CatalogChapterPage.Width, schema.CatalogChapterPage.Height,
	)

	for _, page := range pages {
		_, err := tx.Exec(context, insertPage,
			uuidv7.New(), chapterID, page.PageNumber, page.ImageURL, page.OriginalFilename, page.Width, page.Height)
		if err != nil {
			return "", dberr.Wrap(err, "insert_chapter_page")
		}
	}

	if err := tx.Commit(context); err != nil {
		return "", dberr.Wrap(err, "commit_replace_pages")
	}

	return chapterID, nil
}

// IncrementMangaViews bumps the parent series' view counter for a chapter.
func (repository *PostgresRepository) IncrementMangaViews(context context.Context, chapterID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = %s + 1
		WHERE %s = (SELECT %s FROM %s WHERE %s = $1)`,
		schema.CatalogManga.Table, schema.CatalogManga.Views, schema.CatalogManga.Views,
		schema.CatalogManga.ID,
		schema.CatalogChapter.MangaID, schema.CatalogChapter.Table, schema.CatalogChapter.ID,
	)

	tag, err := repository.pool.Exec(context, query, chapterID)
	if err != nil {
		return dberr.Wrap(err, "increment_views_for_chapter")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "increment_views_for_chapter")
	}

	return nil
}
