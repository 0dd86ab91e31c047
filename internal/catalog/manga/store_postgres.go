// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package manga

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami-reader/tatami/internal/catalog/taxonomy"
	"github.com/tatami-reader/tatami/internal/platform/database/schema"
	"github.com/tatami-reader/tatami/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed manga store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// mangaColumns is the shared projection for manga reads. Genres are folded in
// as a JSON array to avoid N+1 queries; rating/chapter aggregates come from
// correlated subqueries so list and detail payloads stay identical.
func mangaColumns() string {
	return fmt.Sprintf(`
		m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s,
		COALESCE((
			SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s mg ON g.%s = mg.%s
			WHERE mg.%s = m.%s
		), '[]') AS genres,
		COALESCE((
			SELECT AVG(r.score)::float8
			FROM social.rating r
			JOIN %s ch ON r.chapterid = ch.%s
			WHERE ch.%s = m.%s
		), 0) AS avg_rating,
		(SELECT COUNT(*) FROM %s ch WHERE ch.%s = m.%s) AS chapter_count,
		(SELECT MAX(ch.%s) FROM %s ch WHERE ch.%s = m.%s) AS last_updated`,
		schema.CatalogManga.ID,
		schema.CatalogManga.Title,
		schema.CatalogManga.SubTitles,
		schema.CatalogManga.Slug,
		schema.CatalogManga.Description,
		schema.CatalogManga.Author,
		schema.CatalogManga.CoverURL,
		schema.CatalogManga.Status,
		schema.CatalogManga.Views,
		schema.CatalogManga.CategoryID,
		schema.CatalogManga.CreatedAt,
		schema.CatalogManga.UpdatedAt,
		schema.CatalogGenre.ID, schema.CatalogGenre.Name, schema.CatalogGenre.Slug, schema.CatalogGenre.Name,
		schema.CatalogGenre.Table,
		schema.CatalogMangaGenre.Table,
		schema.CatalogGenre.ID, schema.CatalogMangaGenre.GenreID,
		schema.CatalogMangaGenre.MangaID, schema.CatalogManga.ID,
		schema.CatalogChapter.Table, schema.CatalogChapter.ID,
		schema.CatalogChapter.MangaID, schema.CatalogManga.ID,
		schema.CatalogChapter.Table, schema.CatalogChapter.MangaID, schema.CatalogManga.ID,
		schema.CatalogChapter.CreatedAt, schema.CatalogChapter.Table, schema.CatalogChapter.MangaID, schema.CatalogManga.ID,
	)
}

// scanManga hydrates one manga row produced by [mangaColumns].
func scanManga(row pgx.Row, manga *Manga, extra ...any) error {
	var genresJSON []byte
	var lastUpdated *time.Time

	dest := []any{
		&manga.ID,
		&manga.Title,
		&manga.SubTitles,
		&manga.Slug,
		&manga.Description,
		&manga.Author,
		&manga.CoverURL,
		&manga.Status,
		&manga.Views,
		&manga.CategoryID,
		&manga.CreatedAt,
		&manga.UpdatedAt,
		&genresJSON,
		&manga.AvgRating,
		&manga.ChapterCount,
		&lastUpdated,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return err
	}

	manga.LastUpdated = lastUpdated
	if err := json.Unmarshal(genresJSON, &manga.Genres); err != nil {
		return fmt.Errorf("postgres: failed to decode genres: %w", err)
	}
	if len(manga.Genres) == 0 {
		manga.Genres = []taxonomy.Genre{}
	}

	return nil
}

/*
List returns a filtered, paginated slice of manga and the total count.

Description: Builds the WHERE clause dynamically and uses COUNT(*) OVER()
to retrieve the total matching count without a second round trip. Search
matches title, author, description, and genre names case-insensitively.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s m WHERE 1=1`,
		mangaColumns(), schema.CatalogManga.Table))

	// Free-text search across metadata and genre names
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND (
			m.%s ILIKE $%d OR m.%s ILIKE $%d OR m.%s ILIKE $%d OR EXISTS (
				SELECT 1 FROM %s mg JOIN %s g ON g.%s = mg.%s
				WHERE mg.%s = m.%s AND g.%s ILIKE $%d
			))`,
			schema.CatalogManga.Title, argID,
			schema.CatalogManga.Author, argID,
			schema.CatalogManga.Description, argID,
			schema.CatalogMangaGenre.Table, schema.CatalogGenre.Table,
			schema.CatalogGenre.ID, schema.CatalogMangaGenre.GenreID,
			schema.CatalogMangaGenre.MangaID, schema.CatalogManga.ID,
			schema.CatalogGenre.Name, argID,
		))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	// Category Filtering (by slug)
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND m.%s = (SELECT %s FROM %s WHERE %s = $%d)`,
			schema.CatalogManga.CategoryID,
			schema.CatalogCategory.ID, schema.CatalogCategory.Table, schema.CatalogCategory.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Genre Filtering (AND semantics over slugs)
	if len(filter.Genres) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(` AND $%d::text[] <@ (
			SELECT array_agg(g.%s) FROM %s mg JOIN %s g ON g.%s = mg.%s WHERE mg.%s = m.%s)`,
			argID,
			schema.CatalogGenre.Slug,
			schema.CatalogMangaGenre.Table, schema.CatalogGenre.Table,
			schema.CatalogGenre.ID, schema.CatalogMangaGenre.GenreID,
			schema.CatalogMangaGenre.MangaID, schema.CatalogManga.ID,
		))
		args = append(args, filter.Genres)
		argID++
	}

	// Status Filtering
	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND m.%s = $%d", schema.CatalogManga.Status, argID))
		args = append(args, string(filter.Status))
		argID++
	}

	// Apply Sorting (whitelisted keys only)
	column, descending := NormalizeOrdering(filter.Ordering)
	sortColumn := map[string]string{
		"title":      schema.CatalogManga.Title,
		"views":      schema.CatalogManga.Views,
		"updated_at": schema.CatalogManga.UpdatedAt,
		"created_at": schema.CatalogManga.CreatedAt,
	}[column]
	sortDir := "ASC"
	if descending {
		sortDir = "DESC"
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY m.%s %s, m.%s DESC", sortColumn, sortDir, schema.CatalogManga.ID))

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_manga")
	}
	defer rows.Close()

	mangas := make([]*Manga, 0)
	var totalCount int

	for rows.Next() {
		manga := &Manga{}
		if err := scanManga(rows, manga, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_manga")
		}
		mangas = append(mangas, manga)
	}

	return mangas, totalCount, nil
}

// Featured returns the most-viewed series, capped at limit.
func (repository *PostgresRepository) Featured(context context.Context, limit int) ([]*Manga, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s m ORDER BY m.%s DESC, m.%s DESC LIMIT $1`,
		mangaColumns(), schema.CatalogManga.Table, schema.CatalogManga.Views, schema.CatalogManga.ID)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "featured_manga")
	}
	defer rows.Close()

	mangas := make([]*Manga, 0, limit)
	for rows.Next() {
		manga := &Manga{}
		if err := scanManga(rows, manga); err != nil {
			return nil, dberr.Wrap(err, "scan_featured_manga")
		}
		mangas = append(mangas, manga)
	}

	return mangas, nil
}

// FindByID fetches a single series by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Manga, error) {
	return repository.findByColumn(context, schema.CatalogManga.ID, id)
}

// FindBySlug fetches a single series by its unique URL slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Manga, error) {
	return repository.findByColumn(context, schema.CatalogManga.Slug, slug)
}

func (repository *PostgresRepository) findByColumn(context context.Context, column, value string) (*Manga, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s m WHERE m.%s = $1`,
		mangaColumns(), schema.CatalogManga.Table, column)

	manga := &Manga{}
	if err := scanManga(repository.pool.QueryRow(context, query, value), manga); err != nil {
		return nil, dberr.Wrap(err, "get_manga")
	}

	return manga, nil
}

/*
Create persists a new series and its genre associations in one transaction.
*/
func (repository *PostgresRepository) Create(context context.Context, manga *Manga) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_manga")
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.CatalogManga.Table,
		schema.CatalogManga.ID,
		schema.CatalogManga.Title,
		schema.CatalogManga.SubTitles,
		schema.CatalogManga.Slug,
		schema.CatalogManga.Description,
		schema.CatalogManga.Author,
		schema.CatalogManga.CoverURL,
		schema.CatalogManga.Status,
		schema.CatalogManga.CategoryID,
		schema.CatalogManga.CreatedAt, schema.CatalogManga.UpdatedAt,
	)

	err = tx.QueryRow(context, query,
		manga.ID,
		manga.Title,
		manga.SubTitles,
		manga.Slug,
		manga.Description,
		manga.Author,
		manga.CoverURL,
		string(manga.Status),
		manga.CategoryID,
	).Scan(&manga.CreatedAt, &manga.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_manga")
	}

	if err := replaceGenres(context, tx, manga.ID, manga.GenreIDs); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_manga")
	}

	return nil
}

/*
Update applies a partial update; a non-nil GenreIDs replaces the genre
junction rows wholesale inside the same transaction.
*/
func (repository *PostgresRepository) Update(context context.Context, manga *Manga) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_manga")
	}
	defer tx.Rollback(context)

	var setClauses []string
	var args []any
	argID := 1

	addSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if manga.Title != "" {
		addSet(schema.CatalogManga.Title, manga.Title)
	}
	if manga.SubTitles != nil {
		addSet(schema.CatalogManga.SubTitles, manga.SubTitles)
	}
	if manga.Slug != "" {
		addSet(schema.CatalogManga.Slug, manga.Slug)
	}
	if manga.Description != "" {
		addSet(schema.CatalogManga.Description, manga.Description)
	}
	if manga.Author != "" {
		addSet(schema.CatalogManga.Author, manga.Author)
	}
	if manga.CoverURL != "" {
		addSet(schema.CatalogManga.CoverURL, manga.CoverURL)
	}
	if manga.Status != "" {
		addSet(schema.CatalogManga.Status, string(manga.Status))
	}
	if manga.CategoryID != nil {
		addSet(schema.CatalogManga.CategoryID, *manga.CategoryID)
	}

	if len(setClauses) > 0 {
		setClauses = append(setClauses, fmt.Sprintf("%s = NOW()", schema.CatalogManga.UpdatedAt))

		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			schema.CatalogManga.Table, strings.Join(setClauses, ", "), schema.CatalogManga.ID, argID)
		args = append(args, manga.ID)

		tag, err := tx.Exec(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, "update_manga")
		}
		if tag.RowsAffected() == 0 {
			return dberr.Wrap(pgx.ErrNoRows, "update_manga")
		}
	}

	if manga.GenreIDs != nil {
		deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			schema.CatalogMangaGenre.Table, schema.CatalogMangaGenre.MangaID)
		if _, err := tx.Exec(context, deleteQuery, manga.ID); err != nil {
			return dberr.Wrap(err, "clear_manga_genres")
		}
		if err := replaceGenres(context, tx, manga.ID, manga.GenreIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_manga")
	}

	return nil
}

// Delete removes a series; dependent rows cascade at the schema level.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CatalogManga.Table, schema.CatalogManga.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_manga")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_manga")
	}

	return nil
}

// IncrementViews bumps the view counter atomically at the database level.
func (repository *PostgresRepository) IncrementViews(context context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = %s + 1 WHERE %s = $1",
		schema.CatalogManga.Table, schema.CatalogManga.Views, schema.CatalogManga.Views, schema.CatalogManga.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "increment_manga_views")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "increment_manga_views")
	}

	return nil
}

// replaceGenres inserts the junction rows for the given genre IDs.
func replaceGenres(context context.Context, tx pgx.Tx, mangaID string, genreIDs []string) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		schema.CatalogMangaGenre.Table, schema.CatalogMangaGenre.MangaID, schema.CatalogMangaGenre.GenreID)

	for _, genreID := range genreIDs {
		if _, err := tx.Exec(context, query, mangaID, genreID); err != nil {
			return dberr.Wrap(err, "link_manga_genre")
		}
	}

	return nil
}
