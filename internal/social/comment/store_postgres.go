// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package comment

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

// NewPostgresRepository constructs a PostgreSQL backed comment store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// commentColumns is the shared projection including author name, like count,
// and the viewer's like state ($viewer placeholder is always the first arg).
const commentColumns = `
	c.id, c.userid, u.username, c.mangaid, c.chapterid, c.parentid,
	c.content, c.isdeleted, c.createdat, c.updatedat,
	(SELECT COUNT(*) FROM social.commentlike l WHERE l.commentid = c.id) AS likes_count,
	EXISTS (SELECT 1 FROM social.commentlike l WHERE l.commentid = c.id AND l.userid = $1) AS liked_by_me`

// ListForTarget returns the flat, non-deleted comment set for one target,
// newest first.
func (repository *PostgresRepository) ListForTarget(context context.Context, target Target, viewerID string) ([]*Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM social.comment c
		JOIN users.account u ON u.id = c.userid
		WHERE c.isdeleted = FALSE AND `
	args := []any{viewerID}

	if target.MangaID != "" {
		query += `c.mangaid = $2`
		args = append(args, target.MangaID)
	} else {
		query += `c.chapterid = $2`
		args = append(args, target.ChapterID)
	}

	query += ` ORDER BY c.createdat DESC`

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.UserID,
			&comment.Username,
			&comment.MangaID,
			&comment.ChapterID,
			&comment.ParentID,
			&comment.Content,
			&comment.IsDeleted,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.LikesCount,
			&comment.LikedByMe,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// FindByID fetches one comment regardless of its deletion state.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM social.comment c
		JOIN users.account u ON u.id = c.userid
		WHERE c.id = $2`

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, "", id).Scan(
		&comment.ID,
		&comment.UserID,
		&comment.Username,
		&comment.MangaID,
		&comment.ChapterID,
		&comment.ParentID,
		&comment.Content,
		&comment.IsDeleted,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.LikesCount,
		&comment.LikedByMe,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment")
	}

	return comment, nil
}

// Create persists a new comment.
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	comment.ID = uuidv7.New()

	query := `
		INSERT INTO social.comment (id, userid, mangaid, chapterid, parentid, content, isdeleted, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		comment.ID, comment.UserID, comment.MangaID, comment.ChapterID, comment.ParentID, comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	return nil
}

// SoftDelete flags a comment as deleted.
func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	query := `UPDATE social.comment SET isdeleted = TRUE, updatedat = NOW() WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "soft_delete_comment")
	}

	return nil
}

/*
ToggleLike flips the (user, comment) like pair atomically.

Description: Same pattern as bookmark toggling: the insert is idempotent on
the unique pair, and an already-present pair is removed instead. The fresh
count is read after the flip.
*/
func (repository *PostgresRepository) ToggleLike(context context.Context, userID, commentID string) (bool, int, error) {
	insert := `
		INSERT INTO social.commentlike (id, userid, commentid, createdat)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (userid, commentid) DO NOTHING`

	tag, err := repository.pool.Exec(context, insert, uuidv7.New(), userID, commentID)
	if err != nil {
		return false, 0, dberr.Wrap(err, "like_comment")
	}

	liked := tag.RowsAffected() > 0
	if !liked {
		remove := `DELETE FROM social.commentlike WHERE userid = $1 AND commentid = $2`
		if _, err := repository.pool.Exec(context, remove, userID, commentID); err != nil {
			return false, 0, dberr.Wrap(err, "unlike_comment")
		}
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM social.commentlike WHERE commentid = $1`
	if err := repository.pool.QueryRow(context, countQuery, commentID).Scan(&count); err != nil {
		return liked, 0, dberr.Wrap(err, "count_comment_likes")
	}

	return liked, count, nil
}
