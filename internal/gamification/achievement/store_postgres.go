// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package achievement

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami-reader/tatami/internal/platform/database/schema"
	"github.com/tatami-reader/tatami/internal/platform/dberr"
	"github.com/tatami-reader/tatami/pkg/uuidv7"
)

// PostgresRepository implements [Repository] and [StatsSource] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed achievement store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func achievementColumns(prefix string) string {
	a := schema.GamificationAchievement
	columns := []string{
		a.ID, a.Slug, a.Name, a.NameLocal, a.Description, a.IconURL,
		a.Category, a.Rarity, a.RequirementKind, a.RequirementValue,
		a.RewardPoints, a.IsSecret, a.IsActive, a.CreatedAt,
	}
	for index, column := range columns {
		columns[index] = prefix + column
	}
	return strings.Join(columns, ", ")
}

func scanAchievement(scan func(...any) error, entry *Achievement) error {
	return scan(
		&entry.ID,
		&entry.Slug,
		&entry.Name,
		&entry.NameLocal,
		&entry.Description,
		&entry.IconURL,
		&entry.Category,
		&entry.Rarity,
		&entry.RequirementKind,
		&entry.RequirementValue,
		&entry.RewardPoints,
		&entry.IsSecret,
		&entry.IsActive,
		&entry.CreatedAt,
	)
}

// ListActive returns active catalogue entries in stable creation order.
func (repository *PostgresRepository) ListActive(context context.Context) ([]*Achievement, error) {
	a := schema.GamificationAchievement
	query := fmt.Sprintf(`SELECT %s FROM %s a WHERE a.%s = TRUE ORDER BY a.%s ASC, a.%s ASC`,
		achievementColumns("a."), a.Table, a.IsActive, a.CreatedAt, a.ID)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_achievements")
	}
	defer rows.Close()

	entries := make([]*Achievement, 0)
	for rows.Next() {
		entry := &Achievement{}
		if err := scanAchievement(rows.Scan, entry); err != nil {
			return nil, dberr.Wrap(err, "scan_achievement")
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// CompletedIDs returns the user's completed achievement ID set.
func (repository *PostgresRepository) CompletedIDs(context context.Context, userID string) (map[string]struct{}, error) {
	ua := schema.GamificationUserAchievement
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = TRUE`,
		ua.AchievementID, ua.Table, ua.UserID, ua.IsCompleted)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_completed_achievements")
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_completed_achievement")
		}
		ids[id] = struct{}{}
	}

	return ids, nil
}

// CreateCompleted records the unlock; the unique (userid, achievementid)
// constraint makes this an atomic get-or-create under concurrent calls.
func (repository *PostgresRepository) CreateCompleted(context context.Context, userID, achievementID string, progress int64) (bool, error) {
	ua := schema.GamificationUserAchievement
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, TRUE, $4, NOW())
		ON CONFLICT (%s, %s) DO NOTHING`,
		ua.Table, ua.ID, ua.UserID, ua.AchievementID, ua.IsCompleted, ua.Progress, ua.EarnedAt,
		ua.UserID, ua.AchievementID)

	tag, err := repository.pool.Exec(context, query, uuidv7.New(), userID, achievementID, progress)
	if err != nil {
		return false, dberr.Wrap(err, "create_user_achievement")
	}

	return tag.RowsAffected() > 0, nil
}

// ListMine returns completed achievements with the catalogue entry hydrated,
// newest unlock first.
func (repository *PostgresRepository) ListMine(context context.Context, userID string) ([]*UserAchievement, error) {
	a := schema.GamificationAchievement
	ua := schema.GamificationUserAchievement
	query := fmt.Sprintf(`
		SELECT u.%s, u.%s, u.%s, u.%s, u.%s, u.%s, %s
		FROM %s u
		JOIN %s a ON a.%s = u.%s
		WHERE u.%s = $1 AND u.%s = TRUE
		ORDER BY u.%s DESC`,
		ua.ID, ua.UserID, ua.AchievementID, ua.IsCompleted, ua.Progress, ua.EarnedAt,
		achievementColumns("a."),
		ua.Table,
		a.Table, a.ID, ua.AchievementID,
		ua.UserID, ua.IsCompleted,
		ua.EarnedAt)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_my_achievements")
	}
	defer rows.Close()

	records := make([]*UserAchievement, 0)
	for rows.Next() {
		record := &UserAchievement{Achievement: &Achievement{}}
		dest := []any{
			&record.ID,
			&record.UserID,
			&record.AchievementID,
			&record.IsCompleted,
			&record.Progress,
			&record.EarnedAt,
		}
		entry := record.Achievement
		dest = append(dest,
			&entry.ID, &entry.Slug, &entry.Name, &entry.NameLocal, &entry.Description, &entry.IconURL,
			&entry.Category, &entry.Rarity, &entry.RequirementKind, &entry.RequirementValue,
			&entry.RewardPoints, &entry.IsSecret, &entry.IsActive, &entry.CreatedAt,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, dberr.Wrap(err, "scan_my_achievement")
		}
		records = append(records, record)
	}

	return records, nil
}

/*
Snapshot recomputes the user's activity counters in a single round trip.

Description: Reading, collection, and social counts come straight from their
source tables; the accumulated reading time is the counter maintained on the
user record. The hour-of-day is filled in by the evaluator, not here.
*/
func (repository *PostgresRepository) Snapshot(context context.Context, userID string) (StatsSnapshot, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM library.readinghistory WHERE userid = $1),
			(SELECT COUNT(*) FROM library.bookmark WHERE userid = $1),
			(SELECT COUNT(*) FROM social.comment WHERE userid = $1 AND isdeleted = FALSE),
			(SELECT COALESCE(totalreadingtime, 0) FROM users.account WHERE id = $1)`

	var snapshot StatsSnapshot
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&snapshot.ReadingCount,
		&snapshot.CollectionCount,
		&snapshot.SocialCount,
		&snapshot.ReadingTimeSeconds,
	)
	if err != nil {
		return StatsSnapshot{}, dberr.Wrap(err, "stats_snapshot")
	}

	return snapshot, nil
}
