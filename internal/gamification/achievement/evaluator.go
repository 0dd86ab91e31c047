// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package achievement

import (
	"context"
	"log/slog"
	"time"
)

// # Evaluator

// nightWindowStart and nightWindowEnd bound the owl rule's half-open local
// hour window [3, 5).
const (
	nightWindowStart = 3
	nightWindowEnd   = 5
)

// Evaluator checks a reader's activity counters against the achievement
// catalogue and unlocks anything newly satisfied.
type Evaluator struct {
	repo   Repository
	stats  StatsSource
	points PointsStore
	clock  func() time.Time
	logger *slog.Logger
}

// NewEvaluator constructs an [Evaluator]. A nil clock defaults to
// [time.Now]; tests inject a fixed clock to pin the night-reading window.
func NewEvaluator(repo Repository, stats StatsSource, points PointsStore, clock func() time.Time, logger *slog.Logger) *Evaluator {
	if clock == nil {
		clock = time.Now
	}

	return &Evaluator{
		repo:   repo,
		stats:  stats,
		points: points,
		clock:  clock,
		logger: logger,
	}
}

/*
Evaluate runs one evaluation pass for the user.

Description: The activity snapshot is recomputed from the underlying records
on every call; nothing about a previous evaluation is trusted. For each
active catalogue entry not yet completed by the user, the comparison value
is resolved by requirement kind and checked against the threshold. Each
unlock is an independent unit of work: the progress row is created with an
atomic get-or-create keyed on (user, achievement) — so concurrent duplicate
calls cannot double-award — and the reward is applied as an atomic
database-side point increment. A failure while unlocking one entry does not
roll back entries already unlocked in the same pass.

Returns:
  - *EvaluationResult: Newly unlocked entries in catalogue order, plus the
    snapshot the decision was made against
  - error: Persistence failures
*/
func (evaluator *Evaluator) Evaluate(context context.Context, userID string) (*EvaluationResult, error) {
	snapshot, err := evaluator.stats.Snapshot(context, userID)
	if err != nil {
		return nil, err
	}
	snapshot.Hour = evaluator.clock().Hour()

	completed, err := evaluator.repo.CompletedIDs(context, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := evaluator.repo.ListActive(context)
	if err != nil {
		return nil, err
	}

	result := &EvaluationResult{
		NewlyUnlocked: make([]Unlocked, 0),
		Stats:         snapshot,
	}

	for _, entry := range catalog {
		if _, done := completed[entry.ID]; done {
			continue
		}

		if comparisonValue(entry, snapshot) < entry.RequirementValue {
			continue
		}

		created, err := evaluator.repo.CreateCompleted(context, userID, entry.ID, entry.RequirementValue)
		if err != nil {
			return nil, err
		}
		if !created {
			// A concurrent evaluation unlocked it first; it gets the award.
			continue
		}

		if err := evaluator.points.AddPoints(context, userID, entry.RewardPoints); err != nil {
			return nil, err
		}

		result.NewlyUnlocked = append(result.NewlyUnlocked, Unlocked{
			ID:           entry.ID,
			Slug:         entry.Slug,
			Name:         entry.Name,
			Rarity:       entry.Rarity,
			RewardPoints: entry.RewardPoints,
		})

		evaluator.logger.Info("achievement_unlocked",
			slog.String("user_id", userID),
			slog.String("achievement_id", entry.ID),
			slog.String("slug", entry.Slug),
			slog.Int("reward_points", entry.RewardPoints),
		)
	}

	return result, nil
}

// comparisonValue resolves the value checked against the threshold,
// dispatching on the explicit requirement kind.
func comparisonValue(entry *Achievement, stats StatsSnapshot) int64 {
	switch entry.RequirementKind {
	case KindNightReading:
		if stats.Hour >= nightWindowStart && stats.Hour < nightWindowEnd && stats.ReadingCount >= 1 {
			return 1
		}
		return 0
	case KindThreshold:
		return stats.counterFor(entry.Category)
	}

	// Unknown kinds never unlock; a kind typo in content entry must not
	// hand out points.
	return -1
}
