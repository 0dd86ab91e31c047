// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package achievement

import "context"

// Repository abstracts achievement catalogue and progress persistence.
type Repository interface {
	// ListActive returns the active catalogue in stable catalogue order
	// (creation order). The evaluator relies on this ordering for
	// deterministic NewlyUnlocked output.
	ListActive(context context.Context) ([]*Achievement, error)

	// CompletedIDs returns the set of achievement IDs the user has already
	// completed.
	CompletedIDs(context context.Context, userID string) (map[string]struct{}, error)

	// CreateCompleted records a completed unlock via atomic get-or-create on
	// the (user, achievement) pair. The boolean reports whether this call
	// created the record; false means a concurrent call won the race.
	CreateCompleted(context context.Context, userID, achievementID string, progress int64) (bool, error)

	// ListMine returns the user's completed achievements, newest first, with
	// the catalogue entry hydrated.
	ListMine(context context.Context, userID string) ([]*UserAchievement, error)
}

// StatsSource computes the user's activity counters for one evaluation.
type StatsSource interface {
	Snapshot(context context.Context, userID string) (StatsSnapshot, error)
}

// PointsStore is the slice of the user store the evaluator mutates: the
// point total, as an atomic database-side increment.
type PointsStore interface {
	AddPoints(context context.Context, userID string, points int) error
}
