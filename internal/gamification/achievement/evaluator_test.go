// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package achievement

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// # Test Fixtures

// fakeAchievementRepository keeps the catalogue and completion set in memory.
type fakeAchievementRepository struct {
	catalog   []*Achievement
	completed map[string]map[string]struct{} // userID -> achievementID set
}

func newFakeAchievementRepository(catalog ...*Achievement) *fakeAchievementRepository {
	return &fakeAchievementRepository{
		catalog:   catalog,
		completed: make(map[string]map[string]struct{}),
	}
}

func (f *fakeAchievementRepository) ListActive(_ context.Context) ([]*Achievement, error) {
	active := make([]*Achievement, 0, len(f.catalog))
	for _, entry := range f.catalog {
		if entry.IsActive {
			active = append(active, entry)
		}
	}
	return active, nil
}

func (f *fakeAchievementRepository) CompletedIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(f.completed[userID]))
	for id := range f.completed[userID] {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeAchievementRepository) CreateCompleted(_ context.Context, userID, achievementID string, _ int64) (bool, error) {
	if f.completed[userID] == nil {
		f.completed[userID] = make(map[string]struct{})
	}
	if _, exists := f.completed[userID][achievementID]; exists {
		return false, nil
	}
	f.completed[userID][achievementID] = struct{}{}
	return true, nil
}

func (f *fakeAchievementRepository) ListMine(_ context.Context, _ string) ([]*UserAchievement, error) {
	return nil, nil
}

// fakeStatsSource serves a fixed snapshot.
type fakeStatsSource struct {
	snapshot StatsSnapshot
}

func (f *fakeStatsSource) Snapshot(_ context.Context, _ string) (StatsSnapshot, error) {
	return f.snapshot, nil
}

// fakePointsStore accumulates awarded points.
type fakePointsStore struct {
	points int
}

func (f *fakePointsStore) AddPoints(_ context.Context, _ string, points int) error {
	f.points += points
	return nil
}

// fixedClock pins the evaluation hour.
func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 15, hour, 30, 0, 0, time.UTC)
	}
}

func catalogEntry(id, slug string, category Category, kind RequirementKind, threshold int64, reward int) *Achievement {
	return &Achievement{
		ID:               id,
		Slug:             slug,
		Name:             slug,
		Category:         category,
		Rarity:           RarityCommon,
		RequirementKind:  kind,
		RequirementValue: threshold,
		RewardPoints:     reward,
		IsActive:         true,
	}
}

// # Tests

/*
TestEvaluate_ThresholdBoundary verifies the exact-threshold contract: a
counter equal to the requirement unlocks, one below does not.
*/
func TestEvaluate_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name         string
		readingCount int64
		unlocks      bool
	}{
		{name: "below threshold", readingCount: 9, unlocks: false},
		{name: "exactly at threshold", readingCount: 10, unlocks: true},
		{name: "above threshold", readingCount: 11, unlocks: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeAchievementRepository(
				catalogEntry("a-1", "bookworm", CategoryReading, KindThreshold, 10, 50),
			)
			points := &fakePointsStore{}
			evaluator := NewEvaluator(repo,
				&fakeStatsSource{snapshot: StatsSnapshot{ReadingCount: tc.readingCount}},
				points, fixedClock(12), slog.New(slog.NewTextHandler(io.Discard, nil)))

			result, err := evaluator.Evaluate(context.Background(), "user-1")
			require.NoError(t, err)

			if tc.unlocks {
				require.Len(t, result.NewlyUnlocked, 1)
				assert.Equal(t, "bookworm", result.NewlyUnlocked[0].Slug)
				assert.Equal(t, 50, points.points)
			} else {
				assert.Empty(t, result.NewlyUnlocked)
				assert.Zero(t, points.points)
			}
		})
	}
}

/*
TestEvaluate_Idempotent verifies a second pass with unchanged stats unlocks
nothing and awards no further points.
*/
func TestEvaluate_Idempotent(t *testing.T) {
	repo := newFakeAchievementRepository(
		catalogEntry("a-1", "bookworm", CategoryReading, KindThreshold, 10, 50),
		catalogEntry("a-2", "collector", CategoryCollection, KindThreshold, 5, 30),
	)
	points := &fakePointsStore{}
	stats := &fakeStatsSource{snapshot: StatsSnapshot{ReadingCount: 12, CollectionCount: 7}}
	evaluator := NewEvaluator(repo, stats, points, fixedClock(12), slog.New(slog.NewTextHandler(io.Discard, nil)))

	first, err := evaluator.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, first.NewlyUnlocked, 2)
	assert.Equal(t, 80, points.points)

	second, err := evaluator.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, second.NewlyUnlocked)
	assert.Equal(t, 80, points.points)
}

/*
TestEvaluate_NightReadingWindow verifies the owl rule's half-open [3, 5)
hour window and its reading-activity precondition.
*/
func TestEvaluate_NightReadingWindow(t *testing.T) {
	tests := []struct {
		name         string
		hour         int
		readingCount int64
		unlocks      bool
	}{
		{name: "hour 3 with reads", hour: 3, readingCount: 1, unlocks: true},
		{name: "hour 4 with reads", hour: 4, readingCount: 5, unlocks: true},
		{name: "hour 2 with reads", hour: 2, readingCount: 5, unlocks: false},
		{name: "hour 5 with reads", hour: 5, readingCount: 5, unlocks: false},
		{name: "hour 3 without reads", hour: 3, readingCount: 0, unlocks: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeAchievementRepository(
				catalogEntry("a-owl", "night-owl", CategorySecret, KindNightReading, 1, 100),
			)
			points := &fakePointsStore{}
			evaluator := NewEvaluator(repo,
				&fakeStatsSource{snapshot: StatsSnapshot{ReadingCount: tc.readingCount}},
				points, fixedClock(tc.hour), slog.New(slog.NewTextHandler(io.Discard, nil)))

			result, err := evaluator.Evaluate(context.Background(), "user-1")
			require.NoError(t, err)

			assert.Equal(t, tc.hour, result.Stats.Hour)
			if tc.unlocks {
				require.Len(t, result.NewlyUnlocked, 1)
				assert.Equal(t, 100, points.points)
			} else {
				assert.Empty(t, result.NewlyUnlocked)
				assert.Zero(t, points.points)
			}
		})
	}
}

/*
TestEvaluate_CatalogOrder verifies NewlyUnlocked preserves catalogue order
regardless of which counters triggered.
*/
func TestEvaluate_CatalogOrder(t *testing.T) {
	repo := newFakeAchievementRepository(
		catalogEntry("a-1", "first-steps", CategoryReading, KindThreshold, 1, 10),
		catalogEntry("a-2", "chatterbox", CategorySocial, KindThreshold, 3, 20),
		catalogEntry("a-3", "marathon", CategoryTime, KindThreshold, 3600, 40),
	)
	evaluator := NewEvaluator(repo,
		&fakeStatsSource{snapshot: StatsSnapshot{ReadingCount: 2, SocialCount: 4, ReadingTimeSeconds: 7200}},
		&fakePointsStore{}, fixedClock(12), slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := evaluator.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, result.NewlyUnlocked, 3)
	assert.Equal(t, "first-steps", result.NewlyUnlocked[0].Slug)
	assert.Equal(t, "chatterbox", result.NewlyUnlocked[1].Slug)
	assert.Equal(t, "marathon", result.NewlyUnlocked[2].Slug)
}

/*
TestEvaluate_SecretFallback verifies a secret entry without a special rule
falls back to plain threshold dispatch, which for the counter-less secret
category compares against zero and stays locked for any positive threshold.
*/
func TestEvaluate_SecretFallback(t *testing.T) {
	repo := newFakeAchievementRepository(
		catalogEntry("a-s", "mystery", CategorySecret, KindThreshold, 1, 500),
	)
	points := &fakePointsStore{}
	evaluator := NewEvaluator(repo,
		&fakeStatsSource{snapshot: StatsSnapshot{ReadingCount: 1000, Hour: 3}},
		points, fixedClock(3), slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := evaluator.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, result.NewlyUnlocked)
	assert.Zero(t, points.points)
}

/*
TestEvaluate_InactiveSkipped verifies inactive catalogue entries never
unlock.
*/
func TestEvaluate_InactiveSkipped(t *testing.T) {
	retired := catalogEntry("a-r", "retired", CategoryReading, KindThreshold, 1, 10)
	retired.IsActive = false

	repo := newFakeAchievementRepository(retired)
	evaluator := NewEvaluator(repo,
		&fakeStatsSource{snapshot: StatsSnapshot{ReadingCount: 100}},
		&fakePointsStore{}, fixedClock(12), slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := evaluator.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, result.NewlyUnlocked)
}

// racingRepository hides the completion set from CompletedIDs, so the
// evaluator always reaches CreateCompleted and observes the lost race there.
type racingRepository struct {
	*fakeAchievementRepository
}

func (r *racingRepository) CompletedIDs(_ context.Context, _ string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

/*
TestEvaluate_RaceLosesAward verifies that when the get-or-create reports the
record already existed, the losing call awards no points and reports no
unlock.
*/
func TestEvaluate_RaceLosesAward(t *testing.T) {
	inner := newFakeAchievementRepository(
		catalogEntry("a-1", "bookworm", CategoryReading, KindThreshold, 10, 50),
	)
	repo := &racingRepository{fakeAchievementRepository: inner}
	points := &fakePointsStore{}
	evaluator := NewEvaluator(repo,
		&fakeStatsSource{snapshot: StatsSnapshot{ReadingCount: 10}},
		points, fixedClock(12), slog.New(slog.NewTextHandler(io.Discard, nil)))

	// A concurrent call already created the pair after our completed-set read.
	created, err := inner.CreateCompleted(context.Background(), "user-1", "a-1", 10)
	require.NoError(t, err)
	require.True(t, created)

	result, err := evaluator.Evaluate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, result.NewlyUnlocked)
	assert.Zero(t, points.points)
}
