// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package achievement implements the gamification layer: a catalogue of
unlockable achievements and the evaluator that checks a reader's activity
counters against it.

Unlocks are monotonic. Once a (user, achievement) pair is completed it is
never re-evaluated, re-awarded, or reverted; the evaluator is safe to call
on every meaningful user action.
*/
package achievement

import "time"

// # Domain Enums

// Category names the activity counter an achievement tracks.
type Category string

const (
	CategoryReading    Category = "reading"    // Distinct chapters read
	CategoryCollection Category = "collection" // Bookmarks held
	CategorySocial     Category = "social"     // Non-deleted comments posted
	CategoryTime       Category = "time"       // Accumulated reading seconds
	CategorySecret     Category = "secret"     // Special rules, see RequirementKind
)

// RequirementKind is the explicit dispatch tag for unlock rules. New rules
// get a new kind here so every switch over kinds stays exhaustive instead of
// falling through silently.
type RequirementKind string

const (
	// KindThreshold compares the category counter against RequirementValue.
	KindThreshold RequirementKind = "threshold"

	// KindNightReading is the owl rule: satisfied only while the local hour
	// is 3 or 4 and the reader has opened at least one chapter ever.
	KindNightReading RequirementKind = "night_reading"
)

// Rarity is a display tier, carried through untouched by the evaluator.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// # Core Entities

// Achievement is an immutable catalogue entry, maintained by content admins
// and never mutated by the evaluator.
type Achievement struct {
	ID               string          `json:"id"`
	Slug             string          `json:"slug"`
	Name             string          `json:"name"`
	NameLocal        *string         `json:"name_local,omitempty"`
	Description      string          `json:"description"`
	IconURL          string          `json:"icon_url"`
	Category         Category        `json:"category"`
	Rarity           Rarity          `json:"rarity"`
	RequirementKind  RequirementKind `json:"requirement_kind"`
	RequirementValue int64           `json:"requirement_value"`
	RewardPoints     int             `json:"reward_points"`
	IsSecret         bool            `json:"is_secret"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// UserAchievement is the per-(user, achievement) completion record, created
// lazily the first time a requirement is met.
type UserAchievement struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	IsCompleted   bool      `json:"is_completed"`
	Progress      int64     `json:"progress"`
	EarnedAt      time.Time `json:"earned_at"`

	// Achievement is hydrated on list reads.
	Achievement *Achievement `json:"achievement,omitempty"`
}

// # Evaluation Types

// StatsSnapshot is the ephemeral activity picture an evaluation runs
// against. It is recomputed from the underlying records on every call and
// never persisted.
type StatsSnapshot struct {
	ReadingCount       int64 `json:"reading_count"`
	CollectionCount    int64 `json:"collection_count"`
	SocialCount        int64 `json:"social_count"`
	ReadingTimeSeconds int64 `json:"reading_time_seconds"`
	Hour               int   `json:"hour"` // Local hour-of-day at evaluation time
}

// counterFor returns the plain counter for a category. Categories without a
// counter (secret entries lacking a special rule) evaluate to zero rather
// than erroring, matching the catalogue's long-standing behaviour.
func (s StatsSnapshot) counterFor(category Category) int64 {
	switch category {
	case CategoryReading:
		return s.ReadingCount
	case CategoryCollection:
		return s.CollectionCount
	case CategorySocial:
		return s.SocialCount
	case CategoryTime:
		return s.ReadingTimeSeconds
	}
	return 0
}

// Unlocked summarises one freshly unlocked achievement for the caller.
type Unlocked struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Rarity       Rarity `json:"rarity"`
	RewardPoints int    `json:"reward_points"`
}

// EvaluationResult is the outcome of one evaluator pass.
type EvaluationResult struct {
	NewlyUnlocked []Unlocked    `json:"newly_unlocked"`
	Stats         StatsSnapshot `json:"stats"`
}
