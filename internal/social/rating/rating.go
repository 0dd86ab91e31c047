// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package rating manages per-chapter reader scores.

A reader scores a chapter 1..5; re-rating the same chapter overwrites the
previous score (upsert on the natural (user, chapter) key). Series- and
chapter-level averages are computed in catalogue queries, never stored.
*/
package rating

import "time"

// Score bounds for a chapter rating.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one reader's score for a chapter.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChapterID string    `json:"chapter_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
