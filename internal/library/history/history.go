// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package history tracks which chapters a reader has opened.

Each (user, chapter) pair is recorded at most once; the first read of a
chapter bumps the reader's lifetime chapters-read counter, which feeds the
achievement system. Accumulated reading time is tracked separately as an
atomic counter on the user record.
*/
package history

import "time"

// Entry is one reading-history record, hydrated with enough series context
// to render a "continue reading" list without extra lookups.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChapterID string    `json:"chapter_id"`
	ReadAt    time.Time `json:"read_at"`

	// # Hydrated context
	ChapterNumber float64 `json:"chapter_number"`
	MangaID       string  `json:"manga_id"`
	MangaTitle    string  `json:"manga_title"`
	MangaSlug     string  `json:"manga_slug"`
	MangaCoverURL string  `json:"manga_cover_url"`
}

// RecentLimit caps the reading-history list payload.
const RecentLimit = 20

// MaxReadingSessionSeconds bounds a single reading-time report. Anything
// above this is assumed to be a client leaving a tab open.
const MaxReadingSessionSeconds = 6 * 60 * 60
