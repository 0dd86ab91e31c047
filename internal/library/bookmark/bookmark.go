// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package bookmark manages a reader's saved series.

A bookmark is a bare (user, manga) pair toggled from the reader UI; the
bookmark count also feeds collection achievements.
*/
package bookmark

import "time"

// Bookmark is one saved series, hydrated with enough metadata to render the
// library shelf.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MangaID   string    `json:"manga_id"`
	CreatedAt time.Time `json:"created_at"`

	// # Hydrated context
	MangaTitle    string `json:"manga_title"`
	MangaSlug     string `json:"manga_slug"`
	MangaCoverURL string `json:"manga_cover_url"`
	MangaStatus   string `json:"manga_status"`
}
