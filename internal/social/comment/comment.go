// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package comment manages threaded discussion on manga and chapters.

Comments form a single-level-deep thread (top-level comments with replies),
support like toggles, and are soft-deleted so that reply chains keep their
anchor rows. Deletion is restricted to the author or staff.
*/
package comment

import "time"

// Target identifies what a comment thread hangs off.
type Target struct {
	MangaID   string
	ChapterID string
}

// IsZero reports whether no target was supplied.
func (t Target) IsZero() bool {
	return t.MangaID == "" && t.ChapterID == ""
}

// Comment is one discussion entry. Exactly one of MangaID/ChapterID is set.
type Comment struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"` // Hydrated from the author's account
	MangaID   *string `json:"manga_id,omitempty"`
	ChapterID *string `json:"chapter_id,omitempty"`
	ParentID  *string `json:"parent_id,omitempty"`
	Content   string  `json:"content"`
	IsDeleted bool    `json:"-"`

	LikesCount int  `json:"likes_count"`
	LikedByMe  bool `json:"liked_by_me"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Replies is populated on thread reads, oldest first.
	Replies []*Comment `json:"replies,omitempty"`
}

// MaxContentLength bounds a single comment body.
const MaxContentLength = 2000
