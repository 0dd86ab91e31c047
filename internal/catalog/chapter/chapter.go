// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package chapter manages the chapters of a manga series and their ordered page
images.

It owns two concerns:

  - Chapter metadata: numbering (fractional numbers are allowed for extras),
    titles, release dates, and prev/next navigation.
  - Page ingestion: turning an uploaded chapter archive into persisted,
    ordered [Page] records backed by blob storage (see [Ingester]).

A chapter is uniquely identified by its (manga, number) pair; re-uploading an
archive for an existing pair replaces the page set wholesale.
*/
package chapter

import "time"

// Chapter is one release of a manga series.
type Chapter struct {
	ID          string     `json:"id"`
	MangaID     string     `json:"manga_id"`
	Number      float64    `json:"number"` // Sortable; fractional values mark extras (e.g. 10.5)
	Title       string     `json:"title"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// # Computed / hydrated fields
	PageCount  int     `json:"page_count"`
	AvgRating  float64 `json:"avg_rating"`
	MangaTitle string  `json:"manga_title,omitempty"` // Detail payloads only

	// Pages is populated on detail reads, ordered by page number.
	Pages []Page `json:"pages,omitempty"`

	// Reader navigation, populated on detail reads.
	PrevChapterID *string `json:"prev_chapter_id,omitempty"`
	NextChapterID *string `json:"next_chapter_id,omitempty"`
}

// Page is one ordered image belonging to a chapter.
//
// Page numbers are 1-based and contiguous within a chapter; the full page set
// is replaced wholesale on re-ingestion, never merged.
type Page struct {
	ID               string `json:"id"`
	ChapterID        string `json:"chapter_id"`
	PageNumber       int    `json:"page_number"`
	ImageURL         string `json:"image_url"`
	OriginalFilename string `json:"original_filename"`
	Width            *int   `json:"width,omitempty"`
	Height           *int   `json:"height,omitempty"`
}

// # Field Identifiers

const (
	FieldMangaID       = "manga_id"
	FieldChapterNumber = "chapter_number"
	FieldChapterTitle  = "title"
	FieldArchive       = "file"
)
