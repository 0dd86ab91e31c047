// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package chapter

import (
	"context"

	"github.com/tatami-reader/tatami/internal/catalog/manga"
)

// Repository abstracts the persistence operations for chapters and pages.
type Repository interface {
	ListByManga(context context.Context, mangaID string) ([]*Chapter, error)
	FindByID(context context.Context, id string) (*Chapter, error)
	Update(context context.Context, chapter *Chapter) error
	Delete(context context.Context, id string) error

	// ReplaceChapterPages upserts the chapter keyed on (mangaID, number) and
	// swaps its page set in a single transaction. A non-empty title updates
	// the chapter title; an empty one leaves it untouched. Returns the
	// chapter's identifier.
	ReplaceChapterPages(context context.Context, mangaID string, number float64, title string, pages []Page) (string, error)

	// IncrementMangaViews bumps the parent series' view counter for a
	// chapter-read event.
	IncrementMangaViews(context context.Context, chapterID string) error
}

// MangaResolver is the narrow slice of the manga repository the chapter
// domain needs: resolving an identifier to an existing series.
type MangaResolver interface {
	FindByID(context context.Context, id string) (*manga.Manga, error)
}
