// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package manga defines the core catalogue entities for the Tatami platform.

It manages the lifecycle of manga series: metadata, genre/category
classification, and the reading metrics (views, average rating) that drive
discovery surfaces like the featured shelf.

Core Responsibility:

  - Catalogue: Defines publication statuses (Ongoing, Completed).
  - Discovery: Search, genre/category filtering, and whitelist-based ordering.
  - Analytics: View counters and rating aggregates surfaced on list payloads.
*/
package manga

import (
	"time"

	"github.com/tatami-reader/tatami/internal/catalog/taxonomy"
)

// # Domain Enums

// Status represents the publication status of a manga series.
type Status string

const (
	// StatusOngoing indicates the series is actively updating.
	StatusOngoing Status = "ongoing"

	// StatusCompleted indicates no further chapters are expected.
	StatusCompleted Status = "completed"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// # Core Entities

// Manga is the central aggregate of the Tatami catalogue.
type Manga struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	SubTitles   []string `json:"subtitles"` // Alternative/romanised titles
	Slug        string   `json:"slug"`      // URL-safe identifier, doubles as the upload directory name
	Description string   `json:"description"`
	Author      string   `json:"author"`
	CoverURL    string   `json:"cover_url"`
	Status      Status   `json:"status"`
	Views       int64    `json:"views"`
	CategoryID  *string  `json:"category_id,omitempty"`

	// Genres contains the hydrated genre associations, populated on reads.
	Genres []taxonomy.Genre `json:"genres,omitempty"`

	// GenreIDs is the junction input used on create/update; never rendered.
	GenreIDs []string `json:"genre_ids,omitempty"`

	// # Computed Metrics
	// Derived from chapters and ratings at query time, never written directly.
	AvgRating    float64    `json:"avg_rating"`
	ChapterCount int        `json:"chapter_count"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter captures the supported list-query criteria.
type Filter struct {
	Search   string   `json:"search,omitempty"`   // Matches title, author, description, or genre name
	Category string   `json:"category,omitempty"` // Category slug
	Genres   []string `json:"genres,omitempty"`   // Genre slugs (AND semantics)
	Status   Status   `json:"status,omitempty"`
	Ordering string   `json:"ordering,omitempty"` // Whitelisted column, "-" prefix for DESC
}

// # Field Identifiers

// Field names for validation and dynamic query mapping.
const (
	FieldTitle       = "title"
	FieldSlug        = "slug"
	FieldAuthor      = "author"
	FieldCoverURL    = "cover_url"
	FieldStatus      = "status"
	FieldOrdering    = "ordering"
	FieldCategoryID  = "category_id"
	FieldDescription = "description"
)

// # Ordering Whitelist

const defaultOrdering = "-updated_at"

// orderableColumns maps the public ordering keys onto sortable columns.
// Anything outside this map silently falls back to the default ordering.
var orderableColumns = map[string]struct{}{
	"title":      {},
	"views":      {},
	"updated_at": {},
	"created_at": {},
}

// NormalizeOrdering validates a requested ordering key, returning the key and
// direction actually applied. A leading '-' requests descending order.
func NormalizeOrdering(requested string) (column string, descending bool) {
	if requested == "" {
		requested = defaultOrdering
	}

	descending = false
	if requested[0] == '-' {
		descending = true
		requested = requested[1:]
	}

	if _, ok := orderableColumns[requested]; !ok {
		return "updated_at", true
	}

	return requested, descending
}
