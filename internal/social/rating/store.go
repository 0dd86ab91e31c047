// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package rating

import "context"

// Repository abstracts rating persistence.
type Repository interface {
	// Upsert writes the score keyed on (user, chapter), overwriting any
	// previous score atomically.
	Upsert(context context.Context, rating *Rating) error

	// FindMine returns the caller's rating for a chapter, or nil when the
	// chapter has not been rated by them.
	FindMine(context context.Context, userID, chapterID string) (*Rating, error)
}
