// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package history

import "context"

// Repository abstracts reading-history persistence.
type Repository interface {
	// Record inserts the (user, chapter) pair if absent. The boolean reports
	// whether a new row was created (first read of this chapter).
	Record(context context.Context, userID, chapterID string) (bool, error)

	// ListRecent returns the user's most recent entries, newest first.
	ListRecent(context context.Context, userID string, limit int) ([]*Entry, error)
}

// CounterStore is the slice of the user store the history domain mutates:
// lifetime reading counters, incremented atomically at the database level.
type CounterStore interface {
	IncrementChaptersRead(context context.Context, userID string, delta int) error
	AddReadingTime(context context.Context, userID string, seconds int64) error
}
