// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package bookmark

import "context"

// Repository abstracts bookmark persistence. Toggle and Check are keyed on
// the natural (user, manga) pair and must stay atomic under concurrent
// duplicate requests.
type Repository interface {
	List(context context.Context, userID string) ([]*Bookmark, error)

	// Toggle flips the bookmark state and reports the resulting state:
	// true when the series is now bookmarked.
	Toggle(context context.Context, userID, mangaID string) (bool, error)

	Check(context context.Context, userID, mangaID string) (bool, error)
}
