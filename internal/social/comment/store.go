// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package comment

import "context"

// Repository abstracts comment persistence.
type Repository interface {
	// ListForTarget returns every non-deleted comment on the target as a
	// flat slice, newest first, with like counts and the viewer's like
	// state hydrated. Thread assembly happens in the service.
	ListForTarget(context context.Context, target Target, viewerID string) ([]*Comment, error)

	FindByID(context context.Context, id string) (*Comment, error)
	Create(context context.Context, comment *Comment) error

	// SoftDelete flags the comment as deleted; the row survives so replies
	// keep their anchor.
	SoftDelete(context context.Context, id string) error

	// ToggleLike flips the (user, comment) like pair and returns the
	// resulting state plus the fresh like count.
	ToggleLike(context context.Context, userID, commentID string) (bool, int, error)
}
