// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package comment

import (
	"context"
	"log/slog"
	"sort"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/validate"
	"github.com/tatami-reader/tatami/pkg/pointer"
	"github.com/tatami-reader/tatami/pkg/slice"
)

// Service orchestrates discussion threads.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new comment [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
ListThread returns the discussion for a manga or chapter as a two-level
thread: top-level comments newest first, each carrying its replies oldest
first.

Description: The repository hands back a flat slice; the tree is assembled
here so the SQL stays a single pass. Replies whose parent was soft-deleted
are dropped along with the parent.
*/
func (service *Service) ListThread(context context.Context, target Target, viewerID string) ([]*Comment, error) {
	if target.IsZero() {
		return nil, apperr.ValidationError("either manga or chapter query parameter is required")
	}

	flat, err := service.repo.ListForTarget(context, target, viewerID)
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]*Comment)
	for _, entry := range flat {
		if entry.ParentID != nil {
			parentID := pointer.Val(entry.ParentID)
			byParent[parentID] = append(byParent[parentID], entry)
		}
	}

	topLevel := slice.Filter(flat, func(entry *Comment) bool {
		return entry.ParentID == nil
	})

	for _, parent := range topLevel {
		replies := byParent[parent.ID]
		sort.SliceStable(replies, func(i, j int) bool {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		})
		parent.Replies = replies
	}

	return topLevel, nil
}

/*
Post creates a comment or reply.

Description: Exactly one target (manga or chapter) must be supplied. Replies
inherit their target from the parent and may only nest one level deep; a
reply to a reply is attached to the original top-level comment's thread by
the client, not here.
*/
func (service *Service) Post(context context.Context, comment *Comment) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required("content", comment.Content).MaxLen("content", comment.Content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hasManga := comment.MangaID != nil && *comment.MangaID != ""
	hasChapter := comment.ChapterID != nil && *comment.ChapterID != ""
	if hasManga == hasChapter {
		return nil, apperr.ValidationError("exactly one of manga_id or chapter_id is required")
	}

	if comment.ParentID != nil {
		parent, err := service.repo.FindByID(context, pointer.Val(comment.ParentID))
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, apperr.ValidationError("replies can only nest one level deep")
		}
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_posted",
		slog.String("comment_id", comment.ID),
		slog.String("user_id", comment.UserID),
	)

	return comment, nil
}

/*
Delete soft-deletes a comment.

Description: Only the author or staff (moderator/admin) may delete. The row
is flagged, not removed, so existing replies keep their anchor.
*/
func (service *Service) Delete(context context.Context, id, callerID string, callerIsStaff bool) error {
	comment, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if comment.UserID != callerID && !callerIsStaff {
		return apperr.Forbidden("Only the author or staff can delete a comment")
	}

	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.String("comment_id", id),
		slog.String("deleted_by", callerID),
	)

	return nil
}

// ToggleLike flips the caller's like on a comment and returns the resulting
// state with the fresh count.
func (service *Service) ToggleLike(context context.Context, userID, commentID string) (bool, int, error) {
	// Liking a deleted comment must fail the same way as liking a missing one.
	comment, err := service.repo.FindByID(context, commentID)
	if err != nil {
		return false, 0, err
	}
	if comment.IsDeleted {
		return false, 0, apperr.NotFound("Comment")
	}

	return service.repo.ToggleLike(context, userID, commentID)
}
