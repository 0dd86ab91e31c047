// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package bookmark

import (
	"context"
	"log/slog"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
)

// Service orchestrates bookmark operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new bookmark [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns the user's saved series, newest first.
func (service *Service) List(context context.Context, userID string) ([]*Bookmark, error) {
	return service.repo.List(context, userID)
}

/*
Toggle flips the bookmark state for (user, manga).

Returns:
  - bool: true when the series is now bookmarked, false when removed
  - error: Persistence errors; unknown manga surfaces as a foreign-key
    validation error from the store
*/
func (service *Service) Toggle(context context.Context, userID, mangaID string) (bool, error) {
	if mangaID == "" {
		return false, apperr.ValidationError("manga_id is required")
	}

	bookmarked, err := service.repo.Toggle(context, userID, mangaID)
	if err != nil {
		return false, err
	}

	service.logger.Info("bookmark_toggled",
		slog.String("user_id", userID),
		slog.String("manga_id", mangaID),
		slog.Bool("bookmarked", bookmarked),
	)

	return bookmarked, nil
}

// Check reports whether the user has bookmarked the series.
func (service *Service) Check(context context.Context, userID, mangaID string) (bool, error) {
	if mangaID == "" {
		return false, apperr.ValidationError("manga_id is required")
	}

	return service.repo.Check(context, userID, mangaID)
}
