// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package history

import (
	"context"
	"log/slog"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
)

// Service orchestrates reading-history tracking.
type Service struct {
	repo     Repository
	counters CounterStore
	logger   *slog.Logger
}

// NewService constructs a new history [Service].
func NewService(repo Repository, counters CounterStore, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		counters: counters,
		logger:   logger,
	}
}

/*
RecordRead marks a chapter as read for the user.

Description: The underlying insert is idempotent on (user, chapter); only a
genuinely new entry bumps the lifetime chapters-read counter. Re-reading a
chapter is a no-op, so the counter can never drift above the number of
distinct chapters actually opened.

Returns:
  - bool: true if this was the first read of the chapter
  - error: Persistence errors
*/
func (service *Service) RecordRead(context context.Context, userID, chapterID string) (bool, error) {
	if chapterID == "" {
		return false, apperr.ValidationError("chapter_id is required")
	}

	created, err := service.repo.Record(context, userID, chapterID)
	if err != nil {
		return false, err
	}

	if created {
		if err := service.counters.IncrementChaptersRead(context, userID, 1); err != nil {
			return false, err
		}
		service.logger.Info("chapter_read_recorded",
			slog.String("user_id", userID),
			slog.String("chapter_id", chapterID),
		)
	}

	return created, nil
}

// ListRecent returns the user's recent reading history, newest first.
func (service *Service) ListRecent(context context.Context, userID string) ([]*Entry, error) {
	return service.repo.ListRecent(context, userID, RecentLimit)
}

/*
AddReadingTime accumulates a reading session onto the user's lifetime
reading-time counter.

Description: Sessions are reported by the client in seconds and applied as an
atomic increment. Non-positive or implausibly long sessions are rejected.
*/
func (service *Service) AddReadingTime(context context.Context, userID string, seconds int64) error {
	if seconds <= 0 || seconds > MaxReadingSessionSeconds {
		return apperr.ValidationError("seconds must be a positive reading session length")
	}

	if err := service.counters.AddReadingTime(context, userID, seconds); err != nil {
		return err
	}

	service.logger.Info("reading_time_added",
		slog.String("user_id", userID),
		slog.Int64("seconds", seconds),
	)

	return nil
}
