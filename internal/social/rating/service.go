// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package rating

import (
	"context"
	"log/slog"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/validate"
)

// Service orchestrates chapter rating operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new rating [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
Rate records or overwrites the caller's score for a chapter.

Description: Scores are clamped to nothing; out-of-range values are rejected
outright. The write is an upsert on (user, chapter), so re-rating never
creates a second row.
*/
func (service *Service) Rate(context context.Context, userID, chapterID string, score int) (*Rating, error) {
	if chapterID == "" {
		return nil, apperr.ValidationError("chapter_id is required")
	}

	validator := &validate.Validator{}
	validator.Range("score", score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	rating := &Rating{
		UserID:    userID,
		ChapterID: chapterID,
		Score:     score,
	}

	if err := service.repo.Upsert(context, rating); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_rated",
		slog.String("user_id", userID),
		slog.String("chapter_id", chapterID),
		slog.Int("score", score),
	)

	return rating, nil
}

// MyRating returns the caller's rating for a chapter, or nil if unrated.
func (service *Service) MyRating(context context.Context, userID, chapterID string) (*Rating, error) {
	if chapterID == "" {
		return nil, apperr.ValidationError("chapter query parameter is required")
	}

	return service.repo.FindMine(context, userID, chapterID)
}
