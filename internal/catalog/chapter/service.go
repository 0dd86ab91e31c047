// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package chapter

import (
	"context"
	"log/slog"

	"github.com/tatami-reader/tatami/internal/platform/validate"
)

// Service orchestrates chapter metadata operations. Archive ingestion lives
// in [Ingester]; the two share the repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new chapter [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListByManga returns a series' chapters ordered by chapter number.
func (service *Service) ListByManga(context context.Context, mangaID string) ([]*Chapter, error) {
	return service.repo.ListByManga(context, mangaID)
}

/*
GetChapter fetches a chapter detail: ordered pages, the parent series title,
and prev/next navigation identifiers.
*/
func (service *Service) GetChapter(context context.Context, id string) (*Chapter, error) {
	return service.repo.FindByID(context, id)
}

/*
UpdateChapter applies partial metadata changes (title, release date).

Description: Chapter numbers are immutable here; renumbering is done by
re-ingesting under the new number and deleting the old chapter.
*/
func (service *Service) UpdateChapter(context context.Context, chapter *Chapter) error {
	validator := &validate.Validator{}
	if chapter.Title != "" {
		validator.MaxLen(FieldChapterTitle, chapter.Title, 500)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Update(context, chapter); err != nil {
		return err
	}

	service.logger.Info("chapter_updated", slog.String("chapter_id", chapter.ID))

	return nil
}

// DeleteChapter removes a chapter and its pages.
func (service *Service) DeleteChapter(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("chapter_deleted", slog.String("chapter_id", id))

	return nil
}

// RecordView counts a chapter read against the parent series' view counter.
func (service *Service) RecordView(context context.Context, chapterID string) error {
	return service.repo.IncrementMangaViews(context, chapterID)
}
