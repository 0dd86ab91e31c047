// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package manga

import (
	"context"
	"log/slog"

	"github.com/tatami-reader/tatami/internal/platform/validate"
	"github.com/tatami-reader/tatami/pkg/slug"
	"github.com/tatami-reader/tatami/pkg/uuidv7"
)

// # Service Layer

// FeaturedShelfSize is the number of series surfaced on the featured shelf.
const FeaturedShelfSize = 5

// Service orchestrates the business logic for the manga catalogue.
type Service struct {
	repo   Repository
	cache  FeaturedCache
	logger *slog.Logger
}

// NewService constructs a new [Service]. The cache may be nil, in which case
// featured lookups always hit the repository.
func NewService(repo Repository, cache FeaturedCache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// # Lookups

/*
ListManga retrieves a paginated and filtered collection of manga.

Description: Filter criteria pass straight through to the repository for
database-level filtering and sorting. Ordering keys outside the public
whitelist fall back to newest-updated-first rather than erroring.

Parameters:
  - context: context.Context
  - filter: Filter (search, category, genres, status, ordering)
  - limit: int (max records to return)
  - offset: int (pagination cursor)

Returns:
  - []*Manga: Slice of matching series
  - int: Total count matching the filter (for pagination metadata)
  - error: System or repository level errors
*/
func (service *Service) ListManga(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetManga fetches a single series by UUID or SEO slug.

Description: If the identifier matches the UUID format it performs a primary
key lookup; otherwise it resolves via the unique URL slug.
*/
func (service *Service) GetManga(context context.Context, identifier string) (*Manga, error) {
	if isUUID(identifier) {
		return service.repo.FindByID(context, identifier)
	}

	return service.repo.FindBySlug(context, identifier)
}

/*
FeaturedManga returns the most-viewed series for the featured shelf.

Description: Serves from the volatile cache when warm; on a miss the shelf is
recomputed from the repository and written back with a bounded TTL. Cache
failures degrade to a repository read, never to an error.
*/
func (service *Service) FeaturedManga(context context.Context) ([]*Manga, error) {
	if service.cache != nil {
		cached, err := service.cache.Get(context)
		if err != nil {
			service.logger.Warn("featured_cache_read_failed", slog.String("error", err.Error()))
		}
		if cached != nil {
			return cached, nil
		}
	}

	entries, err := service.repo.Featured(context, FeaturedShelfSize)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.Set(context, entries); err != nil {
			service.logger.Warn("featured_cache_write_failed", slog.String("error", err.Error()))
		}
	}

	return entries, nil
}

// # Management

/*
CreateManga initialises a new series record.

Description: Validates the metadata, generates a UUID v7 identity and an
SEO-friendly slug before persisting. Titles that normalize to an empty slug
(fully non-Latin titles) fall back to a stable prefix of the identifier.
*/
func (service *Service) CreateManga(context context.Context, manga *Manga) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, manga.Title).MaxLen(FieldTitle, manga.Title, 500)

	if manga.Status == "" {
		manga.Status = StatusOngoing
	}
	validator.OneOf(FieldStatus, string(manga.Status),
		string(StatusOngoing),
		string(StatusCompleted),
	)

	if manga.CoverURL != "" {
		validator.URL(FieldCoverURL, manga.CoverURL)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if manga.ID == "" {
		manga.ID = uuidv7.New()
	}

	if manga.Slug == "" {
		manga.Slug = slug.From(manga.Title)
	}
	if manga.Slug == "" {
		manga.Slug = manga.ID[:8]
	}

	if err := service.repo.Create(context, manga); err != nil {
		return err
	}

	service.logger.Info("manga_created",
		slog.String("manga_id", manga.ID),
		slog.String("title", manga.Title),
	)

	return nil
}

/*
UpdateManga applies partial modifications to an existing series.

Description: Non-zero fields in the input overwrite existing values; a
non-nil GenreIDs slice replaces the genre associations wholesale.
*/
func (service *Service) UpdateManga(context context.Context, manga *Manga) error {
	validator := &validate.Validator{}

	if manga.Title != "" {
		validator.MaxLen(FieldTitle, manga.Title, 500)
	}
	if manga.Slug != "" {
		validator.Slug(FieldSlug, manga.Slug)
	}
	if manga.Status != "" {
		validator.OneOf(FieldStatus, string(manga.Status),
			string(StatusOngoing),
			string(StatusCompleted),
		)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Update(context, manga); err != nil {
		return err
	}

	service.logger.Info("manga_updated", slog.String("manga_id", manga.ID))

	return nil
}

// DeleteManga permanently removes a series and its dependent records.
func (service *Service) DeleteManga(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("manga_deleted", slog.String("manga_id", id))

	return nil
}

// RecordView atomically bumps a series' view counter.
func (service *Service) RecordView(context context.Context, id string) error {
	return service.repo.IncrementViews(context, id)
}

// # Internal Helpers

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}
