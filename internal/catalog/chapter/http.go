// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package chapter

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/constants"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
	"github.com/tatami-reader/tatami/internal/platform/sec"
)

// Handler implements the HTTP layer for chapters and archive uploads.
type Handler struct {
	service  *Service
	ingester *Ingester
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service, ingester *Ingester) *Handler {
	return &Handler{service: service, ingester: ingester}
}

// RegisterRoutes mounts the chapter endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// ## Public Reader Endpoints
	router.Get("/{id}", handler.getChapter)
	router.Post("/{id}/views", handler.recordView)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/upload", handler.uploadArchive)
		admin.Patch("/{id}", handler.updateChapter)
		admin.Delete("/{id}", handler.deleteChapter)
	})
}

// RegisterMangaScoped mounts the series-scoped chapter listing; the API
// server attaches it to the manga router.
func (handler *Handler) RegisterMangaScoped(router chi.Router) {
	router.Get("/{identifier}/chapters", handler.listByManga)
}

/*
GET /api/v1/manga/{identifier}/chapters.

Description: Lists a series' chapters ordered by chapter number, with page
counts and rating aggregates.
*/
func (handler *Handler) listByManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "identifier")

	chapters, err := handler.service.ListByManga(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

/*
GET /api/v1/chapters/{id}.

Description: Chapter detail for the reader: ordered pages, parent series
title, and prev/next navigation.
*/
func (handler *Handler) getChapter(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	chapter, err := handler.service.GetChapter(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

/*
POST /api/v1/chapters/{id}/views.

Description: Counts a chapter read against the parent series' view counter.
Fire-and-forget from the reader's perspective; always returns 204 on success.
*/
func (handler *Handler) recordView(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	if err := handler.service.RecordView(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Archive Upload

// uploadResponse mirrors the legacy upload tooling's expected JSON shape;
// changing these keys breaks existing scanlation scripts.
type uploadResponse struct {
	Success     bool   `json:"success"`
	ChapterID   string `json:"chapter_id"`
	ImagesCount int    `json:"images_count"`
	Message     string `json:"message"`
}

/*
POST /api/v1/chapters/upload.

Description: Multipart upload of a chapter archive (ZIP/CBZ).

Request (multipart form):
  - manga_id: string (UUID)
  - chapter_number: string (numeric, fractional allowed)
  - title: string (optional)
  - file: the archive

Response:
  - 200: uploadResponse
  - 400: Validation or malformed-archive errors
  - 404: Unknown manga
*/
func (handler *Handler) uploadArchive(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(constants.MaxArchiveUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("invalid multipart form"))
		return
	}

	input := IngestInput{
		MangaID: request.FormValue(FieldMangaID),
		Number:  request.FormValue(FieldChapterNumber),
		Title:   request.FormValue(FieldChapterTitle),
	}

	if file, _, err := request.FormFile(FieldArchive); err == nil {
		defer file.Close()

		archive, err := io.ReadAll(io.LimitReader(file, constants.MaxArchiveUploadBytes))
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("failed to read uploaded archive"))
			return
		}
		input.Archive = archive
	}

	result, err := handler.ingester.Ingest(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Raw(writer, http.StatusOK, uploadResponse{
		Success:     true,
		ChapterID:   result.ChapterID,
		ImagesCount: result.PageCount,
		Message:     "chapter uploaded",
	})
}

// # Metadata Management

// updateChapterRequest defines the inbound JSON schema for chapter updates.
type updateChapterRequest struct {
	Title       string     `json:"title"`
	ReleaseDate *time.Time `json:"release_date"`
}

/*
PATCH /api/v1/chapters/{id}.

Description: Partial metadata update (title, release date). Chapter numbers
are immutable.
*/
func (handler *Handler) updateChapter(writer http.ResponseWriter, request *http.Request) {
	var input updateChapterRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter := &Chapter{
		ID:          requestutil.ID(request, "id"),
		Title:       input.Title,
		ReleaseDate: input.ReleaseDate,
	}

	if err := handler.service.UpdateChapter(request.Context(), chapter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

/*
DELETE /api/v1/chapters/{id}.

Description: Removes a chapter and its pages.
*/
func (handler *Handler) deleteChapter(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	if err := handler.service.DeleteChapter(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
