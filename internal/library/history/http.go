// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
)

// Handler implements the HTTP layer for reading history.
type Handler struct {
	service *Service
}

// NewHandler constructs a new history [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the history endpoints. All of them require an
// authenticated reader.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listRecent)
	router.Post("/", handler.recordRead)
	router.Post("/reading-time", handler.addReadingTime)
}

/*
GET /api/v1/history.

Description: Returns the caller's 20 most recent reading-history entries,
newest first, with series context.
*/
func (handler *Handler) listRecent(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.ListRecent(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

// recordReadRequest is the inbound payload for marking a chapter as read.
type recordReadRequest struct {
	ChapterID string `json:"chapter_id"`
}

/*
POST /api/v1/history.

Description: Marks a chapter as read. Idempotent per (user, chapter); the
response reports whether this was the first read.
*/
func (handler *Handler) recordRead(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input recordReadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.RecordRead(request.Context(), userID, input.ChapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"created": created})
}

// readingTimeRequest is the inbound payload for a reading session report.
type readingTimeRequest struct {
	Seconds int64 `json:"seconds"`
}

/*
POST /api/v1/history/reading-time.

Description: Adds a finished reading session to the caller's lifetime
reading-time counter.
*/
func (handler *Handler) addReadingTime(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input readingTimeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddReadingTime(request.Context(), userID, input.Seconds); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
