// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package bookmark

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
)

// Handler implements the HTTP layer for bookmarks.
type Handler struct {
	service *Service
}

// NewHandler constructs a new bookmark [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the bookmark endpoints; all require authentication.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/toggle", handler.toggle)
	router.Get("/check", handler.check)
}

/*
GET /api/v1/bookmarks.

Description: Returns the caller's saved series, newest first.
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarks, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bookmarks)
}

// toggleRequest is the inbound payload for a bookmark toggle.
type toggleRequest struct {
	MangaID string `json:"manga_id"`
}

/*
POST /api/v1/bookmarks/toggle.

Description: Flips the bookmark state for the given series and returns the
resulting state.
*/
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input toggleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarked, err := handler.service.Toggle(request.Context(), userID, input.MangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"bookmarked": bookmarked})
}

/*
GET /api/v1/bookmarks/check?manga={id}.

Description: Reports whether the caller has bookmarked the series.
*/
func (handler *Handler) check(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	mangaID := request.URL.Query().Get("manga")

	bookmarked, err := handler.service.Check(request.Context(), userID, mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"bookmarked": bookmarked})
}
