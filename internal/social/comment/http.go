// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
)

// Handler implements the HTTP layer for discussion threads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the comment endpoints. Reading a thread is public;
// posting, deleting, and liking require authentication.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listThread)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/", handler.post)
		authed.Delete("/{id}", handler.delete)
		authed.Post("/{id}/like", handler.toggleLike)
	})
}

/*
GET /api/v1/comments?manga={id} or ?chapter={id}.

Description: Returns the target's discussion as a two-level thread:
top-level comments newest first, replies oldest first. The viewer's like
state is included when authenticated.
*/
func (handler *Handler) listThread(writer http.ResponseWriter, request *http.Request) {
	target := Target{
		MangaID:   request.URL.Query().Get("manga"),
		ChapterID: request.URL.Query().Get("chapter"),
	}

	// Optional: like state hydration for signed-in viewers.
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	thread, err := handler.service.ListThread(request.Context(), target, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, thread)
}

// postRequest is the inbound payload for creating a comment or reply.
type postRequest struct {
	MangaID   *string `json:"manga_id"`
	ChapterID *string `json:"chapter_id"`
	ParentID  *string `json:"parent_id"`
	Content   string  `json:"content"`
}

/*
POST /api/v1/comments.

Description: Creates a comment on a manga or chapter, or a reply when
parent_id is set.
*/
func (handler *Handler) post(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment := &Comment{
		UserID:    claims.UserID,
		Username:  claims.Username,
		MangaID:   input.MangaID,
		ChapterID: input.ChapterID,
		ParentID:  input.ParentID,
		Content:   input.Content,
	}

	created, err := handler.service.Post(request.Context(), comment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DELETE /api/v1/comments/{id}.

Description: Soft-deletes a comment. Restricted to the author or staff.
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.ID(request, "id")

	if err := handler.service.Delete(request.Context(), id, claims.UserID, claims.IsStaff()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/comments/{id}/like.

Description: Toggles the caller's like on a comment and returns the new
state with the fresh count.
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.ID(request, "id")

	liked, count, err := handler.service.ToggleLike(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"liked":       liked,
		"likes_count": count,
	})
}
