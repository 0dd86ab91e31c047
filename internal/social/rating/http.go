// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package rating

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
)

// Handler implements the HTTP layer for chapter ratings.
type Handler struct {
	service *Service
}

// NewHandler constructs a new rating [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the rating endpoints; all require authentication.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.rate)
	router.Get("/mine", handler.myRating)
}

// rateRequest is the inbound payload for scoring a chapter.
type rateRequest struct {
	ChapterID string `json:"chapter_id"`
	Score     int    `json:"score"`
}

/*
POST /api/v1/ratings.

Description: Records or overwrites the caller's 1..5 score for a chapter.
*/
func (handler *Handler) rate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input rateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rating, err := handler.service.Rate(request.Context(), userID, input.ChapterID, input.Score)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rating)
}

/*
GET /api/v1/ratings/mine?chapter={id}.

Description: Returns the caller's rating for a chapter, or null when the
chapter has not been rated by them.
*/
func (handler *Handler) myRating(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapterID := request.URL.Query().Get("chapter")

	rating, err := handler.service.MyRating(request.Context(), userID, chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rating)
}
