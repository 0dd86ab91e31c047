// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package achievement

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
)

// Handler implements the HTTP layer for achievements.
type Handler struct {
	service *Service
}

// NewHandler constructs a new achievement [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the achievement endpoints. The catalogue is public;
// the personal views require an authenticated reader.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCatalog)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/mine", handler.listMine)
		authed.Post("/check", handler.check)
	})
}

/*
GET /api/v1/achievements.

Description: Returns the active achievement catalogue in its stable order.
Secret entries are included; their requirements are opaque to clients anyway.
*/
func (handler *Handler) listCatalog(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.service.ListCatalog(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
GET /api/v1/achievements/mine.

Description: Returns the caller's completed achievements, newest unlock
first, with the catalogue entry embedded.
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.service.ListMine(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, records)
}

/*
POST /api/v1/achievements/check.

Description: Runs one evaluator pass for the caller and reports any newly
unlocked achievements together with the stats snapshot it evaluated.
*/
func (handler *Handler) check(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Check(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
