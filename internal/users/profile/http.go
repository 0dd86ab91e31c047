// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
	"github.com/tatami-reader/tatami/internal/platform/validate"
)

// Handler implements the HTTP layer for reader profiles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the profile endpoints. The public view needs no
// authentication; the "me" endpoints do.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{id}", handler.getPublic)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Get("/me", handler.getMine)
		authed.Patch("/me", handler.updateMine)
	})
}

/*
GET /api/v1/users/me.

Description: Returns the caller's private profile, including the
gamification counters (points, chapters read, total reading time).
*/
func (handler *Handler) getMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetMine(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateRequest is the partial-update payload. Absent fields are left as
// they are; empty strings clear the optional fields.
type updateRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

/*
PATCH /api/v1/users/me.

Description: Applies a partial update to the caller's profile and returns
the refreshed record.
*/
func (handler *Handler) updateMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.MinLen("display_name", *input.DisplayName, MinDisplayNameLength).
			MaxLen("display_name", *input.DisplayName, MaxDisplayNameLength)
	}
	if input.Bio != nil {
		validator.MaxLen("bio", *input.Bio, MaxBioLength)
	}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		validator.URL("avatar_url", *input.AvatarURL)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateMine(request.Context(), userID, UpdateInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		AvatarURL:   input.AvatarURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/{id}.

Description: Returns a reader's public profile. Email and role are never
exposed here.
*/
func (handler *Handler) getPublic(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.GetPublic(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}
