// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package manga provides the HTTP interface for catalogue discovery and
management.

# Routing Strategy

  - Public: browsing, search, the featured shelf, and series detail.
  - Restricted: mutative endpoints requiring the Admin role.

The handler translates between the web/JSON layer and the internal domain
[Service].
*/
package manga

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	requestutil "github.com/tatami-reader/tatami/internal/platform/request"
	"github.com/tatami-reader/tatami/internal/platform/respond"
	"github.com/tatami-reader/tatami/internal/platform/sec"
	"github.com/tatami-reader/tatami/pkg/pagination"
	"github.com/tatami-reader/tatami/pkg/query"
)

// Handler implements the HTTP layer for the manga catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new manga [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalogue endpoints on the given router.
// Additional series-scoped routes (e.g. chapter listings) are mounted by the
// API server alongside these.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// ## Public Discovery Endpoints
	router.Get("/", handler.listManga)
	router.Get("/featured", handler.featuredManga)
	router.Get("/{identifier}", handler.getManga)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createManga)
		admin.Patch("/{identifier}", handler.updateManga)
		admin.Delete("/{identifier}", handler.deleteManga)
	})
}

/*
GET /api/v1/manga.

Description: Retrieves a paginated list of series.

Request:
  - search: string (matches title, author, description, genre name)
  - category: string (category slug)
  - genre: string (comma-separated genre slugs, AND semantics)
  - status: string (ongoing, completed)
  - ordering: string (title|views|updated_at|created_at, "-" prefix for DESC)
  - page, limit: int

Response:
  - 200: []Manga: Paginated list
*/
func (handler *Handler) listManga(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Search:   queryParams.Get("search"),
		Category: queryParams.Get("category"),
		Genres:   query.StringSlice(queryParams.Get("genre")),
		Status:   Status(queryParams.Get("status")),
		Ordering: queryParams.Get("ordering"),
	}

	mangas, total, err := handler.service.ListManga(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, mangas, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/manga/featured.

Description: Returns the five most-viewed series, served from the volatile
cache when warm.
*/
func (handler *Handler) featuredManga(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.service.FeaturedManga(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
GET /api/v1/manga/{identifier}.

Description: Retrieves detailed metadata for a series by UUID or slug.

Response:
  - 200: Manga: Success
  - 404: ErrNotFound: Series not found
*/
func (handler *Handler) getManga(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.ID(request, "identifier")

	manga, err := handler.service.GetManga(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, manga)
}

// # Request Payloads

// mangaRequest defines the inbound JSON schema for series creation and update.
type mangaRequest struct {
	Title       string   `json:"title"`
	SubTitles   []string `json:"subtitles"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	CoverURL    string   `json:"cover_url"`
	Status      Status   `json:"status"`
	CategoryID  *string  `json:"category_id"`
	GenreIDs    []string `json:"genre_ids"`
}

/*
POST /api/v1/manga.

Description: Creates a new series. Slug generation is automatic.

Response:
  - 201: Manga: Created series
  - 400: Validation errors
  - 403: Insufficient permissions
*/
func (handler *Handler) createManga(writer http.ResponseWriter, request *http.Request) {
	var input mangaRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga := &Manga{
		Title:       input.Title,
		SubTitles:   input.SubTitles,
		Description: input.Description,
		Author:      input.Author,
		CoverURL:    input.CoverURL,
		Status:      input.Status,
		CategoryID:  input.CategoryID,
		GenreIDs:    input.GenreIDs,
	}

	if err := handler.service.CreateManga(request.Context(), manga); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, manga)
}

/*
PATCH /api/v1/manga/{identifier}.

Description: Partial update; omitted fields are left untouched. A non-null
genre_ids array replaces the genre associations wholesale.
*/
func (handler *Handler) updateManga(writer http.ResponseWriter, request *http.Request) {
	var input mangaRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manga := &Manga{
		ID:          requestutil.ID(request, "identifier"),
		Title:       input.Title,
		SubTitles:   input.SubTitles,
		Description: input.Description,
		Author:      input.Author,
		CoverURL:    input.CoverURL,
		Status:      input.Status,
		CategoryID:  input.CategoryID,
		GenreIDs:    input.GenreIDs,
	}

	if err := handler.service.UpdateManga(request.Context(), manga); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, manga)
}

/*
DELETE /api/v1/manga/{identifier}.

Description: Permanently removes a series and its dependent records.
*/
func (handler *Handler) deleteManga(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "identifier")

	if err := handler.service.DeleteManga(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
