package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tatami-reader/tatami/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterGenreRoutes mounts the genre lookup endpoints.
func (handler *Handler) RegisterGenreRoutes(router chi.Router) {
	router.Get("/", handler.listGenres)
	router.Get("/{slug}", handler.getGenre)
}

// RegisterCategoryRoutes mounts the category lookup endpoints.
func (handler *Handler) RegisterCategoryRoutes(router chi.Router) {
	router.Get("/", handler.listCategories)
	router.Get("/{slug}", handler.getCategory)
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.ListGenres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genres)
}

func (handler *Handler) getGenre(writer http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	genre, err := handler.service.GetGenreBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genre)
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	category, err := handler.service.GetCategoryBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}
