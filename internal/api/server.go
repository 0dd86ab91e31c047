// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

/*
Package api wires the HTTP router, middleware chain, and all domain handlers
into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation-layer boundary.
  - It is the composition root for the chi transport framework.
  - Only this package and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tatami-reader/tatami/internal/catalog/chapter"
	"github.com/tatami-reader/tatami/internal/catalog/manga"
	"github.com/tatami-reader/tatami/internal/catalog/taxonomy"
	"github.com/tatami-reader/tatami/internal/gamification/achievement"
	"github.com/tatami-reader/tatami/internal/library/bookmark"
	"github.com/tatami-reader/tatami/internal/library/history"
	"github.com/tatami-reader/tatami/internal/platform/config"
	"github.com/tatami-reader/tatami/internal/platform/constants"
	"github.com/tatami-reader/tatami/internal/platform/middleware"
	"github.com/tatami-reader/tatami/internal/social/comment"
	"github.com/tatami-reader/tatami/internal/social/rating"
	"github.com/tatami-reader/tatami/internal/users/auth"
	"github.com/tatami-reader/tatami/internal/users/profile"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here and a mount below — nothing else in the
// server changes.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process lives.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 when all dependencies answer.
	Readiness http.HandlerFunc

	// Auth handles the authentication lifecycle.
	Auth *auth.Handler

	// Profile handles reader profiles, private and public.
	Profile *profile.Handler

	// Manga handles the series catalogue and discovery.
	Manga *manga.Handler

	// Chapter handles chapter reads, archive uploads, and view counts.
	Chapter *chapter.Handler

	// Taxonomy handles genres and categories.
	Taxonomy *taxonomy.Handler

	// History handles reading history and reading-time reports.
	History *history.Handler

	// Bookmark handles the reader's saved series.
	Bookmark *bookmark.Handler

	// Rating handles chapter ratings.
	Rating *rating.Handler

	// Comment handles threaded comments and likes.
	Comment *comment.Handler

	// Achievement handles the achievement catalogue and evaluation.
	Achievement *achievement.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Page Assets
	// Ingested chapter pages are served straight off the local store when
	// the public prefix is a local path. A CDN base URL disables this.
	if strings.HasPrefix(cfg.UploadBaseURL, "/") {
		prefix := strings.TrimSuffix(cfg.UploadBaseURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	// # Application API
	// Domain route groups mounted under the versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", h.Auth.RegisterRoutes)
		api.Route("/users", h.Profile.RegisterRoutes)

		api.Route("/manga", func(r chi.Router) {
			h.Manga.RegisterRoutes(r)
			h.Chapter.RegisterMangaScoped(r)
		})
		api.Route("/chapters", h.Chapter.RegisterRoutes)
		api.Route("/genres", h.Taxonomy.RegisterGenreRoutes)
		api.Route("/categories", h.Taxonomy.RegisterCategoryRoutes)

		api.Route("/history", h.History.RegisterRoutes)
		api.Route("/bookmarks", h.Bookmark.RegisterRoutes)
		api.Route("/ratings", h.Rating.RegisterRoutes)
		api.Route("/comments", h.Comment.RegisterRoutes)
		api.Route("/achievements", h.Achievement.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
