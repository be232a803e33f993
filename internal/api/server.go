// Copyright (c) 2026 Maria. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

Three surfaces share one router: the public browse surface (JSON documents
of the rendered pages), the /api/v1 surface for the mobile client, and the
/admin back office. Browser identity rides the session cookie, API identity
rides bearer tokens; both middlewares run on every request.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lelipitri23-dev/Maria/internal/admin"
	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/core/episode"
	"github.com/lelipitri23-dev/Maria/internal/platform/config"
	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/internal/platform/middleware"
	"github.com/lelipitri23-dev/Maria/internal/report"
	"github.com/lelipitri23-dev/Maria/internal/seo"
	"github.com/lelipitri23-dev/Maria/internal/users/auth"
	"github.com/lelipitri23-dev/Maria/internal/users/bookmark"
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
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, registration, and logout on both surfaces.
	Auth *auth.Handler

	// Anime handles the catalogue browse surface and its admin CRUD.
	Anime *anime.Handler

	// Episode handles watch pages, the latest feed, and episode CRUD.
	Episode *episode.Handler

	// Bookmark handles the personal list surface.
	Bookmark *bookmark.Handler

	// Report handles viewer problem reports and their review.
	Report *report.Handler

	// Admin handles stats, backup, and mirror maintenance.
	Admin *admin.Handler

	// Feed serves the composite home feed and gated discovery feeds.
	Feed *FeedHandler

	// SEO serves robots.txt and the sitemap family.
	SEO *seo.Handler

	// StaticImages serves locally stored cover images. Nil when object
	// storage hosts them on its own public domain.
	StaticImages http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, sessions middleware.SessionLoader, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Sessions(sessions))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # SEO Surface
	h.SEO.RegisterRoutes(r)

	// # Static Images
	// Present only in the disk-fallback storage configuration.
	if h.StaticImages != nil {
		r.Handle(constants.UploadWebPath+"/*", h.StaticImages)
	}

	// # Public Browse Surface
	r.Get("/", h.Feed.Home)
	r.Get("/home", h.Feed.Home)
	h.Anime.RegisterPublicRoutes(r)
	h.Episode.RegisterPublicRoutes(r)
	h.Auth.RegisterBrowserRoutes(r)
	RegisterLegacyRedirects(r)

	// Signed-in browser surface.
	r.Group(func(member chi.Router) {
		member.Use(middleware.RequireUser)
		member.Route("/bookmarks", h.Bookmark.RegisterRoutes)
		h.Report.RegisterPublicRoutes(member)
	})

	// # Mobile API Surface
	r.Route("/api/v1", func(api chi.Router) {
		h.Auth.RegisterAPIRoutes(api)
		api.Get("/home", h.Feed.Home)
		h.Anime.RegisterPublicRoutes(api)
		h.Episode.RegisterAPIRoutes(api)

		api.Group(func(member chi.Router) {
			member.Use(middleware.RequireAuth)
			member.Route("/bookmarks", h.Bookmark.RegisterRoutes)
			h.Report.RegisterPublicRoutes(member)
		})

		// Discovery feeds embedded by the site itself; other origins get 403.
		api.Group(func(gated chi.Router) {
			gated.Use(middleware.RefererGate(cfg.SiteURL))
			gated.Get("/popular", h.Feed.Popular)
			gated.Get("/tahun-ini", h.Feed.CurrentYear)
			gated.Get("/genre/uncensored", h.Feed.Uncensored)
		})
	})

	// # Admin Surface
	r.Route("/admin", func(back chi.Router) {
		back.Use(middleware.RequireAdmin)
		h.Admin.RegisterRoutes(back)
		back.Route("/anime", h.Anime.RegisterAdminRoutes)
		back.Route("/episodes", h.Episode.RegisterAdminRoutes)
		back.Route("/reports", h.Report.RegisterAdminRoutes)
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
