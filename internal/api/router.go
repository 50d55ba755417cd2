// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pmatlas/pmatlas/internal/auth"
	"github.com/pmatlas/pmatlas/internal/middleware"
)

// Router assembles the HTTP surface of the service.
type Router struct {
	handlers *Handlers
	chimw    *ChiMiddleware
	authmw   *auth.Middleware
}

// NewRouter creates the router from its dependencies.
func NewRouter(handlers *Handlers, chimw *ChiMiddleware, authmw *auth.Middleware) *Router {
	return &Router{handlers: handlers, chimw: chimw, authmw: authmw}
}

// chiAdapter lifts http.HandlerFunc middleware into chi's middleware shape.
func chiAdapter(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiAdapter(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chimw.CORS())

	// Health endpoints stay public with a permissive rate limit so
	// monitoring probes keep working in degraded mode.
	r.Route("/api/health", func(r chi.Router) {
		r.Use(rt.chimw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", rt.handlers.Health)
		r.Get("/live", rt.handlers.HealthLive)
		r.Get("/ready", rt.handlers.HealthReady)
	})

	// Authenticated API surface.
	r.Route("/api", func(r chi.Router) {
		r.Use(rt.chimw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiAdapter(middleware.PrometheusMetrics))
		r.Use(rt.authmw.RequireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", rt.handlers.Me)
			r.Put("/me", rt.handlers.UpdateMe)
			r.Get("/map", rt.handlers.MapMarkers)
			r.Get("/search", rt.handlers.SearchUsers)
			r.Get("/{id}", rt.handlers.GetUser)
		})

		r.Route("/forum", func(r chi.Router) {
			r.Get("/posts", rt.handlers.ListPosts)
			r.With(rt.chimw.RateLimitWrite()).Post("/posts", rt.handlers.CreatePost)
			r.Get("/posts/{id}", rt.handlers.GetPost)
			r.With(rt.chimw.RateLimitWrite()).Post("/posts/{id}/vote", rt.handlers.VotePost)
			r.With(rt.chimw.RateLimitWrite()).Post("/posts/{id}/comments", rt.handlers.CreateComment)
			r.With(rt.chimw.RateLimitWrite()).Post("/comments/{commentId}/vote", rt.handlers.VoteComment)
			r.Get("/tags", rt.handlers.ForumTags)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", rt.handlers.ListResources)
			r.With(rt.chimw.RateLimitWrite()).Post("/", rt.handlers.CreateResource)
		})

		r.Route("/connections", func(r chi.Router) {
			r.Get("/", rt.handlers.ListConnections)
			r.With(rt.chimw.RateLimitWrite()).Post("/", rt.handlers.CreateConnection)
			r.With(rt.chimw.RateLimitWrite()).Put("/{id}", rt.handlers.UpdateConnection)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
