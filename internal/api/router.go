// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moonflix/moonflix/internal/config"
)

// Router assembles the HTTP surface.
type Router struct {
	handler *Handler
	cfg     config.ServerConfig
}

// NewRouter creates a router over the handler set.
func NewRouter(handler *Handler, cfg config.ServerConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup configures all routes and the global middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(router.cfg)) // CORS must be global to handle OPTIONS preflight
	r.Use(RequestLogging())

	// Operational endpoints, outside the API rate limit.
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(router.cfg))
		r.Use(RequestMetrics())

		r.Get("/home", router.handler.Home)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", router.handler.Catalog)
			r.Post("/visible", router.handler.CatalogVisible)
			r.Get("/{id}", router.handler.CatalogDetails)
		})

		r.Get("/search", router.handler.Search)

		if router.handler.users != nil {
			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/favorites", router.handler.Favorites)
				r.Put("/favorites/{recordID}", router.handler.AddFavorite)
				r.Delete("/favorites/{recordID}", router.handler.RemoveFavorite)
				r.Get("/likes", router.handler.Likes)
				r.Put("/likes/{recordID}", router.handler.SetLike)
			})
		}

		if router.handler.registry != nil {
			r.Route("/addons", func(r chi.Router) {
				r.Get("/", router.handler.Addons)
				r.Post("/", router.handler.InstallAddon)
				r.Delete("/{id}", router.handler.RemoveAddon)
				r.Put("/{id}/active", router.handler.SetAddonActive)
			})
		}
	})

	return r
}
