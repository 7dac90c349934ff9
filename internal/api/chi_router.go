// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/poiscope/internal/middleware"
)

// Router wires handlers and middleware into a Chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil ChiMiddleware uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)        // X-Request-ID and correlation ID in the logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Discovery API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// Upstream calls are expensive; discover and retry share a stricter budget.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitDiscover())
			r.Post("/discover", router.handler.Discover)
			r.Post("/discover/retry", router.handler.Retry)
		})
		r.Post("/discover/clear", router.handler.Clear)

		r.Get("/state", router.handler.State)
		r.Put("/filter/types", router.handler.UpdateTypeFilter)
		r.Put("/filter/search", router.handler.UpdateSearch)

		r.With(router.chiMiddleware.RateLimitEnrichment()).
			Post("/pois/{id}/enrichment", router.handler.FetchEnrichment)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", router.handler.GetSettings)
			r.Put("/", router.handler.UpdateSettings)
			r.Delete("/", router.handler.ResetSettings)
		})

		r.Route("/cache", func(r chi.Router) {
			r.Get("/", router.handler.CacheStats)
			r.Delete("/", router.handler.ClearCache)
			r.Delete("/{category}", router.handler.InvalidateCache)
		})

		r.With(router.chiMiddleware.RateLimitWebSocket()).
			Get("/ws", router.handler.WebSocket)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
