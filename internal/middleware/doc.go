// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package middleware provides HTTP middleware components for the API server.

All middleware uses the chi signature func(http.Handler) http.Handler.

Key Components:

  - Request ID: UUID-based request tracking plus correlation IDs stored in the
    logging context, echoed as X-Request-ID and X-Correlation-ID
  - Prometheus Metrics: request count, duration and in-flight gauge labelled
    by chi route pattern

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(rateLimit)
	    r.Use(middleware.PrometheusMetrics)
	    ...
	})

The metrics middleware wraps the response writer with chi's WrapResponseWriter,
which preserves http.Hijacker for the WebSocket endpoint.
*/
package middleware
