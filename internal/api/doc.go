// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package api provides the HTTP REST API layer for Poiscope.

The API is a thin surface over the discovery engine. Requests start or
reshape a discovery; progress is pushed over the WebSocket stream and can be
polled from /api/v1/state.

Routes:

	POST   /api/v1/discover                 start discovery (202, or 200 from cache)
	POST   /api/v1/discover/retry           repeat the last request without the cache
	POST   /api/v1/discover/clear           supersede in-flight work and go idle
	GET    /api/v1/state                    current state (?full=true for every list)
	PUT    /api/v1/filter/types             restrict displayed POI types
	PUT    /api/v1/filter/search            filter by name or description
	POST   /api/v1/pois/{id}/enrichment     details for one POI (path-escaped ID)
	GET    /api/v1/settings                 current settings
	PUT    /api/v1/settings                 replace settings
	DELETE /api/v1/settings                 restore defaults
	GET    /api/v1/cache                    cache statistics
	DELETE /api/v1/cache                    clear both caches
	DELETE /api/v1/cache/{category}         drop one result (?origin_id=)
	GET    /api/v1/ws                       discovery_state stream
	GET    /health, /health/live, /health/ready
	GET    /metrics                         Prometheus

Responses use the models.APIResponse envelope. Errors carry a stable code:

	VALIDATION_ERROR     400  malformed origin, category or type
	BAD_REQUEST          400  unparsable body
	CONFIGURATION_ERROR  422  settings disable every source or type
	CONFLICT             409  retry without a previous request
	NOT_FOUND            404  unknown POI or cache entry
	UPSTREAM_ERROR       502  provider failure (504 on timeout)
	RATE_LIMIT_EXCEEDED  429

Middleware order is request ID, real IP, panic recovery and CORS globally,
then per-route rate limiting (go-chi/httprate), security headers and
Prometheus request metrics.

Usage:

	handler := api.NewHandler(api.HandlerDeps{
	    Engine:      engine,
	    Settings:    store,
	    Results:     results,
	    Enrichments: enrichments,
	    Hub:         hub,
	    Config:      cfg,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))
	srv := &http.Server{Addr: ":3857", Handler: router.SetupChi()}
*/
package api
