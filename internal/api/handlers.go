// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/poiscope/internal/cache"
	"github.com/tomtom215/poiscope/internal/config"
	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/models"
	ws "github.com/tomtom215/poiscope/internal/websocket"
)

// DiscoveryEngine is the engine surface the handlers use. *discovery.Engine
// satisfies it.
type DiscoveryEngine interface {
	Discover(origin models.Location, category models.Category, forceRefresh bool) (uint64, error)
	Retry() (uint64, error)
	Clear() uint64
	UpdateTypeFilter(types []models.POIType) error
	UpdateSearchText(text string)
	FetchEnrichment(ctx context.Context, poi models.POI) (models.POI, error)
	Snapshot() discovery.Snapshot
	Ready() bool
	Sources() []models.Source
}

// SettingsStore is satisfied by *settings.Store.
type SettingsStore interface {
	Settings() models.Settings
	Update(next models.Settings) error
	Reset() models.Settings
	UpdatedAt() time.Time
}

// HandlerDeps collects the collaborators of Handler. Results and
// Enrichments must be the caches the engine was built with.
type HandlerDeps struct {
	Engine      DiscoveryEngine
	Settings    SettingsStore
	Results     *cache.ResultCache
	Enrichments *cache.EnrichmentCache
	Hub         *ws.Hub
	Config      *config.Config
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade
//   - handlers_helpers.go: response envelope and error mapping
//   - handlers_discovery.go: discover, retry, clear, state, filters, enrichment
//   - handlers_settings.go: settings and cache administration
//   - handlers_health.go: health and readiness probes
type Handler struct {
	engine        DiscoveryEngine
	settings      SettingsStore
	results       *cache.ResultCache
	enrichments   *cache.EnrichmentCache
	wsHub         *ws.Hub
	config        *config.Config
	enrichTimeout time.Duration
	startTime     time.Time
}

// defaultEnrichTimeout bounds one enrichment lookup when no provider
// timeout is configured.
const defaultEnrichTimeout = 15 * time.Second

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(api.HandlerDeps{Engine: engine, Settings: store, Hub: hub, Config: cfg})
//	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))
//	http.ListenAndServe(":3857", router.SetupChi())
func NewHandler(deps HandlerDeps) *Handler {
	enrichTimeout := defaultEnrichTimeout
	if deps.Config != nil {
		for _, pc := range []config.ProviderConfig{deps.Config.Providers.Wikipedia, deps.Config.Providers.GooglePlaces} {
			if pc.Enabled && pc.Timeout > 0 && pc.Timeout+time.Second > enrichTimeout {
				enrichTimeout = pc.Timeout + time.Second
			}
		}
	}

	return &Handler{
		engine:        deps.Engine,
		settings:      deps.Settings,
		results:       deps.Results,
		enrichments:   deps.Enrichments,
		wsHub:         deps.Hub,
		config:        deps.Config,
		enrichTimeout: enrichTimeout,
		startTime:     time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin; an empty one would bypass CORS entirely.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// No config means tests or development.
	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and streams discovery_state messages.
//
// @Summary Discovery state stream
// @Description Upgrades to a WebSocket. The first message is the current discovery state; every later snapshot follows as a discovery_state message. Send {"type":"ping"} to receive {"type":"pong"}.
// @Tags Discovery
// @Success 101 "Switching protocols"
// @Failure 503 {object} models.APIResponse "Streaming not configured"
// @Router /api/v1/ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "WebSocket streaming is not enabled", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.wsHub.ServeConn(conn)
}
