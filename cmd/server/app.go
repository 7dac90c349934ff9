// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/poiscope/internal/api"
	"github.com/tomtom215/poiscope/internal/cache"
	"github.com/tomtom215/poiscope/internal/config"
	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/providers"
	"github.com/tomtom215/poiscope/internal/settings"
	"github.com/tomtom215/poiscope/internal/supervisor"
	"github.com/tomtom215/poiscope/internal/supervisor/services"
	ws "github.com/tomtom215/poiscope/internal/websocket"
)

// app holds the wired components of one server process.
type app struct {
	cfg    *config.Config
	engine *discovery.Engine
	hub    *ws.Hub
	server *http.Server
	sub    *discovery.Subscription
}

// newApp builds the engine, the WebSocket hub and the HTTP server from cfg.
// Nothing is started.
func newApp(cfg *config.Config, providerSet providers.Set) (*app, error) {
	store := settings.NewStore(cfg.Settings(), settings.WithMinRadius(cfg.Discovery.MinRadiusMeters))
	results := cache.NewResultCache(cfg.Discovery.CacheCapacity)
	enrichments := cache.NewEnrichmentCache()

	engine, err := discovery.NewEngine(discovery.EngineDeps{
		Adapters:     providerSet.Adapters,
		Deduplicator: discovery.NewDeduplicator(cfg.Discovery.ProximityMeters),
		Results:      results,
		Enrichments:  enrichments,
		Enricher:     providerSet.Enricher,
		Settings:     store,
		Retry:        cfg.RetryPolicy(),
		DisplayLimit: cfg.Discovery.DisplayLimit,
		Logger:       logging.Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("create discovery engine: %w", err)
	}
	if !engine.Ready() {
		logging.Warn().Msg("No provider is active; every discovery will fail until one is enabled")
	}

	// The hub keeps only the latest state, so subscribing it is non-blocking.
	hub := ws.NewHub()
	sub := engine.Subscribe(hub)
	hub.OnSnapshot(engine.Snapshot())

	handler := api.NewHandler(api.HandlerDeps{
		Engine:      engine,
		Settings:    store,
		Results:     results,
		Enrichments: enrichments,
		Hub:         hub,
		Config:      cfg,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	return &app{cfg: cfg, engine: engine, hub: hub, server: server, sub: sub}, nil
}

// supervise adds every long-running component to the tree.
//
//	discovery-layer: engine lifecycle, config watcher
//	messaging-layer: WebSocket hub
//	api-layer:       HTTP server
func (a *app) supervise(tree *supervisor.SupervisorTree, configPath string) {
	tree.AddDiscoveryService(services.NewDiscoveryEngineService(a.engine))
	if configPath != "" {
		tree.AddDiscoveryService(services.NewConfigWatchService(configPath, config.WatchConfigFile, reloadConfig))
	}
	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout))
}

// reloadConfig applies the settings that can change without a restart.
// Only the log level is hot; other changes are logged and need a restart.
func reloadConfig() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Warn().Err(err).Msg("Config file changed but failed to load; keeping current configuration")
		return
	}
	previous := logging.GetLevel()
	logging.SetLevelString(cfg.Logging.Level)
	logging.Info().
		Str("previous_level", previous.String()).
		Str("log_level", logging.GetLevel().String()).
		Msg("Configuration reloaded; provider and discovery changes apply after restart")
}
