// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package services provides suture.Service wrappers for Poiscope components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve(ctx) error and names itself through fmt.Stringer for supervisor logs.

# Available Services

  - HTTPServerService: runs *http.Server and shuts it down gracefully
  - WebSocketHubService: runs the snapshot broadcast hub
  - DiscoveryEngineService: closes the discovery engine on shutdown
  - ConfigWatchService: reloads adjustable settings when the config file changes

# Return Values

Serve returns ctx.Err() on normal shutdown and a wrapped error on failure.
Suture restarts services that return early, with backoff once the failure
threshold is crossed.

# Example

	tree.AddDiscoveryService(services.NewDiscoveryEngineService(engine))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
*/
package services
