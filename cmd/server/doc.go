// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package main is the entry point for the Poiscope server.

Poiscope finds notable places around a location. It queries Wikipedia
geosearch, Wikidata SPARQL, OpenStreetMap Overpass and (with an API key)
Google Places, merges duplicate records, ranks them and streams progress to
WebSocket clients.

# Application Architecture

The server runs under Suture v4 supervision:

	RootSupervisor ("poiscope")
	├── DiscoverySupervisor ("discovery-layer")
	│   ├── Discovery engine lifecycle (closes the engine on shutdown)
	│   └── Config watcher (only when a config file exists)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (discovery_state broadcasts)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Initialization order:

 1. Configuration: Koanf v2 (defaults, optional YAML, environment)
 2. Logging: zerolog with JSON or console output
 3. Providers: one rate-limited, circuit-broken adapter per active source
 4. Discovery engine: settings store, result cache, enrichment cache
 5. WebSocket hub subscribed to engine snapshots
 6. HTTP router and server
 7. Supervisor tree

# Configuration

	HTTP_PORT=3857                  # EPSG:3857 reference
	LOG_LEVEL=info                  # trace, debug, info, warn, error
	LOG_FORMAT=json                 # json or console
	CORS_ORIGINS=https://app.example.com
	DISCOVERY_RADIUS_METERS=5000
	DISCOVERY_ENABLED_SOURCES=wikipedia,wikidata,openstreetmap
	GOOGLE_PLACES_API_KEY=...       # enables the commercial provider

LOG_LEVEL is reloaded when the config file changes; everything else needs a
restart.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT, the hub closes client connections with a going-away
frame and the engine cancels in-flight provider calls.
*/
package main
