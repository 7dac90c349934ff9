// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package config provides centralized configuration management for Poiscope.

Configuration is loaded with Koanf in three layers of increasing priority:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, ./config.yaml or /etc/poiscope/config.yaml
 3. Environment variables mapped through envTransformFunc

Only mapped environment variables are read, so unrelated variables never
leak into the configuration.

# Configuration Structure

  - ServerConfig: HTTP listener and timeouts
  - SecurityConfig: CORS origins and request rate limiting
  - LoggingConfig: zerolog level, format and caller info
  - DiscoveryConfig: radius, retry policy, dedup proximity, display limit,
    result cache capacity and the default enabled sources and types
  - ProvidersConfig: one ProviderConfig per upstream (base URL, API key,
    client-side rate limit, timeout) plus the shared user agent

# Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal("Failed to load config:", err)
	}
	logging.Init(cfg.LoggingSettings())
	store := settings.NewStore(cfg.Settings())

# Environment Variables

	HTTP_PORT=3857
	CORS_ORIGINS=https://app.example.com
	LOG_LEVEL=debug
	DISCOVERY_RADIUS_METERS=5000
	DISCOVERY_MAX_ATTEMPTS=3
	DISCOVERY_ENABLED_SOURCES=wikipedia,openstreetmap
	GOOGLE_PLACES_API_KEY=...

Validate runs after loading and reports the first invalid setting using its
environment variable name.
*/
package config
