// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/poiscope/config.yaml",
	"/etc/poiscope/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultUserAgent identifies Poiscope to upstream providers. Wikimedia
// rejects requests without a descriptive agent.
const DefaultUserAgent = "Poiscope/1.0 (https://github.com/tomtom215/poiscope)"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Discovery: DiscoveryConfig{
			RadiusMeters:     5000,
			MinRadiusMeters:  1000,
			RadiusStepMeters: 1500,
			MaxAttempts:      3,
			BackoffStep:      500 * time.Millisecond,
			AttemptTimeout:   10 * time.Second,
			ProximityMeters:  50,
			DisplayLimit:     20,
			CacheCapacity:    20,
		},
		Providers: ProvidersConfig{
			UserAgent: DefaultUserAgent,
			Language:  "en",
			Wikipedia: ProviderConfig{
				Enabled:       true,
				BaseURL:       "https://en.wikipedia.org",
				RatePerSecond: 10,
				Burst:         5,
				Timeout:       10 * time.Second,
			},
			Wikidata: ProviderConfig{
				Enabled:       true,
				BaseURL:       "https://query.wikidata.org",
				RatePerSecond: 2,
				Burst:         2,
				Timeout:       15 * time.Second,
			},
			Overpass: ProviderConfig{
				Enabled:       true,
				BaseURL:       "https://overpass-api.de",
				RatePerSecond: 1,
				Burst:         2,
				Timeout:       25 * time.Second,
			},
			GooglePlaces: ProviderConfig{
				Enabled:       true, // still requires GOOGLE_PLACES_API_KEY
				BaseURL:       "https://places.googleapis.com",
				RatePerSecond: 5,
				Burst:         5,
				Timeout:       10 * time.Second,
			},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources.
// Configuration is loaded in order of increasing priority:
//
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := FindConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DISCOVERY_MAX_ATTEMPTS -> discovery.max_attempts
	// GOOGLE_PLACES_API_KEY -> providers.googleplaces.api_key
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"discovery.enabled_sources",
	"discovery.enabled_types",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Discovery
	"discovery_radius_meters":      "discovery.radius_meters",
	"discovery_min_radius_meters":  "discovery.min_radius_meters",
	"discovery_radius_step_meters": "discovery.radius_step_meters",
	"discovery_max_attempts":       "discovery.max_attempts",
	"discovery_backoff_step":       "discovery.backoff_step",
	"discovery_attempt_timeout":    "discovery.attempt_timeout",
	"discovery_proximity_meters":   "discovery.proximity_meters",
	"discovery_display_limit":      "discovery.display_limit",
	"discovery_cache_capacity":     "discovery.cache_capacity",
	"discovery_enabled_sources":    "discovery.enabled_sources",
	"discovery_enabled_types":      "discovery.enabled_types",

	// Providers
	"provider_user_agent": "providers.user_agent",
	"provider_language":   "providers.language",

	"wikipedia_enabled":         "providers.wikipedia.enabled",
	"wikipedia_base_url":        "providers.wikipedia.base_url",
	"wikipedia_rate_per_second": "providers.wikipedia.rate_per_second",
	"wikipedia_timeout":         "providers.wikipedia.timeout",

	"wikidata_enabled":         "providers.wikidata.enabled",
	"wikidata_base_url":        "providers.wikidata.base_url",
	"wikidata_rate_per_second": "providers.wikidata.rate_per_second",
	"wikidata_timeout":         "providers.wikidata.timeout",

	"overpass_enabled":         "providers.overpass.enabled",
	"overpass_base_url":        "providers.overpass.base_url",
	"overpass_rate_per_second": "providers.overpass.rate_per_second",
	"overpass_timeout":         "providers.overpass.timeout",

	"google_places_enabled":         "providers.googleplaces.enabled",
	"google_places_base_url":        "providers.googleplaces.base_url",
	"google_places_api_key":         "providers.googleplaces.api_key",
	"google_places_rate_per_second": "providers.googleplaces.rate_per_second",
	"google_places_timeout":         "providers.googleplaces.timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DISCOVERY_MAX_ATTEMPTS -> discovery.max_attempts
//   - GOOGLE_PLACES_API_KEY -> providers.googleplaces.api_key
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The callback runs on the watcher goroutine. The returned stop function
// ends the watch.
func WatchConfigFile(path string, callback func()) (stop func() error, err error) {
	provider := file.Provider(path)

	err = provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
	if err != nil {
		return nil, err
	}
	return provider.Unwatch, nil
}
