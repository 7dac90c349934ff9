// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package config

import (
	"time"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Providers ProvidersConfig `koanf:"providers"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT, HTTP_HOST
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - HTTP_SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 10s)
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DiscoveryConfig holds engine tuning and the default user settings.
type DiscoveryConfig struct {
	// RadiusMeters is the initial search radius for every adapter.
	RadiusMeters float64 `koanf:"radius_meters"`

	// Retry policy. Each retry shrinks the radius by RadiusStepMeters down
	// to MinRadiusMeters and waits BackoffStep * attempt.
	MinRadiusMeters  float64       `koanf:"min_radius_meters"`
	RadiusStepMeters float64       `koanf:"radius_step_meters"`
	MaxAttempts      int           `koanf:"max_attempts"`
	BackoffStep      time.Duration `koanf:"backoff_step"`
	AttemptTimeout   time.Duration `koanf:"attempt_timeout"`

	ProximityMeters float64 `koanf:"proximity_meters"`
	DisplayLimit    int     `koanf:"display_limit"`
	CacheCapacity   int     `koanf:"cache_capacity"`

	// EnabledSources and EnabledTypes seed the settings store. Empty means all.
	EnabledSources []string `koanf:"enabled_sources"`
	EnabledTypes   []string `koanf:"enabled_types"`
}

// ProviderConfig configures one upstream place provider.
type ProviderConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	// RatePerSecond of zero disables client-side rate limiting.
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
	Timeout       time.Duration `koanf:"timeout"`
}

// ProvidersConfig holds the settings of every provider client.
type ProvidersConfig struct {
	UserAgent string `koanf:"user_agent"`
	Language  string `koanf:"language"`

	Wikipedia    ProviderConfig `koanf:"wikipedia"`
	Wikidata     ProviderConfig `koanf:"wikidata"`
	Overpass     ProviderConfig `koanf:"overpass"`
	GooglePlaces ProviderConfig `koanf:"googleplaces"`
}

// Provider returns the configuration for a source.
func (p *ProvidersConfig) Provider(src models.Source) (ProviderConfig, bool) {
	switch src {
	case models.SourceWikipedia:
		return p.Wikipedia, true
	case models.SourceWikidata:
		return p.Wikidata, true
	case models.SourceOpenStreetMap:
		return p.Overpass, true
	case models.SourceGooglePlaces:
		return p.GooglePlaces, true
	default:
		return ProviderConfig{}, false
	}
}

// Active reports whether the source should get an adapter. Google Places
// needs an API key in addition to being enabled.
func (p *ProvidersConfig) Active(src models.Source) bool {
	pc, ok := p.Provider(src)
	if !ok || !pc.Enabled {
		return false
	}
	if src == models.SourceGooglePlaces && pc.APIKey == "" {
		return false
	}
	return true
}

// LoggingSettings converts the logging section for logging.Init.
func (c *Config) LoggingSettings() logging.Config {
	lc := logging.DefaultConfig()
	if c.Logging.Level != "" {
		lc.Level = c.Logging.Level
	}
	if c.Logging.Format != "" {
		lc.Format = c.Logging.Format
	}
	lc.Caller = c.Logging.Caller
	return lc
}

// RetryPolicy returns the adapter retry policy.
func (c *Config) RetryPolicy() discovery.RetryPolicy {
	return discovery.RetryPolicy{
		MaxAttempts:      c.Discovery.MaxAttempts,
		MinRadiusMeters:  c.Discovery.MinRadiusMeters,
		RadiusStepMeters: c.Discovery.RadiusStepMeters,
		BackoffStep:      c.Discovery.BackoffStep,
		AttemptTimeout:   c.Discovery.AttemptTimeout,
	}
}

// Settings builds the initial user settings. Type priorities start at the
// default order of each category.
func (c *Config) Settings() models.Settings {
	s := models.DefaultSettings(c.Discovery.RadiusMeters)

	if len(c.Discovery.EnabledSources) > 0 {
		s.EnabledSources = make([]models.Source, 0, len(c.Discovery.EnabledSources))
		for _, name := range c.Discovery.EnabledSources {
			s.EnabledSources = append(s.EnabledSources, models.Source(name))
		}
		models.SortSources(s.EnabledSources)
	}

	if len(c.Discovery.EnabledTypes) > 0 {
		for _, cat := range models.AllCategories() {
			s.EnabledTypes[cat] = []models.POIType{}
		}
		for _, name := range c.Discovery.EnabledTypes {
			t := models.POIType(name)
			cat := t.Category()
			s.EnabledTypes[cat] = append(s.EnabledTypes[cat], t)
		}
	}
	return s
}
