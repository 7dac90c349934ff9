// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/models"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateDiscovery(); err != nil {
		return err
	}

	return c.validateProviders()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// maxRadiusMeters bounds the search radius. It matches the settings
// validation rule on models.Settings.
const maxRadiusMeters = 50000

// validateDiscovery validates engine tuning and default settings
func (c *Config) validateDiscovery() error {
	d := c.Discovery
	if d.RadiusMeters <= 0 || d.RadiusMeters > maxRadiusMeters {
		return fmt.Errorf("DISCOVERY_RADIUS_METERS must be between 0 and %d", maxRadiusMeters)
	}
	if d.MinRadiusMeters <= 0 || d.MinRadiusMeters > d.RadiusMeters {
		return fmt.Errorf("DISCOVERY_MIN_RADIUS_METERS must be positive and at most DISCOVERY_RADIUS_METERS")
	}
	if d.RadiusStepMeters < 0 {
		return fmt.Errorf("DISCOVERY_RADIUS_STEP_METERS must not be negative")
	}
	if d.MaxAttempts < 1 || d.MaxAttempts > 10 {
		return fmt.Errorf("DISCOVERY_MAX_ATTEMPTS must be between 1 and 10")
	}
	if d.BackoffStep < 0 {
		return fmt.Errorf("DISCOVERY_BACKOFF_STEP must not be negative")
	}
	if d.AttemptTimeout <= 0 {
		return fmt.Errorf("DISCOVERY_ATTEMPT_TIMEOUT must be positive")
	}
	if d.ProximityMeters <= 0 {
		return fmt.Errorf("DISCOVERY_PROXIMITY_METERS must be positive")
	}
	if d.DisplayLimit < 1 {
		return fmt.Errorf("DISCOVERY_DISPLAY_LIMIT must be at least 1")
	}
	if d.CacheCapacity < 1 {
		return fmt.Errorf("DISCOVERY_CACHE_CAPACITY must be at least 1")
	}

	for _, name := range d.EnabledSources {
		if !models.Source(name).Valid() {
			return fmt.Errorf("DISCOVERY_ENABLED_SOURCES contains unknown source %q", name)
		}
	}
	for _, name := range d.EnabledTypes {
		if !models.POIType(name).Valid() {
			return fmt.Errorf("DISCOVERY_ENABLED_TYPES contains unknown type %q", name)
		}
	}
	return nil
}

// validateProviders validates every enabled provider client
func (c *Config) validateProviders() error {
	if c.Providers.UserAgent == "" {
		return fmt.Errorf("PROVIDER_USER_AGENT is required")
	}
	if c.Providers.Language == "" {
		return fmt.Errorf("PROVIDER_LANGUAGE is required")
	}

	providers := []struct {
		env string
		cfg ProviderConfig
	}{
		{"WIKIPEDIA", c.Providers.Wikipedia},
		{"WIKIDATA", c.Providers.Wikidata},
		{"OVERPASS", c.Providers.Overpass},
		{"GOOGLE_PLACES", c.Providers.GooglePlaces},
	}
	for _, p := range providers {
		if !p.cfg.Enabled {
			continue
		}
		if err := validateHTTPURL(p.cfg.BaseURL, p.env+"_BASE_URL"); err != nil {
			return err
		}
		if p.cfg.RatePerSecond < 0 {
			return fmt.Errorf("%s_RATE_PER_SECOND must not be negative", p.env)
		}
		if p.cfg.RatePerSecond > 0 && p.cfg.Burst < 1 {
			return fmt.Errorf("%s burst must be at least 1 when rate limiting is enabled", p.env)
		}
		if p.cfg.Timeout <= 0 {
			return fmt.Errorf("%s_TIMEOUT must be positive", p.env)
		}
	}
	return nil
}
