// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package settings

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/models"
	"github.com/tomtom215/poiscope/internal/validation"
)

// ErrTypeCategoryMismatch is returned when a type is listed under a category
// it does not belong to.
var ErrTypeCategoryMismatch = errors.New("type listed under the wrong category")

// ErrRadiusBelowMinimum is returned when the search radius is smaller than
// the configured retry floor.
var ErrRadiusBelowMinimum = errors.New("radius below the minimum search radius")

// Store holds the user settings in memory. It implements the discovery
// engine's SettingsProvider; every read returns an independent copy so
// callers can never mutate the stored value.
type Store struct {
	mu        sync.RWMutex
	current   models.Settings
	defaults  models.Settings
	minRadius float64
	updatedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMinRadius rejects updates whose radius is below meters.
func WithMinRadius(meters float64) Option {
	return func(s *Store) {
		s.minRadius = meters
	}
}

// NewStore creates a store seeded with defaults.
func NewStore(defaults models.Settings, opts ...Option) *Store {
	s := &Store{
		current:   defaults.Clone(),
		defaults:  defaults.Clone(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns a copy of the settings in effect.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// UpdatedAt returns when the settings last changed.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Update validates and replaces the settings. Invalid settings leave the
// store untouched. Validation failures are *validation.RequestValidationError.
func (s *Store) Update(next models.Settings) error {
	if err := Validate(&next); err != nil {
		return err
	}
	if next.RadiusMeters < s.minRadius {
		return fmt.Errorf("%w: %.0f < %.0f meters", ErrRadiusBelowMinimum, next.RadiusMeters, s.minRadius)
	}

	s.mu.Lock()
	s.current = next.Clone()
	s.updatedAt = time.Now()
	s.mu.Unlock()

	logging.Info().
		Int("sources", len(next.EnabledSources)).
		Float64("radius_meters", next.RadiusMeters).
		Msg("Discovery settings updated")
	return nil
}

// Reset restores the seeded defaults.
func (s *Store) Reset() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.defaults.Clone()
	s.updatedAt = time.Now()
	return s.current.Clone()
}

// Validate checks settings with the shared validator and then checks that
// every listed type belongs to the category it is listed under.
func Validate(st *models.Settings) error {
	if verr := validation.ValidateStruct(st); verr != nil {
		return verr
	}
	for _, lists := range []map[models.Category][]models.POIType{st.EnabledTypes, st.TypePriority} {
		for c, types := range lists {
			for _, t := range types {
				if t.Category() != c {
					return fmt.Errorf("%w: %s is not a %s type", ErrTypeCategoryMismatch, t, c)
				}
			}
		}
	}
	return nil
}
