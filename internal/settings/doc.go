// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

// Package settings keeps the user's discovery settings (enabled sources,
// enabled types and type priority per category, radius) for the lifetime of
// the process. The discovery engine reads a fresh snapshot at the start of
// every request, so an update applies to the next Discover call and never to
// one already in flight.
//
// Settings are not persisted; a restart returns to the configured defaults.
package settings
