// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

// Package logging provides centralized zerolog-based logging for Poiscope.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//
//	// With request and correlation IDs from context
//	logging.Ctx(ctx).Info().Str("category", "attraction").Msg("Discovery requested")
//
// Components that receive a logger by injection (the discovery engine) add
// their own "component" field, so they are handed the base logger:
//
//	engine, err := discovery.NewEngine(discovery.EngineDeps{Logger: logging.Logger(), ...})
//
// Standalone components take one from Component:
//
//	log := logging.Component("websocket-hub")
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over formatted messages:
//
//	logging.Info().Str("source", "wikipedia").Int("pois", n).Msg("Fetched")  // Correct
//	logging.Info().Msgf("fetched %d from %s", n, src)                        // Avoid
package logging
