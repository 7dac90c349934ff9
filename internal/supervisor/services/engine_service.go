// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package services

import (
	"context"
	"time"

	"github.com/tomtom215/poiscope/internal/logging"
)

// Engine is the lifecycle surface of *discovery.Engine.
type Engine interface {
	Ready() bool
	Close()
}

// DiscoveryEngineService ties the discovery engine to the supervisor tree.
// The engine does its work on caller goroutines, so the service only waits
// for shutdown and then closes the engine, which cancels any in-flight
// fetch and stops further publications.
type DiscoveryEngineService struct {
	engine Engine
	name   string
}

// NewDiscoveryEngineService creates a lifecycle service for the engine.
func NewDiscoveryEngineService(engine Engine) *DiscoveryEngineService {
	return &DiscoveryEngineService{
		engine: engine,
		name:   "discovery-engine",
	}
}

// Serve implements suture.Service.
func (s *DiscoveryEngineService) Serve(ctx context.Context) error {
	logging.Info().Bool("ready", s.engine.Ready()).Msg("discovery engine running")

	<-ctx.Done()

	start := time.Now()
	s.engine.Close()
	logging.Info().Dur("took", time.Since(start)).Msg("discovery engine closed")
	return ctx.Err()
}

// String names the service in supervisor log events.
func (s *DiscoveryEngineService) String() string {
	return s.name
}
