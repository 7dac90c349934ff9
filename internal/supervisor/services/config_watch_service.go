// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/poiscope/internal/logging"
)

// WatchFunc starts watching path and returns a function that stops the
// watch. config.WatchConfigFile satisfies it.
type WatchFunc func(path string, callback func()) (stop func() error, err error)

// ConfigWatchService reloads runtime-adjustable settings when the config
// file changes. onChange runs on the watcher goroutine.
type ConfigWatchService struct {
	path     string
	watch    WatchFunc
	onChange func()
	name     string
}

// NewConfigWatchService creates a watcher service for a config file.
func NewConfigWatchService(path string, watch WatchFunc, onChange func()) *ConfigWatchService {
	return &ConfigWatchService{
		path:     path,
		watch:    watch,
		onChange: onChange,
		name:     "config-watcher",
	}
}

// Serve implements suture.Service. A failure to start the watch is returned
// so the supervisor retries with backoff.
func (s *ConfigWatchService) Serve(ctx context.Context) error {
	stop, err := s.watch(s.path, func() {
		logging.Info().Str("path", s.path).Msg("config file changed, reloading")
		s.onChange()
	})
	if err != nil {
		return fmt.Errorf("watch config file %s: %w", s.path, err)
	}

	<-ctx.Done()
	if err := stop(); err != nil {
		logging.Warn().Err(err).Str("path", s.path).Msg("failed to stop config watcher")
	}
	return ctx.Err()
}

// String names the service in supervisor log events.
func (s *ConfigWatchService) String() string {
	return s.name
}
