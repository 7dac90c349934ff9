// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/poiscope/internal/config"
)

func TestConfigWatchService_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var reloads atomic.Int32
	svc := NewConfigWatchService(path, config.WatchConfigFile, func() { reloads.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if reloads.Load() == 0 {
		t.Error("onChange was not called after the file changed")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConfigWatchService_WatchError(t *testing.T) {
	watchErr := errors.New("no such file")
	svc := NewConfigWatchService("missing.yaml", func(string, func()) (func() error, error) {
		return nil, watchErr
	}, func() {})

	if err := svc.Serve(context.Background()); !errors.Is(err, watchErr) {
		t.Errorf("expected watch error, got %v", err)
	}
	if svc.String() != "config-watcher" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestConfigWatchService_StopsWatcher(t *testing.T) {
	var stopped atomic.Bool
	svc := NewConfigWatchService("config.yaml", func(string, func()) (func() error, error) {
		return func() error { stopped.Store(true); return nil }, nil
	}, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = svc.Serve(ctx)

	if !stopped.Load() {
		t.Error("stop function was not called on shutdown")
	}
}
