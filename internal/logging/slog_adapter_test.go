// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newTestLogger(&buf)))

	logger.Warn("service restarted",
		slog.String("service", "http-server"),
		slog.Int("attempt", 2),
		slog.Duration("backoff", 15*time.Second),
	)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"http-server"`, `"attempt":2`, "service restarted"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandlerGroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newTestLogger(&buf))).
		With(slog.String("supervisor", "root")).
		WithGroup("event")

	logger.Info("failure", slog.String("service", "hub"))

	out := buf.String()
	if !strings.Contains(out, `"supervisor":"root"`) {
		t.Errorf("missing pre-set attr: %s", out)
	}
	if !strings.Contains(out, `"event.service":"hub"`) {
		t.Errorf("missing grouped attr: %s", out)
	}
}

func TestSlogHandlerAttrsKeepTheirGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newTestLogger(&buf))).
		With(slog.String("supervisor", "root")).
		WithGroup("event").
		With(slog.Int("restarts", 3)).
		WithGroup("detail")

	logger.Warn("backoff", slog.String("service", "hub"))

	out := buf.String()
	for _, want := range []string{`"supervisor":"root"`, `"event.restarts":3`, `"event.detail.service":"hub"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
	for _, unwanted := range []string{`"event.supervisor"`, `"event.detail.restarts"`} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output has mis-grouped key %s: %s", unwanted, out)
		}
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn-level logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn-level logger")
	}
}
