// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package cache

import (
	"fmt"
	"testing"

	"github.com/tomtom215/poiscope/internal/models"
)

func TestEnrichmentCache_GetPut(t *testing.T) {
	c := NewEnrichmentCache()

	if _, ok := c.Get("place:abc"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Put("place:abc", &models.Enrichment{Source: models.SourceGooglePlaces, Phone: models.StringPtr("123")})
	got, ok := c.Get("place:abc")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.Phone == nil || *got.Phone != "123" {
		t.Errorf("Get() = %+v", got)
	}

	c.Put("place:nil", nil)
	if c.Len() != 1 {
		t.Errorf("nil enrichment should not be stored, Len() = %d", c.Len())
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestEnrichmentCache_NeverEvicts(t *testing.T) {
	c := NewEnrichmentCache()
	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("k%d", i), &models.Enrichment{})
	}
	if c.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", c.Len())
	}
	if _, ok := c.Get("k0"); !ok {
		t.Error("first entry should still be present")
	}
}

func TestStatsHitRate(t *testing.T) {
	if (Stats{}).HitRate() != 0 {
		t.Error("HitRate with no lookups should be 0")
	}
	if got := (Stats{Hits: 3, Misses: 1}).HitRate(); got != 0.75 {
		t.Errorf("HitRate() = %f, want 0.75", got)
	}
}

func TestEnrichmentCache_Clear(t *testing.T) {
	c := NewEnrichmentCache()
	c.Put("a", &models.Enrichment{})
	c.Put("b", &models.Enrichment{})
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("cleared entry still present")
	}
}
