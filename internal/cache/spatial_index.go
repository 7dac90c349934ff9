// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package cache

import (
	"math"
	"sort"
	"sync"

	"github.com/tomtom215/poiscope/internal/models"
)

// metersPerDegree is the approximate length of one degree of latitude.
const metersPerDegree = 111_320.0

// SpatialIndex divides geographic space into square cells so proximity
// queries only examine the cells around the query point instead of every
// entry. The deduplicator uses one index per merge pass.
//
// Time Complexity:
//   - Insert: O(1)
//   - QueryNearby: O(k) where k = entries in nearby cells
//   - Remove: O(cell size)
type SpatialIndex struct {
	mu       sync.RWMutex
	cells    map[CellKey][]*SpatialEntry
	cellSize float64 // degrees
	entries  map[string]*SpatialEntry
	seq      int
}

// CellKey represents a grid cell coordinate.
type CellKey struct {
	X, Y int
}

// SpatialEntry is a point stored in the index. Seq is the insertion order,
// used to return query results deterministically.
type SpatialEntry struct {
	ID      string
	Lat     float64
	Lon     float64
	Seq     int
	cellKey CellKey
}

// NewSpatialIndex creates an index whose cells are roughly cellSizeMeters wide.
func NewSpatialIndex(cellSizeMeters float64) *SpatialIndex {
	if cellSizeMeters <= 0 {
		cellSizeMeters = 100
	}
	return &SpatialIndex{
		cells:    make(map[CellKey][]*SpatialEntry),
		cellSize: cellSizeMeters / metersPerDegree,
		entries:  make(map[string]*SpatialEntry),
	}
}

func (g *SpatialIndex) cellKey(lat, lon float64) CellKey {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return CellKey{
		X: int(math.Floor(lon / g.cellSize)),
		Y: int(math.Floor(lat / g.cellSize)),
	}
}

// Insert adds a point. An existing entry with the same ID is moved and keeps
// its original sequence number.
func (g *SpatialIndex) Insert(id string, lat, lon float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seq := g.seq
	if existing, ok := g.entries[id]; ok {
		seq = existing.Seq
		g.removeFromCell(existing)
	} else {
		g.seq++
	}

	entry := &SpatialEntry{ID: id, Lat: lat, Lon: lon, Seq: seq, cellKey: g.cellKey(lat, lon)}
	g.cells[entry.cellKey] = append(g.cells[entry.cellKey], entry)
	g.entries[id] = entry
}

// Remove deletes an entry by ID.
func (g *SpatialIndex) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[id]
	if !ok {
		return false
	}
	g.removeFromCell(entry)
	delete(g.entries, id)
	return true
}

func (g *SpatialIndex) removeFromCell(entry *SpatialEntry) {
	cell := g.cells[entry.cellKey]
	for i, e := range cell {
		if e.ID == entry.ID {
			cell[i] = cell[len(cell)-1]
			cell = cell[:len(cell)-1]
			break
		}
	}
	if len(cell) == 0 {
		delete(g.cells, entry.cellKey)
	} else {
		g.cells[entry.cellKey] = cell
	}
}

// QueryNearby returns copies of the entries within radiusMeters of the point,
// ordered by insertion sequence.
func (g *SpatialIndex) QueryNearby(lat, lon, radiusMeters float64) []SpatialEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// longitude degrees shrink toward the poles
	latSpan := int(math.Ceil(radiusMeters/metersPerDegree/g.cellSize)) + 1
	cosLat := math.Cos(lat * math.Pi / 180)
	lonSpan := latSpan
	if cosLat > 0.01 {
		lonSpan = int(math.Ceil(radiusMeters/(metersPerDegree*cosLat)/g.cellSize)) + 1
	}
	center := g.cellKey(lat, lon)

	var results []SpatialEntry
	for dx := -lonSpan; dx <= lonSpan; dx++ {
		for dy := -latSpan; dy <= latSpan; dy++ {
			for _, entry := range g.cells[CellKey{X: center.X + dx, Y: center.Y + dy}] {
				if models.DistanceMeters(lat, lon, entry.Lat, entry.Lon) < radiusMeters {
					results = append(results, *entry)
				}
			}
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Seq < results[j].Seq })
	return results
}

// Size returns the total number of entries.
func (g *SpatialIndex) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}
