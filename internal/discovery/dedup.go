// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"cmp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/poiscope/internal/cache"
	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

// DefaultProximityMeters is the distance under which two similarly named
// records are treated as the same place.
const DefaultProximityMeters = 50.0

// Deduplicator collapses records from different sources that describe the
// same real-world place.
//
// Two records match when they share an identifier (record ID, encyclopedia
// article, knowledge-graph ID or provider place ID), or when they lie closer
// than the proximity threshold and their names are fuzzy-equal. A merged
// record keeps the identity, name, type and coordinates of the record from the
// highest-priority source, unions the sources and fills missing optional
// fields from the other record.
//
// Merge is deterministic: inputs are put in canonical order before folding,
// so the result does not depend on the order or grouping of the lists, and
// merging an already merged list with itself returns the same list.
type Deduplicator struct {
	proximityMeters float64
}

// NewDeduplicator returns a Deduplicator with the given proximity threshold.
// Non-positive values fall back to DefaultProximityMeters.
func NewDeduplicator(proximityMeters float64) *Deduplicator {
	if proximityMeters <= 0 {
		proximityMeters = DefaultProximityMeters
	}
	return &Deduplicator{proximityMeters: proximityMeters}
}

// Merge deduplicates the concatenation of lists. Inputs are not modified.
func (d *Deduplicator) Merge(lists ...[]models.POI) []models.POI {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	all := make([]models.POI, 0, total)
	for _, l := range lists {
		for i := range l {
			all = append(all, l[i].Clone())
		}
	}

	merges := 0
	for {
		next, n := d.pass(all)
		merges += n
		// A merge can add references to the primary record that link it to
		// a record accepted earlier, so fold until nothing changes.
		if n == 0 {
			all = next
			break
		}
		all = next
	}

	if merges > 0 {
		metrics.DiscoveryMerged.Add(float64(merges))
	}
	return all
}

// pass folds the records once in canonical order and returns the number of
// merges performed.
func (d *Deduplicator) pass(records []models.POI) ([]models.POI, int) {
	sortCanonical(records)

	acc := make([]models.POI, 0, len(records))
	index := cache.NewSpatialIndex(d.proximityMeters)
	ids := newRefIndex()
	merges := 0

	for i := range records {
		cand := &records[i]
		if target, ok := d.find(cand, acc, index, ids); ok {
			acc[target] = mergePOIs(&acc[target], cand)
			ids.add(&acc[target], target)
			merges++
			continue
		}
		acc = append(acc, *cand)
		pos := len(acc) - 1
		index.Insert(strconv.Itoa(pos), cand.Latitude, cand.Longitude)
		ids.add(&acc[pos], pos)
	}
	return acc, merges
}

// find returns the earliest accumulated record matching cand.
func (d *Deduplicator) find(cand *models.POI, acc []models.POI, index *cache.SpatialIndex, ids *refIndex) (int, bool) {
	best, found := ids.lookup(cand)

	for _, entry := range index.QueryNearby(cand.Latitude, cand.Longitude, d.proximityMeters) {
		pos, err := strconv.Atoi(entry.ID)
		if err != nil || (found && pos >= best) {
			continue
		}
		if NamesMatch(acc[pos].Name, cand.Name) {
			best, found = pos, true
			break // results are in insertion order
		}
	}
	return best, found
}

// Matches reports whether two records describe the same place.
func (d *Deduplicator) Matches(a, b *models.POI) bool {
	if a.ID == b.ID || a.Refs.Shares(b.Refs) {
		return true
	}
	dist := models.DistanceMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	return dist < d.proximityMeters && NamesMatch(a.Name, b.Name)
}

// mergePOIs combines two matching records. The result does not depend on
// argument order.
func mergePOIs(a, b *models.POI) models.POI {
	primary, secondary := a, b
	if canonicalLess(b, a) {
		primary, secondary = b, a
	}

	out := primary.Clone()
	out.Sources = models.UnionSources(primary.Sources, secondary.Sources)
	out.FillFrom(secondary)
	if out.NotabilityScore == 0 {
		out.NotabilityScore = secondary.NotabilityScore
	}
	if out.Type == "" {
		out.Type = secondary.Type
	}
	return out
}

// canonicalLess orders records by best source rank, then ID, with the
// remaining fields breaking ties between distinct records sharing an ID.
// Records only compare equal when every field that a merge can keep is equal.
func canonicalLess(a, b *models.POI) bool {
	if ra, rb := a.BestRank(), b.BestRank(); ra != rb {
		return ra < rb
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Latitude != b.Latitude {
		return a.Latitude < b.Latitude
	}
	if a.Longitude != b.Longitude {
		return a.Longitude < b.Longitude
	}
	if len(a.Sources) != len(b.Sources) {
		return len(a.Sources) > len(b.Sources)
	}
	if a.NotabilityScore != b.NotabilityScore {
		return a.NotabilityScore > b.NotabilityScore
	}
	return compareDetails(a, b) < 0
}

// compareDetails orders the optional fields. A present value sorts before
// a missing one.
func compareDetails(a, b *models.POI) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := slices.Compare(a.Sources, b.Sources); c != 0 {
		return c
	}
	for _, pair := range [][2]*string{
		{a.Description, b.Description},
		{a.ImageURL, b.ImageURL},
		{a.Website, b.Website},
		{a.OpeningHours, b.OpeningHours},
		{a.Phone, b.Phone},
		{a.ArticleURL, b.ArticleURL},
	} {
		if c := compareOptional(pair[0], pair[1]); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.Refs.WikipediaTitle, b.Refs.WikipediaTitle); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Refs.WikipediaLang, b.Refs.WikipediaLang); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Refs.WikidataID, b.Refs.WikidataID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Refs.PlaceID, b.Refs.PlaceID); c != 0 {
		return c
	}
	if c := compareOptional(a.Rating, b.Rating); c != 0 {
		return c
	}
	return compareOptional(a.PriceLevel, b.PriceLevel)
}

func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}

func sortCanonical(records []models.POI) {
	sort.SliceStable(records, func(i, j int) bool {
		return canonicalLess(&records[i], &records[j])
	})
}

// refIndex maps every identifier of an accumulated record to its position.
type refIndex struct {
	byKey map[string]int
}

func newRefIndex() *refIndex {
	return &refIndex{byKey: make(map[string]int)}
}

func refKeys(p *models.POI) []string {
	keys := []string{"id:" + p.ID}
	if k := p.Refs.WikipediaKey(); k != "" {
		keys = append(keys, "wp:"+k)
	}
	if p.Refs.WikidataID != "" {
		keys = append(keys, "wd:"+strings.ToUpper(p.Refs.WikidataID))
	}
	if p.Refs.PlaceID != "" {
		keys = append(keys, "pl:"+p.Refs.PlaceID)
	}
	return keys
}

func (r *refIndex) add(p *models.POI, pos int) {
	for _, k := range refKeys(p) {
		if existing, ok := r.byKey[k]; !ok || pos < existing {
			r.byKey[k] = pos
		}
	}
}

func (r *refIndex) lookup(p *models.POI) (int, bool) {
	best, found := 0, false
	for _, k := range refKeys(p) {
		if pos, ok := r.byKey[k]; ok && (!found || pos < best) {
			best, found = pos, true
		}
	}
	return best, found
}
