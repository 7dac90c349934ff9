// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package models defines data structures for the Poiscope application.

Key Components:

  - POI: a discovered place with provenance, external references and a notability score
  - Source: provider tags with a fixed merge priority
  - Category and POIType: coarse and fine classification, with default ranking order
  - Location: the origin of a discovery request
  - Settings: per-call discovery configuration (enabled sources and types, priority, radius)
  - Enrichment: typed optional-field detail merged into a POI on demand
  - APIResponse: Standard response wrapper for the HTTP API

Source priority (lower rank wins merge conflicts):

	wikipedia (1) > wikidata (2) > googleplaces (3) > openstreetmap (4)

Thread Safety:

Values in this package are plain data. Snapshots handed to observers are deep
copies made with POI.Clone and ClonePOIs, so consumers may read them freely but
must not assume mutations are visible elsewhere.
*/
package models
