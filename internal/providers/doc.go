// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package providers implements the discovery source adapters and enrichers on
top of the public place APIs.

Adapters:
  - WikipediaAdapter: MediaWiki geosearch; notability from article length
  - WikidataAdapter: SPARQL wikibase:around; notability from sitelinks
  - OverpassAdapter: OpenStreetMap tags for both categories
  - GooglePlacesAdapter: Places API (New) nearby search, needs an API key

Every adapter returns raw POIs; the discovery orchestrator normalizes
distance, category and sources. Adapters classify each result into a
POIType and drop results whose type is not enabled.

Decorators:
  - WithRateLimit: token bucket from golang.org/x/time/rate; waits honor
    the attempt context
  - WithCircuitBreaker: sony/gobreaker; opens at 60% failures over at least
    10 requests and reports state to Prometheus

Build wires all of the above from config.ProvidersConfig:

	set := providers.Build(&cfg.Providers, logging.Logger())
	engine, err := discovery.NewEngine(discovery.EngineDeps{
	    Adapters: set.Adapters,
	    Enricher: set.Enricher,
	    ...
	})

All HTTP goes through HTTPClient, which sets the user agent, decodes JSON
with goccy/go-json, bounds response sizes and turns non-2xx responses into
*StatusError.
*/
package providers
