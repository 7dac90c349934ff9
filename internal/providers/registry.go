// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/poiscope/internal/config"
	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/models"
)

// Set is the provider wiring handed to the discovery engine.
type Set struct {
	Adapters []discovery.SourceAdapter
	Enricher discovery.Enricher
}

// Build creates a decorated adapter for every active provider and the
// enrichment chain. Google Places details come before article summaries.
func Build(cfg *config.ProvidersConfig, logger zerolog.Logger) Set {
	var (
		set       Set
		enrichers ChainEnricher
	)

	for _, src := range models.AllSources() {
		pc, _ := cfg.Provider(src)
		if !cfg.Active(src) {
			logger.Info().Str("source", string(src)).Bool("enabled", pc.Enabled).
				Msg("Provider inactive")
			continue
		}

		client := NewHTTPClient(src, cfg.UserAgent, pc.Timeout)
		var adapter discovery.SourceAdapter
		switch src {
		case models.SourceWikipedia:
			adapter = NewWikipediaAdapter(pc.BaseURL, cfg.Language, client)
			enrichers = append(enrichers, NewWikipediaEnricher(pc.BaseURL, cfg.Language, client))
		case models.SourceWikidata:
			adapter = NewWikidataAdapter(pc.BaseURL, cfg.Language, client)
		case models.SourceOpenStreetMap:
			adapter = NewOverpassAdapter(pc.BaseURL, cfg.Language, client)
		case models.SourceGooglePlaces:
			adapter = NewGooglePlacesAdapter(pc.BaseURL, pc.APIKey, cfg.Language, client)
			enrichers = append(ChainEnricher{NewGooglePlacesEnricher(pc.BaseURL, pc.APIKey, cfg.Language, client)}, enrichers...)
		}

		adapter = WithCircuitBreaker(WithRateLimit(adapter, pc.RatePerSecond, pc.Burst))
		set.Adapters = append(set.Adapters, adapter)

		logger.Info().Str("source", string(src)).Str("base_url", pc.BaseURL).
			Float64("rate_per_second", pc.RatePerSecond).Msg("Provider registered")
	}

	if len(enrichers) > 0 {
		set.Enricher = enrichers
	}
	return set
}
