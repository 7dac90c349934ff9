// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/models"
)

const googleDetailsMask = "id,websiteUri,regularOpeningHours.weekdayDescriptions,nationalPhoneNumber," +
	"rating,priceLevel,editorialSummary"

// WikipediaEnricher loads the REST page summary of a POI's article.
type WikipediaEnricher struct {
	client  *HTTPClient
	baseURL string
	lang    string
}

// NewWikipediaEnricher creates an enricher for the wiki at baseURL.
func NewWikipediaEnricher(baseURL, lang string, client *HTTPClient) *WikipediaEnricher {
	return &WikipediaEnricher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
	}
}

// Supports reports whether the POI references an article on this wiki.
func (e *WikipediaEnricher) Supports(poi *models.POI) bool {
	if poi.Refs.WikipediaTitle == "" {
		return false
	}
	lang := poi.Refs.WikipediaLang
	return lang == "" || strings.EqualFold(lang, e.lang)
}

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	Description string `json:"description"`
	Thumbnail   *struct {
		Source string `json:"source"`
	} `json:"thumbnail,omitempty"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Enrich implements discovery.Enricher.
func (e *WikipediaEnricher) Enrich(ctx context.Context, poi *models.POI) (*models.Enrichment, error) {
	title := url.PathEscape(strings.ReplaceAll(poi.Refs.WikipediaTitle, " ", "_"))

	var summary wikiSummary
	if err := e.client.getJSON(ctx, e.baseURL+"/api/rest_v1/page/summary/"+title, nil, nil, &summary); err != nil {
		return nil, err
	}

	description := summary.Extract
	if description == "" {
		description = summary.Description
	}
	en := &models.Enrichment{
		Source:      models.SourceWikipedia,
		Description: models.StringPtr(description),
		ArticleURL:  models.StringPtr(summary.ContentURLs.Desktop.Page),
		FetchedAt:   time.Now(),
	}
	if summary.Thumbnail != nil {
		en.ImageURL = models.StringPtr(summary.Thumbnail.Source)
	}
	return en, nil
}

// GooglePlacesEnricher loads place details for POIs found by Google Places.
type GooglePlacesEnricher struct {
	client  *HTTPClient
	baseURL string
	apiKey  string
	lang    string
}

// NewGooglePlacesEnricher creates an enricher for the API at baseURL.
func NewGooglePlacesEnricher(baseURL, apiKey, lang string, client *HTTPClient) *GooglePlacesEnricher {
	return &GooglePlacesEnricher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		lang:    lang,
	}
}

// Supports reports whether the POI carries a Google place identifier.
func (e *GooglePlacesEnricher) Supports(poi *models.POI) bool {
	return e.apiKey != "" && poi.Refs.PlaceID != "" && poi.HasSource(models.SourceGooglePlaces)
}

// Enrich implements discovery.Enricher.
func (e *GooglePlacesEnricher) Enrich(ctx context.Context, poi *models.POI) (*models.Enrichment, error) {
	if e.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	var place googlePlace
	query := url.Values{"languageCode": {e.lang}}
	headers := map[string]string{
		"X-Goog-Api-Key":   e.apiKey,
		"X-Goog-FieldMask": googleDetailsMask,
	}
	endpoint := e.baseURL + "/v1/places/" + url.PathEscape(poi.Refs.PlaceID)
	if err := e.client.getJSON(ctx, endpoint, query, headers, &place); err != nil {
		return nil, err
	}

	en := &models.Enrichment{
		Source:      models.SourceGooglePlaces,
		Description: models.StringPtr(place.EditorialSummary.Text),
		Website:     models.StringPtr(place.WebsiteURI),
		Phone:       models.StringPtr(place.NationalPhoneNumber),
		Rating:      place.Rating,
		PriceLevel:  parsePriceLevel(place.PriceLevel),
		FetchedAt:   time.Now(),
	}
	if place.RegularOpeningHours != nil && len(place.RegularOpeningHours.WeekdayDescriptions) > 0 {
		en.OpeningHours = models.StringPtr(strings.Join(place.RegularOpeningHours.WeekdayDescriptions, "; "))
	}
	return en, nil
}

// ChainEnricher delegates to the first enricher that supports a POI.
type ChainEnricher []discovery.Enricher

// Supports implements discovery.Enricher.
func (c ChainEnricher) Supports(poi *models.POI) bool {
	return c.pick(poi) != nil
}

// Enrich implements discovery.Enricher.
func (c ChainEnricher) Enrich(ctx context.Context, poi *models.POI) (*models.Enrichment, error) {
	en := c.pick(poi)
	if en == nil {
		return nil, discovery.ErrEnrichmentUnavailable
	}
	return en.Enrich(ctx, poi)
}

func (c ChainEnricher) pick(poi *models.POI) discovery.Enricher {
	for _, en := range c {
		if en != nil && en.Supports(poi) {
			return en
		}
	}
	return nil
}
