// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/poiscope/internal/models"
)

const (
	googleMaxRadius   = 50000
	googleMaxResults  = 20
	googleFullRatings = 10000
	googleNearbyPath  = "/v1/places:searchNearby"
	googleSearchMask  = "places.id,places.displayName,places.location,places.types,places.primaryType," +
		"places.rating,places.userRatingCount,places.priceLevel,places.websiteUri," +
		"places.regularOpeningHours.weekdayDescriptions,places.nationalPhoneNumber,places.editorialSummary"
)

// ErrMissingAPIKey is returned by Google Places clients built without a key.
var ErrMissingAPIKey = errors.New("google places API key is not configured")

// GooglePlacesAdapter searches commercial places with the Places API (New)
// nearby search.
type GooglePlacesAdapter struct {
	client  *HTTPClient
	baseURL string
	apiKey  string
	lang    string
}

// NewGooglePlacesAdapter creates an adapter for the API at baseURL, e.g.
// https://places.googleapis.com.
func NewGooglePlacesAdapter(baseURL, apiKey, lang string, client *HTTPClient) *GooglePlacesAdapter {
	return &GooglePlacesAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		lang:    lang,
	}
}

// Source implements discovery.SourceAdapter.
func (a *GooglePlacesAdapter) Source() models.Source {
	return models.SourceGooglePlaces
}

type googleNearbyRequest struct {
	IncludedTypes       []string           `json:"includedTypes"`
	MaxResultCount      int                `json:"maxResultCount"`
	LanguageCode        string             `json:"languageCode,omitempty"`
	LocationRestriction googleLocationArea `json:"locationRestriction"`
}

type googleLocationArea struct {
	Circle struct {
		Center googleLatLng `json:"center"`
		Radius float64      `json:"radius"`
	} `json:"circle"`
}

type googleLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type googleLocalizedText struct {
	Text string `json:"text"`
}

type googlePlace struct {
	ID                  string              `json:"id"`
	DisplayName         googleLocalizedText `json:"displayName"`
	Location            googleLatLng        `json:"location"`
	Types               []string            `json:"types"`
	PrimaryType         string              `json:"primaryType"`
	Rating              *float64            `json:"rating,omitempty"`
	UserRatingCount     int                 `json:"userRatingCount"`
	PriceLevel          string              `json:"priceLevel"`
	WebsiteURI          string              `json:"websiteUri"`
	NationalPhoneNumber string              `json:"nationalPhoneNumber"`
	EditorialSummary    googleLocalizedText `json:"editorialSummary"`
	RegularOpeningHours *struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours,omitempty"`
}

type googleNearbyResponse struct {
	Places []googlePlace `json:"places"`
}

// Fetch implements discovery.SourceAdapter.
func (a *GooglePlacesAdapter) Fetch(ctx context.Context, origin models.Location, radiusMeters float64, enabledTypes []models.POIType) ([]models.POI, error) {
	if a.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	enabled := typeSet(enabledTypes)
	included := includedGoogleTypes(enabled)
	if len(included) == 0 {
		return []models.POI{}, nil
	}

	body := googleNearbyRequest{
		IncludedTypes:  included,
		MaxResultCount: googleMaxResults,
		LanguageCode:   a.lang,
	}
	body.LocationRestriction.Circle.Center = googleLatLng{Latitude: origin.Latitude, Longitude: origin.Longitude}
	body.LocationRestriction.Circle.Radius = math.Min(radiusMeters, googleMaxRadius)

	var resp googleNearbyResponse
	if err := a.client.postJSON(ctx, a.baseURL+googleNearbyPath, body, a.headers(googleSearchMask), &resp); err != nil {
		return nil, err
	}

	pois := make([]models.POI, 0, len(resp.Places))
	for i := range resp.Places {
		place := &resp.Places[i]
		typ, ok := classifyGoogleTypes(place.PrimaryType, place.Types, enabled)
		if !ok || place.ID == "" {
			continue
		}
		pois = append(pois, placeToPOI(place, typ))
	}
	return pois, nil
}

func (a *GooglePlacesAdapter) headers(fieldMask string) map[string]string {
	return map[string]string{
		"X-Goog-Api-Key":   a.apiKey,
		"X-Goog-FieldMask": fieldMask,
	}
}

func includedGoogleTypes(enabled map[models.POIType]bool) []string {
	var out []string
	for t, gts := range googleTypes {
		if enabled[t] {
			out = append(out, gts...)
		}
	}
	sort.Strings(out)
	return out
}

func placeToPOI(place *googlePlace, typ models.POIType) models.POI {
	poi := models.POI{
		ID:              "googleplaces:" + place.ID,
		Name:            place.DisplayName.Text,
		Latitude:        place.Location.Latitude,
		Longitude:       place.Location.Longitude,
		Type:            typ,
		Sources:         []models.Source{models.SourceGooglePlaces},
		Description:     models.StringPtr(place.EditorialSummary.Text),
		Website:         models.StringPtr(place.WebsiteURI),
		Phone:           models.StringPtr(place.NationalPhoneNumber),
		Rating:          place.Rating,
		PriceLevel:      parsePriceLevel(place.PriceLevel),
		Refs:            models.ExternalRefs{PlaceID: place.ID},
		NotabilityScore: logScore(float64(place.UserRatingCount), googleFullRatings),
	}
	if place.RegularOpeningHours != nil && len(place.RegularOpeningHours.WeekdayDescriptions) > 0 {
		poi.OpeningHours = models.StringPtr(strings.Join(place.RegularOpeningHours.WeekdayDescriptions, "; "))
	}
	return poi
}

var priceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

func parsePriceLevel(s string) *int {
	v, ok := priceLevels[s]
	if !ok {
		return nil
	}
	return &v
}
