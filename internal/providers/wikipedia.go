// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/poiscope/internal/models"
)

const (
	// wikipediaMaxRadius is the geosearch radius limit of the MediaWiki API.
	wikipediaMaxRadius = 10000
	wikipediaLimit     = 100
	// wikipediaFullLength is the article size, in bytes, that scores 100.
	wikipediaFullLength = 300000
)

// ErrAPI is returned when a provider answers 200 with an error payload.
var ErrAPI = errors.New("provider API error")

// WikipediaAdapter finds geotagged encyclopedia articles near an origin.
type WikipediaAdapter struct {
	client  *HTTPClient
	baseURL string
	lang    string
}

// NewWikipediaAdapter creates an adapter for the wiki at baseURL, e.g.
// https://en.wikipedia.org.
func NewWikipediaAdapter(baseURL, lang string, client *HTTPClient) *WikipediaAdapter {
	return &WikipediaAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
	}
}

// Source implements discovery.SourceAdapter.
func (a *WikipediaAdapter) Source() models.Source {
	return models.SourceWikipedia
}

type wikiGeoResponse struct {
	Query struct {
		Pages []wikiPage `json:"pages"`
	} `json:"query"`
	Error *wikiAPIError `json:"error,omitempty"`
}

type wikiAPIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type wikiPage struct {
	PageID      int    `json:"pageid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Length      int    `json:"length"`
	Coordinates []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinates"`
	PageProps struct {
		WikibaseItem string `json:"wikibase_item"`
	} `json:"pageprops"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail,omitempty"`
}

// Fetch implements discovery.SourceAdapter.
func (a *WikipediaAdapter) Fetch(ctx context.Context, origin models.Location, radiusMeters float64, enabledTypes []models.POIType) ([]models.POI, error) {
	radius := int(math.Min(radiusMeters, wikipediaMaxRadius))
	query := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"generator":     {"geosearch"},
		"ggscoord":      {fmt.Sprintf("%f|%f", origin.Latitude, origin.Longitude)},
		"ggsradius":     {strconv.Itoa(radius)},
		"ggslimit":      {strconv.Itoa(wikipediaLimit)},
		"prop":          {"coordinates|pageprops|description|pageimages|info"},
		"ppprop":        {"wikibase_item"},
		"piprop":        {"thumbnail"},
		"pithumbsize":   {"320"},
	}

	var resp wikiGeoResponse
	if err := a.client.getJSON(ctx, a.baseURL+"/w/api.php", query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: wikipedia %s: %s", ErrAPI, resp.Error.Code, resp.Error.Info)
	}

	enabled := typeSet(enabledTypes)
	pois := make([]models.POI, 0, len(resp.Query.Pages))
	for _, page := range resp.Query.Pages {
		if len(page.Coordinates) == 0 || page.Title == "" {
			continue
		}
		typ := classifyText(page.Description, page.Title)
		if !enabled[typ] {
			continue
		}
		pois = append(pois, a.toPOI(&page, typ))
	}
	return pois, nil
}

func (a *WikipediaAdapter) toPOI(page *wikiPage, typ models.POIType) models.POI {
	slug := strings.ReplaceAll(page.Title, " ", "_")
	poi := models.POI{
		ID:          "wikipedia:" + a.lang + ":" + slug,
		Name:        page.Title,
		Latitude:    page.Coordinates[0].Lat,
		Longitude:   page.Coordinates[0].Lon,
		Type:        typ,
		Sources:     []models.Source{models.SourceWikipedia},
		Description: models.StringPtr(page.Description),
		ArticleURL:  models.StringPtr(a.articleURL(page.Title)),
		Refs: models.ExternalRefs{
			WikipediaTitle: page.Title,
			WikipediaLang:  a.lang,
			WikidataID:     page.PageProps.WikibaseItem,
		},
		NotabilityScore: logScore(float64(page.Length), wikipediaFullLength),
	}
	if page.Thumbnail != nil {
		poi.ImageURL = models.StringPtr(page.Thumbnail.Source)
	}
	return poi
}

func (a *WikipediaAdapter) articleURL(title string) string {
	return a.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}
