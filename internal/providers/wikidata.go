// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/poiscope/internal/models"
)

const (
	wikidataLimit = 200
	// wikidataFullSitelinks is the sitelink count that scores 100.
	wikidataFullSitelinks = 200
	wikidataEntityPrefix  = "http://www.wikidata.org/entity/"
)

// wikidataClasses maps instance-of classes to POI types.
var wikidataClasses = map[models.POIType][]string{
	models.TypeMonument:  {"Q4989906", "Q5003624"},                // monument, memorial
	models.TypeMuseum:    {"Q33506", "Q207694"},                   // museum, art museum
	models.TypeCastle:    {"Q23413", "Q16560"},                    // castle, palace
	models.TypeReligious: {"Q16970", "Q2977", "Q32815", "Q44539"}, // church building, cathedral, mosque, temple
	models.TypeHistoric:  {"Q839954", "Q1081138"},                 // archaeological site, historic site
	models.TypeArtwork:   {"Q860861", "Q179700"},                  // sculpture, statue
	models.TypeViewpoint: {"Q6017969"},                            // scenic viewpoint
	models.TypePark:      {"Q22698", "Q1107656"},                  // park, garden
	models.TypeZoo:       {"Q43501", "Q2281788"},                  // zoo, public aquarium
	models.TypeLandmark:  {"Q570116", "Q12518"},                   // tourist attraction, tower
}

// WikidataAdapter queries the knowledge graph SPARQL endpoint for items with
// coordinates around an origin.
type WikidataAdapter struct {
	client  *HTTPClient
	baseURL string
	lang    string
}

// NewWikidataAdapter creates an adapter for the SPARQL service at baseURL,
// e.g. https://query.wikidata.org.
func NewWikidataAdapter(baseURL, lang string, client *HTTPClient) *WikidataAdapter {
	return &WikidataAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
	}
}

// Source implements discovery.SourceAdapter.
func (a *WikidataAdapter) Source() models.Source {
	return models.SourceWikidata
}

type sparqlValue struct {
	Value string `json:"value"`
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

// Fetch implements discovery.SourceAdapter.
func (a *WikidataAdapter) Fetch(ctx context.Context, origin models.Location, radiusMeters float64, enabledTypes []models.POIType) ([]models.POI, error) {
	classes := make(map[string]models.POIType)
	for _, t := range enabledTypes {
		for _, q := range wikidataClasses[t] {
			classes[q] = t
		}
	}
	if len(classes) == 0 {
		return []models.POI{}, nil
	}

	query := url.Values{
		"query":  {a.buildQuery(origin, radiusMeters, classes)},
		"format": {"json"},
	}
	var resp sparqlResponse
	err := a.client.do(ctx, requestConfig{
		method: http.MethodGet,
		url:    a.baseURL + "/sparql",
		query:  query,
		accept: "application/sparql-results+json",
	}, &resp)
	if err != nil {
		return nil, err
	}

	// An item appears once per matching class; keep the first row.
	seen := make(map[string]bool)
	pois := make([]models.POI, 0, len(resp.Results.Bindings))
	for _, row := range resp.Results.Bindings {
		qid := strings.TrimPrefix(row["item"].Value, wikidataEntityPrefix)
		if qid == "" || seen[qid] {
			continue
		}
		poi, ok := a.toPOI(qid, row, classes)
		if !ok {
			continue
		}
		seen[qid] = true
		pois = append(pois, poi)
	}
	return pois, nil
}

func (a *WikidataAdapter) buildQuery(origin models.Location, radiusMeters float64, classes map[string]models.POIType) string {
	values := make([]string, 0, len(classes))
	for q := range classes {
		values = append(values, "wd:"+q)
	}
	sort.Strings(values)

	var b strings.Builder
	b.WriteString("SELECT ?item ?itemLabel ?itemDescription ?class ?location ?sitelinks ?article ?image WHERE {\n")
	b.WriteString("  SERVICE wikibase:around {\n")
	b.WriteString("    ?item wdt:P625 ?location .\n")
	fmt.Fprintf(&b, "    bd:serviceParam wikibase:center \"Point(%f %f)\"^^geo:wktLiteral .\n", origin.Longitude, origin.Latitude)
	fmt.Fprintf(&b, "    bd:serviceParam wikibase:radius \"%s\" .\n", strconv.FormatFloat(radiusMeters/1000, 'f', 3, 64))
	b.WriteString("  }\n")
	b.WriteString("  ?item wdt:P31 ?class .\n")
	fmt.Fprintf(&b, "  VALUES ?class { %s }\n", strings.Join(values, " "))
	b.WriteString("  ?item wikibase:sitelinks ?sitelinks .\n")
	fmt.Fprintf(&b, "  OPTIONAL { ?article schema:about ?item ; schema:isPartOf <https://%s.wikipedia.org/> . }\n", a.lang)
	b.WriteString("  OPTIONAL { ?item wdt:P18 ?image . }\n")
	fmt.Fprintf(&b, "  SERVICE wikibase:label { bd:serviceParam wikibase:language \"%s,en\" . }\n", a.lang)
	fmt.Fprintf(&b, "}\nLIMIT %d", wikidataLimit)
	return b.String()
}

func (a *WikidataAdapter) toPOI(qid string, row map[string]sparqlValue, classes map[string]models.POIType) (models.POI, bool) {
	typ, ok := classes[strings.TrimPrefix(row["class"].Value, wikidataEntityPrefix)]
	if !ok {
		return models.POI{}, false
	}
	lat, lon, ok := parseWKTPoint(row["location"].Value)
	if !ok {
		return models.POI{}, false
	}
	// Unlabelled items come back with the Q-number as their label.
	name := row["itemLabel"].Value
	if name == "" || name == qid {
		return models.POI{}, false
	}

	sitelinks, _ := strconv.Atoi(row["sitelinks"].Value)
	poi := models.POI{
		ID:              "wikidata:" + qid,
		Name:            name,
		Latitude:        lat,
		Longitude:       lon,
		Type:            typ,
		Sources:         []models.Source{models.SourceWikidata},
		Description:     models.StringPtr(row["itemDescription"].Value),
		ImageURL:        models.StringPtr(row["image"].Value),
		Refs:            models.ExternalRefs{WikidataID: qid},
		NotabilityScore: logScore(float64(sitelinks), wikidataFullSitelinks),
	}
	if article := row["article"].Value; article != "" {
		poi.ArticleURL = models.StringPtr(article)
		if title, ok := articleTitle(article); ok {
			poi.Refs.WikipediaTitle = title
			poi.Refs.WikipediaLang = a.lang
		}
	}
	return poi, true
}

// parseWKTPoint parses "Point(lon lat)".
func parseWKTPoint(s string) (lat, lon float64, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "Point(") || !strings.HasSuffix(s, ")") {
		return 0, 0, false
	}
	parts := strings.Fields(s[len("Point(") : len(s)-1])
	if len(parts) != 2 {
		return 0, 0, false
	}
	lon, errLon := strconv.ParseFloat(parts[0], 64)
	lat, errLat := strconv.ParseFloat(parts[1], 64)
	if errLon != nil || errLat != nil || !models.ValidCoordinates(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

// articleTitle extracts the article title from a /wiki/ URL.
func articleTitle(articleURL string) (string, bool) {
	u, err := url.Parse(articleURL)
	if err != nil {
		return "", false
	}
	idx := strings.Index(u.Path, "/wiki/")
	if idx < 0 {
		return "", false
	}
	title := strings.ReplaceAll(u.Path[idx+len("/wiki/"):], "_", " ")
	return title, title != ""
}
