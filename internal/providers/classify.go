// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"math"
	"strings"

	"github.com/tomtom215/poiscope/internal/models"
)

// typeSet returns the enabled types as a lookup set.
func typeSet(enabled []models.POIType) map[models.POIType]bool {
	set := make(map[models.POIType]bool, len(enabled))
	for _, t := range enabled {
		set[t] = true
	}
	return set
}

// textRule classifies free text by keyword. Rules are checked in order, so
// more specific types come first ("zoological park" is a zoo, not a park).
type textRule struct {
	typ      models.POIType
	keywords []string
}

var textRules = []textRule{
	{models.TypeZoo, []string{"zoo", "zoological", "aquarium"}},
	{models.TypeMuseum, []string{"museum", "gallery", "exhibition"}},
	{models.TypeCastle, []string{"castle", "fortress", "palace", "château", "chateau", "citadel"}},
	{models.TypeReligious, []string{"church", "cathedral", "basilica", "mosque", "temple", "synagogue", "chapel", "abbey", "monastery", "shrine"}},
	{models.TypeMonument, []string{"monument", "memorial", "statue", "obelisk", "tower", "arch", "column"}},
	{models.TypeViewpoint, []string{"viewpoint", "observation deck", "lookout", "belvedere"}},
	{models.TypeArtwork, []string{"sculpture", "fountain", "mural", "artwork", "installation"}},
	{models.TypePark, []string{"park", "garden", "square", "botanical"}},
	{models.TypeHistoric, []string{"historic", "ruins", "archaeological", "heritage", "ancient", "medieval"}},
}

// classifyText returns the first type whose keyword appears in any text,
// falling back to landmark.
func classifyText(texts ...string) models.POIType {
	for _, rule := range textRules {
		for _, text := range texts {
			lower := strings.ToLower(text)
			for _, kw := range rule.keywords {
				if strings.Contains(lower, kw) {
					return rule.typ
				}
			}
		}
	}
	return models.TypeLandmark
}

// osmRule maps an OpenStreetMap tag key and its accepted values to a type.
// The same table builds the Overpass query and classifies its results.
type osmRule struct {
	typ    models.POIType
	key    string
	values []string
}

var osmRules = []osmRule{
	{models.TypeMonument, "historic", []string{"monument", "memorial"}},
	{models.TypeMuseum, "tourism", []string{"museum", "gallery"}},
	{models.TypeCastle, "historic", []string{"castle", "palace", "fort"}},
	{models.TypeReligious, "amenity", []string{"place_of_worship"}},
	{models.TypeHistoric, "historic", []string{"ruins", "archaeological_site", "city_gate", "building", "heritage"}},
	{models.TypeArtwork, "tourism", []string{"artwork"}},
	{models.TypeViewpoint, "tourism", []string{"viewpoint"}},
	{models.TypePark, "leisure", []string{"park", "garden"}},
	{models.TypeZoo, "tourism", []string{"zoo", "aquarium"}},
	{models.TypeLandmark, "tourism", []string{"attraction"}},

	{models.TypeSupermarket, "shop", []string{"supermarket"}},
	{models.TypeRestaurant, "amenity", []string{"restaurant", "fast_food"}},
	{models.TypeCafe, "amenity", []string{"cafe"}},
	{models.TypeBar, "amenity", []string{"bar", "pub"}},
	{models.TypeBakery, "shop", []string{"bakery", "pastry"}},
	{models.TypePharmacy, "amenity", []string{"pharmacy"}},
	{models.TypeHotel, "tourism", []string{"hotel", "hostel", "guest_house"}},
	{models.TypeShop, "shop", []string{"clothes", "books", "gift", "department_store", "mall", "convenience"}},
}

// classifyOSMTags returns the first rule type matched by the tags among
// the enabled types.
func classifyOSMTags(tags map[string]string, enabled map[models.POIType]bool) (models.POIType, bool) {
	for _, rule := range osmRules {
		if !enabled[rule.typ] {
			continue
		}
		v, ok := tags[rule.key]
		if !ok {
			continue
		}
		for _, want := range rule.values {
			if v == want {
				return rule.typ, true
			}
		}
	}
	return "", false
}

// googleTypes maps POI types to Places API (New) place types.
var googleTypes = map[models.POIType][]string{
	models.TypeSupermarket: {"supermarket", "grocery_store"},
	models.TypeRestaurant:  {"restaurant"},
	models.TypeCafe:        {"cafe", "coffee_shop"},
	models.TypeBar:         {"bar"},
	models.TypeBakery:      {"bakery"},
	models.TypePharmacy:    {"pharmacy", "drugstore"},
	models.TypeHotel:       {"lodging", "hotel"},
	models.TypeShop:        {"clothing_store", "book_store", "department_store", "shopping_mall", "gift_shop"},
}

// classifyGoogleTypes maps a place's primary type, then its other types, back
// to an enabled POI type.
func classifyGoogleTypes(primary string, types []string, enabled map[models.POIType]bool) (models.POIType, bool) {
	candidates := append([]string{primary}, types...)
	for _, gt := range candidates {
		if gt == "" {
			continue
		}
		for _, t := range models.DefaultTypeOrder(models.CategoryCommercial) {
			if !enabled[t] {
				continue
			}
			for _, want := range googleTypes[t] {
				if gt == want {
					return t, true
				}
			}
		}
	}
	return "", false
}

// logScore maps n onto 0..100 on a log scale where full reaches 100.
func logScore(n, full float64) int {
	if n <= 0 {
		return 0
	}
	score := 100 * math.Log10(n+1) / math.Log10(full+1)
	return models.ClampScore(int(math.Round(score)))
}
