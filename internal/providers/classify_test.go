// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package providers

import (
	"testing"

	"github.com/tomtom215/poiscope/internal/models"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		texts []string
		want  models.POIType
	}{
		{[]string{"Zoological park in Vincennes"}, models.TypeZoo},
		{[]string{"Art museum in Paris, France"}, models.TypeMuseum},
		{[]string{"", "Château de Vincennes"}, models.TypeCastle},
		{[]string{"Roman Catholic cathedral"}, models.TypeReligious},
		{[]string{"Triumphal arch"}, models.TypeMonument},
		{[]string{"Public garden"}, models.TypePark},
		{[]string{"Medieval ruins"}, models.TypeHistoric},
		{[]string{"Bridge over the Seine"}, models.TypeLandmark},
	}
	for _, tt := range tests {
		if got := classifyText(tt.texts...); got != tt.want {
			t.Errorf("classifyText(%q) = %s, want %s", tt.texts, got, tt.want)
		}
	}
}

func TestClassifyOSMTags(t *testing.T) {
	all := typeSet(append(allTypes(models.CategoryAttraction), allTypes(models.CategoryCommercial)...))

	tests := []struct {
		name    string
		tags    map[string]string
		enabled map[models.POIType]bool
		want    models.POIType
		ok      bool
	}{
		{"museum", map[string]string{"tourism": "museum"}, all, models.TypeMuseum, true},
		{"castle", map[string]string{"historic": "castle"}, all, models.TypeCastle, true},
		{"fast food is a restaurant", map[string]string{"amenity": "fast_food"}, all, models.TypeRestaurant, true},
		{"pub is a bar", map[string]string{"amenity": "pub"}, all, models.TypeBar, true},
		{"disabled type", map[string]string{"amenity": "cafe"}, typeSet([]models.POIType{models.TypeBar}), "", false},
		{"unknown value", map[string]string{"amenity": "parking"}, all, "", false},
		{"no tags", nil, all, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyOSMTags(tt.tags, tt.enabled)
			if got != tt.want || ok != tt.ok {
				t.Errorf("classifyOSMTags() = %s,%v want %s,%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClassifyGoogleTypes(t *testing.T) {
	all := typeSet(allTypes(models.CategoryCommercial))

	if got, ok := classifyGoogleTypes("coffee_shop", nil, all); !ok || got != models.TypeCafe {
		t.Errorf("primary coffee_shop = %s,%v", got, ok)
	}
	if got, ok := classifyGoogleTypes("", []string{"point_of_interest", "pharmacy"}, all); !ok || got != models.TypePharmacy {
		t.Errorf("secondary pharmacy = %s,%v", got, ok)
	}
	if _, ok := classifyGoogleTypes("bakery", nil, typeSet([]models.POIType{models.TypeCafe})); ok {
		t.Error("disabled bakery should not classify")
	}
}

func TestLogScore(t *testing.T) {
	tests := []struct {
		n, full float64
		want    int
	}{
		{0, 100, 0},
		{-5, 100, 0},
		{100, 100, 100},
		{1000, 100, 100},
		{9, 99, 50},
	}
	for _, tt := range tests {
		if got := logScore(tt.n, tt.full); got != tt.want {
			t.Errorf("logScore(%v, %v) = %d, want %d", tt.n, tt.full, got, tt.want)
		}
	}
}
