// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

// Category is the coarse grouping of POI types.
type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryCommercial Category = "commercial"
)

// AllCategories returns the known categories.
func AllCategories() []Category {
	return []Category{CategoryAttraction, CategoryCommercial}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryAttraction || c == CategoryCommercial
}

// POIType is the fine-grained classification of a POI.
type POIType string

// Attraction types
const (
	TypeMonument  POIType = "monument"
	TypeMuseum    POIType = "museum"
	TypeCastle    POIType = "castle"
	TypeReligious POIType = "religious"
	TypeHistoric  POIType = "historic"
	TypeArtwork   POIType = "artwork"
	TypeViewpoint POIType = "viewpoint"
	TypePark      POIType = "park"
	TypeZoo       POIType = "zoo"
	TypeLandmark  POIType = "landmark"
)

// Commercial types
const (
	TypeSupermarket POIType = "supermarket"
	TypeRestaurant  POIType = "restaurant"
	TypeCafe        POIType = "cafe"
	TypeBar         POIType = "bar"
	TypeBakery      POIType = "bakery"
	TypePharmacy    POIType = "pharmacy"
	TypeHotel       POIType = "hotel"
	TypeShop        POIType = "shop"
)

// DefaultTypeOrder returns the fixed ranking order for a category's types.
// It is also the complete list of types belonging to the category.
func DefaultTypeOrder(c Category) []POIType {
	switch c {
	case CategoryAttraction:
		return []POIType{
			TypeMonument, TypeMuseum, TypeCastle, TypeReligious, TypeHistoric,
			TypeArtwork, TypeViewpoint, TypePark, TypeZoo, TypeLandmark,
		}
	case CategoryCommercial:
		return []POIType{
			TypeSupermarket, TypeRestaurant, TypeCafe, TypeBar,
			TypeBakery, TypePharmacy, TypeHotel, TypeShop,
		}
	default:
		return nil
	}
}

// Category returns the category the type belongs to, or "" for unknown types.
func (t POIType) Category() Category {
	for _, c := range AllCategories() {
		for _, ct := range DefaultTypeOrder(c) {
			if ct == t {
				return c
			}
		}
	}
	return ""
}

// Valid reports whether t is a known type.
func (t POIType) Valid() bool {
	return t.Category() != ""
}
