// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package models

import (
	"fmt"
	"math"
)

// earthRadiusMeters is the mean Earth radius used for haversine distances.
const earthRadiusMeters = 6371000.0

// Location is the origin of a discovery request.
type Location struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns the identifier used for caching results for this origin.
// Origins without an explicit ID are keyed by coordinates rounded to ~11m.
func (l Location) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// Valid reports whether the coordinates are within WGS84 bounds.
func (l Location) Valid() bool {
	return ValidCoordinates(l.Latitude, l.Longitude)
}

// DistanceTo returns the great-circle distance in meters to a point.
func (l Location) DistanceTo(lat, lon float64) float64 {
	return DistanceMeters(l.Latitude, l.Longitude, lat, lon)
}

// ValidCoordinates reports whether lat/lon are finite and in range.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// DistanceMeters calculates the great-circle distance between two points
// using the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
