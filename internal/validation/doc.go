// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is created on first use and shared; it caches
struct metadata and is safe for concurrent use. Three custom tags cover the
domain enumerations:

	category  attraction | commercial
	poitype   any known place type (monument, museum, restaurant, ...)
	source    wikipedia | wikidata | googleplaces | openstreetmap

Usage from an HTTP handler:

	type discoverRequest struct {
	    Latitude  float64 `json:"latitude" validate:"latitude"`
	    Longitude float64 `json:"longitude" validate:"longitude"`
	    Category  string  `json:"category" validate:"required,category"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
	    return
	}

Error messages are translated to short sentences ("Category must be
attraction or commercial") and the whole set is returned as a
VALIDATION_ERROR API error.
*/
package validation
