// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

// @title Poiscope API
// @version 1.0
// @description Discovers points of interest around an origin by aggregating encyclopedia, knowledge-graph, map and commercial place providers.
// @description
// @description Discovery is asynchronous: POST /discover returns an epoch immediately and progress is streamed
// @description over /ws as discovery_state messages. GET /state returns the same data on demand.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "CONFIGURATION_ERROR", "message": "at least one attraction type/source must be enabled"},
// @description   "metadata": {"timestamp": "2026-01-18T12:34:56Z", "request_id": "..."}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/poiscope/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3857
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health and readiness probes
//
// @tag.name Discovery
// @tag.description Discover, retry, filter and enrich nearby places
//
// @tag.name Settings
// @tag.description Enabled sources, enabled types, type priority and search radius
//
// @tag.name Cache
// @tag.description Result and enrichment cache administration
package main
