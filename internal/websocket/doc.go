// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package websocket pushes discovery state to connected clients.

The Hub subscribes to the discovery engine as an Observer. Every published
snapshot is converted to a compact discovery_state message and broadcast to
all clients, so a UI can render phase 1 results while phase 2 is still
loading.

Architecture:

	engine ──OnSnapshot──▶ Hub (latest state slot) ──▶ Client.send ──▶ conn

OnSnapshot runs while the engine holds its publish lock, so it only stores
the latest message and signals the run loop. Bursts of snapshots collapse
into one broadcast of the newest state. A client joining mid-request gets
that state as its first message.

Each client has two goroutines:
  - readPump: reads control messages and answers "ping" with "pong"
  - writePump: writes queued messages and keeps the connection alive with pings

A client whose send buffer is full is disconnected rather than slowing the
others down. It can reconnect and resume from the latest state.

Message Types:

  - discovery_state: DiscoveryStateData (phase, epoch, displayed POIs, counts)
  - ping / pong: application-level keepalive initiated by the client

Usage:

	hub := websocket.NewHub()
	sub := engine.Subscribe(hub)
	defer sub.Unsubscribe()
	go hub.RunWithContext(ctx)

	// in the upgrade handler
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
	    return
	}
	hub.ServeConn(conn)

Metrics: websocket_connections, websocket_messages_sent_total and
websocket_messages_dropped_total.

See also: internal/discovery for the snapshot model, internal/api for the
/api/v1/ws endpoint.
*/
package websocket
