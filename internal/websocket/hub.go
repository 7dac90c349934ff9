// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeDiscoveryState = "discovery_state"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// DiscoveryStateData is the payload of a discovery_state message. It carries
// the displayed POIs only; Total and Matched give the sizes of the ranked and
// search-filtered lists.
type DiscoveryStateData struct {
	Phase            discovery.Phase           `json:"phase"`
	Epoch            uint64                    `json:"epoch"`
	Origin           *models.Location          `json:"origin,omitempty"`
	Category         models.Category           `json:"category,omitempty"`
	POIs             []models.POI              `json:"pois"`
	Total            int                       `json:"total"`
	Matched          int                       `json:"matched"`
	TypeFilter       []models.POIType          `json:"type_filter,omitempty"`
	SearchText       string                    `json:"search_text,omitempty"`
	Error            *discovery.DiscoveryError `json:"error,omitempty"`
	SourceSuccess    map[models.Source]int     `json:"source_success,omitempty"`
	FromCache        bool                      `json:"from_cache"`
	AllSourcesFailed bool                      `json:"all_sources_failed"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// NewDiscoveryStateData builds the message payload for a snapshot.
func NewDiscoveryStateData(s *discovery.Snapshot) DiscoveryStateData {
	pois := s.Display
	if pois == nil {
		pois = []models.POI{}
	}
	return DiscoveryStateData{
		Phase:            s.Phase,
		Epoch:            s.Epoch,
		Origin:           s.Origin,
		Category:         s.Category,
		POIs:             pois,
		Total:            len(s.Ranked),
		Matched:          len(s.Filtered),
		TypeFilter:       s.TypeFilter,
		SearchText:       s.SearchText,
		Error:            s.Error,
		SourceSuccess:    s.SourceSuccess,
		FromCache:        s.FromCache,
		AllSourcesFailed: s.AllSourcesFailed,
		UpdatedAt:        s.UpdatedAt,
	}
}

// Hub maintains the set of active clients and broadcasts messages to them.
//
// Discovery snapshots are coalesced: OnSnapshot only stores the latest state
// and signals the run loop, so the engine never blocks on slow clients and the
// final state of a request is always delivered even when intermediate ones are
// skipped. Newly registered clients receive the latest state first.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	stateMu sync.Mutex
	state   *Message
	pending chan struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		pending:    make(chan struct{}, 1),
	}
}

// OnSnapshot implements discovery.Observer. It never blocks.
func (h *Hub) OnSnapshot(s discovery.Snapshot) {
	msg := Message{Type: MessageTypeDiscoveryState, Data: NewDiscoveryStateData(&s)}

	h.stateMu.Lock()
	h.state = &msg
	h.stateMu.Unlock()

	select {
	case h.pending <- struct{}{}:
	default:
		// A flush is already pending and will pick up the newer state.
	}
}

// latestState returns the most recent discovery_state message, if any.
func (h *Hub) latestState() (Message, bool) {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	if h.state == nil {
		return Message{}, false
	}
	return *h.state, true
}

// RunWithContext starts the hub with context support for graceful shutdown.
// This method is designed for use with suture supervision.
//
// When the context is canceled all connected clients are closed and
// ctx.Err() is returned, so a supervisor can restart the hub without
// leaving orphaned connections.
//
// DETERMINISM: Uses priority-based selection:
//   - Priority 1: Context cancellation (shutdown)
//   - Priority 2: Client lifecycle events (Register/Unregister)
//   - Priority 3: Snapshot flushes and broadcast messages
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.register(client)

		case client := <-h.Unregister:
			h.unregister(client)

		case <-h.pending:
			if msg, ok := h.latestState(); ok {
				h.broadcastToClients(msg)
			}

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	if !h.clients[client] {
		h.clients[client] = true
		metrics.WSConnections.Inc()
	}
	total := len(h.clients)
	h.mu.Unlock()

	logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")

	if msg, ok := h.latestState(); ok {
		h.sendTo(client, msg)
	}
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.WSConnections.Dec()
	}
	total := len(h.clients)
	h.mu.Unlock()

	logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
}

// sendTo delivers a message to a single registered client, dropping the
// client when its buffer is full.
func (h *Hub) sendTo(client *Client, message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- message:
		metrics.WSMessagesSent.Inc()
	default:
		h.dropClientLocked(client)
	}
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err() is
// not logged as an error because cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

// getShutdownReason determines the shutdown reason from the context error.
func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// sortedClientsLocked returns the clients ordered by ID. Callers hold h.mu.
// DETERMINISM: map iteration order is random; ID order is stable.
func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends a message to all connected clients in ID order.
// A client whose buffer is full is disconnected; it can reconnect and will
// receive the latest state on registration.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClientsLocked() {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		h.dropClientLocked(client)
	}
}

func (h *Hub) dropClientLocked(client *Client) {
	metrics.WSMessagesDropped.Inc()
	close(client.send)
	delete(h.clients, client)
	metrics.WSConnections.Dec()
	logging.Warn().Uint64("client_id", client.id).Msg("websocket client too slow, disconnecting")
}

// closeAllClients closes every connected client in ID order.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClientsLocked()
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Sub(float64(len(clients)))
}

// BroadcastJSON sends a message to all connected clients. It drops the
// message when the broadcast queue is full.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
