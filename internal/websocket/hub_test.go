// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/poiscope/internal/discovery"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates and starts a new hub for testing
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection for testing
func createTestClient(hub *Hub) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan Message, sendBufferSize),
		pong: make(chan struct{}, 1),
	}
}

// registerClient registers a client and waits for registration to complete
func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	time.Sleep(20 * time.Millisecond)
}

// receive waits for the next message on a client's send channel.
func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
	return Message{}
}

func testSnapshot(epoch uint64, phase discovery.Phase, names ...string) discovery.Snapshot {
	pois := make([]models.POI, 0, len(names))
	for i, name := range names {
		pois = append(pois, models.POI{ID: "test:" + name, Name: name, Type: models.TypeMuseum, DistanceMeters: float64(i * 100)})
	}
	return discovery.Snapshot{
		Phase:    phase,
		Epoch:    epoch,
		Category: models.CategoryAttraction,
		Ranked:   pois,
		Filtered: pois,
		Display:  pois,
	}
}

func stateData(t *testing.T, msg Message) DiscoveryStateData {
	t.Helper()
	if msg.Type != MessageTypeDiscoveryState {
		t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeDiscoveryState)
	}
	data, ok := msg.Data.(DiscoveryStateData)
	if !ok {
		t.Fatalf("message data has type %T", msg.Data)
	}
	return data
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	checks := []struct {
		name   string
		check  bool
		errMsg string
	}{
		{"clients map", hub.clients != nil, "clients map not initialized"},
		{"broadcast channel", hub.broadcast != nil, "broadcast channel not initialized"},
		{"Register channel", hub.Register != nil, "Register channel not initialized"},
		{"Unregister channel", hub.Unregister != nil, "Unregister channel not initialized"},
		{"pending channel", cap(hub.pending) == 1, "pending channel should hold one signal"},
		{"empty clients", len(hub.clients) == 0, "clients map should be empty"},
	}

	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_ClientRegistration(t *testing.T) {
	hub := setupHub(t)
	before := testutil.ToFloat64(metrics.WSConnections)
	client := createTestClient(hub)
	registerClient(hub, client)

	if hub.GetClientCount() != 1 {
		t.Errorf("Expected 1 client, got %d", hub.GetClientCount())
	}
	if got := testutil.ToFloat64(metrics.WSConnections) - before; got != 1 {
		t.Errorf("ws connections gauge delta = %v, want 1", got)
	}

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)

	if got := testutil.ToFloat64(metrics.WSConnections) - before; got != 0 {
		t.Errorf("ws connections gauge delta after unregister = %v, want 0", got)
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHub_UnregisterNonExistentClient(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.GetClientCount())
	}
}

func TestHub_SnapshotBroadcast(t *testing.T) {
	hub := setupHub(t)
	clients := []*Client{createTestClient(hub), createTestClient(hub)}
	for _, c := range clients {
		registerClient(hub, c)
	}

	sentBefore := testutil.ToFloat64(metrics.WSMessagesSent)
	hub.OnSnapshot(testSnapshot(1, discovery.PhaseComplete, "Louvre", "Orsay"))

	for _, c := range clients {
		data := stateData(t, receive(t, c))
		if data.Epoch != 1 || data.Phase != discovery.PhaseComplete {
			t.Errorf("got epoch %d phase %s", data.Epoch, data.Phase)
		}
		if len(data.POIs) != 2 || data.POIs[0].Name != "Louvre" {
			t.Errorf("unexpected pois: %+v", data.POIs)
		}
		if data.Total != 2 || data.Matched != 2 {
			t.Errorf("total/matched = %d/%d, want 2/2", data.Total, data.Matched)
		}
	}

	if got := testutil.ToFloat64(metrics.WSMessagesSent) - sentBefore; got != 2 {
		t.Errorf("messages sent delta = %v, want 2", got)
	}
}

func TestHub_NewClientReceivesLatestState(t *testing.T) {
	hub := setupHub(t)
	hub.OnSnapshot(testSnapshot(3, discovery.PhasePhase2Loading, "Louvre"))
	time.Sleep(20 * time.Millisecond)

	client := createTestClient(hub)
	hub.Register <- client

	data := stateData(t, receive(t, client))
	if data.Epoch != 3 || data.Phase != discovery.PhasePhase2Loading {
		t.Errorf("initial state epoch %d phase %s, want 3 phase2_loading", data.Epoch, data.Phase)
	}
}

func TestHub_CoalescesSnapshots(t *testing.T) {
	hub := NewHub()
	client := createTestClient(hub)
	hub.clients[client] = true

	// OnSnapshot must never block even when the run loop is not consuming.
	for i := uint64(1); i <= 50; i++ {
		hub.OnSnapshot(testSnapshot(i, discovery.PhasePhase1Partial, "Louvre"))
	}
	hub.OnSnapshot(testSnapshot(51, discovery.PhaseComplete, "Louvre"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	data := stateData(t, receive(t, client))
	if data.Epoch != 51 || data.Phase != discovery.PhaseComplete {
		t.Errorf("coalesced state epoch %d phase %s, want 51 complete", data.Epoch, data.Phase)
	}

	select {
	case msg := <-client.send:
		t.Errorf("unexpected extra message %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := setupHub(t)
	slow := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 1), pong: make(chan struct{}, 1)}
	fast := createTestClient(hub)
	registerClient(hub, slow)
	registerClient(hub, fast)

	droppedBefore := testutil.ToFloat64(metrics.WSMessagesDropped)
	hub.BroadcastJSON("first", nil)
	receive(t, fast)
	hub.BroadcastJSON("second", nil)
	receive(t, fast)

	time.Sleep(20 * time.Millisecond)
	if hub.GetClientCount() != 1 {
		t.Fatalf("Expected slow client to be dropped, %d clients remain", hub.GetClientCount())
	}
	if got := testutil.ToFloat64(metrics.WSMessagesDropped) - droppedBefore; got != 1 {
		t.Errorf("dropped delta = %v, want 1", got)
	}
}

func TestHub_BroadcastJSONQueueFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.BroadcastJSON("fill", i)
	}

	droppedBefore := testutil.ToFloat64(metrics.WSMessagesDropped)
	hub.BroadcastJSON("overflow", nil)
	if got := testutil.ToFloat64(metrics.WSMessagesDropped) - droppedBefore; got != 1 {
		t.Errorf("dropped delta = %v, want 1", got)
	}
}

func TestHub_RunWithContextShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	clients := []*Client{createTestClient(hub), createTestClient(hub)}
	for _, c := range clients {
		registerClient(hub, c)
	}

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected all clients closed, got %d", hub.GetClientCount())
	}
	for _, c := range clients {
		if _, ok := <-c.send; ok {
			t.Error("client send channel should be closed")
		}
	}
}

func TestGetShutdownReason(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	<-expired.Done()

	tests := []struct {
		name string
		ctx  context.Context
		want ShutdownReason
	}{
		{"canceled", canceled, ShutdownReasonContextCanceled},
		{"deadline", expired, ShutdownReasonContextDeadline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getShutdownReason(tt.ctx); got != tt.want {
				t.Errorf("getShutdownReason() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewDiscoveryStateData(t *testing.T) {
	snap := testSnapshot(7, discovery.PhaseComplete, "Louvre", "Orsay", "Pompidou")
	snap.Filtered = snap.Ranked[:2]
	snap.Display = snap.Ranked[:1]
	snap.SearchText = "o"

	data := NewDiscoveryStateData(&snap)
	if data.Total != 3 || data.Matched != 2 || len(data.POIs) != 1 {
		t.Errorf("total/matched/pois = %d/%d/%d, want 3/2/1", data.Total, data.Matched, len(data.POIs))
	}
	if data.SearchText != "o" {
		t.Errorf("search text = %q", data.SearchText)
	}

	empty := discovery.Snapshot{Phase: discovery.PhaseIdle}
	if got := NewDiscoveryStateData(&empty).POIs; got == nil {
		t.Error("POIs should encode as an empty list, not null")
	}
}
