// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nestscout/nestscout/internal/logging"
	"github.com/nestscout/nestscout/internal/metrics"
)

// Message types pushed to connected clients.
const (
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
	MessageTypeModelPromoted = "model_promoted"
	MessageTypeTrainingDone  = "training_completed"
	MessageTypeSeedDone      = "seed_completed"
)

// Message is one WebSocket frame payload.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to
// them. Lifecycle events take priority over broadcasts so client state
// is consistent before messages flow.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Serve runs the hub until the context is canceled, then closes every
// client and returns ctx.Err(). Designed for suture supervision.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		// Lifecycle events are drained before broadcasts; Go's select
		// picks randomly among ready channels otherwise.
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String names the service in supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logger := logging.Logger()
	logger.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logger := logging.Logger()
	logger.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// broadcastToClients sends a message to all clients in client-ID order.
// A client whose send buffer is full is dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}
	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)
	logger := logging.Logger()
	logger.Info().
		Str("component", "websocket-hub").
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// ModelPromotedData is sent with model_promoted messages.
type ModelPromotedData struct {
	Version   string  `json:"version"`
	F1        float64 `json:"f1_score"`
	Timestamp string  `json:"timestamp"`
}

// BroadcastModelPromoted notifies all clients that a new model is live.
func (h *Hub) BroadcastModelPromoted(version string, f1 float64) {
	h.enqueue(Message{
		Type: MessageTypeModelPromoted,
		Data: ModelPromotedData{
			Version:   version,
			F1:        f1,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// BroadcastJSON sends an arbitrary typed payload to all clients.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	h.enqueue(Message{Type: messageType, Data: data})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		logger := logging.Logger()
		logger.Warn().
			Str("message_type", message.Type).
			Msg("broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
