package server

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Hub maintains the set of connected event-stream clients and fans
// pipeline observations out to them. Clients are read-only observers;
// nothing they send can affect pipeline state.
type Hub struct {
	clients    map[string]*client
	register   chan *client
	unregister chan *client

	mu sync.RWMutex

	dropped atomic.Uint64

	log *zap.Logger
}

// StreamMessage is the envelope every stream frame is wrapped in.
type StreamMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewHub creates a Hub. Run must be started for clients to connect.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		log:        log,
	}
}

// Run processes client registration until the context is canceled,
// then closes every connected client.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.log.Info("stream client connected", zap.String("client", c.id))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			h.log.Info("stream client disconnected", zap.String("client", c.id))

		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()
			return ctx.Err()
		}
	}
}

// Broadcast sends a typed payload to every connected client. It never
// blocks: a client whose send buffer is full skips the message.
func (h *Hub) Broadcast(topic string, payload any) {
	msg := StreamMessage{
		Type:      topic,
		Timestamp: time.Now(),
		Data:      payload,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("marshal stream message", zap.String("type", topic), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped.Add(1)
		}
	}
}

// Dropped reports how many messages were skipped because a client's
// send buffer was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// ClientCount reports how many stream clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
