// Package broadcast fans a "state changed" cue out to connected consumers.
// The signal carries no payload beyond a timestamp and a correlation id: it
// tells consumers that something changed, not what. Consumers re-fetch on
// receipt, so missed signals are harmless.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/prediction-league/metrics"
)

// Signal is the change cue pushed to every subscriber.
type Signal struct {
	ChangedAt     time.Time `json:"changed_at"`
	CorrelationID string    `json:"correlation_id"`
}

// sweepInterval bounds registry growth: dead sessions are evicted on this
// cadence even if no broadcast ever triggers.
const sweepInterval = 30 * time.Second

// Hub maintains the set of subscribed clients. The registry is local to
// this process; a consumer connected to another instance will not receive
// this instance's signals (see DESIGN.md for the multi-instance note).
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run services subscriptions and the liveness sweep until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case <-sweep.C:
			h.evictDead()
		}
	}
}

// Register adds a client to the registry. After shutdown the session is
// closed immediately instead of blocking on a loop that no longer runs.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.markClosed()
	}
}

// Unregister removes a client. A pump exiting after shutdown falls back to
// the direct removal path so it never blocks.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.remove(client)
	}
}

// NotifyChange pushes a fresh signal to every subscriber and returns the
// number of clients it was queued to. Per-consumer failures (full buffer,
// closed session) mark that client dead without affecting the rest.
func (h *Hub) NotifyChange() int {
	signal := Signal{
		ChangedAt:     time.Now().UTC(),
		CorrelationID: uuid.NewString(),
	}
	payload, err := json.Marshal(signal)
	if err != nil {
		h.logger.Error("failed to marshal change signal", slog.Any("error", err))
		return 0
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, client := range clients {
		if client.trySend(payload) {
			delivered++
		} else {
			h.remove(client)
		}
	}

	metrics.BroadcastsSent.Inc()
	h.logger.Info("change signal broadcast",
		slog.String("correlation_id", signal.CorrelationID),
		slog.Int("delivered", delivered))
	return delivered
}

// SubscriberCount reports the current registry size.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("subscriber connected", slog.Int("total", total))
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		client.markClosed()
		h.logger.Info("subscriber removed", slog.Int("total", total))
	}
}

func (h *Hub) evictDead() {
	h.mu.Lock()
	evicted := 0
	for client := range h.clients {
		if client.isClosed() {
			delete(h.clients, client)
			evicted++
		}
	}
	h.mu.Unlock()

	if evicted > 0 {
		h.logger.Info("evicted dead subscribers", slog.Int("count", evicted))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		client.markClosed()
	}
	h.mu.Unlock()
}
