package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"zestyy/internal/middleware"
	"zestyy/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerUser = 12
	maxTotalConns   = 10000
)

var (
	ErrHubClosed          = errors.New("realtime hub is shut down")
	ErrHubFull            = errors.New("realtime connection limit reached")
	ErrTooManyConnections = errors.New("too many realtime connections for this user")
)

// Hub tracks the open websocket connections of each user on this instance
// and hands them the events published for that user.
type Hub struct {
	mu     sync.RWMutex
	users  map[string]map[*Client]struct{}
	total  int
	closed bool
}

func NewHub() *Hub {
	return &Hub{users: make(map[string]map[*Client]struct{})}
}

// Register adds conn as one of userID's live connections.
func (h *Hub) Register(userID string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case h.closed:
		return nil, ErrHubClosed
	case h.total >= maxTotalConns:
		return nil, ErrHubFull
	case len(h.users[userID]) >= maxConnsPerUser:
		return nil, ErrTooManyConnections
	}

	if h.users[userID] == nil {
		h.users[userID] = make(map[*Client]struct{})
	}
	c := newClient(h, conn, userID)
	h.users[userID][c] = struct{}{}
	h.total++
	observability.WebSocketConnectionsTotal.Inc()
	return c, nil
}

// Unregister drops c and stops its writer. Repeated calls are no-ops.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.users[c.userID]
	if ok {
		if _, live := set[c]; live {
			delete(set, c)
			h.total--
			observability.WebSocketConnectionsTotal.Dec()
		}
		if len(set) == 0 {
			delete(h.users, c.userID)
		}
	}
	h.mu.Unlock()

	c.stop()
}

// Deliver queues payload on every connection of userID and returns how many
// accepted it.
func (h *Hub) Deliver(userID string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	queued := 0
	for c := range h.users[userID] {
		if c.enqueue(payload) {
			queued++
		}
	}
	return queued
}

// Connections returns how many sockets userID has open here.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Listen forwards events published for any user to that user's local
// connections until ctx ends.
func (h *Hub) Listen(ctx context.Context, n *Notifier) error {
	return n.Subscribe(ctx, func(channel, payload string) {
		userID, ok := UserFromChannel(channel)
		if !ok {
			middleware.Logger.Warn("ignoring event on unexpected channel", slog.String("channel", channel))
			return
		}
		h.Deliver(userID, []byte(payload))
	})
}

// Shutdown stops every connection and refuses new ones.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	// each writer sends the close frame and closes its own socket
	for _, set := range h.users {
		for c := range set {
			c.stop()
		}
	}
	observability.WebSocketConnectionsTotal.Sub(float64(h.total))
	h.users = make(map[string]map[*Client]struct{})
	h.total = 0
	return nil
}
