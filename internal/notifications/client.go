package notifications

import (
	"log/slog"
	"sync"
	"time"

	"zestyy/internal/middleware"
	"zestyy/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one websocket connection. Events only flow server to client;
// anything the browser sends is read and discarded.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	queue  chan []byte
	done   chan struct{}
	once   sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		queue:  make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Serve pumps queued events to the socket until either side goes away.
// It blocks for the life of the connection.
func (c *Client) Serve() {
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) readLoop() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				middleware.Logger.Debug("websocket closed unexpectedly", slog.String("user_id", c.userID), slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		var (
			kind = websocket.TextMessage
			data []byte
		)
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "connection closed"))
			return
		case data = <-c.queue:
		case <-ping.C:
			kind = websocket.PingMessage
		}

		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(kind, data); err != nil {
			return
		}
	}
}

// enqueue never blocks. Events for a stopped or backed-up client are dropped.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		observability.WebSocketBackpressureDrops.WithLabelValues("closed").Inc()
		return false
	default:
	}

	select {
	case c.queue <- payload:
		return true
	default:
		observability.WebSocketBackpressureDrops.WithLabelValues("full").Inc()
		middleware.Logger.Warn("websocket queue full, event dropped", slog.String("user_id", c.userID))
		return false
	}
}

func (c *Client) stop() {
	c.once.Do(func() { close(c.done) })
}
