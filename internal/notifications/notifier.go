// Package notifications provides real-time notification delivery over Redis and WebSockets.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"zestyy/internal/middleware"
	"zestyy/internal/observability"

	"github.com/redis/go-redis/v9"
)

const userChannelPrefix = "zestyy:events:user:"

// Event types pushed to clients.
const (
	EventNotification = "notification"
	EventMessage      = "message"
)

// Event is the envelope every realtime payload travels in.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Notifier publishes per-user events over Redis pub/sub so every API
// instance can reach the sockets it holds.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a raw payload to userID's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID string, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

// PublishEvent wraps data in an Event and publishes it to userID.
func (n *Notifier) PublishEvent(ctx context.Context, userID, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.PublishUser(ctx, userID, string(payload))
}

// Subscribe listens on every user channel and calls onMessage for each event
// until ctx is cancelled. It returns once the subscription is confirmed, so
// events published after it returns are not missed.
func (n *Notifier) Subscribe(ctx context.Context, onMessage func(channel, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		observability.RedisErrorRate.WithLabelValues("subscribe").Inc()
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

// UserFromChannel extracts the user ID from a user channel name.
func UserFromChannel(channel string) (string, bool) {
	if !strings.HasPrefix(channel, userChannelPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(channel, userChannelPrefix)
	return id, id != ""
}
