// Package cache builds the Redis client shared by realtime delivery and rate limiting.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"zestyy/internal/middleware"
	"zestyy/internal/observability"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// errorCounter feeds RedisErrorRate. Cache misses are not errors.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countError(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countError("pipeline", err)
		return err
	}
}

func countError(op string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		observability.RedisErrorRate.WithLabelValues(op).Inc()
	}
}

// NewClient accepts either host:port or a redis:// URL.
func NewClient(addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}

	c := redis.NewClient(opts)
	c.AddHook(errorCounter{})
	return c, nil
}

// Connect returns a pinged client, or nil when addr is empty or Redis cannot
// be reached. Redis is optional: without it the API serves requests but
// skips realtime delivery and rate limiting.
func Connect(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		middleware.Logger.InfoContext(ctx, "Redis not configured, realtime delivery disabled")
		return nil
	}

	c, err := NewClient(addr)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Redis disabled", slog.String("error", err.Error()))
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "Redis unreachable, continuing without it", slog.String("error", err.Error()))
		_ = c.Close()
		return nil
	}

	middleware.Logger.InfoContext(ctx, "Redis connected", slog.String("addr", c.Options().Addr))
	return c
}
