package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"zestyy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when Redis cannot be reached.
type FailPolicy int

const (
	FailOpen FailPolicy = iota
	FailClosed
)

var errNoRateLimitStore = errors.New("rate limit store not configured")

// rateLimitBypassed reports whether APP_ENV disables throttling (unset, test, development, stress).
func rateLimitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// window is the state of one fixed-window counter after a hit.
type window struct {
	count int64
	reset time.Duration
}

// hit counts one request against key and returns the window state. The
// expiry is set only when the counter has none, so the window is fixed from
// its first hit.
func hit(ctx context.Context, rdb *redis.Client, key string, length time.Duration) (window, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return window{}, err
	}

	w := window{count: incr.Val(), reset: ttl.Val()}
	if w.reset < 0 {
		if err := rdb.PExpire(ctx, key, length).Err(); err != nil {
			return window{}, err
		}
		w.reset = length
	}
	return w, nil
}

// CheckRateLimit counts one hit for resource/id and reports whether it is
// within limit per window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, length time.Duration) (bool, error) {
	if rateLimitBypassed() {
		return true, nil
	}
	if rdb == nil {
		return false, errNoRateLimitStore
	}
	w, err := hit(ctx, rdb, "rl:"+resource+":"+id, length)
	if err != nil {
		return false, err
	}
	return w.count <= int64(limit), nil
}

// RateLimit throttles to limit requests per window for each signed-in user,
// or per IP for anonymous callers. It fails open. name groups routes into one
// bucket and defaults to the request path.
func RateLimit(rdb *redis.Client, limit int, length time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, length, FailOpen, name...)
}

func RateLimitWithPolicy(rdb *redis.Client, limit int, length time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rateLimitBypassed() {
			return c.Next()
		}

		resource := c.Path()
		if len(name) > 0 && name[0] != "" {
			resource = name[0]
		}
		who := "ip:" + c.IP()
		if uid := CurrentUserID(c); uid != "" {
			who = "user:" + uid
		}

		var (
			w   window
			err = errNoRateLimitStore
		)
		if rdb != nil {
			w, err = hit(c.UserContext(), rdb, "rl:"+resource+":"+who, length)
		}
		if err != nil {
			if policy == FailOpen {
				return c.Next()
			}
			Logger.WarnContext(c.UserContext(), "rate limiter unavailable, rejecting request",
				slog.String("resource", resource), slog.String("error", err.Error()))
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error: "Rate limiting unavailable",
				Code:  models.CodeInternal,
			})
		}

		remaining := int64(limit) - w.count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if w.count > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(w.reset.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, try again later",
				Code:  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
