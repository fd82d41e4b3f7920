package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit_Bypass(t *testing.T) {
	for _, env := range []string{"test", "development", "stress"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestCheckRateLimit_NilRedisInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_WindowExpires(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "post", "user:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := CheckRateLimit(ctx, rdb, "post", "user:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// other identities have their own bucket
	allowed, err = CheckRateLimit(ctx, rdb, "post", "user:2", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "post", "user:1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("limits in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer func() { _ = rdb.Close() }()

		app := fiber.New()
		app.Post("/login", RateLimit(rdb, 1, time.Minute, "login"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
	})

	t.Run("bypassed outside production", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		app := fiber.New()
		app.Post("/x", RateLimitWithPolicy(nil, 0, time.Minute, FailClosed), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("fail closed without redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Post("/x", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("fail open without redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Post("/x", RateLimit(nil, 1, time.Minute), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
