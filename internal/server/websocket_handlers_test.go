package server

import (
	"net/http"
	"testing"

	"zestyy/internal/config"
	"zestyy/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketRequiresUpgrade(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{Env: "test", JWTSecret: "test-secret", FeedLimit: 50}
	srv, err := NewServerWithDeps(cfg, testutil.NewDB(t), rdb)
	require.NoError(t, err)
	require.NotNil(t, srv.hub)
	require.NotNil(t, srv.notifier)

	ts := &testServer{srv: srv, app: srv.NewApp()}
	token, _ := ts.register(t, "alice")

	// a plain GET is not an upgrade request
	assert.Equal(t, http.StatusUpgradeRequired, ts.do(t, http.MethodGet, "/api/ws?token="+token, "", nil, nil))

	var body map[string]interface{}
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/ready", "", nil, &body))
	assert.Equal(t, "healthy", body["checks"].(map[string]interface{})["redis"])
}
