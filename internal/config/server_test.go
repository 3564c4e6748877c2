package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg *Config) (*Dependencies, http.Handler) {
	t.Helper()
	deps, err := BuildDependencies(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	return deps, NewRouter(cfg, deps)
}

func get(handler http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestNewRouter_MemoryStore(t *testing.T) {
	deps, router := newTestServer(t, validConfig())
	assert.Nil(t, deps.DB)
	assert.Nil(t, deps.CallerTokens)

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(router, "/api/v1/spotify/users/user-1/connection")
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, false, status["connected"])

	w = get(router, "/api/v1/spotify/users/user-1/top-tracks")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(router, "/auth/spotify/authorize?user_id=user-1")
	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.spotify.com", location.Host)
	assert.Equal(t, "user-1", location.Query().Get("state"))
	assert.Equal(t, "client-id", location.Query().Get("client_id"))
}

func TestNewRouter_CallerAuth(t *testing.T) {
	cfg := validConfig()
	cfg.Security.CallerAuth = CallerAuthConfig{Enabled: true, SigningKey: "caller-key", Issuer: "looply"}
	deps, router := newTestServer(t, cfg)
	require.NotNil(t, deps.CallerTokens)

	w := get(router, "/api/v1/spotify/users/user-1/connection")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := deps.CallerTokens.IssueToken("user-1", time.Minute)
	require.NoError(t, err)

	w = get(router, "/api/v1/spotify/users/user-1/connection", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/api/v1/spotify/users/user-2/connection", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// callback і health доступні без токена
	w = get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	w = get(router, "/auth/spotify/callback?error=access_denied")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildDependencies_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := validConfig()
	cfg.Redis = RedisConfig{Enabled: true, Host: mr.Host(), Port: port, LockExpiry: "5s"}

	deps, router := newTestServer(t, cfg)
	require.NotNil(t, deps.Redis)

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"redis": "ok"}, body["dependencies"])

	mr.Close()
	w = get(router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBuildDependencies_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	cfg := validConfig()
	cfg.Redis = RedisConfig{Enabled: true, Host: host, Port: port}

	_, err = BuildDependencies(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestNewRouter_RateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Security.RateLimit = RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	_, router := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, get(router, "/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/health").Code)
}
