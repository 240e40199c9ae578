package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinebook/internal/account"
	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/model"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func do(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestResponseCache_MissThenHit(t *testing.T) {
	rdb := newRedis(t)
	rc := NewResponseCache(config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}, rdb)

	calls := 0
	e := echo.New()
	e.Use(rc.Middleware())
	e.GET("/v1/movies/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]any{"id": c.Param("id"), "calls": calls})
	})

	first := do(e, http.MethodGet, "/v1/movies/1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(e, http.MethodGet, "/v1/movies/1")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))

	other := do(e, http.MethodGet, "/v1/movies/2")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	require.NoError(t, rc.Purge(context.Background()))
	again := do(e, http.MethodGet, "/v1/movies/1")
	assert.Equal(t, "MISS", again.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls)
}

func TestResponseCache_SkipsErrorsAndDisabled(t *testing.T) {
	rdb := newRedis(t)
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, Prefix: "cache"}, rdb)

	e := echo.New()
	e.Use(rc.Middleware())
	e.GET("/missing", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	})
	do(e, http.MethodGet, "/missing")
	rec := do(e, http.MethodGet, "/missing")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	off := NewResponseCache(config.CacheConfig{Enabled: true}, nil)
	assert.NoError(t, off.Purge(context.Background()))
	e2 := echo.New()
	e2.Use(off.Middleware())
	e2.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") })
	assert.Empty(t, do(e2, http.MethodGet, "/x").Header().Get("X-Cache"))
}

func TestTokenBucket_BlocksAfterCapacity(t *testing.T) {
	rdb := newRedis(t)
	mw := NewTokenBucket(config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}, rdb)

	e := echo.New()
	e.Use(mw)
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz").Code)
	rec := do(e, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	blocked := do(e, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
}

func TestTokenBucket_NoRedisPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz").Code)
	}
}

type fakeSessions struct {
	user model.User
	ok   bool
}

func (f fakeSessions) Session(context.Context) (model.User, error) {
	if !f.ok {
		return model.User{}, account.ErrNoSession
	}
	return f.user, nil
}

func TestRequireSession(t *testing.T) {
	handler := func(c echo.Context) error {
		u, _ := CurrentUser(c)
		return c.String(http.StatusOK, u.Name+":"+userID(c))
	}

	guest := echo.New()
	guest.Use(LoadSession(fakeSessions{}))
	guest.GET("/v1/me", handler, RequireSession())
	assert.Equal(t, http.StatusUnauthorized, do(guest, http.MethodGet, "/v1/me").Code)

	signed := echo.New()
	signed.Use(LoadSession(fakeSessions{user: model.User{ID: 42, Name: "Alice"}, ok: true}))
	signed.GET("/v1/me", handler, RequireSession())
	rec := do(signed, http.MethodGet, "/v1/me")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice:42", rec.Body.String())
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cities", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/cities")

	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:ip:10.0.0.1:user:guest:route:GET /v1/cities", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}
