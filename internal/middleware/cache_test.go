package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[1,2]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[1,2]`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, cw.overflowed())

	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)
	assert.True(t, cw.overflowed())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func newContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "10.0.0.7:5000"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/shop/clients/top/category")
	return c
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
	cfg := config.CacheConfig{KeyStrategy: "route_query", Prefix: "shop:cache"}
	a := cacheKeyFrom(cfg, newContext(http.MethodGet, "/shop/clients/top/category?category=toys"))
	b := cacheKeyFrom(cfg, newContext(http.MethodGet, "/shop/clients/top/category?category=food"))
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "shop:cache:")

	cfg.KeyStrategy = "route"
	a = cacheKeyFrom(cfg, newContext(http.MethodGet, "/shop/clients/top/category?category=toys"))
	b = cacheKeyFrom(cfg, newContext(http.MethodGet, "/shop/clients/top/category?category=food"))
	assert.Equal(t, a, b)
}

func TestRateKeyStrategies(t *testing.T) {
	c := newContext(http.MethodPost, "/login")
	c.SetPath("/login")

	cfg := config.RateLimitConfig{Prefix: "shop:rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "shop:rl:ip:10.0.0.7:route:POST /login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "shop:rl:user:anon", buildRateKey(cfg, c))
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	called := 0
	next := func(echo.Context) error { called++; return nil }
	c := newContext(http.MethodGet, "/shop/clients/top")

	require.NoError(t, NewRedisCache(config.CacheConfig{Enabled: true}, nil)(next)(c))
	require.NoError(t, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)(next)(c))
	assert.Equal(t, 2, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"))
}
