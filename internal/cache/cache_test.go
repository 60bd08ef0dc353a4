package cache

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type countingMetrics struct {
	hits   int
	misses int
}

func (m *countingMetrics) IncrementCacheHit()  { m.hits++ }
func (m *countingMetrics) IncrementCacheMiss() { m.misses++ }

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key1", []byte("value1"))

	data, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, []byte("value1"), data)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("key1", []byte("value1"))
	_, found := c.Get("key1")
	assert.True(t, found)

	time.Sleep(20 * time.Millisecond)

	_, found = c.Get("key1")
	assert.False(t, found)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	assert.Equal(t, 2, c.Size())

	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 0, stats["expired_items"])
	assert.Equal(t, 1, stats["active_items"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])
}

func TestCacheKeyConsistency(t *testing.T) {
	c := NewCache(time.Minute)

	key1 := c.generateKey(`{"text": "hello"}`)
	key2 := c.generateKey(`{"text": "hello"}`)
	key3 := c.generateKey(`{"text": "world"}`)

	assert.Equal(t, key1, key2)
	assert.NotEqual(t, key1, key3)
	assert.Len(t, key1, 64)
}

func setupCachedRouter(c *Cache, metrics Metrics, handlerCalls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/analyze", c.Middleware(metrics), func(ctx *gin.Context) {
		*handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"result": "fresh"})
	})
	return r
}

func TestMiddlewareCachesIdenticalRequests(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := &countingMetrics{}
	handlerCalls := 0
	r := setupCachedRouter(c, metrics, &handlerCalls)

	body := `{"text": "some input"}`
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"result": "fresh"}`, w.Body.String())
	}

	assert.Equal(t, 1, handlerCalls)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 2, metrics.hits)
}

func TestMiddlewareDistinguishesBodies(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := &countingMetrics{}
	handlerCalls := 0
	r := setupCachedRouter(c, metrics, &handlerCalls)

	for _, body := range []string{`{"text": "one"}`, `{"text": "two"}`} {
		req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, handlerCalls)
	assert.Equal(t, 2, metrics.misses)
	assert.Equal(t, 0, metrics.hits)
}

func TestMiddlewareSkipsNonAnalyzePaths(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := &countingMetrics{}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/other", c.Middleware(metrics), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest("POST", "/api/v1/other", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 0, metrics.misses)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 0, c.Size())
}

func TestMiddlewareDoesNotCacheErrors(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := &countingMetrics{}
	handlerCalls := 0

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/analyze", c.Middleware(metrics), func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad input"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"text": ""}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	assert.Equal(t, 2, handlerCalls)
	assert.Equal(t, 0, c.Size())
}
