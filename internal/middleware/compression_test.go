package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompressionRouter(cm *CompressionMiddleware, body string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(cm.Handler())
	r.GET("/data", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, body)
	})
	return r
}

func TestCompressLargeJSONResponse(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	body := `{"data":"` + strings.Repeat("abcdefgh", 512) + `"}`
	r := newCompressionRouter(cm, body)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	decoded, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, body, string(decoded))

	stats := cm.GetStats()
	assert.Equal(t, int64(1), stats["compressed_requests"])
}

func TestStatsRecordWireBytes(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	body := strings.Repeat("0123456789", 1024)
	r := newCompressionRouter(cm, body)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	stats := cm.GetStats()
	assert.Equal(t, int64(len(body)), stats["total_bytes"])

	// Compressed bytes are what went on the wire, not the input size
	assert.Equal(t, int64(w.Body.Len()), stats["compressed_bytes"])
	assert.Less(t, stats["compressed_bytes"].(int64), int64(len(body)/2))
	assert.Less(t, stats["compression_ratio"].(float64), 0.5)
}

func TestSmallResponsePassesThrough(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	body := `{"ok":true}`
	r := newCompressionRouter(cm, body)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}

func TestClientWithoutGzipGetsPlainResponse(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	body := strings.Repeat("x", 4096)
	r := newCompressionRouter(cm, body)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/data", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}
