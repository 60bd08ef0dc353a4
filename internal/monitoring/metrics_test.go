package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()
	m.IncrementAnalyses()
	m.IncrementModelAPICalls()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, int64(1), stats["cache_hits"])
	assert.Equal(t, int64(1), stats["cache_misses"])
	assert.Equal(t, int64(1), stats["analyses_completed"])
	assert.Equal(t, int64(1), stats["model_api_calls"])
}

func TestMetricsPercentiles(t *testing.T) {
	m := NewMetrics()

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	p50 := m.GetPercentileResponseTime(50)
	p95 := m.GetPercentileResponseTime(95)
	p99 := m.GetPercentileResponseTime(99)

	assert.InDelta(t, 50, p50.Milliseconds(), 2)
	assert.InDelta(t, 95, p95.Milliseconds(), 2)
	assert.InDelta(t, 99, p99.Milliseconds(), 2)
	assert.True(t, p50 <= p95 && p95 <= p99)
}

func TestMetricsPercentilesEmpty(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(95))
}

func TestMetricsStatusCodeDistribution(t *testing.T) {
	m := NewMetrics()

	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(429)
	m.RecordRequestByStatus(500)

	dist := m.GetStatusCodeDistribution()
	assert.Equal(t, int64(2), dist[200])
	assert.Equal(t, int64(1), dist[429])
	assert.Equal(t, int64(1), dist[500])
}

func TestMetricsExternalAPIStats(t *testing.T) {
	m := NewMetrics()

	m.RecordExternalAPIRequest("model-api", true)
	m.RecordExternalAPIRequest("model-api", true)
	m.RecordExternalAPIRequest("model-api", false)

	stats := m.GetExternalAPIStats()
	apiStats, ok := stats["model-api"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, int64(3), apiStats["requests"])
	assert.Equal(t, int64(1), apiStats["errors"])
}

func TestMetricsRateLimitStats(t *testing.T) {
	m := NewMetrics()

	m.IncrementRateLimitIPBlock()
	m.IncrementRateLimitRedisError()
	m.IncrementRateLimitFallback()
	m.IncrementRateLimitEndpoint("analyze")
	m.IncrementRateLimitEndpoint("analyze")

	stats := m.GetRateLimitStats()
	assert.Equal(t, int64(1), stats["ip_blocks"])
	assert.Equal(t, int64(1), stats["redis_errors"])
	assert.Equal(t, int64(1), stats["fallback_count"])

	endpoints, ok := stats["endpoint_blocks"].(map[string]int64)
	assert.True(t, ok)
	assert.Equal(t, int64(2), endpoints["analyze"])
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementError()
	m.RecordResponseTime(time.Second)
	m.Reset()

	stats := m.GetStats()
	assert.Equal(t, int64(0), stats["total_requests"])
	assert.Equal(t, int64(0), stats["error_count"])
}
