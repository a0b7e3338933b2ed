package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()
	m.IncrementScoreRequests()
	m.IncrementCatalogSearches()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["request_count"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, int64(1), stats["cache_hits"])
	assert.Equal(t, int64(1), stats["cache_misses"])
	assert.Equal(t, int64(1), stats["score_requests"])
	assert.Equal(t, int64(1), stats["catalog_searches"])
}

func TestMetricsStatusTracking(t *testing.T) {
	m := NewMetrics()

	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(400)

	stats := m.GetStats()
	byStatus, ok := stats["requests_by_status"].(map[int]int64)
	require.True(t, ok)
	assert.Equal(t, int64(2), byStatus[200])
	assert.Equal(t, int64(1), byStatus[400])
}

func TestMetricsPercentiles(t *testing.T) {
	m := NewMetrics()

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	stats := m.GetStats()
	assert.Equal(t, int64(50), stats["response_time_p50_ms"])
	assert.Equal(t, int64(95), stats["response_time_p95_ms"])
	assert.Equal(t, int64(99), stats["response_time_p99_ms"])
}

func TestMetricsResponseTimeWindowIsBounded(t *testing.T) {
	m := NewMetrics()

	for i := 0; i < 1500; i++ {
		m.RecordResponseTime(time.Millisecond)
	}

	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()
	assert.LessOrEqual(t, len(m.ResponseTimes), 1000)
}
