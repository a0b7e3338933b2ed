package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	ScoreRequests       int64
	CatalogSearches     int64
	AverageResponseTime int64 // in nanoseconds
	StartTime           time.Time

	// Response time samples for percentiles
	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	// Status code tracking
	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementScoreRequests increments the count of scoring requests served
func (m *Metrics) IncrementScoreRequests() {
	atomic.AddInt64(&m.ScoreRequests, 1)
}

// IncrementCatalogSearches increments the count of best-of-catalog searches
func (m *Metrics) IncrementCatalogSearches() {
	atomic.AddInt64(&m.CatalogSearches, 1)
}

// RecordResponseTime records a response time sample, keeping a bounded window
func (m *Metrics) RecordResponseTime(d time.Duration) {
	m.ResponseTimesMutex.Lock()
	defer m.ResponseTimesMutex.Unlock()

	m.ResponseTimes = append(m.ResponseTimes, d)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[len(m.ResponseTimes)-1000:]
	}
}

// RecordRequestByStatus tracks requests per HTTP status code
func (m *Metrics) RecordRequestByStatus(status int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()

	m.RequestCountByStatus[status]++
}

// GetStats returns a snapshot of the collected metrics
func (m *Metrics) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"request_count":    atomic.LoadInt64(&m.RequestCount),
		"error_count":      atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":       atomic.LoadInt64(&m.CacheHits),
		"cache_misses":     atomic.LoadInt64(&m.CacheMisses),
		"score_requests":   atomic.LoadInt64(&m.ScoreRequests),
		"catalog_searches": atomic.LoadInt64(&m.CatalogSearches),
		"uptime_seconds":   time.Since(m.StartTime).Seconds(),
	}

	m.StatusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for code, n := range m.RequestCountByStatus {
		byStatus[code] = n
	}
	m.StatusMutex.RUnlock()
	stats["requests_by_status"] = byStatus

	m.ResponseTimesMutex.RLock()
	samples := append([]time.Duration(nil), m.ResponseTimes...)
	m.ResponseTimesMutex.RUnlock()

	if len(samples) > 0 {
		sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
		stats["response_time_p50_ms"] = percentile(samples, 0.50).Milliseconds()
		stats["response_time_p95_ms"] = percentile(samples, 0.95).Milliseconds()
		stats["response_time_p99_ms"] = percentile(samples, 0.99).Milliseconds()
	}

	return stats
}

// percentile expects sorted samples
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
