package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/approvals/:id/approve", NormalizeEndpoint("/approvals/42/approve"))
	assert.Equal(t, "/notices/search", NormalizeEndpoint("/notices/search?title=a%20b"))
	assert.Equal(t, "/meetings/:id", NormalizeEndpoint("/meetings/3f2c1a9e-8b7d-4c6e-9f10-1234567890ab"))
	assert.Equal(t, "/approvals/my-pending", NormalizeEndpoint("/approvals/my-pending"))
}

func TestObserveRequestAndSnapshot(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/notices/7", 200, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/notices/8", 200, 5*time.Millisecond)
	m.RecordFailure("AUTH_FAILURE")
	m.RecordStaleDiscard("notices")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/notices/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failures.WithLabelValues("AUTH_FAILURE")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.staleDiscards.WithLabelValues("notices")))
	assert.Equal(t, uint64(2), m.Snapshot().Requests)
}

func TestCacheHitRatio(t *testing.T) {
	m := New()
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(true)

	assert.InDelta(t, 0.75, testutil.ToFloat64(m.cacheHitRatio), 0.0001)
	snap := m.Snapshot()
	assert.Equal(t, uint64(3), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/x", 200, time.Millisecond)
		m.RecordFailure("X")
		m.RecordCacheLookup(true)
		m.RecordStaleDiscard("v")
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/auth/login", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "portal_api_requests_total"))
}
