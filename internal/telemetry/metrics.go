// Package telemetry records client-side Prometheus metrics.
package telemetry

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates Prometheus instrumentation for API calls, attachment
// caching and list loading. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	failures        *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheHitRatio   prometheus.Gauge
	staleDiscards   *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
	staleCount     uint64
	requestCount   uint64
}

// Snapshot is a point-in-time summary used by the CLI.
type Snapshot struct {
	Requests      uint64
	CacheHits     uint64
	CacheMisses   uint64
	StaleDiscards uint64
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_api_request_duration_seconds",
		Help:    "Duration of portal API calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_api_requests_total",
		Help: "Total number of portal API calls",
	}, []string{"method", "endpoint", "status"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_api_failures_total",
		Help: "Portal API failures by classification code",
	}, []string{"code"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attachment_cache_hits_total",
		Help: "Attachment content served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attachment_cache_misses_total",
		Help: "Attachment content fetched from the API",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "attachment_cache_hit_ratio",
		Help: "Ratio of attachment cache hits to lookups",
	})

	staleDiscards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "list_stale_responses_total",
		Help: "List responses discarded because a newer load was issued",
	}, []string{"view"})

	registry.MustRegister(requestDuration, requestTotal, failures, cacheHits, cacheMisses, cacheHitRatio, staleDiscards)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		failures:        failures,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		cacheHitRatio:   cacheHitRatio,
		staleDiscards:   staleDiscards,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one completed API call. status is 0 when no response arrived.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := NormalizeEndpoint(endpoint)
	statusLabel := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, label, statusLabel).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, label, statusLabel).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// RecordFailure counts a classified failure.
func (m *Metrics) RecordFailure(code string) {
	if m == nil || code == "" {
		return
	}
	m.failures.WithLabelValues(code).Inc()
}

// RecordCacheLookup records an attachment cache hit or miss and updates the hit ratio.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordStaleDiscard counts a list response dropped in favour of a newer load.
func (m *Metrics) RecordStaleDiscard(view string) {
	if m == nil {
		return
	}
	m.staleDiscards.WithLabelValues(view).Inc()
	atomic.AddUint64(&m.staleCount, 1)
}

// Snapshot returns aggregate counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Requests:      atomic.LoadUint64(&m.requestCount),
		CacheHits:     atomic.LoadUint64(&m.cacheHitCount),
		CacheMisses:   atomic.LoadUint64(&m.cacheMissCount),
		StaleDiscards: atomic.LoadUint64(&m.staleCount),
	}
}

var idSegment = regexp.MustCompile(`^([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`)

// NormalizeEndpoint strips the query and replaces id-like path segments with
// ":id" to keep label cardinality bounded.
func NormalizeEndpoint(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	parts := strings.Split(endpoint, "/")
	for i, part := range parts {
		if idSegment.MatchString(part) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
