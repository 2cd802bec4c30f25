// Package metrics provides a Prometheus-backed ports.MetricsCollector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

// PrometheusMetrics implements ports.MetricsCollector with counters for
// outbound API calls and cache hits/misses, a histogram of match latency,
// and a gauge of in-flight dispatcher permits.
type PrometheusMetrics struct {
	apiCalls        *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	matchLatency    prometheus.Histogram
	dispatcherGauge prometheus.Gauge
}

// NewPrometheusMetrics registers and returns a PrometheusMetrics collector
// in the default Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		apiCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qsort_judge_api_calls_total",
				Help: "Total number of comparison calls issued to a judge provider.",
			},
			[]string{"provider"},
		),
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qsort_cache_hits_total",
			Help: "Total number of comparison cache hits.",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "qsort_cache_misses_total",
			Help: "Total number of comparison cache misses.",
		}),
		matchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "qsort_match_duration_seconds",
			Help:    "Wall-clock time to run all rounds of one scheduled match.",
			Buckets: prometheus.DefBuckets,
		}),
		dispatcherGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "qsort_dispatcher_in_flight",
			Help: "Number of judge calls currently holding a dispatcher permit.",
		}),
	}
}

// RecordAPICall implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordAPICall(provider string) {
	m.apiCalls.WithLabelValues(provider).Inc()
}

// RecordCacheHit implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordCacheHit() { m.cacheHits.Inc() }

// RecordCacheMiss implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordCacheMiss() { m.cacheMisses.Inc() }

// RecordMatchLatency implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordMatchLatency(d time.Duration) {
	m.matchLatency.Observe(d.Seconds())
}

// RecordDispatcherInFlight implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordDispatcherInFlight(n int) {
	m.dispatcherGauge.Set(float64(n))
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
