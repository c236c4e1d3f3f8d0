// Package monitoring wires Prometheus metrics and OpenTelemetry tracing.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mealplan"

// Metrics holds every collector the service exports
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	recommendationsTotal *prometheus.CounterVec
	recommendationScore  prometheus.Histogram
	pantryReplacements   prometheus.Counter
	pantrySize           prometheus.Histogram
	planEntriesTotal     *prometheus.CounterVec
	cacheLookups         *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests being served",
			},
		),
		recommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_total",
				Help:      "Recommendation requests served, by whether the empty-pantry fallback was used",
			},
			[]string{"fallback"},
		),
		recommendationScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recommendation_score",
				Help:      "Match ratio of recommended recipes",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		pantryReplacements: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pantry_replacements_total",
				Help:      "Completed pantry replacements",
			},
		),
		pantrySize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pantry_size",
				Help:      "Number of ingredients after a pantry replacement",
				Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500},
			},
		),
		planEntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_entries_total",
				Help:      "Plan entry changes by operation",
			},
			[]string{"op"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Recipe cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InFlight is the gauge of requests being served.
func (m *Metrics) InFlight() prometheus.Gauge {
	return m.httpRequestsInFlight
}

func (m *Metrics) RecommendationServed(fallback bool, scores []float64) {
	m.recommendationsTotal.WithLabelValues(strconv.FormatBool(fallback)).Inc()
	for _, s := range scores {
		m.recommendationScore.Observe(s)
	}
}

func (m *Metrics) PantryReplaced(size int) {
	m.pantryReplacements.Inc()
	m.pantrySize.Observe(float64(size))
}

func (m *Metrics) PlanEntryChanged(op string) {
	m.planEntriesTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
