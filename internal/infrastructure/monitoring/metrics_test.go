package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BusinessCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecommendationServed(false, []float64{1, 0.5})
	m.RecommendationServed(true, nil)
	m.PantryReplaced(3)
	m.PlanEntryChanged("add")
	m.PlanEntryChanged("add")
	m.PlanEntryChanged("remove")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recommendationsTotal.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recommendationsTotal.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pantryReplacements))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.planEntriesTotal.WithLabelValues("add")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveHTTP("GET", "/api/recipes/:id", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "/api/recipes/:id", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/recipes/:id", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequestDuration))
}
