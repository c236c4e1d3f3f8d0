package monitoring

import (
	"context"
	"strings"
	"testing"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterProviderExportsToRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := NewMeterProvider(reg, config.AppConfig{Name: "mealplan", Version: "test"})
	require.NoError(t, err)
	defer func() { _ = mp.Shutdown(context.Background()) }()

	counter, err := mp.Meter("test").Int64Counter("widgets")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), namespace+"_") && strings.HasSuffix(mf.GetName(), "widgets_total") {
			found = true
			require.NotEmpty(t, mf.GetMetric())
			assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "otel counter is exported to the registry")
}
