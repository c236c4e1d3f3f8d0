package monitoring

import (
	"context"
	"testing"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zaptest"
)

func TestTracingDisabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), config.TracingConfig{}, config.AppConfig{Name: "mealplan"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	assert.NoError(t, tp.Shutdown(context.Background()))
}
