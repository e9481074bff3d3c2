package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInt64SyncGauge(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	gauge, err := NewInt64SyncGauge(provider.Meter("test"), "colony.test_gauge")
	require.NoError(t, err)

	astar := attribute.String("chain_name", "astar")
	shiden := attribute.String("chain_name", "shiden")
	gauge.Set(1, astar)
	gauge.Set(2, astar)
	gauge.Set(7, shiden)

	v, ok := gauge.Get(astar)
	require.True(t, ok)
	require.EqualValues(t, 2, v)
	_, ok = gauge.Get(attribute.String("chain_name", "unknown"))
	require.False(t, ok)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	data, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Gauge[int64])
	require.True(t, ok)

	observed := map[string]int64{}
	for _, dp := range data.DataPoints {
		name, _ := dp.Attributes.Value("chain_name")
		observed[name.AsString()] = dp.Value
	}
	require.Equal(t, map[string]int64{"astar": 2, "shiden": 7}, observed)
}

func TestBuildAll(t *testing.T) {
	factories := map[string]func() (string, error){
		"a": func() (string, error) { return "A", nil },
		"b": func() (string, error) { return "B", nil },
	}

	t.Setenv("COLONY_TEST_EXPORTERS", "a, b")
	got, err := buildAll("COLONY_TEST_EXPORTERS", "none", factories)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, got)

	t.Setenv("COLONY_TEST_EXPORTERS", "none")
	got, err = buildAll("COLONY_TEST_EXPORTERS", "a", factories)
	require.NoError(t, err)
	require.Empty(t, got)

	t.Setenv("COLONY_TEST_EXPORTERS", "c")
	_, err = buildAll("COLONY_TEST_EXPORTERS", "a", factories)
	require.Error(t, err)
}
