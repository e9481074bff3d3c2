package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"

	"github.com/hyperledger-labs/yui-colony/log"
)

const (
	namespaceRoot = "colony"
)

var (
	LightClientHeightGauge    *Int64SyncGauge
	DeliveriesCounter         api.Int64Counter
	TreasuryRejectionsCounter api.Int64Counter

	meter = otel.Meter(name)
)

func InitializeMetrics() error {
	var err error

	// create the instrument "colony.light_client_height"
	name := fmt.Sprintf("%s.light_client_height", namespaceRoot)
	if LightClientHeightGauge, err = NewInt64SyncGauge(
		meter,
		name,
		api.WithUnit("1"),
		api.WithDescription("latest height accepted by the light client"),
	); err != nil {
		return fmt.Errorf("failed to create the instrument %s: %v", name, err)
	}

	// create the instrument "colony.deliveries"
	name = fmt.Sprintf("%s.deliveries", namespaceRoot)
	if DeliveriesCounter, err = meter.Int64Counter(
		name,
		api.WithUnit("1"),
		api.WithDescription("number of delivery records submitted to the treasury"),
	); err != nil {
		return fmt.Errorf("failed to create the instrument %s: %v", name, err)
	}

	// create the instrument "colony.treasury_rejections"
	name = fmt.Sprintf("%s.treasury_rejections", namespaceRoot)
	if TreasuryRejectionsCounter, err = meter.Int64Counter(
		name,
		api.WithUnit("1"),
		api.WithDescription("number of delivery records rejected by the treasury"),
	); err != nil {
		return fmt.Errorf("failed to create the instrument %s: %v", name, err)
	}

	return nil
}

// NewPrometheusExporter serves the default Prometheus registry on addr and
// returns a reader that feeds it.
func NewPrometheusExporter(addr string) (*prometheus.Exporter, error) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger := log.GetLogger().WithModule("telemetry")
			logger.Fatal("Prometheus exporter server failed", err)
		}
	}()

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create the Prometheus Exporter: %v", err)
	}

	return exporter, nil
}
