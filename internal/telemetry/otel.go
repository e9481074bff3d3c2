package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	name = "github.com/hyperledger-labs/yui-colony"

	propagatorsKey     = "OTEL_PROPAGATORS"
	defaultPropagators = "tracecontext,baggage"

	// cf. https://opentelemetry.io/docs/specs/otel/configuration/sdk-environment-variables/#exporter-selection
	tracesExporterKey  = "OTEL_TRACES_EXPORTER"
	metricsExporterKey = "OTEL_METRICS_EXPORTER"
	logsExporterKey    = "OTEL_LOGS_EXPORTER"
	defaultExporter    = "otlp"

	// cf. https://opentelemetry.io/docs/specs/otel/configuration/sdk-environment-variables/#prometheus-exporter
	prometheusHostKey     = "OTEL_EXPORTER_PROMETHEUS_HOST"
	prometheusPortKey     = "OTEL_EXPORTER_PROMETHEUS_PORT"
	defaultPrometheusHost = "localhost"
	defaultPrometheusPort = "9464"

	consoleTracesWriterKey  = "OTEL_EXPORTER_CONSOLE_TRACES_WRITER"
	consoleLogsWriterKey    = "OTEL_EXPORTER_CONSOLE_LOGS_WRITER"
	consoleMetricsWriterKey = "OTEL_EXPORTER_CONSOLE_METRICS_WRITER"
	defaultConsoleWriter    = "stdout"
)

// SetupOTelSDK installs the global propagator and the tracer, meter and
// logger providers selected by the standard OTEL_* environment variables.
// On success the caller must invoke shutdown.
//
// Unknown exporter or propagator names are reported as errors rather than
// ignored.
func SetupOTelSDK(ctx context.Context) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}
	abort := func(inErr error) (func(context.Context) error, error) {
		return nil, errors.Join(inErr, shutdown(ctx))
	}

	prop, err := newPropagator()
	if err != nil {
		return abort(err)
	}
	otel.SetTextMapPropagator(prop)

	tp, err := newTracerProvider(ctx)
	if err != nil {
		return abort(err)
	}
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	otel.SetTracerProvider(tp)

	mp, err := newMeterProvider(ctx)
	if err != nil {
		return abort(err)
	}
	shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	otel.SetMeterProvider(mp)

	lp, err := newLoggerProvider(ctx)
	if err != nil {
		return abort(err)
	}
	shutdownFuncs = append(shutdownFuncs, lp.Shutdown)
	global.SetLoggerProvider(lp)

	return shutdown, nil
}

func getEnv(envName, defaultValue string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return defaultValue
}

func getWriter(envName string) (io.Writer, error) {
	switch v := getEnv(envName, defaultConsoleWriter); v {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("unknown writer: %q from %s", v, envName)
	}
}

// buildAll instantiates every component listed in the comma separated value
// of envName. "none" yields nothing.
func buildAll[T any](envName, defaultValue string, factories map[string]func() (T, error)) ([]T, error) {
	var built []T
	for _, key := range strings.Split(getEnv(envName, defaultValue), ",") {
		key = strings.TrimSpace(key)
		if key == "none" {
			continue
		}
		f, ok := factories[key]
		if !ok {
			return nil, fmt.Errorf("unsupported value %q from %s", key, envName)
		}
		v, err := f()
		if err != nil {
			return nil, err
		}
		built = append(built, v)
	}
	return built, nil
}

func newPropagator() (propagation.TextMapPropagator, error) {
	propagators, err := buildAll(propagatorsKey, defaultPropagators, map[string]func() (propagation.TextMapPropagator, error){
		"tracecontext": func() (propagation.TextMapPropagator, error) { return propagation.TraceContext{}, nil },
		"baggage":      func() (propagation.TextMapPropagator, error) { return propagation.Baggage{}, nil },
	})
	if err != nil {
		return nil, err
	}
	return propagation.NewCompositeTextMapPropagator(propagators...), nil
}

func newTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	exporters, err := buildAll(tracesExporterKey, defaultExporter, map[string]func() (sdktrace.SpanExporter, error){
		"otlp": func() (sdktrace.SpanExporter, error) { return otlptracegrpc.New(ctx) },
		"console": func() (sdktrace.SpanExporter, error) {
			w, err := getWriter(consoleTracesWriterKey)
			if err != nil {
				return nil, err
			}
			return stdouttrace.New(stdouttrace.WithWriter(w))
		},
	})
	if err != nil {
		return nil, err
	}
	var opts []sdktrace.TracerProviderOption
	for _, exp := range exporters {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

func newMeterProvider(ctx context.Context) (*sdkmetric.MeterProvider, error) {
	readers, err := buildAll(metricsExporterKey, defaultExporter, map[string]func() (sdkmetric.Reader, error){
		"otlp": func() (sdkmetric.Reader, error) {
			exp, err := otlpmetricgrpc.New(ctx)
			if err != nil {
				return nil, err
			}
			return sdkmetric.NewPeriodicReader(exp), nil
		},
		"console": func() (sdkmetric.Reader, error) {
			w, err := getWriter(consoleMetricsWriterKey)
			if err != nil {
				return nil, err
			}
			exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
			if err != nil {
				return nil, err
			}
			return sdkmetric.NewPeriodicReader(exp), nil
		},
		"prometheus": func() (sdkmetric.Reader, error) {
			addr := fmt.Sprintf("%s:%s", getEnv(prometheusHostKey, defaultPrometheusHost), getEnv(prometheusPortKey, defaultPrometheusPort))
			return NewPrometheusExporter(addr)
		},
	})
	if err != nil {
		return nil, err
	}
	var opts []sdkmetric.Option
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	return sdkmetric.NewMeterProvider(opts...), nil
}

func newLoggerProvider(ctx context.Context) (*sdklog.LoggerProvider, error) {
	exporters, err := buildAll(logsExporterKey, defaultExporter, map[string]func() (sdklog.Exporter, error){
		"otlp": func() (sdklog.Exporter, error) { return otlploggrpc.New(ctx) },
		"console": func() (sdklog.Exporter, error) {
			w, err := getWriter(consoleLogsWriterKey)
			if err != nil {
				return nil, err
			}
			return stdoutlog.New(stdoutlog.WithWriter(w))
		},
	})
	if err != nil {
		return nil, err
	}
	var opts []sdklog.LoggerProviderOption
	for _, exp := range exporters {
		opts = append(opts, sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)))
	}
	return sdklog.NewLoggerProvider(opts...), nil
}
