package transync

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// tracer is the package-level tracer used by all instrumented code.
// Initialized to a noop tracer so library consumers can use a Syncer
// without InitTracer. When InitTracer is called, this is replaced.
var tracer trace.Tracer = noop.NewTracerProvider().Tracer("transync")

// catalogMetrics groups the counters recorded by the writer.
type catalogMetrics struct {
	written   metric.Int64Counter
	skipped   metric.Int64Counter
	staleKeys metric.Int64Counter
}

var metrics = newCatalogMetrics(metricnoop.NewMeterProvider().Meter("transync"))

func newCatalogMetrics(m metric.Meter) catalogMetrics {
	// Instrument creation only fails on invalid names; the noop meter never fails.
	written, _ := m.Int64Counter("transync.catalog.written",
		metric.WithDescription("Catalog files persisted to disk"))
	skipped, _ := m.Int64Counter("transync.catalog.skipped",
		metric.WithDescription("Catalog writes skipped because the merged catalog was empty"))
	staleKeys, _ := m.Int64Counter("transync.catalog.stale_keys",
		metric.WithDescription("Keys found on disk but absent from the extraction"))
	return catalogMetrics{written: written, skipped: skipped, staleKeys: staleKeys}
}

func recordWrite(ctx context.Context, res WriteResult) {
	attrs := metric.WithAttributes(attribute.String("catalog.path", res.Path))
	if res.Written {
		metrics.written.Add(ctx, 1, attrs)
	} else {
		metrics.skipped.Add(ctx, 1, attrs)
	}
	if n := len(res.StaleKeys); n > 0 {
		metrics.staleKeys.Add(ctx, int64(n), attrs)
	}
}

func telemetryResource(serviceName, ver string) *resource.Resource {
	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ver),
		),
	)
	return res
}

// InitTracer sets up the OpenTelemetry TracerProvider.
// If OTEL_EXPORTER_OTLP_ENDPOINT is set, it creates an OTLP HTTP exporter
// with a BatchSpanProcessor. Otherwise, it uses the noop TracerProvider.
// Returns a shutdown function that flushes and closes the exporter.
func InitTracer(serviceName, ver string) func(context.Context) error {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func(context.Context) error { return nil }
	}

	exp, err := otlptracehttp.New(context.Background())
	if err != nil {
		// Exporter creation failed; keep noop so the CLI is not blocked.
		return func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(telemetryResource(serviceName, ver)),
	)
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(serviceName)

	return func(ctx context.Context) error {
		return tp.Shutdown(ctx)
	}
}

// InitMeter mirrors InitTracer for metrics: an OTLP HTTP exporter behind a
// periodic reader when OTEL_EXPORTER_OTLP_ENDPOINT is set, noop otherwise.
func InitMeter(serviceName, ver string) func(context.Context) error {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func(context.Context) error { return nil }
	}

	exp, err := otlpmetrichttp.New(context.Background())
	if err != nil {
		return func(context.Context) error { return nil }
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(telemetryResource(serviceName, ver)),
	)
	otel.SetMeterProvider(mp)
	metrics = newCatalogMetrics(mp.Meter(serviceName))

	return func(ctx context.Context) error {
		return mp.Shutdown(ctx)
	}
}
