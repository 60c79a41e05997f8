package transync

import (
	"context"
	"path/filepath"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs an InMemoryExporter with a synchronous span processor
// so spans are immediately available for inspection. It restores the global
// TracerProvider after the test.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	prev := otel.GetTracerProvider()
	prevTracer := tracer
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("transync-test")
	t.Cleanup(func() {
		tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
		tracer = prevTracer
	})
	return exp
}

// setupTestMeter routes the catalog counters to a ManualReader.
func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := metrics
	metrics = newCatalogMetrics(mp.Meter("transync-test"))
	t.Cleanup(func() {
		mp.Shutdown(context.Background())
		metrics = prev
	})
	return reader
}

func spanNames(spans tracetest.SpanStubs) []string {
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}
	return names
}

func TestInitTracer_NoopWhenEndpointUnset(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown := InitTracer("test-svc", "0.0.1")
	defer shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "test-span")
	defer span.End()

	if span.IsRecording() {
		t.Error("span should NOT be recording when endpoint is unset (noop provider)")
	}
}

func TestInitMeter_NoopWhenEndpointUnset(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown := InitMeter("test-svc", "0.0.1")
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestSpan_Sync_CreatesRootAndWriteSpans(t *testing.T) {
	exp := setupTestTracer(t)

	s, _ := newTestSyncer(t)
	cfg := newTestConfig(t, "en", "fr")
	writeTestFile(t, filepath.Join(cfg.ExtractedDir, "code.json"), `{"greeting": {"message": "Hi"}}`)

	if _, err := s.Sync(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	spans := exp.GetSpans()
	var root *tracetest.SpanStub
	writes := 0
	for i := range spans {
		switch spans[i].Name {
		case "transync.sync":
			root = &spans[i]
		case "catalog.write":
			writes++
		}
	}
	if root == nil {
		t.Fatalf("expected 'transync.sync' span, got spans: %v", spanNames(spans))
	}
	if writes != 2 {
		t.Errorf("catalog.write spans = %d, want 2", writes)
	}
	for _, s := range spans {
		if s.Name == "catalog.write" && s.Parent.TraceID() != root.SpanContext.TraceID() {
			t.Errorf("catalog.write span is not part of the sync trace")
		}
	}
}

func TestSpan_ReadCatalogFile_RecordsError(t *testing.T) {
	exp := setupTestTracer(t)

	s, _ := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "code.json")
	writeTestFile(t, path, `{"greeting": 1}`)

	if _, err := s.ReadCatalogFile(context.Background(), path); err == nil {
		t.Fatal("expected error, got nil")
	}

	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "catalog.read" {
		t.Fatalf("spans = %v, want [catalog.read]", spanNames(spans))
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected an error event on catalog.read")
	}
}

func TestMetrics_WriteCounters(t *testing.T) {
	reader := setupTestMeter(t)

	s, _ := newTestSyncer(t)
	dir := t.TempDir()
	stalePath := filepath.Join(dir, "fr", "code.json")
	writeTestFile(t, stalePath, `{"a": {"message": "A"}, "b": {"message": "B"}}`)

	if _, err := s.WriteCatalogFile(context.Background(), stalePath, Catalog{"c": {Message: "C"}}, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteCatalogFile(context.Background(), filepath.Join(dir, "de", "code.json"), Catalog{}, WriteOptions{}); err != nil {
		t.Fatal(err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	got := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				got[m.Name] += dp.Value
			}
		}
	}
	want := map[string]int64{
		"transync.catalog.written":    1,
		"transync.catalog.skipped":    1,
		"transync.catalog.stale_keys": 2,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %d, want %d", name, got[name], v)
		}
	}
}
