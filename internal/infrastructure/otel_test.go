package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *OTelConfig
		wantTracing bool
		wantMetrics bool
		wantErr     bool
	}{
		{
			name:        "defaults",
			cfg:         nil,
			wantTracing: false,
			wantMetrics: true,
		},
		{
			name:        "stdout tracing",
			cfg:         &OTelConfig{ServiceName: "test", TraceExporter: "stdout", SampleRatio: 1, EnableMetrics: true},
			wantTracing: true,
			wantMetrics: true,
		},
		{
			name: "everything disabled",
			cfg:  &OTelConfig{ServiceName: "test", TraceExporter: "none"},
		},
		{
			name:    "unknown exporter",
			cfg:     &OTelConfig{ServiceName: "test", TraceExporter: "jaeger"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, discardLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			// Tracer and Meter are usable regardless of configuration
			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Equal(t, tt.wantTracing, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.MeterProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.PrometheusHTTP != nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

func TestBusinessMetrics_NoopMeter(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{TraceExporter: "none"}, discardLogger())
	require.NoError(t, err)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordIngestMetrics(ctx, metrics, "csv", 10, nil)
		RecordCleaningMetrics(ctx, metrics, "remove-missing", time.Millisecond, 2, 0, nil)
		RecordHTTPMetrics(ctx, metrics, http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
	})
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordIngestMetrics(ctx, nil, "csv", 1, errors.New("boom"))
		RecordCleaningMetrics(ctx, nil, "handle-missing", 0, 0, 0, nil)
		RecordHTTPMetrics(ctx, nil, http.MethodPost, "/", 500, 0)
	})
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordIngestMetrics(ctx, metrics, "csv", 3, nil)
	RecordIngestMetrics(ctx, metrics, "json", 0, errors.New("bad json"))
	RecordCleaningMetrics(ctx, metrics, "remove-duplicates", 5*time.Millisecond, 1, 0, nil)
	require.NoError(t, RegisterDatasetGauge(providers.Meter, func() int { return 4 }))

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "datasets_ingested_total")
	assert.Contains(t, text, "dataset_ingest_errors_total")
	assert.Contains(t, text, "cleaning_operations_total")
	assert.Contains(t, text, "cleaning_duration_seconds")
	assert.Contains(t, text, "datasets_active")
	assert.Contains(t, text, "go_goroutines")
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "dataset.clean")
	SetSpanAttributes(ctx, map[string]interface{}{
		"dataset.id":    "abc",
		"dataset.rows":  42,
		"ratio":         0.5,
		"ok":            true,
		"dataset.bytes": int64(9),
	})
	AddSpanEvent(ctx, "rows.removed", map[string]interface{}{"count": 3})
	RecordError(ctx, errors.New("boom"))

	assert.NotEmpty(t, TraceIDFromContext(ctx))
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, "dataset.clean", got.Name())
	assert.Len(t, got.Attributes(), 5)
	assert.Equal(t, codes.Error, got.Status().Code)
	// one custom event plus the exception event
	assert.Len(t, got.Events(), 2)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
