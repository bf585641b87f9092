package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/infrastructure/config"
	"github.com/simudouane/backend/internal/infrastructure/telemetry"
)

// setupTestTracer installs an in-memory span recorder as the global provider.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func findSum(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return 0, false
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestFromAppConfig(t *testing.T) {
	tracing, metrics := telemetry.FromAppConfig(config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		SamplingRatio:     0.5,
		ServiceName:       "simu",
		MetricsInterval:   15 * time.Second,
	})

	assert.Equal(t, 0.5, tracing.SamplingRatio)
	assert.Equal(t, "otel:4317", tracing.CollectorEndpoint)
	assert.Equal(t, 15*time.Second, metrics.ExportInterval)
	assert.Equal(t, "simu", metrics.ServiceName)
}

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewSimulationMetrics(t *testing.T) {
	t.Run("noop meter", func(t *testing.T) {
		sm, err := telemetry.NewSimulationMetrics(telemetry.SimulationMetricsConfig{
			Meter: noop.NewMeterProvider().Meter("test"),
		})
		require.NoError(t, err)

		ctx := context.Background()
		sm.RecordComputed(ctx, "create", "BCC", time.Millisecond)
		sm.RecordRejected(ctx, "preview", "INVALID_INPUT")
		sm.RecordPaid(ctx, "orange", decimal.RequireFromString("24600.22"))
	})

	t.Run("nil meter", func(t *testing.T) {
		sm, err := telemetry.NewSimulationMetrics(telemetry.SimulationMetricsConfig{})
		assert.Nil(t, sm)
		assert.Equal(t, "NewSimulationMetrics: meter cannot be nil", err.Error())
	})
}

func TestSimulationMetrics_Collect(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	sm, err := telemetry.NewSimulationMetrics(telemetry.SimulationMetricsConfig{
		Meter: provider.Meter("test"),
	})
	require.NoError(t, err)

	sm.RecordComputed(ctx, "create", "BCC", 2*time.Millisecond)
	sm.RecordComputed(ctx, "preview", "VG1", time.Millisecond)
	sm.RecordRejected(ctx, "create", "NOT_FOUND")
	sm.RecordPaid(ctx, "mtn", decimal.RequireFromString("24600.22"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	computed, ok := findSum(rm, "simu_duty_computed_total")
	require.True(t, ok)
	assert.Equal(t, int64(2), computed)

	rejected, ok := findSum(rm, "simu_duty_rejected_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), rejected)

	amount, ok := findSum(rm, "simu_simulation_paid_amount_total")
	require.True(t, ok)
	assert.Equal(t, int64(24600), amount)
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "simulation", "create",
		telemetry.SpanAttrProductID, "p-1",
		telemetry.SpanAttrAttempt, 2,
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "simulation.create", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "p-1", attrs[telemetry.SpanAttrProductID])
	assert.Equal(t, "2", attrs[telemetry.SpanAttrAttempt])
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}
