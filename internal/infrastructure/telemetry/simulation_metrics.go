package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// SimulationMetrics counts duty computations and payments.
type SimulationMetrics struct {
	logger *zap.Logger

	computedTotal  *Counter
	rejectedTotal  *Counter
	paidTotal      *Counter
	paidAmount     *Counter
	computeLatency *Histogram
}

// SimulationMetricsConfig holds configuration for simulation metrics.
type SimulationMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewSimulationMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewSimulationMetrics registers the simulation instruments on cfg.Meter.
func NewSimulationMetrics(cfg SimulationMetricsConfig) (*SimulationMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &SimulationMetrics{logger: logger}
	var err error

	sm.computedTotal, err = NewCounter(cfg.Meter,
		"simu_duty_computed_total",
		"Total number of successful duty computations",
		"{computations}",
	)
	if err != nil {
		return nil, err
	}

	sm.rejectedTotal, err = NewCounter(cfg.Meter,
		"simu_duty_rejected_total",
		"Total number of declarations rejected by the calculator",
		"{computations}",
	)
	if err != nil {
		return nil, err
	}

	sm.paidTotal, err = NewCounter(cfg.Meter,
		"simu_simulation_paid_total",
		"Total number of confirmed simulation payments",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	sm.paidAmount, err = NewCounter(cfg.Meter,
		"simu_simulation_paid_amount_total",
		"Sum of paid simulation totals in whole currency units",
		"{XAF}",
	)
	if err != nil {
		return nil, err
	}

	sm.computeLatency, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "simu_duty_compute_duration_seconds",
		Description: "Duty computation latency",
		Unit:        "s",
		Boundaries:  ComputeDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordComputed records a successful computation for species.
func (sm *SimulationMetrics) RecordComputed(ctx context.Context, operation, species string, elapsed time.Duration) {
	sm.computedTotal.Inc(ctx, AttrOperation.String(operation), AttrTariffSpecies.String(species))
	sm.computeLatency.RecordDuration(ctx, elapsed, AttrOperation.String(operation))
}

// RecordRejected records a computation refused with reason (an error code).
func (sm *SimulationMetrics) RecordRejected(ctx context.Context, operation, reason string) {
	sm.rejectedTotal.Inc(ctx, AttrOperation.String(operation), AttrRejectReason.String(reason))
}

// RecordPaid records a confirmed payment and its total.
func (sm *SimulationMetrics) RecordPaid(ctx context.Context, method string, total decimal.Decimal) {
	sm.paidTotal.Inc(ctx, AttrPaymentMethod.String(method))
	sm.paidAmount.Add(ctx, total.IntPart(), AttrPaymentMethod.String(method))
}
