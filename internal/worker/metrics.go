package worker

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/jmylchreest/huegrid/internal/worker"

// Metrics records grid computations.
type Metrics struct {
	runs      metric.Int64Counter
	responses metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewMetrics creates the instruments on meter. A nil meter uses the global
// provider, which records nothing until one is installed.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}

	runs, err := meter.Int64Counter(
		"huegrid_runs_total",
		metric.WithDescription("Grid computations started"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	responses, err := meter.Int64Counter(
		"huegrid_responses_total",
		metric.WithDescription("Streamed level and hue-tint results"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating responses counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"huegrid_run_duration_seconds",
		metric.WithDescription("Time to compute and deliver one grid"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Metrics{runs: runs, responses: responses, duration: duration}, nil
}

// NoopMetrics returns Metrics that discard everything.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(meterName))
	return m
}

func (m *Metrics) record(ctx context.Context, all bool, responses int, elapsed time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.Bool("all_levels", all),
		attribute.Bool("error", err != nil),
	)
	m.runs.Add(ctx, 1, opt)
	m.responses.Add(ctx, int64(responses), opt)
	m.duration.Record(ctx, elapsed.Seconds(), opt)
}
