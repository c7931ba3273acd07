package worker

import (
	"context"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/store"
)

// sumOf returns the total of an int64 counter across its data points.
func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) (int64, bool) {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s has data %T, want Sum[int64]", name, m.Data)
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

func TestSessionRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	l := NewLocal(engine.New())
	defer l.Close()
	s := NewSession(l, store.New(), func(subset engine.Subset) engine.Request {
		req := testRequest()
		req.RecalcOnlyLevels = subset
		return req
	}, m, nil)

	if err := s.Compute(engine.All); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if runs, ok := sumOf(t, rm, "huegrid_runs_total"); !ok || runs != 1 {
		t.Errorf("huegrid_runs_total = %d (found %v), want 1", runs, ok)
	}
	if responses, ok := sumOf(t, rm, "huegrid_responses_total"); !ok || responses != int64(len(wantOrder)) {
		t.Errorf("huegrid_responses_total = %d (found %v), want %d", responses, ok, len(wantOrder))
	}
}

func TestNoopMetricsRecordNothing(t *testing.T) {
	// Must not panic on any outcome.
	m := NoopMetrics()
	m.record(context.Background(), true, 3, 0, nil)
	m.record(context.Background(), false, 0, 0, errors.New("boom"))
}
