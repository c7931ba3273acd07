package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huegrid/internal/config"
	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/palette"
	"github.com/jmylchreest/huegrid/internal/telemetry"
	"github.com/jmylchreest/huegrid/internal/worker"
)

const metricsFlushTimeout = 5 * time.Second

// loadPalette finds, loads and validates the palette.
func loadPalette(explicit string) (*palette.Palette, string, error) {
	path, err := config.Find(".", explicit)
	if err != nil {
		return nil, "", err
	}
	p, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if err := p.Validate(); err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return p, path, nil
}

// openChannel starts the engine in-process or in a worker subprocess.
func openChannel(isolated bool, logger hclog.Logger) (worker.Channel, error) {
	if !isolated {
		return worker.NewLocal(engine.New(engine.WithLogger(logger.Named("engine")))), nil
	}
	path, err := worker.WorkerPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate worker binary: %w", err)
	}
	return worker.NewRemote(path, logger.Named("worker"))
}

// newMetrics installs the OTLP exporter when HUEGRID_OTEL_ENABLED is set
// and creates the run metrics, falling back to no-ops. The returned func
// flushes the exporter.
func newMetrics(ctx context.Context, logger hclog.Logger) (*worker.Metrics, func()) {
	shutdown, err := telemetry.Setup(ctx, telemetry.LoadConfig())
	if err != nil {
		logger.Warn("metrics export disabled", "error", err)
		shutdown = func(context.Context) error { return nil }
	}
	flush := func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsFlushTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("failed to flush metrics", "error", err)
		}
	}

	m, err := worker.NewMetrics(nil)
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		return worker.NoopMetrics(), flush
	}
	return m, flush
}
