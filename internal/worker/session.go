package worker

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/scheduler"
	"github.com/jmylchreest/huegrid/internal/store"
)

// RequestFunc builds a request for a subset from the caller's current
// parameters.
type RequestFunc func(engine.Subset) engine.Request

// Session feeds a Channel and applies its responses to a store. At most one
// run is in flight; subsets dispatched while busy are merged and computed
// together once the current run ends.
type Session struct {
	ch      Channel
	grid    *store.Grid
	request RequestFunc
	metrics *Metrics
	logger  hclog.Logger

	// OnRun, if set, is called after every run.
	OnRun func(err error)

	mu      sync.Mutex
	busy    bool
	queued  *scheduler.Pending
	idle    *sync.Cond
	lastErr error
}

// NewSession creates a Session. A nil metrics records nothing.
func NewSession(ch Channel, grid *store.Grid, request RequestFunc, metrics *Metrics, logger hclog.Logger) *Session {
	if metrics == nil {
		metrics = NoopMetrics()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Session{
		ch:      ch,
		grid:    grid,
		request: request,
		metrics: metrics,
		logger:  logger,
		queued:  scheduler.NewPending(),
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Dispatch schedules a computation of subset. It never blocks; it has the
// signature of a scheduler.Dispatch.
func (s *Session) Dispatch(subset engine.Subset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued.Add(subset)
	if s.busy {
		s.logger.Trace("run in flight, queued", "levels", len(subset))
		return
	}
	s.busy = true
	go s.loop()
}

// Compute runs subset synchronously, waiting for any run in flight first.
func (s *Session) Compute(subset engine.Subset) error {
	s.Dispatch(subset)
	return s.Wait()
}

// Wait blocks until no run is in flight or queued and returns the error of
// the last run.
func (s *Session) Wait() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.busy {
		s.idle.Wait()
	}
	return s.lastErr
}

func (s *Session) loop() {
	for {
		s.mu.Lock()
		if s.queued.Empty() {
			s.busy = false
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		subset := s.queued.Take()
		s.mu.Unlock()

		err := s.run(subset)

		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		if s.OnRun != nil {
			s.OnRun(err)
		}
	}
}

func (s *Session) run(subset engine.Subset) error {
	ctx := context.Background()
	req := s.request(subset)

	start := time.Now()
	n := 0
	err := s.ch.Compute(ctx, req, func(resp engine.Response) {
		s.grid.Apply(resp)
		n++
	})
	elapsed := time.Since(start)
	s.metrics.record(ctx, subset.IsAll(), n, elapsed, err)

	if err != nil {
		s.logger.Error("grid computation failed", "error", err)
		return err
	}
	s.logger.Debug("grid computation finished", "responses", n, "duration", elapsed)
	return nil
}
