// Package scheduler coalesces bursts of recalculation requests into a
// minimal number of grid computations.
package scheduler

import (
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huegrid/internal/engine"
)

// Default timings.
const (
	DefaultFastWait       = 16 * time.Millisecond
	DefaultFastMaxWait    = 64 * time.Millisecond
	DefaultAccumulateWait = 150 * time.Millisecond
)

// Dispatch receives the resolved subset of a flushed burst.
type Dispatch func(engine.Subset)

// Config configures a Scheduler. Zero values use the defaults.
type Config struct {
	FastWait       time.Duration
	FastMaxWait    time.Duration
	AccumulateWait time.Duration
	Clock          Clock
	Logger         hclog.Logger
}

// Scheduler runs two coalescing policies side by side.
//
// The fast path (Recalc) debounces with a short wait bounded by a max-wait
// ceiling and replays only the last requested subset; it suits direct
// numeric edits. The accumulating path (RecalcAccumulated) debounces longer
// and unions every subset requested since its last flush into the caller's
// Pending, escalating to all levels once any request asks for all; it suits
// drags such as moving the background split.
type Scheduler struct {
	mu       sync.Mutex
	last     engine.Subset
	pending  *Pending
	fast     *debouncer
	accum    *debouncer
	dispatch Dispatch
	logger   hclog.Logger
}

// New creates a Scheduler that accumulates into pending and hands flushed
// subsets to dispatch.
func New(pending *Pending, dispatch Dispatch, cfg Config) *Scheduler {
	if cfg.FastWait <= 0 {
		cfg.FastWait = DefaultFastWait
	}
	if cfg.FastMaxWait <= 0 {
		cfg.FastMaxWait = DefaultFastMaxWait
	}
	if cfg.AccumulateWait <= 0 {
		cfg.AccumulateWait = DefaultAccumulateWait
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	s := &Scheduler{
		pending:  pending,
		dispatch: dispatch,
		logger:   cfg.Logger,
	}
	s.fast = newDebouncer(cfg.Clock, cfg.FastWait, cfg.FastMaxWait, s.flushFast)
	s.accum = newDebouncer(cfg.Clock, cfg.AccumulateWait, 0, s.flushAccumulated)
	return s
}

// Recalc schedules a recalculation of levels on the fast path. Only the
// subset of the last call in a burst is dispatched.
func (s *Scheduler) Recalc(levels engine.Subset) {
	s.mu.Lock()
	s.last = slices.Clone(levels)
	s.mu.Unlock()
	s.fast.trigger()
}

// RecalcAccumulated schedules a recalculation of levels on the accumulating
// path. Every subset of a burst is kept.
func (s *Scheduler) RecalcAccumulated(levels engine.Subset) {
	s.mu.Lock()
	s.pending.Add(levels)
	s.mu.Unlock()
	s.accum.trigger()
}

// Flush dispatches any pending burst on both paths immediately.
func (s *Scheduler) Flush() {
	s.fast.flush()
	s.accum.flush()
}

// Stop drops pending bursts without dispatching them.
func (s *Scheduler) Stop() {
	s.fast.stop()
	s.accum.stop()
}

func (s *Scheduler) flushFast() {
	s.mu.Lock()
	subset := s.last
	s.last = nil
	s.mu.Unlock()

	s.logger.Debug("fast recalculation", "levels", subsetLabel(subset))
	s.dispatch(subset)
}

func (s *Scheduler) flushAccumulated() {
	s.mu.Lock()
	if s.pending.Empty() {
		s.mu.Unlock()
		return
	}
	subset := s.pending.Take()
	s.mu.Unlock()

	s.logger.Debug("accumulated recalculation", "levels", subsetLabel(subset))
	s.dispatch(subset)
}

func subsetLabel(s engine.Subset) any {
	if s.IsAll() {
		return "all"
	}
	return []string(s)
}
