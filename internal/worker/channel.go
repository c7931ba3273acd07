// Package worker runs the engine in an isolated context and streams its
// results back to the caller, either from a goroutine in this process or
// from a go-plugin subprocess.
package worker

import (
	"context"
	"errors"

	"github.com/jmylchreest/huegrid/internal/engine"
)

// ErrClosed is returned by Compute after Close.
var ErrClosed = errors.New("worker closed")

// Runner computes a grid. *engine.Engine implements it.
type Runner interface {
	Run(req engine.Request, emit func(engine.Response)) error
}

// Channel carries a request to an isolated engine and hands each streamed
// response to emit, in order, on the caller's goroutine. A run is never
// cancelled once started; cancelling ctx only stops the caller waiting.
type Channel interface {
	Compute(ctx context.Context, req engine.Request, emit func(engine.Response)) error
	Close() error
}
