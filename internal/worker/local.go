package worker

import (
	"context"
	"sync"

	"github.com/jmylchreest/huegrid/internal/engine"
)

type job struct {
	req  engine.Request
	out  chan engine.Response
	done chan error
}

// Local runs the engine on a dedicated goroutine, one request at a time.
type Local struct {
	jobs      chan job
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewLocal starts a local worker around r.
func NewLocal(r Runner) *Local {
	l := &Local{
		jobs: make(chan job),
		quit: make(chan struct{}),
	}
	l.wg.Add(1)
	go l.loop(r)
	return l
}

func (l *Local) loop(r Runner) {
	defer l.wg.Done()
	for {
		select {
		case j := <-l.jobs:
			err := r.Run(j.req, func(resp engine.Response) { j.out <- resp })
			close(j.out)
			j.done <- err
		case <-l.quit:
			return
		}
	}
}

// Compute implements Channel.
func (l *Local) Compute(ctx context.Context, req engine.Request, emit func(engine.Response)) error {
	j := job{
		req:  req,
		out:  make(chan engine.Response, 16),
		done: make(chan error, 1),
	}

	select {
	case l.jobs <- j:
	case <-l.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		select {
		case resp, ok := <-j.out:
			if !ok {
				return <-j.done
			}
			emit(resp)
		case <-ctx.Done():
			// The run cannot be stopped; drain it so the worker moves on.
			go func() {
				for range j.out {
				}
			}()
			return ctx.Err()
		}
	}
}

// Close stops the worker after any run in progress.
func (l *Local) Close() error {
	l.closeOnce.Do(func() { close(l.quit) })
	l.wg.Wait()
	return nil
}
