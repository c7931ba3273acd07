package scheduler

import (
	"sync"
	"time"
)

// Clock abstracts time for the debouncers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable pending call.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// debouncer calls fn once a burst of triggers has been quiet for wait, or
// once maxWait has passed since the burst began, whichever is first. A zero
// maxWait means no ceiling.
type debouncer struct {
	mu      sync.Mutex
	clock   Clock
	wait    time.Duration
	maxWait time.Duration
	fn      func()

	timer      Timer
	burstStart time.Time
	generation uint64
}

func newDebouncer(clock Clock, wait, maxWait time.Duration, fn func()) *debouncer {
	return &debouncer{clock: clock, wait: wait, maxWait: maxWait, fn: fn}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	if d.timer == nil {
		d.burstStart = now
	} else {
		d.timer.Stop()
	}

	delay := d.wait
	if d.maxWait > 0 {
		if remaining := d.maxWait - now.Sub(d.burstStart); remaining < delay {
			delay = max(remaining, 0)
		}
	}

	d.generation++
	gen := d.generation
	d.timer = d.clock.AfterFunc(delay, func() { d.fire(gen) })
}

func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost the race with Stop must not fire a newer burst.
	if gen != d.generation || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// flush fires immediately if a call is pending.
func (d *debouncer) flush() {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.generation++
	d.mu.Unlock()

	d.fn()
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}
