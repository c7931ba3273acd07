package scheduler

import (
	"slices"

	"github.com/jmylchreest/huegrid/internal/engine"
)

// Pending accumulates the levels requested since the last flush. It is
// owned by the caller and is not safe for concurrent use on its own; the
// Scheduler serialises access to the Pending it is given.
type Pending struct {
	levels map[string]struct{}
	all    bool
	dirty  bool
}

// NewPending returns an empty Pending.
func NewPending() *Pending {
	return &Pending{levels: make(map[string]struct{})}
}

// Add unions a subset into the pending set. A subset covering every level
// escalates the pending set to all levels until the next Take.
func (p *Pending) Add(s engine.Subset) {
	p.dirty = true
	if s.IsAll() {
		p.all = true
		return
	}
	if p.all {
		return
	}
	for _, id := range s {
		p.levels[id] = struct{}{}
	}
}

// Empty reports whether nothing has been added since the last Take.
func (p *Pending) Empty() bool {
	return !p.dirty
}

// All reports whether the pending set has escalated to every level.
func (p *Pending) All() bool {
	return p.all
}

// Take returns the accumulated subset and resets the pending set. The IDs
// of a partial subset are sorted.
func (p *Pending) Take() engine.Subset {
	defer p.reset()
	if p.all {
		return engine.All
	}
	out := make(engine.Subset, 0, len(p.levels))
	for id := range p.levels {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (p *Pending) reset() {
	p.all = false
	p.dirty = false
	clear(p.levels)
}
