// Package store holds the caller's view of a computed grid. Responses are
// applied last-write-wins; cells of a level not yet recomputed keep their
// previous values.
package store

import (
	"fmt"
	"sync"

	"github.com/jmylchreest/huegrid/internal/engine"
)

// Key identifies a cell.
type Key struct {
	LevelID string
	HueID   string
}

// Grid is a concurrency-safe arena of cells and tints.
type Grid struct {
	mu         sync.RWMutex
	cells      map[Key]engine.Cell
	levelTints map[string]engine.Tint
	hueTints   map[string]engine.Tint
	applied    int
}

// New returns an empty Grid.
func New() *Grid {
	return &Grid{
		cells:      make(map[Key]engine.Cell),
		levelTints: make(map[string]engine.Tint),
		hueTints:   make(map[string]engine.Tint),
	}
}

// Apply stores one streamed response. It panics on an unknown kind.
func (g *Grid) Apply(r engine.Response) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch r.Kind {
	case engine.KindLevel:
		g.levelTints[r.LevelID] = r.Tint
		for hueID, cell := range r.Cells {
			g.cells[Key{LevelID: r.LevelID, HueID: hueID}] = cell
		}
	case engine.KindHueTint:
		g.hueTints[r.HueID] = r.Tint
	default:
		panic(fmt.Sprintf("store: unknown response kind %q", r.Kind))
	}
	g.applied++
}

// Cell returns the cell for a (level, hue) pair.
func (g *Grid) Cell(levelID, hueID string) (engine.Cell, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.cells[Key{LevelID: levelID, HueID: hueID}]
	return c, ok
}

// LevelTint returns the tint of a level.
func (g *Grid) LevelTint(levelID string) (engine.Tint, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.levelTints[levelID]
	return t, ok
}

// HueTint returns the tint of a hue.
func (g *Grid) HueTint(hueID string) (engine.Tint, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.hueTints[hueID]
	return t, ok
}

// Applied returns the number of responses applied so far.
func (g *Grid) Applied() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.applied
}

// Len returns the number of stored cells.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// Prune drops entries whose level or hue is no longer part of the grid.
func (g *Grid) Prune(levelIDs, hueIDs []string) {
	levels := toSet(levelIDs)
	hues := toSet(hueIDs)

	g.mu.Lock()
	defer g.mu.Unlock()
	for k := range g.cells {
		if !levels[k.LevelID] || !hues[k.HueID] {
			delete(g.cells, k)
		}
	}
	for id := range g.levelTints {
		if !levels[id] {
			delete(g.levelTints, id)
		}
	}
	for id := range g.hueTints {
		if !hues[id] {
			delete(g.hueTints, id)
		}
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
