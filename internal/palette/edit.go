package palette

import (
	"fmt"
	"math"
	"slices"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/engine"
)

// InsertLevel inserts a level before index at and returns it. Its contrast
// is the mean of its neighbours; at either end it steps half a level
// outward, or for a lone level halfway to the model's lower limit before it
// and upper limit after it. A chroma cap is inherited when every neighbour
// has one. The background split keeps covering the same levels.
func (p *Palette) InsertLevel(at int) (Level, error) {
	if at < 0 || at > len(p.Levels) {
		return Level{}, fmt.Errorf("insert level at %d: %w", at, errOutOfRange(len(p.Levels)))
	}

	var prev, next *Level
	if at > 0 {
		prev = &p.Levels[at-1]
	}
	if at < len(p.Levels) {
		next = &p.Levels[at]
	}

	lo, hi := p.Settings.Model.Range()
	l := Level{ID: newID()}
	switch {
	case prev != nil && next != nil:
		l.Contrast = (prev.Contrast + next.Contrast) / 2
		if prev.Chroma != nil && next.Chroma != nil {
			c := colour.Round((*prev.Chroma+*next.Chroma)/2, 4)
			l.Chroma = &c
		}
	case prev != nil:
		l.Contrast = p.extrapolate(at-1, at-2, hi)
		l.Chroma = copyChroma(prev.Chroma)
	case next != nil:
		l.Contrast = p.extrapolate(at, at+1, lo)
		l.Chroma = copyChroma(next.Chroma)
	default:
		l.Contrast = (lo + hi) / 2
	}
	l.Contrast = colour.Round(math.Max(lo, math.Min(hi, l.Contrast)), 2)

	p.Levels = slices.Insert(p.Levels, at, l)
	if at < p.Settings.Background.Split {
		p.Settings.Background.Split++
	}
	return l, nil
}

// extrapolate steps half a level outward from edge, away from inner. With
// no inner level it goes halfway to limit.
func (p *Palette) extrapolate(edge, inner int, limit float64) float64 {
	e := p.Levels[edge].Contrast
	if inner >= 0 && inner < len(p.Levels) {
		return e + (e-p.Levels[inner].Contrast)/2
	}
	return (e + limit) / 2
}

// RemoveLevel removes the level with the given ID.
func (p *Palette) RemoveLevel(id string) error {
	i := slices.IndexFunc(p.Levels, func(l Level) bool { return l.ID == id })
	if i < 0 {
		return fmt.Errorf("remove level %q: %w", id, ErrNotFound)
	}
	p.Levels = slices.Delete(p.Levels, i, i+1)
	if i < p.Settings.Background.Split {
		p.Settings.Background.Split--
	}
	return nil
}

// InsertHue inserts a hue before index at and returns it. Its angle is the
// circular midpoint between its neighbours, wrapping from the last hue to
// the first at the ends.
func (p *Palette) InsertHue(at int) (Hue, error) {
	if at < 0 || at > len(p.Hues) {
		return Hue{}, fmt.Errorf("insert hue at %d: %w", at, errOutOfRange(len(p.Hues)))
	}

	h := Hue{ID: newID()}
	switch n := len(p.Hues); n {
	case 0:
	case 1:
		h.Angle = math.Mod(p.Hues[0].Angle+180, 360)
	default:
		from := p.Hues[(at-1+n)%n].Angle
		to := p.Hues[at%n].Angle
		h.Angle = circularMidpoint(from, to)
	}
	h.Angle = colour.Round(h.Angle, 2)

	p.Hues = slices.Insert(p.Hues, at, h)
	return h, nil
}

// RemoveHue removes the hue with the given ID.
func (p *Palette) RemoveHue(id string) error {
	i := slices.IndexFunc(p.Hues, func(h Hue) bool { return h.ID == id })
	if i < 0 {
		return fmt.Errorf("remove hue %q: %w", id, ErrNotFound)
	}
	p.Hues = slices.Delete(p.Hues, i, i+1)
	return nil
}

// Changed returns the levels whose results differ between two versions of
// a palette. Settings or hue changes affect every level; moving the split
// affects only the levels that change side. Removed levels need no work.
func Changed(before, after *Palette) engine.Subset {
	if !sameSettings(before.Settings, after.Settings) || !slices.EqualFunc(before.Hues, after.Hues, sameHue) {
		return engine.All
	}

	prev := make(map[string]Level, len(before.Levels))
	for _, l := range before.Levels {
		prev[l.ID] = l
	}

	changed := engine.Subset{}
	for i, l := range after.Levels {
		old, ok := prev[l.ID]
		if !ok || !sameLevel(old, l) || onLeft(before, l.ID) != (i < after.Settings.Background.Split) {
			changed = append(changed, l.ID)
		}
	}
	return changed
}

// SplitOnly reports whether the background split is the only difference
// between two palettes.
func SplitOnly(before, after *Palette) bool {
	return before.Settings.Background.Split != after.Settings.Background.Split &&
		sameSettings(before.Settings, after.Settings) &&
		slices.EqualFunc(before.Hues, after.Hues, sameHue) &&
		slices.EqualFunc(before.Levels, after.Levels, sameLevel)
}

// Relabelled reports whether the two palettes differ in how their levels or
// hues are labelled. Names never affect computed colours.
func Relabelled(before, after *Palette) bool {
	return !slices.EqualFunc(before.Levels, after.Levels, func(a, b Level) bool { return a.Label() == b.Label() }) ||
		!slices.EqualFunc(before.Hues, after.Hues, func(a, b Hue) bool { return a.Label() == b.Label() })
}

// sameSettings compares everything but the split.
func sameSettings(a, b Settings) bool {
	a.Background.Split, b.Background.Split = 0, 0
	return a == b
}

func sameHue(a, b Hue) bool {
	return a.ID == b.ID && a.Angle == b.Angle
}

func sameLevel(a, b Level) bool {
	return a.ID == b.ID && a.Contrast == b.Contrast && sameChroma(a.Chroma, b.Chroma)
}

// onLeft reports whether the level sits on the left background in p.
func onLeft(p *Palette, id string) bool {
	i := slices.IndexFunc(p.Levels, func(l Level) bool { return l.ID == id })
	return i >= 0 && i < p.Settings.Background.Split
}

func circularMidpoint(from, to float64) float64 {
	d := math.Mod(to-from+360, 360)
	if d == 0 {
		d = 360
	}
	return math.Mod(from+d/2, 360)
}

func copyChroma(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func sameChroma(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
