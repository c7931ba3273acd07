// Package palette models an editable palette document: ordered levels,
// ordered hues and the settings a grid is computed with.
package palette

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/solver"
)

// ErrInvalidPalette is wrapped by every validation failure.
var ErrInvalidPalette = errors.New("invalid palette")

// Level is one contrast column.
type Level struct {
	ID       string   `yaml:"id" toml:"id" json:"id"`
	Name     string   `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Contrast float64  `yaml:"contrast" toml:"contrast" json:"contrast"`
	Chroma   *float64 `yaml:"chroma,omitempty" toml:"chroma,omitempty" json:"chroma,omitempty"`
}

// Label returns the level's name, falling back to its contrast.
func (l Level) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("%g", l.Contrast)
}

// Hue is one hue row.
type Hue struct {
	ID    string  `yaml:"id" toml:"id" json:"id"`
	Name  string  `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Angle float64 `yaml:"angle" toml:"angle" json:"angle"`
}

// Label returns the hue's name, falling back to its angle.
func (h Hue) Label() string {
	if h.Name != "" {
		return h.Name
	}
	return fmt.Sprintf("%g°", h.Angle)
}

// Background describes one or two backgrounds. Levels with an index below
// Split sit on Left, the rest on Right. An empty Right repeats Left.
type Background struct {
	Left  string `yaml:"left" toml:"left" json:"left"`
	Right string `yaml:"right,omitempty" toml:"right,omitempty" json:"right,omitempty"`
	Split int    `yaml:"split,omitempty" toml:"split,omitempty" json:"split,omitempty"`
}

// Settings are the grid-wide computation parameters.
type Settings struct {
	Model          colour.Model          `yaml:"model" toml:"model" json:"model"`
	Direction      solver.Role           `yaml:"direction" toml:"direction" json:"direction"`
	ChromaStrategy engine.ChromaStrategy `yaml:"chroma" toml:"chroma" json:"chroma"`
	Gamut          colour.Gamut          `yaml:"gamut" toml:"gamut" json:"gamut"`
	Background     Background            `yaml:"background" toml:"background" json:"background"`
}

// Palette is a complete palette document.
type Palette struct {
	Name     string   `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Settings Settings `yaml:"settings" toml:"settings" json:"settings"`
	Levels   []Level  `yaml:"levels" toml:"levels" json:"levels"`
	Hues     []Hue    `yaml:"hues" toml:"hues" json:"hues"`
}

// Default settings applied by Normalise.
const (
	DefaultModel          = colour.ModelAPCA
	DefaultDirection      = solver.RoleForeground
	DefaultChromaStrategy = engine.ChromaMax
	DefaultGamut          = colour.GamutP3
	DefaultBackground     = "#ffffff"
)

// Normalise fills unset settings with defaults and gives every level and
// hue without an ID a fresh one.
func (p *Palette) Normalise() {
	s := &p.Settings
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.Direction == "" {
		s.Direction = DefaultDirection
	}
	if s.ChromaStrategy == "" {
		s.ChromaStrategy = DefaultChromaStrategy
	}
	if s.Gamut == "" {
		s.Gamut = DefaultGamut
	}
	if s.Background.Left == "" {
		s.Background.Left = DefaultBackground
	}
	for i := range p.Levels {
		if p.Levels[i].ID == "" {
			p.Levels[i].ID = newID()
		}
	}
	for i := range p.Hues {
		if p.Hues[i].ID == "" {
			p.Hues[i].ID = newID()
		}
	}
}

// Validate reports every problem with the palette, each wrapping
// ErrInvalidPalette. The engine does not validate its input, so callers
// run this before computing.
func (p *Palette) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidPalette}, args...)...))
	}

	s := p.Settings
	if !s.Model.Valid() {
		bad("unknown contrast model %q", s.Model)
	}
	if !s.Direction.Valid() {
		bad("unknown contrast direction %q", s.Direction)
	}
	if !s.ChromaStrategy.Valid() {
		bad("unknown chroma strategy %q", s.ChromaStrategy)
	}
	if !s.Gamut.Valid() {
		bad("unknown gamut %q", s.Gamut)
	}
	if _, err := colour.Parse(s.Background.Left); err != nil {
		bad("left background: %v", err)
	}
	if s.Background.Right != "" {
		if _, err := colour.Parse(s.Background.Right); err != nil {
			bad("right background: %v", err)
		}
	}
	if s.Background.Split < 0 || s.Background.Split > len(p.Levels) {
		bad("split %d outside 0..%d", s.Background.Split, len(p.Levels))
	}

	lo, hi := s.Model.Range()
	seen := make(map[string]bool)
	for i, l := range p.Levels {
		if l.ID == "" {
			bad("level %d has no id", i)
		} else if seen[l.ID] {
			bad("duplicate id %q", l.ID)
		}
		seen[l.ID] = true
		if s.Model.Valid() && (l.Contrast < lo || l.Contrast > hi) {
			bad("level %q contrast %g outside %g..%g", l.ID, l.Contrast, lo, hi)
		}
		if l.Chroma != nil && *l.Chroma < 0 {
			bad("level %q chroma %g is negative", l.ID, *l.Chroma)
		}
	}
	for i, h := range p.Hues {
		if h.ID == "" {
			bad("hue %d has no id", i)
		} else if seen[h.ID] {
			bad("duplicate id %q", h.ID)
		}
		seen[h.ID] = true
		if h.Angle < 0 || h.Angle >= 360 {
			bad("hue %q angle %g outside [0, 360)", h.ID, h.Angle)
		}
	}
	return errors.Join(errs...)
}

// Request builds the engine request for the given subset of levels.
func (p *Palette) Request(subset engine.Subset) engine.Request {
	levels := make([]engine.Level, len(p.Levels))
	for i, l := range p.Levels {
		levels[i] = engine.Level{ID: l.ID, Contrast: l.Contrast, Chroma: l.Chroma}
	}
	hues := make([]engine.Hue, len(p.Hues))
	for i, h := range p.Hues {
		hues[i] = engine.Hue{ID: h.ID, Angle: h.Angle}
	}
	s := p.Settings
	return engine.Request{
		Levels:           levels,
		Hues:             hues,
		RecalcOnlyLevels: slices.Clone(subset),
		BackgroundLeft:   s.Background.Left,
		BackgroundRight:  s.Background.Right,
		SplitIndex:       s.Background.Split,
		ChromaStrategy:   s.ChromaStrategy,
		Gamut:            s.Gamut,
		Model:            s.Model,
		Direction:        s.Direction,
	}
}

// Clone returns a deep copy.
func (p *Palette) Clone() *Palette {
	c := *p
	c.Levels = make([]Level, len(p.Levels))
	for i, l := range p.Levels {
		if l.Chroma != nil {
			v := *l.Chroma
			l.Chroma = &v
		}
		c.Levels[i] = l
	}
	c.Hues = slices.Clone(p.Hues)
	return &c
}

// LevelIDs returns the level IDs in order.
func (p *Palette) LevelIDs() []string {
	ids := make([]string, len(p.Levels))
	for i, l := range p.Levels {
		ids[i] = l.ID
	}
	return ids
}

// HueIDs returns the hue IDs in order.
func (p *Palette) HueIDs() []string {
	ids := make([]string, len(p.Hues))
	for i, h := range p.Hues {
		ids[i] = h.ID
	}
	return ids
}

func newID() string {
	return uuid.NewString()
}

// ErrNotFound is returned when an ID names no level or hue.
var ErrNotFound = errors.New("not found")

func errOutOfRange(n int) error {
	return fmt.Errorf("%w: index must be within 0..%d", ErrInvalidPalette, n)
}
