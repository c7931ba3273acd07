// Package engine computes contrast-driven palette grids: one colour per
// (level, hue) pair plus representative tints per level and per hue.
package engine

import (
	"slices"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/solver"
)

// ChromaStrategy controls how chroma is chosen across a row.
type ChromaStrategy string

const (
	// ChromaMax maximises chroma independently for every cell.
	ChromaMax ChromaStrategy = "max"
	// ChromaEven uses the largest chroma every hue in the row can display.
	ChromaEven ChromaStrategy = "even"
)

// Valid reports whether s names a supported strategy.
func (s ChromaStrategy) Valid() bool {
	return s == ChromaMax || s == ChromaEven
}

// Level is one contrast column of the grid.
type Level struct {
	ID       string  `json:"id"`
	Contrast float64 `json:"contrastTarget"`
	// Chroma caps the row's chroma. Nil lets the strategy decide.
	Chroma *float64 `json:"chroma,omitempty"`
}

// Hue is one hue row of the grid.
type Hue struct {
	ID    string  `json:"id"`
	Angle float64 `json:"angle"`
}

// Subset names the levels a run recomputes. A nil Subset means every level.
type Subset []string

// All is the Subset covering every level.
var All Subset

// Includes reports whether the level is part of the subset.
func (s Subset) Includes(levelID string) bool {
	return s == nil || slices.Contains(s, levelID)
}

// IsAll reports whether the subset covers every level.
func (s Subset) IsAll() bool {
	return s == nil
}

// Request is the parameter snapshot for one grid computation.
type Request struct {
	Levels           []Level         `json:"levels"`
	Hues             []Hue           `json:"hues"`
	RecalcOnlyLevels Subset          `json:"recalcOnlyLevels"`
	BackgroundLeft   string          `json:"backgroundLeft"`
	BackgroundRight  string          `json:"backgroundRight"`
	SplitIndex       int             `json:"splitIndex"`
	ChromaStrategy   ChromaStrategy  `json:"chromaStrategy"`
	Gamut            colour.Gamut    `json:"gamutTarget"`
	Model            colour.Model    `json:"contrastModel"`
	Direction        solver.Role     `json:"contrastDirection"`
}

// Cell is the computed colour of one (level, hue) pair.
type Cell struct {
	// Contrast echoes the requested target; it is not re-measured.
	Contrast  float64 `json:"cr"`
	Lightness float64 `json:"l"`
	Chroma    float64 `json:"c"`
	Hue       float64 `json:"h"`
	CSS       string  `json:"css"`
	Hex       string  `json:"hex"`
	// OutOfSRGB is set when the colour cannot be shown on an sRGB display.
	OutOfSRGB bool `json:"p3"`
}

// OKLCH returns the cell's colour.
func (c Cell) OKLCH() colour.OKLCH {
	return colour.OKLCH{L: c.Lightness, C: c.Chroma, H: c.Hue}
}

// Tint is a representative colour for a level or a hue.
type Tint struct {
	Cell
	// RowChroma is the chroma the level's row actually uses, which may be
	// lower than the tint's own boosted chroma. Level tints only.
	RowChroma *float64 `json:"rowChroma,omitempty"`
}

// Kind tags a Response.
type Kind string

const (
	KindLevel   Kind = "level"
	KindHueTint Kind = "hue-tint"
)

// Response is one streamed result of a grid computation.
type Response struct {
	Kind    Kind   `json:"kind"`
	LevelID string `json:"levelId,omitempty"`
	HueID   string `json:"hueId,omitempty"`
	Tint    Tint   `json:"tint"`
	// Cells maps hue IDs to cells. Level results only; empty without hues.
	Cells map[string]Cell `json:"cells,omitempty"`
}
