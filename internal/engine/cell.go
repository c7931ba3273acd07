package engine

import (
	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/solver"
)

// CellInput is the fully resolved input of one cell computation.
type CellInput struct {
	Reference colour.OKLCH
	Contrast  float64
	Model     colour.Model
	Role      solver.Role
	Search    solver.Search
	Hue       float64
	Chroma    float64
	MaxChroma bool
	Gamut     colour.Gamut
}

func (in CellInput) query() solver.Query {
	return solver.Query{
		Reference: in.Reference,
		Contrast:  in.Contrast,
		Model:     in.Model,
		Role:      in.Role,
		Search:    in.Search,
		Hue:       in.Hue,
		Chroma:    in.Chroma,
		MaxChroma: in.MaxChroma,
		Gamut:     in.Gamut,
	}
}

// CalculateCell computes one cell. It has no side effects and may be called
// concurrently.
func (e *Engine) CalculateCell(in CellInput) Cell {
	return newCell(e.solve(in), in.Contrast)
}

func (e *Engine) solve(in CellInput) colour.OKLCH {
	threshold := e.Constants(in.Model).SubtleThreshold
	if threshold > 0 && in.Contrast < threshold {
		return e.blend(in, threshold)
	}
	return e.solver.Solve(in.query())
}

func newCell(o colour.OKLCH, contrast float64) Cell {
	r := o.Rounded()
	return Cell{
		Contrast:  contrast,
		Lightness: r.L,
		Chroma:    r.C,
		Hue:       r.H,
		CSS:       o.CSS(),
		Hex:       o.Hex(),
		OutOfSRGB: !colour.GamutSRGB.Contains(o),
	}
}
