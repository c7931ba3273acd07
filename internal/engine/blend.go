package engine

import (
	"github.com/jmylchreest/huegrid/internal/colour"
)

// blend produces colours for targets below the subtle threshold. The solver
// collapses those targets onto one colour, so instead the colour is
// interpolated between the reference itself (contrast 0) and the solver's
// output at the threshold, by target/threshold.
func (e *Engine) blend(in CellInput, threshold float64) colour.OKLCH {
	q := in.query()
	q.Contrast = threshold
	edge := e.solver.Solve(q)

	start := in.Reference
	start.H = in.Hue
	blended := start.Lerp(edge, in.Contrast/threshold)
	blended.H = in.Hue

	return colour.Fit(blended, in.Gamut)
}
