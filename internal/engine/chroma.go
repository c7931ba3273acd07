package engine

import (
	"math"
)

// MaxCommonChroma returns the largest chroma every hue can display at the
// row's contrast: the minimum over hues of the solver's max-chroma result.
// base supplies everything but the hue. Targets below the subtle threshold
// are measured at the threshold, where their blended colours end. Returns 0
// for an empty hue set.
func (e *Engine) MaxCommonChroma(base CellInput, hues []Hue) float64 {
	if len(hues) == 0 {
		return 0
	}

	threshold := e.Constants(base.Model).SubtleThreshold
	common := math.Inf(1)
	for _, h := range hues {
		q := base.query()
		q.Contrast = max(q.Contrast, threshold)
		q.Hue = h.Angle
		q.MaxChroma = true
		common = math.Min(common, e.solver.Solve(q).C)
	}
	return common
}
