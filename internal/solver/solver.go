// Package solver finds OKLCH colours that reach a target contrast against a
// reference colour.
package solver

import (
	"github.com/jmylchreest/huegrid/internal/colour"
)

// Role says which side of the contrast pair the solved colour plays.
type Role string

const (
	// RoleForeground solves a text colour to sit on the reference background.
	RoleForeground Role = "foreground"
	// RoleBackground solves a background colour to sit under the reference text.
	RoleBackground Role = "background"
)

// Valid reports whether r names a supported role.
func (r Role) Valid() bool {
	return r == RoleForeground || r == RoleBackground
}

// Search is the lightness direction the solver walks away from the reference.
type Search string

const (
	SearchLighter Search = "lighter"
	SearchDarker  Search = "darker"
)

// SearchFor picks the search direction that gives the most headroom on ref:
// darker on light colours, lighter on dark ones.
func SearchFor(ref colour.OKLCH, m colour.Model, g colour.Gamut) Search {
	if colour.IsLight(ref, m, g) {
		return SearchDarker
	}
	return SearchLighter
}

// Query describes one solve.
type Query struct {
	Reference colour.OKLCH
	Contrast  float64
	Model     colour.Model
	Role      Role
	Search    Search
	Hue       float64
	// Chroma is the requested chroma. It is reduced into the gamut when the
	// colour would not be displayable. Ignored when MaxChroma is set.
	Chroma    float64
	MaxChroma bool
	Gamut     colour.Gamut
}

// Solver resolves a Query to a colour.
type Solver interface {
	Solve(q Query) colour.OKLCH
}

// Bisect is the default Solver. It bisects OKLCH lightness between the
// reference lightness and the extreme in the search direction. Measured
// contrast grows monotonically along that path, so the first lightness that
// reaches the target is returned; unreachable targets return the extreme.
type Bisect struct {
	// Iterations caps the number of bisection steps (default 32).
	Iterations int
}

const (
	defaultIterations = 32
	lightnessEpsilon  = 1e-7
)

// Solve implements Solver.
func (b Bisect) Solve(q Query) colour.OKLCH {
	iterations := b.Iterations
	if iterations <= 0 {
		iterations = defaultIterations
	}

	near := min(max(q.Reference.L, 0), 1)
	far := 1.0
	if q.Search == SearchDarker {
		far = 0
	}

	if c, m := q.probe(far); m <= q.Contrast {
		return c
	}
	if c, m := q.probe(near); m >= q.Contrast {
		return c
	}

	for range iterations {
		mid := (near + far) / 2
		if _, m := q.probe(mid); m < q.Contrast {
			near = mid
		} else {
			far = mid
		}
		if abs(far-near) < lightnessEpsilon {
			break
		}
	}

	c, _ := q.probe(far)
	return c
}

// probe builds the candidate colour at lightness l and measures its contrast.
func (q Query) probe(l float64) (colour.OKLCH, float64) {
	var c colour.OKLCH
	if q.MaxChroma {
		c = colour.OKLCH{L: l, C: colour.MaxChroma(l, q.Hue, q.Gamut), H: q.Hue}
	} else {
		c = colour.Fit(colour.OKLCH{L: l, C: q.Chroma, H: q.Hue}, q.Gamut)
	}
	return c, q.Measure(c)
}

// Measure returns the contrast of candidate against the reference with the
// query's role applied.
func (q Query) Measure(candidate colour.OKLCH) float64 {
	if q.Role == RoleBackground {
		return colour.Contrast(q.Model, q.Reference, candidate, q.Gamut)
	}
	return colour.Contrast(q.Model, candidate, q.Reference, q.Gamut)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
