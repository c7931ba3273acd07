package colour

import "math"

// Gamut is a target colour volume.
type Gamut string

const (
	// GamutP3 is the wide Display P3 gamut.
	GamutP3 Gamut = "p3"
	// GamutSRGB is the narrow sRGB gamut.
	GamutSRGB Gamut = "srgb"
)

// Valid reports whether g names a supported gamut.
func (g Gamut) Valid() bool {
	return g == GamutP3 || g == GamutSRGB
}

const (
	gamutEpsilon     = 1e-5
	maxSearchChroma  = 0.5
	chromaIterations = 24
)

// linear sRGB -> linear Display P3.
var srgbToP3 = [3][3]float64{
	{0.8224621, 0.1775380, 0.0000000},
	{0.0331941, 0.9668058, 0.0000000},
	{0.0170827, 0.0723974, 0.9105199},
}

// Linear returns the colour's linear-light RGB components in the gamut's
// own primaries. Components outside 0-1 indicate an out-of-gamut colour.
func (g Gamut) Linear(o OKLCH) (r, gr, b float64) {
	lr, lg, lb := o.linearSRGB()
	if g != GamutP3 {
		return lr, lg, lb
	}
	m := srgbToP3
	return m[0][0]*lr + m[0][1]*lg + m[0][2]*lb,
		m[1][0]*lr + m[1][1]*lg + m[1][2]*lb,
		m[2][0]*lr + m[2][1]*lg + m[2][2]*lb
}

// Contains reports whether the colour is displayable within the gamut.
func (g Gamut) Contains(o OKLCH) bool {
	if o.L < -gamutEpsilon || o.L > 1+gamutEpsilon {
		return false
	}
	r, gr, b := g.Linear(o)
	return inUnit(r) && inUnit(gr) && inUnit(b)
}

func inUnit(v float64) bool {
	return v >= -gamutEpsilon && v <= 1+gamutEpsilon
}

// MaxChroma returns the largest chroma displayable in the gamut at the
// given lightness and hue.
func MaxChroma(l, h float64, g Gamut) float64 {
	if l <= 0 || l >= 1 {
		return 0
	}

	lo, hi := 0.0, maxSearchChroma
	if g.Contains(OKLCH{L: l, C: hi, H: h}) {
		return hi
	}
	for range chromaIterations {
		mid := (lo + hi) / 2
		if g.Contains(OKLCH{L: l, C: mid, H: h}) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Fit maps a colour into the gamut by clamping lightness and reducing
// chroma at constant lightness and hue.
func Fit(o OKLCH, g Gamut) OKLCH {
	o.L = math.Max(0, math.Min(1, o.L))
	if g.Contains(o) {
		return o
	}
	o.C = math.Min(o.C, MaxChroma(o.L, o.H, g))
	return o
}

// encodeSRGB applies the sRGB transfer curve, which Display P3 shares.
func encodeSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
