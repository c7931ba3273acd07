package colour

import "math"

// Model identifies a contrast algorithm.
type Model string

const (
	// ModelAPCA is the Accessible Perceptual Contrast Algorithm (Lc 0-108).
	ModelAPCA Model = "apca"
	// ModelWCAG is the WCAG 2 luminance ratio (1-21).
	ModelWCAG Model = "wcag"
)

// Valid reports whether m names a supported contrast model.
func (m Model) Valid() bool {
	return m == ModelAPCA || m == ModelWCAG
}

// Range returns the lowest and highest contrast values the model produces.
func (m Model) Range() (lo, hi float64) {
	if m == ModelWCAG {
		return 1, 21
	}
	return 0, 108
}

// Luminance coefficients per gamut, applied to linear-light channels.
var luminanceCoefficients = map[Gamut][3]float64{
	GamutSRGB: {0.2126729, 0.7151522, 0.0721750},
	GamutP3:   {0.2289829594805780, 0.6917492625852380, 0.0792677779341829},
}

// Contrast measures the contrast of text against bg under the model. Both
// colours are clipped into the gamut first. APCA polarity is discarded, so
// the result is always non-negative.
func Contrast(m Model, text, bg OKLCH, g Gamut) float64 {
	if m == ModelWCAG {
		return ratio(RelativeLuminance(text, g), RelativeLuminance(bg, g))
	}
	return math.Abs(APCA(apcaLuminance(text, g), apcaLuminance(bg, g)))
}

// IsLight reports whether dark text reaches more contrast on bg than light
// text does, i.e. whether bg is perceptually a light background.
func IsLight(bg OKLCH, m Model, g Gamut) bool {
	black := OKLCH{L: 0}
	white := OKLCH{L: 1}
	return Contrast(m, black, bg, g) >= Contrast(m, white, bg, g)
}

// RelativeLuminance calculates the WCAG relative luminance of a colour once
// clipped into the gamut. Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func RelativeLuminance(o OKLCH, g Gamut) float64 {
	r, gr, b := g.Linear(Fit(o, g))
	k := luminanceCoefficients[g]
	return k[0]*clamp01(r) + k[1]*clamp01(gr) + k[2]*clamp01(b)
}

func ratio(l1, l2 float64) float64 {
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// APCA constants, version 0.0.98G-4g.
const (
	apcaExponent   = 2.4
	apcaNormBG     = 0.56
	apcaNormTxt    = 0.57
	apcaRevTxt     = 0.62
	apcaRevBG      = 0.65
	apcaBlkThrs    = 0.022
	apcaBlkClmp    = 1.414
	apcaScale      = 1.14
	apcaLoOffset   = 0.027
	apcaLoClip     = 0.1
	apcaDeltaYMin  = 0.0005
	apcaOutputGain = 100
)

// apcaLuminance is the screen luminance estimate APCA uses: a simple 2.4
// exponent on the gamma-encoded channels.
func apcaLuminance(o OKLCH, g Gamut) float64 {
	r, gr, b := g.Linear(Fit(o, g))
	k := luminanceCoefficients[g]
	ch := func(v float64) float64 {
		return math.Pow(encodeSRGB(clamp01(v)), apcaExponent)
	}
	return k[0]*ch(r) + k[1]*ch(gr) + k[2]*ch(b)
}

// APCA returns the signed lightness contrast (Lc) of text luminance txtY on
// background luminance bgY. Positive values are dark text on a light
// background, negative values light text on a dark background. Contrasts
// below roughly 7.3 Lc are clipped to zero.
func APCA(txtY, bgY float64) float64 {
	softClamp := func(y float64) float64 {
		y = math.Max(0, y)
		if y > apcaBlkThrs {
			return y
		}
		return y + math.Pow(apcaBlkThrs-y, apcaBlkClmp)
	}
	txtY = softClamp(txtY)
	bgY = softClamp(bgY)

	if math.Abs(bgY-txtY) < apcaDeltaYMin {
		return 0
	}

	if bgY > txtY {
		sapc := (math.Pow(bgY, apcaNormBG) - math.Pow(txtY, apcaNormTxt)) * apcaScale
		if sapc < apcaLoClip {
			return 0
		}
		return (sapc - apcaLoOffset) * apcaOutputGain
	}

	sapc := (math.Pow(bgY, apcaRevBG) - math.Pow(txtY, apcaRevTxt)) * apcaScale
	if sapc > -apcaLoClip {
		return 0
	}
	return (sapc + apcaLoOffset) * apcaOutputGain
}
