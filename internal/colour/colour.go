// Package colour provides OKLCH colour handling, gamut mapping and contrast
// maths used by the palette engine.
package colour

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColour is returned when a colour string cannot be parsed.
var ErrInvalidColour = errors.New("invalid colour")

// OKLCH is a colour in the OKLCH space.
// L is lightness (0-1), C is chroma (0 to ~0.37 for displayable colours),
// H is the hue angle in degrees (0-360).
type OKLCH struct {
	L float64 `json:"l"`
	C float64 `json:"c"`
	H float64 `json:"h"`
}

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

var namedColours = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
}

// Parse parses a CSS-style colour string. Supported forms are hex
// ("#rgb", "#rrggbb"), "rgb(r, g, b)", "oklch(L C H)" with L either as a
// percentage or a 0-1 fraction, and the keywords "white" and "black".
func Parse(s string) (OKLCH, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if named, ok := namedColours[v]; ok {
		v = named
	}

	switch {
	case strings.HasPrefix(v, "#"):
		if !isHex(v[1:]) || (len(v) != 4 && len(v) != 7) {
			return OKLCH{}, fmt.Errorf("%w: %q", ErrInvalidColour, s)
		}
		c, err := colorful.Hex(v)
		if err != nil {
			return OKLCH{}, fmt.Errorf("%w: %q: %v", ErrInvalidColour, s, err)
		}
		return FromColorful(c), nil
	case strings.HasPrefix(v, "oklch(") && strings.HasSuffix(v, ")"):
		return parseOKLCHFunc(v, s)
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseRGBFunc(v, s)
	}

	return OKLCH{}, fmt.Errorf("%w: %q", ErrInvalidColour, s)
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) OKLCH {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// funcArgs splits "name(a b c)" or "name(a, b, c)" into its arguments.
func funcArgs(v string) []string {
	inner := v[strings.IndexByte(v, '(')+1 : len(v)-1]
	inner = strings.ReplaceAll(inner, ",", " ")
	return strings.Fields(inner)
}

func parseOKLCHFunc(v, orig string) (OKLCH, error) {
	args := funcArgs(v)
	if len(args) != 3 {
		return OKLCH{}, fmt.Errorf("%w: %q: expected 3 components", ErrInvalidColour, orig)
	}

	var vals [3]float64
	for i, a := range args {
		pct := strings.HasSuffix(a, "%")
		a = strings.TrimSuffix(strings.TrimSuffix(a, "%"), "deg")
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return OKLCH{}, fmt.Errorf("%w: %q: %v", ErrInvalidColour, orig, err)
		}
		if pct && i == 0 {
			f /= 100
		}
		vals[i] = f
	}

	return OKLCH{L: vals[0], C: vals[1], H: normaliseHue(vals[2])}, nil
}

func parseRGBFunc(v, orig string) (OKLCH, error) {
	args := funcArgs(v)
	if len(args) != 3 {
		return OKLCH{}, fmt.Errorf("%w: %q: expected 3 components", ErrInvalidColour, orig)
	}

	var vals [3]float64
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 || n > 255 {
			return OKLCH{}, fmt.Errorf("%w: %q: component %q out of range", ErrInvalidColour, orig, a)
		}
		vals[i] = float64(n) / 255.0
	}

	return FromColorful(colorful.Color{R: vals[0], G: vals[1], B: vals[2]}), nil
}

// FromColorful converts a go-colorful colour into OKLCH.
func FromColorful(c colorful.Color) OKLCH {
	return fromLinearSRGB(c.LinearRgb())
}

// Colorful converts the colour into an sRGB go-colorful value. The result
// is not clamped, so channels may fall outside 0-1 for out-of-gamut colours.
func (o OKLCH) Colorful() colorful.Color {
	return colorful.LinearRgb(o.linearSRGB())
}

// linearSRGB converts to linear-light sRGB with the OKLab matrices of
// https://bottosson.github.io/posts/oklab/. go-colorful goes through XYZ,
// whose round trip drifts by ~5e-4 per channel.
func (o OKLCH) linearSRGB() (r, g, b float64) {
	hr := o.H * math.Pi / 180
	a, bb := o.C*math.Cos(hr), o.C*math.Sin(hr)

	l := o.L + 0.3963377774*a + 0.2158037573*bb
	m := o.L - 0.1055613458*a - 0.0638541728*bb
	s := o.L - 0.0894841775*a - 1.2914855480*bb
	l, m, s = l*l*l, m*m*m, s*s*s

	return 4.0767416621*l - 3.3077115913*m + 0.2309699292*s,
		-1.2684380046*l + 2.6097574011*m - 0.3413193965*s,
		-0.0041960863*l - 0.7034186147*m + 1.7076147010*s
}

func fromLinearSRGB(r, g, b float64) OKLCH {
	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	L := 0.2104542553*l + 0.7936177850*m - 0.0040720468*s
	a := 1.9779984951*l - 2.4285922050*m + 0.4505937099*s
	bb := 0.0259040371*l + 0.7827717662*m - 0.8086757660*s

	ch := math.Hypot(a, bb)
	// Achromatic colours carry no meaningful hue.
	if ch < 1e-6 {
		return OKLCH{L: L}
	}
	return OKLCH{L: L, C: ch, H: normaliseHue(math.Atan2(bb, a) * 180 / math.Pi)}
}

// RGB returns the colour clipped into sRGB as 8-bit channels.
func (o OKLCH) RGB() RGB {
	r, g, b := Fit(o, GamutSRGB).Colorful().Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Hex returns the sRGB-clipped hex representation of the colour.
func (o OKLCH) Hex() string {
	return o.RGB().Hex()
}

// CSS formats the colour as a CSS oklch() string with lightness as a
// percentage rounded to 2 decimals, chroma to 4 and hue to 2.
func (o OKLCH) CSS() string {
	return fmt.Sprintf("oklch(%s%% %s %s)",
		formatNumber(o.L*100, 2),
		formatNumber(o.C, 4),
		formatNumber(o.H, 2))
}

// Rounded returns the colour with components rounded to the precision used by CSS.
func (o OKLCH) Rounded() OKLCH {
	return OKLCH{L: Round(o.L, 4), C: Round(o.C, 4), H: Round(o.H, 2)}
}

// Lerp interpolates lightness and chroma towards other by t, keeping hue.
func (o OKLCH) Lerp(other OKLCH, t float64) OKLCH {
	return OKLCH{
		L: o.L + (other.L-o.L)*t,
		C: o.C + (other.C-o.C)*t,
		H: o.H,
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		// Avoid "-0" in formatted output.
		return 0
	}
	return r
}

func formatNumber(v float64, places int) string {
	return strconv.FormatFloat(Round(v, places), 'f', -1, 64)
}

func normaliseHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
