package colour

import (
	"errors"
	"strings"
	"unicode/utf8"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		wantL float64
		wantC float64
	}{
		{name: "white hex", input: "#ffffff", wantL: 1, wantC: 0},
		{name: "black hex", input: "#000000", wantL: 0, wantC: 0},
		{name: "short hex", input: "#fff", wantL: 1, wantC: 0},
		{name: "keyword", input: "Black", wantL: 0, wantC: 0},
		{name: "rgb function", input: "rgb(255, 255, 255)", wantL: 1, wantC: 0},
		{name: "oklch percent", input: "oklch(50% 0.1 250)", wantL: 0.5, wantC: 0.1},
		{name: "oklch fraction", input: "oklch(0.25 0 0)", wantL: 0.25, wantC: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if math.Abs(got.L-tt.wantL) > 1e-3 {
				t.Errorf("L = %v, want %v", got.L, tt.wantL)
			}
			if math.Abs(got.C-tt.wantC) > 1e-3 {
				t.Errorf("C = %v, want %v", got.C, tt.wantC)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{"", "#ggg", "#12345", "blue-ish", "oklch(1 2)", "rgb(300, 0, 0)", "oklch(a b c)"}

	for _, in := range inputs {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) expected error but got none", in)
			continue
		}
		if !errors.Is(err, ErrInvalidColour) {
			t.Errorf("Parse(%q) error %v does not wrap ErrInvalidColour", in, err)
		}
	}
}

func TestCSS(t *testing.T) {
	tests := []struct {
		colour OKLCH
		want   string
	}{
		{OKLCH{L: 0.62514, C: 0.123456, H: 250}, "oklch(62.51% 0.1235 250)"},
		{OKLCH{L: 1, C: 0, H: 0}, "oklch(100% 0 0)"},
		{OKLCH{L: 0, C: 0, H: 359.999}, "oklch(0% 0 360)"},
	}

	for _, tt := range tests {
		if got := tt.colour.CSS(); got != tt.want {
			t.Errorf("CSS() = %s, want %s", got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#ff0000", "#00ff00", "#0000ff", "#808080", "#1e1e2e"} {
		c := MustParse(hex)
		if got := c.Hex(); got != hex {
			t.Errorf("round trip of %s gave %s", hex, got)
		}
	}
}

func TestGamutContains(t *testing.T) {
	srgbRed := MustParse("#ff0000")
	if !GamutSRGB.Contains(srgbRed) {
		t.Error("sRGB red should be inside sRGB")
	}
	if !GamutP3.Contains(srgbRed) {
		t.Error("sRGB red should be inside P3")
	}

	vivid := OKLCH{L: 0.64, C: 0.27, H: 29}
	if GamutSRGB.Contains(vivid) {
		t.Error("very saturated red should fall outside sRGB")
	}
	if !GamutP3.Contains(vivid) {
		t.Error("very saturated red should fall inside P3")
	}
}

func TestMaxChroma(t *testing.T) {
	for _, h := range []float64{0, 90, 180, 250, 320} {
		srgb := MaxChroma(0.6, h, GamutSRGB)
		p3 := MaxChroma(0.6, h, GamutP3)
		if srgb <= 0 {
			t.Errorf("hue %v: sRGB max chroma should be positive, got %v", h, srgb)
		}
		if p3 < srgb {
			t.Errorf("hue %v: P3 max chroma %v smaller than sRGB %v", h, p3, srgb)
		}
		if !GamutSRGB.Contains(OKLCH{L: 0.6, C: srgb, H: h}) {
			t.Errorf("hue %v: max chroma colour escaped sRGB", h)
		}
	}

	if got := MaxChroma(0, 120, GamutP3); got != 0 {
		t.Errorf("MaxChroma at L=0 = %v, want 0", got)
	}
	if got := MaxChroma(1, 120, GamutP3); got != 0 {
		t.Errorf("MaxChroma at L=1 = %v, want 0", got)
	}
}

func TestGamutContainsPrimaries(t *testing.T) {
	for _, hex := range []string{"#ff0000", "#00ff00", "#0000ff", "#ffffff", "#000000", "#ffff00"} {
		if !GamutSRGB.Contains(MustParse(hex)) {
			t.Errorf("%s should be inside sRGB", hex)
		}
	}
}

func TestMaxChromaMatchesScan(t *testing.T) {
	const step = 0.0005

	for _, g := range []Gamut{GamutSRGB, GamutP3} {
		for h := 0.0; h < 360; h += 15 {
			for _, l := range []float64{0.2, 0.3, 0.45, 0.6, 0.75, 0.9} {
				scan := 0.0
				for c := step; c < maxSearchChroma; c += step {
					if !g.Contains(OKLCH{L: l, C: c, H: h}) {
						break
					}
					scan = c
				}

				got := MaxChroma(l, h, g)
				if math.Abs(got-scan) > step {
					t.Errorf("%s L=%v h=%v: MaxChroma = %.4f, scan = %.4f", g, l, h, got, scan)
				}
			}
		}
	}

	// The blue band where an edge drift used to cut chroma short.
	blue := MustParse("#0000ff")
	if got := MaxChroma(blue.L, blue.H, GamutSRGB); got < blue.C-1e-4 {
		t.Errorf("MaxChroma at pure blue = %.4f, want at least %.4f", got, blue.C)
	}
}

func TestFit(t *testing.T) {
	vivid := OKLCH{L: 0.65, C: 0.4, H: 140}
	fitted := Fit(vivid, GamutSRGB)
	if !GamutSRGB.Contains(fitted) {
		t.Errorf("Fit result %+v is outside sRGB", fitted)
	}
	if fitted.L != vivid.L || fitted.H != vivid.H {
		t.Errorf("Fit changed lightness or hue: %+v", fitted)
	}
	if fitted.C >= vivid.C {
		t.Errorf("Fit did not reduce chroma: %v", fitted.C)
	}
}

func TestAPCAExtremes(t *testing.T) {
	black := OKLCH{L: 0}
	white := OKLCH{L: 1}

	blackOnWhite := Contrast(ModelAPCA, black, white, GamutSRGB)
	if blackOnWhite < 105 || blackOnWhite > 107 {
		t.Errorf("black on white Lc = %v, want ~106", blackOnWhite)
	}
	whiteOnBlack := Contrast(ModelAPCA, white, black, GamutSRGB)
	if whiteOnBlack < 107 || whiteOnBlack > 109 {
		t.Errorf("white on black Lc = %v, want ~108", whiteOnBlack)
	}
	if got := Contrast(ModelAPCA, white, white, GamutSRGB); got != 0 {
		t.Errorf("white on white Lc = %v, want 0", got)
	}
}

func TestWCAGExtremes(t *testing.T) {
	black := OKLCH{L: 0}
	white := OKLCH{L: 1}

	if got := Contrast(ModelWCAG, black, white, GamutSRGB); math.Abs(got-21) > 0.01 {
		t.Errorf("black on white ratio = %v, want 21", got)
	}
	if got := Contrast(ModelWCAG, white, white, GamutSRGB); math.Abs(got-1) > 1e-9 {
		t.Errorf("white on white ratio = %v, want 1", got)
	}
}

func TestIsLight(t *testing.T) {
	tests := []struct {
		bg   string
		want bool
	}{
		{"#ffffff", true},
		{"#f5f5f5", true},
		{"#000000", false},
		{"#1e1e2e", false},
	}

	for _, tt := range tests {
		for _, m := range []Model{ModelAPCA, ModelWCAG} {
			if got := IsLight(MustParse(tt.bg), m, GamutSRGB); got != tt.want {
				t.Errorf("IsLight(%s, %s) = %v, want %v", tt.bg, m, got, tt.want)
			}
		}
	}
}

func TestColourPreviewWithText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"265°", 4, "265°"},
		{"265°", 6, " 265° "},
		{"265°", 3, "265"},
		{"ab°c", 3, "ab°"},
	}

	for _, tt := range tests {
		out := ColourPreviewWithText(MustParse("#1e1e2e"), tt.text, tt.width)
		if !utf8.ValidString(out) {
			t.Errorf("preview of %q at width %d is not valid UTF-8: %q", tt.text, tt.width, out)
		}
		if !strings.Contains(out, "m"+tt.want+ansiReset) {
			t.Errorf("preview of %q at width %d = %q, want text %q", tt.text, tt.width, out, tt.want)
		}
	}
}
