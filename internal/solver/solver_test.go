package solver

import (
	"math"
	"testing"

	"github.com/jmylchreest/huegrid/internal/colour"
)

func darkQuery(target float64) Query {
	return Query{
		Reference: colour.MustParse("#101010"),
		Contrast:  target,
		Model:     colour.ModelAPCA,
		Role:      RoleForeground,
		Search:    SearchLighter,
		Hue:       250,
		Chroma:    0.05,
		Gamut:     colour.GamutP3,
	}
}

func TestSolveHitsTarget(t *testing.T) {
	tests := []struct {
		name  string
		query Query
	}{
		{name: "apca lighter fixed chroma", query: darkQuery(60)},
		{
			name: "apca darker max chroma",
			query: Query{
				Reference: colour.MustParse("#ffffff"),
				Contrast:  75,
				Model:     colour.ModelAPCA,
				Role:      RoleForeground,
				Search:    SearchDarker,
				Hue:       30,
				MaxChroma: true,
				Gamut:     colour.GamutSRGB,
			},
		},
		{
			name: "wcag darker",
			query: Query{
				Reference: colour.MustParse("#fafafa"),
				Contrast:  4.5,
				Model:     colour.ModelWCAG,
				Role:      RoleForeground,
				Search:    SearchDarker,
				Hue:       140,
				Chroma:    0.1,
				Gamut:     colour.GamutSRGB,
			},
		},
		{
			name: "apca background role",
			query: Query{
				Reference: colour.MustParse("#ffffff"),
				Contrast:  45,
				Model:     colour.ModelAPCA,
				Role:      RoleBackground,
				Search:    SearchDarker,
				Hue:       300,
				Chroma:    0.08,
				Gamut:     colour.GamutP3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bisect{}.Solve(tt.query)
			measured := tt.query.Measure(got)
			if math.Abs(measured-tt.query.Contrast) > 0.5 {
				t.Errorf("measured contrast %v, want %v", measured, tt.query.Contrast)
			}
			if !tt.query.Gamut.Contains(got) {
				t.Errorf("solved colour %+v outside %s", got, tt.query.Gamut)
			}
			if got.H != tt.query.Hue {
				t.Errorf("hue = %v, want %v", got.H, tt.query.Hue)
			}
		})
	}
}

func TestSolveMonotonic(t *testing.T) {
	ref := colour.MustParse("#101010")
	prev := ref.L
	for target := 10.0; target <= 100; target += 5 {
		got := Bisect{}.Solve(darkQuery(target))
		if got.L <= prev {
			t.Fatalf("target %v: lightness %v did not move away from previous %v", target, got.L, prev)
		}
		prev = got.L
	}
}

func TestSolveUnreachableReturnsExtreme(t *testing.T) {
	q := darkQuery(500)
	got := Bisect{}.Solve(q)
	if got.L != 1 {
		t.Errorf("unreachable target should return L=1, got %v", got.L)
	}

	q.Search = SearchDarker
	got = Bisect{}.Solve(q)
	if got.L != 0 {
		t.Errorf("unreachable darker target should return L=0, got %v", got.L)
	}
}

func TestSolveCollapsesBelowAPCAClip(t *testing.T) {
	// APCA clips contrasts below ~7.3 Lc to zero, so distinct low targets
	// resolve to the same colour.
	a := Bisect{}.Solve(darkQuery(2))
	b := Bisect{}.Solve(darkQuery(6))
	if math.Abs(a.L-b.L) > 1e-6 {
		t.Errorf("expected collapse below clip, got L %v and %v", a.L, b.L)
	}
}

func TestSolveMaxChromaIsInGamutEdge(t *testing.T) {
	q := darkQuery(70)
	q.MaxChroma = true
	got := Bisect{}.Solve(q)
	edge := colour.MaxChroma(got.L, got.H, q.Gamut)
	if math.Abs(got.C-edge) > 1e-9 {
		t.Errorf("chroma %v, want gamut edge %v", got.C, edge)
	}
}

func TestSearchFor(t *testing.T) {
	if got := SearchFor(colour.MustParse("#ffffff"), colour.ModelAPCA, colour.GamutSRGB); got != SearchDarker {
		t.Errorf("SearchFor(white) = %s, want darker", got)
	}
	if got := SearchFor(colour.MustParse("#000000"), colour.ModelWCAG, colour.GamutSRGB); got != SearchLighter {
		t.Errorf("SearchFor(black) = %s, want lighter", got)
	}
}
