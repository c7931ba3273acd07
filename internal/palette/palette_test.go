package palette

import (
	"errors"
	"slices"
	"testing"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/engine"
)

func ptr(v float64) *float64 { return &v }

func testPalette() *Palette {
	p := &Palette{
		Levels: []Level{
			{ID: "l100", Contrast: 100},
			{ID: "l60", Contrast: 60},
			{ID: "l30", Contrast: 30},
		},
		Hues: []Hue{
			{ID: "red", Angle: 25},
			{ID: "blue", Angle: 265},
		},
	}
	p.Normalise()
	return p
}

func TestNormaliseDefaults(t *testing.T) {
	p := &Palette{Levels: []Level{{Contrast: 50}}, Hues: []Hue{{Angle: 10}}}
	p.Normalise()

	if p.Settings.Model != colour.ModelAPCA || p.Settings.Gamut != colour.GamutP3 {
		t.Errorf("unexpected defaults: %+v", p.Settings)
	}
	if p.Settings.Background.Left != DefaultBackground {
		t.Errorf("background = %q, want %q", p.Settings.Background.Left, DefaultBackground)
	}
	if p.Levels[0].ID == "" || p.Hues[0].ID == "" {
		t.Error("Normalise should assign IDs")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("normalised palette invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Palette)
	}{
		{"duplicate id", func(p *Palette) { p.Hues[0].ID = "l100" }},
		{"hue angle", func(p *Palette) { p.Hues[1].Angle = 360 }},
		{"background", func(p *Palette) { p.Settings.Background.Left = "#zzzzzz" }},
		{"right background", func(p *Palette) { p.Settings.Background.Right = "nope" }},
		{"split", func(p *Palette) { p.Settings.Background.Split = 4 }},
		{"model", func(p *Palette) { p.Settings.Model = "lab" }},
		{"contrast range", func(p *Palette) { p.Levels[0].Contrast = 120 }},
		{"negative chroma", func(p *Palette) { p.Levels[0].Chroma = ptr(-0.1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPalette()
			tt.mutate(p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidPalette) {
				t.Errorf("Validate() = %v, want ErrInvalidPalette", err)
			}
		})
	}
}

func TestRequest(t *testing.T) {
	p := testPalette()
	p.Levels[1].Chroma = ptr(0.05)
	p.Settings.Background = Background{Left: "#000000", Right: "#ffffff", Split: 2}

	req := p.Request(engine.Subset{"l60"})
	if len(req.Levels) != 3 || len(req.Hues) != 2 {
		t.Fatalf("request shape: %d levels, %d hues", len(req.Levels), len(req.Hues))
	}
	if req.Levels[1].Chroma == nil || *req.Levels[1].Chroma != 0.05 {
		t.Errorf("chroma cap not carried: %+v", req.Levels[1])
	}
	if req.SplitIndex != 2 || req.BackgroundRight != "#ffffff" {
		t.Errorf("background not carried: %+v", req)
	}
	if !slices.Equal(req.RecalcOnlyLevels, engine.Subset{"l60"}) {
		t.Errorf("subset = %v", req.RecalcOnlyLevels)
	}
	if !p.Request(engine.All).RecalcOnlyLevels.IsAll() {
		t.Error("All subset should stay nil")
	}
}

func TestInsertLevel(t *testing.T) {
	tests := []struct {
		name string
		at   int
		want float64
	}{
		{"between", 1, 80},
		{"head", 0, 108},
		{"tail", 3, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPalette()
			l, err := p.InsertLevel(tt.at)
			if err != nil {
				t.Fatal(err)
			}
			if l.Contrast != tt.want {
				t.Errorf("contrast = %v, want %v", l.Contrast, tt.want)
			}
			if p.Levels[tt.at].ID != l.ID || len(p.Levels) != 4 {
				t.Errorf("level not inserted at %d", tt.at)
			}
		})
	}
}

func TestInsertLevelSingleAndEmpty(t *testing.T) {
	p := &Palette{}
	p.Normalise()
	l, _ := p.InsertLevel(0)
	if l.Contrast != 54 {
		t.Errorf("empty palette contrast = %v, want 54", l.Contrast)
	}
	l, _ = p.InsertLevel(1)
	if l.Contrast != 81 {
		t.Errorf("single level tail contrast = %v, want 81", l.Contrast)
	}
}

func TestInsertLevelChromaAndSplit(t *testing.T) {
	p := testPalette()
	p.Levels[0].Chroma = ptr(0.1)
	p.Levels[1].Chroma = ptr(0.2)
	p.Settings.Background.Split = 2

	l, err := p.InsertLevel(1)
	if err != nil {
		t.Fatal(err)
	}
	if l.Chroma == nil || *l.Chroma != 0.15 {
		t.Errorf("chroma = %v, want 0.15", l.Chroma)
	}
	if p.Settings.Background.Split != 3 {
		t.Errorf("split = %d, want 3", p.Settings.Background.Split)
	}

	l, _ = p.InsertLevel(4)
	if l.Chroma != nil {
		t.Errorf("tail level inherits no cap from uncapped neighbour, got %v", *l.Chroma)
	}
}

func TestInsertLevelOutOfRange(t *testing.T) {
	if _, err := testPalette().InsertLevel(9); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("err = %v, want ErrInvalidPalette", err)
	}
}

func TestRemoveLevel(t *testing.T) {
	p := testPalette()
	p.Settings.Background.Split = 2
	if err := p.RemoveLevel("l100"); err != nil {
		t.Fatal(err)
	}
	if p.Settings.Background.Split != 1 {
		t.Errorf("split = %d, want 1", p.Settings.Background.Split)
	}
	if err := p.RemoveLevel("l100"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove err = %v, want ErrNotFound", err)
	}
}

func TestInsertHue(t *testing.T) {
	tests := []struct {
		name string
		at   int
		want float64
	}{
		{"between", 1, 145},
		{"wrap head", 0, 325},
		{"wrap tail", 2, 325},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPalette()
			h, err := p.InsertHue(tt.at)
			if err != nil {
				t.Fatal(err)
			}
			if h.Angle != tt.want {
				t.Errorf("angle = %v, want %v", h.Angle, tt.want)
			}
		})
	}
}

func TestInsertHueSingle(t *testing.T) {
	p := &Palette{Hues: []Hue{{ID: "a", Angle: 300}}}
	h, _ := p.InsertHue(1)
	if h.Angle != 120 {
		t.Errorf("angle = %v, want 120", h.Angle)
	}
}

func TestRemoveHue(t *testing.T) {
	p := testPalette()
	if err := p.RemoveHue("red"); err != nil {
		t.Fatal(err)
	}
	if len(p.Hues) != 1 || p.Hues[0].ID != "blue" {
		t.Errorf("hues = %+v", p.Hues)
	}
	if err := p.RemoveHue("red"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestChanged(t *testing.T) {
	base := testPalette()

	t.Run("identical", func(t *testing.T) {
		if got := Changed(base, base.Clone()); got.IsAll() || len(got) != 0 {
			t.Errorf("Changed() = %v, want empty", got)
		}
	})
	t.Run("level contrast", func(t *testing.T) {
		next := base.Clone()
		next.Levels[1].Contrast = 65
		if got := Changed(base, next); !slices.Equal(got, engine.Subset{"l60"}) {
			t.Errorf("Changed() = %v, want [l60]", got)
		}
	})
	t.Run("level chroma", func(t *testing.T) {
		next := base.Clone()
		next.Levels[2].Chroma = ptr(0.02)
		if got := Changed(base, next); !slices.Equal(got, engine.Subset{"l30"}) {
			t.Errorf("Changed() = %v, want [l30]", got)
		}
	})
	t.Run("split", func(t *testing.T) {
		next := base.Clone()
		next.Settings.Background.Split = 2
		if got := Changed(base, next); !slices.Equal(got, engine.Subset{"l100", "l60"}) {
			t.Errorf("Changed() = %v, want [l100 l60]", got)
		}
		if !SplitOnly(base, next) {
			t.Error("SplitOnly() = false, want true")
		}
	})
	t.Run("hue", func(t *testing.T) {
		next := base.Clone()
		next.Hues[0].Angle = 30
		if got := Changed(base, next); !got.IsAll() {
			t.Errorf("Changed() = %v, want all", got)
		}
		if SplitOnly(base, next) {
			t.Error("SplitOnly() = true, want false")
		}
	})
	t.Run("background", func(t *testing.T) {
		next := base.Clone()
		next.Settings.Background.Left = "#000000"
		if got := Changed(base, next); !got.IsAll() {
			t.Errorf("Changed() = %v, want all", got)
		}
	})
}

func TestRelabelled(t *testing.T) {
	base := testPalette()

	t.Run("level name", func(t *testing.T) {
		next := base.Clone()
		next.Levels[0].Name = "Body text"
		if !Relabelled(base, next) {
			t.Error("Relabelled() = false, want true")
		}
		if got := Changed(base, next); got.IsAll() || len(got) != 0 {
			t.Errorf("Changed() = %v, want empty", got)
		}
	})
	t.Run("hue name", func(t *testing.T) {
		next := base.Clone()
		next.Hues[0].Name = "Crimson"
		if !Relabelled(base, next) {
			t.Error("Relabelled() = false, want true")
		}
		if got := Changed(base, next); got.IsAll() || len(got) != 0 {
			t.Errorf("Changed() = %v, want empty", got)
		}
	})
	t.Run("unnamed contrast edit", func(t *testing.T) {
		next := base.Clone()
		next.Levels[1].Contrast = 65
		if !Relabelled(base, next) {
			t.Error("a level labelled by its contrast is relabelled when the contrast changes")
		}
	})
	t.Run("identical", func(t *testing.T) {
		if Relabelled(base, base.Clone()) {
			t.Error("Relabelled() = true for identical palettes")
		}
	})
}
