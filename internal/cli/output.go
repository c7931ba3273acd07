package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/palette"
	"github.com/jmylchreest/huegrid/internal/store"
)

// writeResult prints the computed grid in the requested format.
func writeResult(w io.Writer, format string, p *palette.Palette, g *store.Grid, preview bool) error {
	switch format {
	case formatJSON:
		return writeJSON(w, p, g)
	case formatCSS:
		return writeCSS(w, p, g)
	default:
		_, err := io.WriteString(w, renderTable(p, g, preview))
		return err
	}
}

// renderTable lays the grid out with hues as rows and levels as columns.
// With preview, each entry is drawn as an ANSI swatch.
func renderTable(p *palette.Palette, g *store.Grid, preview bool) string {
	headers := []string{"hue", "tint"}
	for _, l := range p.Levels {
		headers = append(headers, l.Label())
	}
	table := NewTable(headers)

	show := func(c engine.Cell, ok bool) string {
		if !ok {
			return "-"
		}
		text := c.Hex
		if c.OutOfSRGB {
			text += "*"
		}
		if preview {
			return colour.ColourPreviewWithText(c.OKLCH(), text, len(text)+2)
		}
		return text
	}

	tints := []string{"level", ""}
	for _, l := range p.Levels {
		t, ok := g.LevelTint(l.ID)
		tints = append(tints, show(t.Cell, ok))
	}
	table.AddRow(tints)

	for _, h := range p.Hues {
		t, ok := g.HueTint(h.ID)
		row := []string{h.Label(), show(t.Cell, ok)}
		for _, l := range p.Levels {
			row = append(row, show(g.Cell(l.ID, h.ID)))
		}
		table.AddRow(row)
	}
	return table.Render()
}

type jsonLevel struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name,omitempty"`
	Contrast float64                `json:"contrast"`
	Tint     *engine.Tint           `json:"tint,omitempty"`
	Cells    map[string]engine.Cell `json:"cells"`
}

type jsonHue struct {
	ID    string       `json:"id"`
	Name  string       `json:"name,omitempty"`
	Angle float64      `json:"angle"`
	Tint  *engine.Tint `json:"tint,omitempty"`
}

type jsonGrid struct {
	Name     string           `json:"name,omitempty"`
	Settings palette.Settings `json:"settings"`
	Levels   []jsonLevel      `json:"levels"`
	Hues     []jsonHue        `json:"hues"`
}

func writeJSON(w io.Writer, p *palette.Palette, g *store.Grid) error {
	out := jsonGrid{
		Name:     p.Name,
		Settings: p.Settings,
		Levels:   make([]jsonLevel, 0, len(p.Levels)),
		Hues:     make([]jsonHue, 0, len(p.Hues)),
	}
	for _, l := range p.Levels {
		jl := jsonLevel{ID: l.ID, Name: l.Name, Contrast: l.Contrast, Cells: make(map[string]engine.Cell)}
		if t, ok := g.LevelTint(l.ID); ok {
			jl.Tint = &t
		}
		for _, h := range p.Hues {
			if c, ok := g.Cell(l.ID, h.ID); ok {
				jl.Cells[h.ID] = c
			}
		}
		out.Levels = append(out.Levels, jl)
	}
	for _, h := range p.Hues {
		jh := jsonHue{ID: h.ID, Name: h.Name, Angle: h.Angle}
		if t, ok := g.HueTint(h.ID); ok {
			jh.Tint = &t
		}
		out.Hues = append(out.Hues, jh)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeCSS emits one custom property per cell and tint. Cells outside
// sRGB get an sRGB hex fallback declared first.
func writeCSS(w io.Writer, p *palette.Palette, g *store.Grid) error {
	var b strings.Builder
	b.WriteString(":root {\n")

	decl := func(name string, c engine.Cell) {
		if c.OutOfSRGB {
			fmt.Fprintf(&b, "  --%s: %s;\n", name, c.Hex)
		}
		fmt.Fprintf(&b, "  --%s: %s;\n", name, c.CSS)
	}

	for _, h := range p.Hues {
		if t, ok := g.HueTint(h.ID); ok {
			decl(slug(h.Label()), t.Cell)
		}
	}
	for _, l := range p.Levels {
		if t, ok := g.LevelTint(l.ID); ok {
			decl("level-"+slug(l.Label()), t.Cell)
		}
		for _, h := range p.Hues {
			if c, ok := g.Cell(l.ID, h.ID); ok {
				decl(slug(h.Label())+"-"+slug(l.Label()), c)
			}
		}
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// slug lowercases s and replaces runs of other characters with a dash.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
