// Package swatch renders a computed grid to an image file.
package swatch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/palette"
	"github.com/jmylchreest/huegrid/internal/store"
)

// ErrUnsupportedFormat is returned for output files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultCellSize is the edge length of one swatch in pixels.
const DefaultCellSize = 48

// Options configures rendering.
type Options struct {
	// CellSize is the edge length of one swatch. Zero uses DefaultCellSize.
	CellSize int
}

// Render draws the grid: one column per level on that level's background,
// one row per hue, with hue tints in a leading column and level tints in a
// leading row. Cells missing from the store are left as background.
func Render(p *palette.Palette, g *store.Grid, opts Options) (*image.RGBA, error) {
	size := opts.CellSize
	if size <= 0 {
		size = DefaultCellSize
	}

	bg := p.Settings.Background
	left, err := colour.Parse(bg.Left)
	if err != nil {
		return nil, fmt.Errorf("left background: %w", err)
	}
	right := left
	if bg.Right != "" {
		if right, err = colour.Parse(bg.Right); err != nil {
			return nil, fmt.Errorf("right background: %w", err)
		}
	}

	cols := len(p.Levels) + 1
	rows := len(p.Hues) + 1
	img := image.NewRGBA(image.Rect(0, 0, cols*size, rows*size))
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(left)), image.Point{}, draw.Src)

	inset := size / 8
	for i, level := range p.Levels {
		colBg := right
		if i < bg.Split {
			colBg = left
		}
		x := (i + 1) * size
		fill(img, image.Rect(x, 0, x+size, rows*size), toRGBA(colBg))

		if tint, ok := g.LevelTint(level.ID); ok {
			fill(img, image.Rect(x+inset, inset, x+size-inset, size-inset), toRGBA(tint.OKLCH()))
		}
		for j, hue := range p.Hues {
			cell, ok := g.Cell(level.ID, hue.ID)
			if !ok {
				continue
			}
			y := (j + 1) * size
			fill(img, image.Rect(x+inset, y+inset, x+size-inset, y+size-inset), toRGBA(cell.OKLCH()))
		}
	}
	for j, hue := range p.Hues {
		if tint, ok := g.HueTint(hue.ID); ok {
			y := (j + 1) * size
			fill(img, image.Rect(inset, y+inset, size-inset, y+size-inset), toRGBA(tint.OKLCH()))
		}
	}
	return img, nil
}

// Encode writes img in the format named by ext (".png", ".bmp", ".tif" or
// ".tiff").
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// WriteFile renders the grid and writes it to path, picking the format
// from the extension.
func WriteFile(path string, p *palette.Palette, g *store.Grid, opts Options) error {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".png", ".bmp", ".tif", ".tiff":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	img, err := Render(p, g, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, ext); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func toRGBA(o colour.OKLCH) color.RGBA {
	rgb := o.RGB()
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 0xff}
}
