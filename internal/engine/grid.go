package engine

import (
	"fmt"
	"time"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/solver"
)

// neutralHue is the hue used for level tints of rows without hues.
const neutralHue = 0

// zone is one side of a split background.
type zone struct {
	ref    colour.OKLCH
	search solver.Search
}

// Run computes the grid described by req and streams the results to emit.
//
// Results arrive level by level in request order. During the first level's
// pass, one hue tint per hue is emitted before that level's own result.
// Levels excluded by req.RecalcOnlyLevels produce no result, but the hue
// tints are always refreshed. A grid without levels emits nothing.
//
// Run fails only when a background does not parse, in which case nothing
// is emitted. It is never cancelled once started.
func (e *Engine) Run(req Request, emit func(Response)) error {
	left, err := colour.Parse(req.BackgroundLeft)
	if err != nil {
		return fmt.Errorf("left background: %w", err)
	}
	right := left
	if req.BackgroundRight != "" {
		right, err = colour.Parse(req.BackgroundRight)
		if err != nil {
			return fmt.Errorf("right background: %w", err)
		}
	}

	zones := [2]zone{
		{ref: left, search: solver.SearchFor(left, req.Model, req.Gamut)},
		{ref: right, search: solver.SearchFor(right, req.Model, req.Gamut)},
	}
	consts := e.Constants(req.Model)

	start := time.Now()
	rows := 0
	for i, level := range req.Levels {
		z := zones[1]
		if i < req.SplitIndex {
			z = zones[0]
		}

		if i == 0 {
			e.emitHueTints(req, zones[0], consts, emit)
		}

		if !req.RecalcOnlyLevels.Includes(level.ID) {
			continue
		}

		emit(e.row(req, level, z, consts))
		rows++
	}

	e.logger.Debug("grid computed",
		"levels", len(req.Levels),
		"hues", len(req.Hues),
		"rows", rows,
		"all", req.RecalcOnlyLevels.IsAll(),
		"duration", time.Since(start))
	return nil
}

// emitHueTints emits one tint per hue, always against the left background
// so tints stay stable while levels are added or removed.
func (e *Engine) emitHueTints(req Request, z zone, c Constants, emit func(Response)) {
	for _, h := range req.Hues {
		cell := e.CalculateCell(CellInput{
			Reference: z.ref,
			Contrast:  c.HueTintContrast,
			Model:     req.Model,
			Role:      req.Direction,
			Search:    z.search,
			Hue:       h.Angle,
			Chroma:    c.HueTintChroma,
			Gamut:     req.Gamut,
		})
		emit(Response{Kind: KindHueTint, HueID: h.ID, Tint: Tint{Cell: cell}})
	}
}

// row computes every cell of one level and its level tint.
func (e *Engine) row(req Request, level Level, z zone, c Constants) Response {
	base := CellInput{
		Reference: z.ref,
		Contrast:  level.Contrast,
		Model:     req.Model,
		Role:      req.Direction,
		Search:    z.search,
		Gamut:     req.Gamut,
	}
	resp := Response{
		Kind:    KindLevel,
		LevelID: level.ID,
		Cells:   make(map[string]Cell, len(req.Hues)),
	}

	if len(req.Hues) == 0 {
		in := base
		in.Hue = neutralHue
		resp.Tint = e.levelTint(in, e.CalculateCell(in), c)
		return resp
	}

	switch {
	case req.ChromaStrategy == ChromaEven:
		common := e.MaxCommonChroma(base, req.Hues)
		if level.Chroma != nil {
			common = min(common, *level.Chroma)
		}
		base.Chroma = common
	case level.Chroma != nil:
		base.Chroma = *level.Chroma
	default:
		base.MaxChroma = true
	}

	for j, h := range req.Hues {
		in := base
		in.Hue = h.Angle
		cell := e.CalculateCell(in)
		resp.Cells[h.ID] = cell
		if j == 0 {
			resp.Tint = e.levelTint(in, cell, c)
		}
	}
	return resp
}

// levelTint derives a level's tint from its first cell. Rows whose contrast
// sits below the tint floor get a tint recomputed at the floor so it stays
// legible; RowChroma still records the row's own chroma.
func (e *Engine) levelTint(in CellInput, first Cell, c Constants) Tint {
	rowChroma := first.Chroma
	tint := first
	if first.Contrast < c.TintFloor {
		in.Contrast = c.TintFloor
		tint = e.CalculateCell(in)
	}
	return Tint{Cell: tint, RowChroma: &rowChroma}
}
