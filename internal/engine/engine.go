package engine

import (
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/solver"
)

// Constants are the per-model tuning values of the engine.
type Constants struct {
	// SubtleThreshold is the contrast below which cells are blended from the
	// reference instead of solved directly. Zero disables blending.
	SubtleThreshold float64
	// TintFloor is the lowest contrast a level tint is shown at.
	TintFloor float64
	// HueTintContrast is the contrast hue tints are measured at.
	HueTintContrast float64
	// HueTintChroma is the chroma hue tints are drawn with.
	HueTintChroma float64
}

// DefaultConstants returns the built-in constants for a contrast model.
func DefaultConstants(m colour.Model) Constants {
	if m == colour.ModelWCAG {
		return Constants{
			SubtleThreshold: 0,
			TintFloor:       3,
			HueTintContrast: 4.5,
			HueTintChroma:   0.1,
		}
	}
	return Constants{
		SubtleThreshold: 8,
		TintFloor:       50,
		HueTintContrast: 60,
		HueTintChroma:   0.1,
	}
}

// Engine computes palette grids. It holds no state between runs and is
// safe for concurrent use.
type Engine struct {
	solver    solver.Solver
	constants map[colour.Model]Constants
	logger    hclog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSolver replaces the default bisection solver.
func WithSolver(s solver.Solver) Option {
	return func(e *Engine) {
		e.solver = s
	}
}

// WithConstants overrides the constants used for one contrast model.
func WithConstants(m colour.Model, c Constants) Option {
	return func(e *Engine) {
		e.constants[m] = c
	}
}

// WithLogger sets the logger. The engine logs at debug level only.
func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		solver: solver.Bisect{},
		constants: map[colour.Model]Constants{
			colour.ModelAPCA: DefaultConstants(colour.ModelAPCA),
			colour.ModelWCAG: DefaultConstants(colour.ModelWCAG),
		},
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Constants returns the constants in effect for the model.
func (e *Engine) Constants(m colour.Model) Constants {
	if c, ok := e.constants[m]; ok {
		return c
	}
	return DefaultConstants(m)
}
