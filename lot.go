// Package lot implements the LOT scheduling language: a declarative grid +
// policy DSL compiled into a boolean constraint model, solved by widening an
// upper bound on assignments-per-actor until a feasible, fully-staffed
// schedule is found (see SPEC_FULL.md for the full design).
package lot

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/model"
	"github.com/katalvlaran/lot/result"
	"github.com/katalvlaran/lot/search"
	"github.com/katalvlaran/lot/solver"
	"github.com/katalvlaran/lot/solver/ginisolver"
)

// Config tunes one end-to-end Solve call.
type Config struct {
	// MaxIterations bounds the widening loop (spec default 5).
	MaxIterations int
	// MinRest is the rest-gap applied to actors that declared no "/"
	// clause of their own (0 = no rule, spec §4.3).
	MinRest int
	// Samples is how many independently-reseeded candidate solutions are
	// scored per widening level before the best is accepted.
	Samples int
	// Seed powers every source of randomness in the run: tie-break noise and
	// per-sample solver reseeding (spec §9). Constraints are added in a fixed
	// order; the seed does not shuffle them.
	Seed int64
	// Engine overrides the solver backend; nil uses ginisolver.
	Engine search.EngineFactory
}

// DefaultConfig mirrors search.DefaultConfig with MinRest=0 and the real
// gini-backed solver.
func DefaultConfig() Config {
	sc := search.DefaultConfig()
	return Config{
		MaxIterations: sc.MaxIterations,
		MinRest:       0,
		Samples:       sc.Samples,
		Seed:          sc.Seed,
		Engine:        func() solver.Engine { return ginisolver.New() },
	}
}

// Solve parses source, builds the constraint model, runs the widening loop
// and returns the dual-projection Result plus a diagnostic Report.
//
// Errors are one of these kinds (spec §7): a *parse.Error for malformed
// source (use its Format method for a caret diagnostic), a
// *dsl.ValidationError for policy keywords absent from the grid, a
// *search.UnreachableNodeError when some node is forbidden to every actor,
// search.ErrWideningExhausted when no feasible, fully-staffed schedule was
// found within cfg.MaxIterations, or ctx's error if ctx is cancelled during
// the search.
func Solve(ctx context.Context, source string, cfg Config) (*result.Result, *search.Report, error) {
	grid, pol, err := dsl.ParseLOT(source)
	if err != nil {
		return nil, nil, err
	}

	m := model.Build(grid, pol, model.WithDefaultMinRest(cfg.MinRest))

	engine := cfg.Engine
	if engine == nil {
		engine = func() solver.Engine { return ginisolver.New() }
	}

	searchCfg := search.Config{
		MaxIterations: cfg.MaxIterations,
		Samples:       cfg.Samples,
		Seed:          cfg.Seed,
	}
	if searchCfg.MaxIterations == 0 {
		searchCfg.MaxIterations = search.DefaultConfig().MaxIterations
	}
	if searchCfg.Samples == 0 {
		searchCfg.Samples = search.DefaultConfig().Samples
	}

	assignment, report, err := search.Solve(ctx, m, engine, searchCfg)
	if err != nil {
		return nil, report, fmt.Errorf("lot: %w", err)
	}

	return result.Build(m, assignment), report, nil
}
