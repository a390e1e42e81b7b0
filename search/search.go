package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/katalvlaran/lot/model"
	"github.com/katalvlaran/lot/objective"
	"github.com/katalvlaran/lot/rules"
	"github.com/katalvlaran/lot/solver"
)

// ErrWideningExhausted is returned when the loop reaches MaxIterations
// without ever accepting a feasible, fully-staffed assignment (spec §4.5:
// "Exhaustion raises a fatal error").
var ErrWideningExhausted = errors.New("search: widening loop exhausted without a feasible assignment")

// UnreachableNodeError reports nodes that no actor is permitted to cover at
// any maxActs — a structural defect in the policy's "-x" forbid lists,
// diagnosed up front instead of surfacing as an opaque ErrWideningExhausted
// after MaxIterations of futile widening.
type UnreachableNodeError struct {
	Nodes []string
}

func (e *UnreachableNodeError) Error() string {
	return fmt.Sprintf("search: node(s) unreachable by any permitted actor: %s", strings.Join(e.Nodes, ", "))
}

// EngineFactory returns a fresh, empty solver.Engine — a new one is needed
// for every solve attempt (spec §5: "each call to solve builds a fresh
// model").
type EngineFactory func() solver.Engine

// Config tunes the widening loop.
type Config struct {
	// MaxIterations bounds the widening loop (spec default 5).
	MaxIterations int
	// Samples is how many independently-reseeded solver draws are scored
	// per maxActs level before accepting the best (supplemented feature:
	// the source's weighted objective has no home in a pure-SAT backend,
	// so diversity + external scoring stands in for true optimization).
	Samples int
	// Seed powers both the noise draw (objective.DeriveWeights) and the
	// per-sample solver reseeding, for reproducible runs (spec §9).
	Seed int64
}

// DefaultConfig returns the spec's defaults: 5 widening iterations, 8
// scored samples per level.
func DefaultConfig() Config {
	return Config{MaxIterations: 5, Samples: 8, Seed: 1}
}

// Report records diagnostics about one widening-loop run (supplemented
// feature: spec.md defines no observability surface for the core, but a
// fatal-error message with zero context would be unusable in practice).
type Report struct {
	Iterations   int
	FinalMaxActs int
	Candidates   int
	Accepted     bool
	BestScore    float64
	WallTime     time.Duration
}

// Solve first rejects m outright with an *UnreachableNodeError if any node
// has no permitted actor at all (true at every max_acts, so there is no
// point widening). Otherwise it runs the widening loop: at each max_acts
// level it first runs a cheap max-flow necessary-condition check, then —
// only if that passes — builds a fresh solver.Engine, compiles R1-R4 via
// package rules, and draws up to cfg.Samples independent feasible
// solutions, scoring each with package objective and keeping the best. The
// loop accepts the first max_acts level at which any sample is both
// feasible and fully-staffed (every actor has >= 1 assignment, or exactly
// its "@" count).
func Solve(ctx context.Context, m *model.Model, newEngine EngineFactory, cfg Config) (objective.Assignment, *Report, error) {
	start := time.Now()
	report := &Report{}

	if bad := unreachableNodes(m); len(bad) > 0 {
		sort.Strings(bad)
		return nil, report, &UnreachableNodeError{Nodes: bad}
	}

	maxActs := initialMaxActs(m)
	weights := objective.DeriveWeights(m, cfg.Seed)
	rng := rand.New(rand.NewSource(cfg.Seed))

	for it := 0; it < cfg.MaxIterations; it++ {
		report.Iterations++
		report.FinalMaxActs = maxActs

		if !bipartiteFlowFeasible(m, maxActs) {
			maxActs++
			continue
		}

		var best objective.Assignment
		bestScore := 0.0
		foundAny := false

		for s := 0; s < cfg.Samples; s++ {
			select {
			case <-ctx.Done():
				return nil, report, ctx.Err()
			default:
			}

			e := newEngine()
			vars := rules.BuildVars(e, m)
			rules.Apply(e, m, vars, maxActs)
			e.Seed(rng.Int63())

			status, err := e.Solve(ctx)
			if err != nil {
				return nil, report, fmt.Errorf("search: solve attempt failed: %w", err)
			}
			if status != solver.StatusFeasible {
				continue
			}

			assignment := extract(m, vars, e)
			report.Candidates++
			if !everyActorStaffed(m, assignment) {
				continue
			}

			score := objective.Score(m, weights, assignment)
			if !foundAny || score > bestScore {
				best, bestScore, foundAny = assignment, score, true
			}
		}

		if foundAny {
			report.Accepted = true
			report.BestScore = bestScore
			report.WallTime = time.Since(start)
			return best, report, nil
		}

		maxActs++
	}

	report.WallTime = time.Since(start)
	return nil, report, fmt.Errorf("%w (after %d iterations, final max_acts=%d)",
		ErrWideningExhausted, report.Iterations, report.FinalMaxActs)
}

// initialMaxActs is ceil(|nodes|/|actors|), never less than 1 (spec §4.5).
func initialMaxActs(m *model.Model) int {
	if len(m.Actors) == 0 {
		return 1
	}
	n := (len(m.Nodes) + len(m.Actors) - 1) / len(m.Actors)
	if n < 1 {
		n = 1
	}
	return n
}

func extract(m *model.Model, vars rules.Vars, e solver.Engine) objective.Assignment {
	a := make(objective.Assignment, len(vars))
	for p, v := range vars {
		a[p] = e.Value(v)
	}
	_ = m
	return a
}

// everyActorStaffed re-checks I3 defensively: every actor without a "@0"
// override must have at least one assignment (spec §7: an actor with 0
// nodes is not an error, it silently triggers another widening attempt).
func everyActorStaffed(m *model.Model, a objective.Assignment) bool {
	for _, actor := range m.Actors {
		if n, ok := m.Exact[actor]; ok && n == 0 {
			continue
		}
		count := 0
		for idx := range m.Nodes {
			if a[model.Pair{Actor: actor, Node: idx}] {
				count++
			}
		}
		if count == 0 {
			return false
		}
	}
	return true
}
