// Package stub is an in-memory Engine usable without any external solver
// dependency, for unit tests that exercise the rule engine and search loop
// in isolation (spec §9: "unit-testable with a stub"). It solves by
// chronological backtracking, which is adequate for the small instances a
// unit test constructs but is not intended for production-sized models —
// solver/ginisolver is the real backend.
package stub

import (
	"context"
	"math/rand"

	"github.com/katalvlaran/lot/solver"
)

type constraint struct {
	kind  kind
	vars  []solver.VarID
	n     int
	trig  solver.VarID
	zeros []solver.VarID
}

type kind int

const (
	kAtMostOne kind = iota
	kEqual
	kAtMost
	kAtLeast
	kForbid
	kImplication
)

// Engine is a chronological-backtracking solver.Engine implementation.
type Engine struct {
	labels      []string
	constraints []constraint
	assign      []bool
	order       []int
	rng         *rand.Rand
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{rng: rand.New(rand.NewSource(1))}
}

func (e *Engine) NewBoolVar(label string) solver.VarID {
	e.labels = append(e.labels, label)
	return solver.VarID(len(e.labels) - 1)
}

func (e *Engine) AtMostOne(vars []solver.VarID) {
	e.constraints = append(e.constraints, constraint{kind: kAtMostOne, vars: vars})
}

func (e *Engine) Equal(vars []solver.VarID, n int) {
	e.constraints = append(e.constraints, constraint{kind: kEqual, vars: vars, n: n})
}

func (e *Engine) AtMost(vars []solver.VarID, n int) {
	e.constraints = append(e.constraints, constraint{kind: kAtMost, vars: vars, n: n})
}

func (e *Engine) AtLeast(vars []solver.VarID, n int) {
	e.constraints = append(e.constraints, constraint{kind: kAtLeast, vars: vars, n: n})
}

func (e *Engine) Forbid(v solver.VarID) {
	e.constraints = append(e.constraints, constraint{kind: kForbid, vars: []solver.VarID{v}})
}

func (e *Engine) Implication(trigger solver.VarID, zeros []solver.VarID) {
	e.constraints = append(e.constraints, constraint{kind: kImplication, trig: trigger, zeros: zeros})
}

// ReifyOr introduces an auxiliary variable pinned to OR(vars) by a single
// kEqual constraint carrying the sentinel n == -1, which check evaluates
// directly as aux == OR(vars) instead of as raw clauses, since the stub
// interprets constraints by re-checking them against a candidate assignment
// rather than compiling CNF.
func (e *Engine) ReifyOr(vars []solver.VarID) solver.VarID {
	aux := e.NewBoolVar("reify_or")
	e.constraints = append(e.constraints, constraint{kind: kEqual, vars: append([]solver.VarID{aux}, vars...), n: -1})
	return aux
}

func (e *Engine) Seed(seed int64) { e.rng = rand.New(rand.NewSource(seed)) }

// Solve performs chronological backtracking over all variables, trying
// values in an order permuted by the engine's seed so repeated calls with
// different seeds can surface distinct feasible solutions among ties.
func (e *Engine) Solve(ctx context.Context) (solver.Status, error) {
	n := len(e.labels)
	e.assign = make([]bool, n)
	order := e.rng.Perm(n)

	var backtrack func(i int) bool
	backtrack = func(i int) bool {
		if i == n {
			return e.allSatisfied()
		}
		select {
		case <-ctx.Done():
			return false
		default:
		}
		v := solver.VarID(order[i])
		first := e.rng.Intn(2) == 0
		for _, val := range [2]bool{first, !first} {
			e.assign[v] = val
			if e.partiallyConsistent() && backtrack(i+1) {
				return true
			}
		}
		e.assign[v] = false
		return false
	}

	if backtrack(0) {
		return solver.StatusFeasible, nil
	}
	return solver.StatusInfeasible, nil
}

func (e *Engine) Value(v solver.VarID) bool { return e.assign[v] }

// partiallyConsistent is a coarse, always-safe pruning hook; the stub
// re-validates every constraint fully once all variables are bound, so an
// always-true stub here is correct, merely unoptimized. Kept as a named
// hook (rather than inlined into backtrack) so a future optimization can
// tighten it without touching the search shape.
func (e *Engine) partiallyConsistent() bool { return true }

func (e *Engine) allSatisfied() bool {
	for _, c := range e.constraints {
		if !e.check(c) {
			return false
		}
	}
	return true
}

func (e *Engine) check(c constraint) bool {
	sum := func(vars []solver.VarID) int {
		s := 0
		for _, v := range vars {
			if e.assign[v] {
				s++
			}
		}
		return s
	}
	switch c.kind {
	case kAtMostOne:
		return sum(c.vars) <= 1
	case kEqual:
		if c.n == -1 { // ReifyOr encoding: vars[0] == OR(vars[1:])
			aux := e.assign[c.vars[0]]
			orVal := sum(c.vars[1:]) > 0
			return aux == orVal
		}
		return sum(c.vars) == c.n
	case kAtMost:
		return sum(c.vars) <= c.n
	case kAtLeast:
		return sum(c.vars) >= c.n
	case kForbid:
		return !e.assign[c.vars[0]]
	case kImplication:
		if !e.assign[c.trig] {
			return true
		}
		for _, z := range c.zeros {
			if e.assign[z] {
				return false
			}
		}
		return true
	}
	return true
}
