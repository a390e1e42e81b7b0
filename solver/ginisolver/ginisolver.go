// Package ginisolver wires the scheduling core's solver.Engine boundary onto
// github.com/go-air/gini, a pure-Go CDCL SAT core. gini only decides
// feasibility (CNF satisfiability); it has no native notion of cardinality
// or weighted optimization, so every counting constraint R1-R4/@/q reduces
// to CNF here via the Sinz sequential-counter encoding, and the weighted
// objective (spec §4.5) is deliberately NOT encoded in this package — it is
// scored externally, in Go floats, over whichever feasible assignments the
// search loop draws from repeated Solve calls (see package search).
package ginisolver

import (
	"context"
	"math/rand"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/katalvlaran/lot/solver"
)

// Engine implements solver.Engine over a single gini instance. A fresh
// Engine is built for every solve attempt, matching the widening loop's
// "each call to solve builds a fresh model" contract (spec §5).
type Engine struct {
	sat    *gini.Gini
	labels []string
	lits   []z.Lit // lits[v] is the positive literal for VarID v
	rng    *rand.Rand
	solved bool
}

// New returns an empty Engine backed by a fresh gini instance.
func New() *Engine {
	return &Engine{sat: gini.New(), rng: rand.New(rand.NewSource(1))}
}

func (e *Engine) NewBoolVar(label string) solver.VarID {
	v := e.sat.NewVar()
	e.labels = append(e.labels, label)
	e.lits = append(e.lits, v.Pos())
	return solver.VarID(len(e.lits) - 1)
}

func (e *Engine) lit(v solver.VarID) z.Lit { return e.lits[v] }

// addClause adds one disjunctive clause (of literals, already possibly
// negated by the caller) to the underlying solver.
func (e *Engine) addClause(lits ...z.Lit) {
	for _, l := range lits {
		e.sat.Add(l)
	}
	e.sat.Add(z.LitNull)
}

func (e *Engine) Forbid(v solver.VarID) {
	e.addClause(e.lit(v).Not())
}

// AtMostOne is AtMost with n=1, kept as its own entry point because it is by
// far the most common cardinality shape in the model (R1, R2). It uses the
// same sequential-counter encoding as AtMost, whatever the list length.
func (e *Engine) AtMostOne(vars []solver.VarID) {
	e.AtMost(vars, 1)
}

func (e *Engine) Equal(vars []solver.VarID, n int) {
	e.AtMost(vars, n)
	e.AtLeast(vars, n)
}

func (e *Engine) AtMost(vars []solver.VarID, n int) {
	lits := e.litsOf(vars)
	sequentialAtMostK(e, lits, n)
}

func (e *Engine) AtLeast(vars []solver.VarID, n int) {
	lits := e.litsOf(vars)
	neg := make([]z.Lit, len(lits))
	for i, l := range lits {
		neg[i] = l.Not()
	}
	sequentialAtMostK(e, neg, len(lits)-n)
}

func (e *Engine) litsOf(vars []solver.VarID) []z.Lit {
	out := make([]z.Lit, len(vars))
	for i, v := range vars {
		out[i] = e.lit(v)
	}
	return out
}

// Implication enforces trigger => AND_i !zeros[i], i.e. the clause
// (!trigger OR !zeros[i]) for each zero.
func (e *Engine) Implication(trigger solver.VarID, zeros []solver.VarID) {
	t := e.lit(trigger).Not()
	for _, z0 := range zeros {
		e.addClause(t, e.lit(z0).Not())
	}
}

// ReifyOr introduces aux <=> OR(vars):
//
//	aux => OR(vars)   : (!aux OR v1 OR v2 OR ... )
//	vi => aux (each i) : (!vi OR aux)
func (e *Engine) ReifyOr(vars []solver.VarID) solver.VarID {
	aux := e.NewBoolVar("reify_or")
	auxLit := e.lit(aux)

	disj := make([]z.Lit, 0, len(vars)+1)
	disj = append(disj, auxLit.Not())
	for _, v := range vars {
		disj = append(disj, e.lit(v))
	}
	e.addClause(disj...)

	for _, v := range vars {
		e.addClause(e.lit(v).Not(), auxLit)
	}
	return aux
}

func (e *Engine) Seed(seed int64) { e.rng = rand.New(rand.NewSource(seed)) }

// Solve runs gini's CDCL search. The sign/order of variable decisions inside
// gini is fixed by its own internal heuristics, and Solve never consults the
// RNG that Seed installs, so re-solving the same constraint set yields the
// same assignment whatever seed was given.
func (e *Engine) Solve(ctx context.Context) (solver.Status, error) {
	result := e.sat.Solve()
	e.solved = result == 1
	if ctx.Err() != nil {
		return solver.StatusUnknown, ctx.Err()
	}
	switch result {
	case 1:
		return solver.StatusFeasible, nil
	case -1:
		return solver.StatusInfeasible, nil
	default:
		return solver.StatusUnknown, nil
	}
}

func (e *Engine) Value(v solver.VarID) bool {
	return e.sat.Value(e.lit(v))
}

// sequentialAtMostK encodes "at most k of lits are true" using the Sinz
// (2005) sequential-counter construction: register variables r[i][j] mean
// "at least j of the first i literals are true". k<0 is unsatisfiable and
// adds a contradiction; k==0 forces every literal false directly;
// k>=len(lits) is a tautology and adds nothing.
func sequentialAtMostK(e *Engine, lits []z.Lit, k int) {
	n := len(lits)
	if k < 0 {
		f := e.lit(e.NewBoolVar("unsat"))
		e.addClause(f)
		e.addClause(f.Not())
		return
	}
	if k >= n {
		return
	}
	if k == 0 {
		for _, l := range lits {
			e.addClause(l.Not())
		}
		return
	}

	newReg := func() z.Lit { return e.lit(e.NewBoolVar("sc")) }
	r := make([][]z.Lit, n+1) // 1-indexed rows; r[i][j] for j in 1..k
	for i := 1; i <= n; i++ {
		r[i] = make([]z.Lit, k+1)
		for j := 1; j <= k; j++ {
			r[i][j] = newReg()
		}
	}

	x := func(i int) z.Lit { return lits[i-1] }

	// (1) x1 => r[1][1]
	e.addClause(x(1).Not(), r[1][1])
	// (2) !r[1][j] for j=2..k
	for j := 2; j <= k; j++ {
		e.addClause(r[1][j].Not())
	}

	for i := 2; i <= n; i++ {
		// (3) xi => r[i][1]
		e.addClause(x(i).Not(), r[i][1])
		// (4) r[i-1][1] => r[i][1]
		e.addClause(r[i-1][1].Not(), r[i][1])
		for j := 2; j <= k; j++ {
			// (5) (xi AND r[i-1][j-1]) => r[i][j]
			e.addClause(x(i).Not(), r[i-1][j-1].Not(), r[i][j])
			// (6) r[i-1][j] => r[i][j]
			e.addClause(r[i-1][j].Not(), r[i][j])
		}
		// (7) (xi AND r[i-1][k]) => false, i.e. forbids the (k+1)-th true literal
		e.addClause(x(i).Not(), r[i-1][k].Not())
	}
}
