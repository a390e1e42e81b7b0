// Package solver defines the thin boundary between the scheduling core and
// an external constraint/SAT engine (spec §9: "wrap these behind a thin
// interface so the scheduler core is solver-agnostic and unit-testable with
// a stub"). Two implementations live alongside it: solver/stub, an in-memory
// backtracking fake for unit tests, and solver/ginisolver, a real encoding
// onto github.com/go-air/gini's CDCL SAT core.
package solver

import "context"

// VarID names one boolean decision variable inside an Engine. Callers never
// construct a VarID themselves; it is only ever handed back from NewBoolVar.
type VarID int

// Status is the outcome of a Solve call.
type Status int

const (
	StatusUnknown Status = iota
	StatusFeasible
	StatusInfeasible
)

// Engine is the boolean constraint-programming boundary the rule engine
// (package rules) and the widening loop (package search) are built against.
// Every constraint method is a hard (non-reified, always-enforced) clause
// over already-created variables; there is no separate "remove constraint"
// operation because each solve attempt builds a fresh Engine (spec §5: "each
// call to solve builds a fresh model").
type Engine interface {
	// NewBoolVar creates a fresh boolean variable. label is diagnostic only.
	NewBoolVar(label string) VarID

	// AtMostOne enforces Σ vars <= 1.
	AtMostOne(vars []VarID)
	// Equal enforces Σ vars == n.
	Equal(vars []VarID, n int)
	// AtMost enforces Σ vars <= n.
	AtMost(vars []VarID, n int)
	// AtLeast enforces Σ vars >= n.
	AtLeast(vars []VarID, n int)

	// Forbid hard-fixes v to false.
	Forbid(v VarID)
	// Implication enforces: whenever trigger is true, every var in zeros is
	// false (trigger => AND_i !zeros[i]). Used for R4's rest-gap indicator.
	Implication(trigger VarID, zeros []VarID)
	// ReifyOr introduces a fresh variable constrained to equal OR(vars), and
	// returns it — used to build R4's "scheduled on root" indicator.
	ReifyOr(vars []VarID) VarID

	// Seed influences tie-break / branching order for the next Solve call,
	// so the widening loop can draw several distinct feasible solutions out
	// of the same constraint set (spec §4.5's noise wants diversity across
	// runs; the solver boundary is where that diversity is actually sourced
	// since the CP engine, not the Go objective code, owns variable order).
	// solver/stub honors it; solver/ginisolver accepts it but its search
	// order does not depend on it.
	Seed(seed int64)

	// Solve runs the underlying engine and reports feasibility.
	Solve(ctx context.Context) (Status, error)
	// Value reports the assignment of v from the last successful Solve.
	Value(v VarID) bool
}
