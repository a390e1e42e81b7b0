// Package objective scores a complete, feasible (actor, node) assignment
// against the weighted objective described in spec §4.5:
//
//	maximise Σ (coeff[a,n] + ε) · vars[a,n] − λ_E · E − λ_Σ · S
//
// The external CP-SAT black box this project targets (solver.Engine) has no
// native notion of a weighted objective — gini, its concrete backend, only
// decides feasibility. So rather than compiling the objective into the
// solver, the search loop (package search) draws several independent
// feasible assignments out of the solver (by reseeding its tie-break order)
// and this package scores each one in plain Go floats, keeping the best —
// the same "cheap local scoring on top of a combinatorial base solver"
// shape the teacher's tsp package uses for 2-opt polish after an initial
// tour.
package objective

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/lot/model"
)

// Temperature is the magnitude of the per-variable tie-break noise added to
// coefficients at model-build time (spec §4.5).
const Temperature = 0.1

// EntropyWeight is λ_E, the low-entropy (clumping) penalty weight.
const EntropyWeight = 0.2

// VarianceWeight is λ_Σ, the load-variance penalty weight.
const VarianceWeight = 0.2

// Weights holds the per-(actor,node) coefficient after noise has been
// folded in, so scoring never has to re-derive randomness.
type Weights map[model.Pair]float64

// DeriveWeights draws ε once per (actor,node) pair whose base coefficient is
// already >= 1 and adds it to Coeff, per spec §4.5: "drawn once at model
// build ... added only where coeff >= 1". Deterministic for a fixed seed,
// the reproducibility contract spec §5/§9 require of the whole run.
func DeriveWeights(m *model.Model, seed int64) Weights {
	rng := rand.New(rand.NewSource(seed))
	w := make(Weights, len(m.Coeff))
	// Draw in actor/node order, not map order, so each pair gets the same
	// draw for the same seed.
	for _, actor := range m.Actors {
		for idx := range m.Nodes {
			p := model.Pair{Actor: actor, Node: idx}
			c := m.Coeff[p]
			w[p] = c
			if c >= 1 {
				w[p] += (rng.Float64()*2 - 1) * Temperature
			}
		}
	}
	return w
}

// Assignment is a resolved (actor, node) -> assigned? view, independent of
// any particular solver.Engine so scoring can run after the solve has
// finished and the engine has gone out of scope.
type Assignment map[model.Pair]bool

// Score computes the full objective value of assignment under m/weights.
func Score(m *model.Model, w Weights, a Assignment) float64 {
	base := 0.0
	for p, assigned := range a {
		if assigned {
			base += w[p]
		}
	}
	return base - EntropyWeight*entropy(m, a) - VarianceWeight*variance(m, a)
}

// entropy computes E: for every component value v appearing on more than
// one node, and every actor, penalty >= Σ vars(actor, nodes with v) - 1,
// summed over all such (actor, v) pairs (spec §4.5).
func entropy(m *model.Model, a Assignment) float64 {
	valueNodes := map[string][]int{}
	for idx, n := range m.Nodes {
		for _, k := range n {
			valueNodes[k] = append(valueNodes[k], idx)
		}
	}

	total := 0.0
	for _, idxs := range valueNodes {
		if len(idxs) < 2 {
			continue
		}
		for _, actor := range m.Actors {
			count := 0
			for _, idx := range idxs {
				if a[model.Pair{Actor: actor, Node: idx}] {
					count++
				}
			}
			if count > 1 {
				total += float64(count - 1)
			}
		}
	}
	return total
}

// variance computes S = Σ_a (s_a)^2, s_a = Σ vars[a,·] (spec §4.5).
func variance(m *model.Model, a Assignment) float64 {
	total := 0.0
	for _, actor := range m.Actors {
		s := 0
		for idx := range m.Nodes {
			if a[model.Pair{Actor: actor, Node: idx}] {
				s++
			}
		}
		total += float64(s * s)
	}
	return total
}

// clamp keeps a float within [lo, hi]. DeriveWeights does not call it: noise
// is only ever added where coeff >= 1, so a noisy weight can never cross back
// to zero.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
