// Package model turns a parsed (grid, policy) pair into the boolean
// constraint-model scaffolding the rule engine, objective and search loop
// build on: a deduplicated, sorted node set, a root index, one boolean
// variable slot per (actor, node), and the coefficient/forbid/quota maps
// derived from each actor's preferences.
package model

import (
	"math"
	"sort"
	"strconv"

	"github.com/katalvlaran/lot/dsl"
)

// Pair identifies one (actor, node) variable slot. Node is an index into
// Model.Nodes, chosen over a struct-of-keywords key so maps stay cheap and
// comparable (mirrors the teacher's preference for small comparable map
// keys over string-joined identifiers).
type Pair struct {
	Actor string
	Node  int
}

// Model is the fully-resolved scaffolding a solver engine is built from.
// Construction never touches a solver; Build is pure data transformation.
type Model struct {
	Nodes []dsl.Node // deduplicated, sorted node set
	Actors []string  // first-appearance order, from the policy

	RootOrder []string       // distinct roots, in node-encounter order
	Roots     map[string][]int // root keyword -> node indices sharing it

	Coeff  map[Pair]float64 // base coefficient, before objective noise
	Forbid map[Pair]bool    // true => variable is hard-fixed to false

	Exact   map[string]int           // actor -> "@" exact count, if declared
	RestGap map[string]int           // actor -> resolved rest-gap (0 = none)
	Quant   map[string][]dsl.QuantBound // actor -> "q" bounds
}

// Option customizes Build's behaviour.
type Option func(*config)

type config struct {
	minRest int
}

// WithDefaultMinRest sets the rest-gap applied to actors that did not
// declare their own "/" clause (spec §4.3 bullet 2: "default taken from the
// CLI; 0 = no rest rule").
func WithDefaultMinRest(n int) Option {
	return func(c *config) { c.minRest = n }
}

func newConfig(opts ...Option) *config {
	c := &config{minRest: 0}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Build constructs a Model from a parsed grid and policy (spec §4.3).
// Keyword validation (I6) is expected to have already run (dsl.Validate);
// Build assumes every keyword referenced by policy exists in grid.
func Build(grid dsl.Grid, pol *dsl.Policy, opts ...Option) *Model {
	cfg := newConfig(opts...)

	m := &Model{
		Actors:  append([]string(nil), pol.Order...),
		Roots:   map[string][]int{},
		Coeff:   map[Pair]float64{},
		Forbid:  map[Pair]bool{},
		Exact:   map[string]int{},
		RestGap: map[string]int{},
		Quant:   map[string][]dsl.QuantBound{},
	}

	m.Nodes = buildNodes(grid)
	for idx, n := range m.Nodes {
		root := n.Root()
		if _, seen := m.Roots[root]; !seen {
			m.RootOrder = append(m.RootOrder, root)
		}
		m.Roots[root] = append(m.Roots[root], idx)
	}

	for _, actor := range pol.Order {
		prefs := pol.Actors[actor]

		m.RestGap[actor] = cfg.minRest
		if prefs.RestGap != nil {
			m.RestGap[actor] = *prefs.RestGap
		}
		if prefs.Exact != nil {
			m.Exact[actor] = *prefs.Exact
		}
		if len(prefs.Quant) > 0 {
			m.Quant[actor] = append([]dsl.QuantBound(nil), prefs.Quant...)
		}

		for idx, node := range m.Nodes {
			p := Pair{Actor: actor, Node: idx}
			if len(prefs.Allow) == 0 || matchesAny(prefs.Allow, node) {
				m.Coeff[p] = 1
			} else {
				m.Coeff[p] = 0
			}
			if matchesAny(prefs.Forbid, node) {
				m.Forbid[p] = true
				m.Coeff[p] = 0
			}
		}

		if n := len(prefs.Priority); n > 0 {
			for i, tuple := range prefs.Priority {
				weight := priorityWeight(i+1, n)
				for idx, node := range m.Nodes {
					p := Pair{Actor: actor, Node: idx}
					if m.Coeff[p] == 0 {
						continue // priorities reinforce allowed nodes only (spec §4.3)
					}
					if tupleMatches(tuple, node) {
						m.Coeff[p] += weight
					}
				}
			}
		}
	}

	return m
}

// buildNodes concatenates each axis-set's Cartesian product in order,
// deduplicating across axis-sets, then sorts by first component: numeric
// order when every seen first component parses as an integer, lexical
// otherwise (spec §4.3 bullet 1, §4.6).
func buildNodes(grid dsl.Grid) []dsl.Node {
	seen := map[string]struct{}{}
	var nodes []dsl.Node
	for _, axis := range grid {
		lists := make([][]string, len(axis))
		for i, kl := range axis {
			lists[i] = []string(kl)
		}
		for _, tuple := range dsl.CartesianProduct(lists...) {
			n := dsl.Node(tuple)
			key := n.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			nodes = append(nodes, n)
		}
	}
	sortNodes(nodes)
	return nodes
}

// sortNodes orders nodes by their root (first component): numerically when
// every root parses as an integer, lexically otherwise.
func sortNodes(nodes []dsl.Node) {
	numeric := true
	for _, n := range nodes {
		if _, err := strconv.Atoi(n.Root()); err != nil {
			numeric = false
			break
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		ri, rj := nodes[i].Root(), nodes[j].Root()
		if numeric {
			vi, _ := strconv.Atoi(ri)
			vj, _ := strconv.Atoi(rj)
			return vi < vj
		}
		return ri < rj
	})
}

// matchesAny reports whether node is matched by any tuple in the list: a
// tuple matches a node when every keyword in the tuple also appears among
// the node's components (subset test, spec §4.3's "superset" phrasing from
// the node's point of view).
func matchesAny(tuples [][]dsl.Keyword, node dsl.Node) bool {
	for _, t := range tuples {
		if tupleMatches(t, node) {
			return true
		}
	}
	return false
}

func tupleMatches(tuple []dsl.Keyword, node dsl.Node) bool {
	set := map[string]struct{}{}
	for _, k := range node {
		set[k] = struct{}{}
	}
	for _, k := range tuple {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

// priorityWeight computes the soft weight for the i-th (1-indexed) entry of
// an n-long priority list: -log10(i/n)/sqrt(n) (spec §3).
func priorityWeight(i, n int) float64 {
	return -math.Log10(float64(i)/float64(n)) / math.Sqrt(float64(n))
}
