// Package rules compiles a model.Model's hard structural constraints
// (spec §4.4, R1-R4) onto a solver.Engine. It owns the (actor, node) -> VarID
// mapping; nothing downstream of Build ever needs to know how a pair was
// turned into a solver variable.
package rules

import (
	"fmt"

	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/model"
	"github.com/katalvlaran/lot/solver"
)

// Vars maps every (actor, node) pair in a model.Model to the boolean
// variable created for it in one particular Engine.
type Vars map[model.Pair]solver.VarID

// BuildVars creates one fresh boolean variable per (actor, node) pair and
// hard-fixes every pair the model marked Forbid.
func BuildVars(e solver.Engine, m *model.Model) Vars {
	vars := make(Vars, len(m.Actors)*len(m.Nodes))
	for _, actor := range m.Actors {
		for idx := range m.Nodes {
			p := model.Pair{Actor: actor, Node: idx}
			label := fmt.Sprintf("%s@%s", actor, m.Nodes[idx].Key())
			v := e.NewBoolVar(label)
			vars[p] = v
			if m.Forbid[p] {
				e.Forbid(v)
			}
		}
	}
	return vars
}

// Apply compiles R1-R4 plus the @/q quota constraints onto e, using maxActs
// as R3's current widening-loop bound (spec §4.4, §4.5).
func Apply(e solver.Engine, m *model.Model, vars Vars, maxActs int) {
	r1SingleActorPerNode(e, m, vars)
	r2AtMostOnePerRoot(e, m, vars)
	r3ClipActs(e, m, vars, maxActs)
	r4RestGap(e, m, vars)
	quantBounds(e, m, vars)
}

// r1SingleActorPerNode: for every node, exactly one actor is assigned.
func r1SingleActorPerNode(e solver.Engine, m *model.Model, vars Vars) {
	for idx := range m.Nodes {
		group := make([]solver.VarID, len(m.Actors))
		for i, actor := range m.Actors {
			group[i] = vars[model.Pair{Actor: actor, Node: idx}]
		}
		e.Equal(group, 1)
	}
}

// r2AtMostOnePerRoot: for every actor and every root, at most one of that
// actor's nodes sharing the root is assigned.
func r2AtMostOnePerRoot(e solver.Engine, m *model.Model, vars Vars) {
	for _, actor := range m.Actors {
		for _, root := range m.RootOrder {
			nodeIdxs := m.Roots[root]
			group := make([]solver.VarID, len(nodeIdxs))
			for i, idx := range nodeIdxs {
				group[i] = vars[model.Pair{Actor: actor, Node: idx}]
			}
			e.AtMostOne(group)
		}
	}
}

// r3ClipActs: every actor is assigned between 1 and maxActs nodes, and
// exactly the actor's "@" count when one was declared (I4).
func r3ClipActs(e solver.Engine, m *model.Model, vars Vars, maxActs int) {
	for _, actor := range m.Actors {
		group := actorVars(m, vars, actor)
		if n, ok := m.Exact[actor]; ok {
			e.Equal(group, n)
		}
		e.AtLeast(group, 1)
		e.AtMost(group, maxActs)
	}
}

// r4RestGap: for every actor with a positive rest-gap k, a "scheduled on
// root i" indicator forces zero assignment on the following k roots
// whenever it holds (spec §4.4, the reified formulation chosen as
// authoritative by the source's two competing drafts — see DESIGN.md).
func r4RestGap(e solver.Engine, m *model.Model, vars Vars) {
	for _, actor := range m.Actors {
		k := m.RestGap[actor]
		if k <= 0 {
			continue
		}
		n := len(m.RootOrder)
		for i := 0; i < n; i++ {
			rootVars := nodesVarsForRoot(m, vars, actor, m.RootOrder[i])
			if len(rootVars) == 0 {
				continue
			}
			sched := e.ReifyOr(rootVars)

			var zeros []solver.VarID
			for j := i + 1; j <= i+k && j < n; j++ {
				zeros = append(zeros, nodesVarsForRoot(m, vars, actor, m.RootOrder[j])...)
			}
			if len(zeros) > 0 {
				e.Implication(sched, zeros)
			}
		}
	}
}

// quantBounds compiles each actor's "q" quantified bounds: the count of
// assigned nodes whose components are a superset of the bound's key,
// compared against n with the declared operator (I5).
func quantBounds(e solver.Engine, m *model.Model, vars Vars) {
	for _, actor := range m.Actors {
		for _, qb := range m.Quant[actor] {
			var group []solver.VarID
			for idx, node := range m.Nodes {
				if keySubsetOf(qb.Key, node) {
					group = append(group, vars[model.Pair{Actor: actor, Node: idx}])
				}
			}
			switch qb.Op {
			case "=":
				e.Equal(group, qb.N)
			case "<=":
				e.AtMost(group, qb.N)
			case "<":
				e.AtMost(group, qb.N-1)
			case ">=":
				e.AtLeast(group, qb.N)
			case ">":
				e.AtLeast(group, qb.N+1)
			}
		}
	}
}

func actorVars(m *model.Model, vars Vars, actor string) []solver.VarID {
	out := make([]solver.VarID, len(m.Nodes))
	for idx := range m.Nodes {
		out[idx] = vars[model.Pair{Actor: actor, Node: idx}]
	}
	return out
}

func nodesVarsForRoot(m *model.Model, vars Vars, actor, root string) []solver.VarID {
	idxs := m.Roots[root]
	out := make([]solver.VarID, len(idxs))
	for i, idx := range idxs {
		out[i] = vars[model.Pair{Actor: actor, Node: idx}]
	}
	return out
}

// keySubsetOf reports whether every keyword in key also appears among
// node's components (spec §4.3: "matching means every component of key
// appears in components(node)").
func keySubsetOf(key []string, node dsl.Node) bool {
	set := make(map[string]struct{}, len(node))
	for _, k := range node {
		set[k] = struct{}{}
	}
	for _, k := range key {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}
