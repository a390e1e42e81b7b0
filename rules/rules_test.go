package rules_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/model"
	"github.com/katalvlaran/lot/rules"
	"github.com/katalvlaran/lot/solver"
	"github.com/katalvlaran/lot/solver/stub"
	"github.com/stretchr/testify/require"
)

func buildAndSolve(t *testing.T, src string, maxActs int) (*model.Model, rules.Vars, *stub.Engine) {
	t.Helper()
	grid, pol, err := dsl.ParseLOT(src)
	require.NoError(t, err)
	m := model.Build(grid, pol)
	e := stub.New()
	vars := rules.BuildVars(e, m)
	rules.Apply(e, m, vars, maxActs)
	status, err := e.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, solver.StatusFeasible, status)
	return m, vars, e
}

func TestRules_SingleActorPerNode(t *testing.T) {
	m, vars, e := buildAndSolve(t, "[1,2,3]\n---\n<a> @1\n<b> @1\n<c> @1\n", 1)
	for idx := range m.Nodes {
		count := 0
		for _, actor := range m.Actors {
			if e.Value(vars[model.Pair{Actor: actor, Node: idx}]) {
				count++
			}
		}
		require.Equal(t, 1, count)
	}
}

func TestRules_ExactCount(t *testing.T) {
	m, vars, e := buildAndSolve(t, "[1,2,3,4]\n---\n<a> @2\n<b> @2\n", 2)
	for _, actor := range m.Actors {
		count := 0
		for idx := range m.Nodes {
			if e.Value(vars[model.Pair{Actor: actor, Node: idx}]) {
				count++
			}
		}
		require.Equal(t, 2, count)
	}
}

func TestRules_ForbidHonored(t *testing.T) {
	m, vars, e := buildAndSolve(t, "[mon,tue,wed]\n---\n<a> -x[mon] @1\n<b> @1\n<c> @1\n", 1)
	for idx, n := range m.Nodes {
		if n.Root() == "mon" {
			require.False(t, e.Value(vars[model.Pair{Actor: "a", Node: idx}]))
		}
	}
}

func TestRules_RestGap(t *testing.T) {
	m, vars, e := buildAndSolve(t, "[1,2,3,4,5]\n---\n<a> /2 @2\n<b> @1\n<c> @1\n<d> @1\n", 2)
	var roots []int
	for idx, n := range m.Nodes {
		if e.Value(vars[model.Pair{Actor: "a", Node: idx}]) {
			v := 0
			for _, c := range n.Root() {
				v = v*10 + int(c-'0')
			}
			roots = append(roots, v)
		}
	}
	require.Len(t, roots, 2)
	diff := roots[1] - roots[0]
	if diff < 0 {
		diff = -diff
	}
	require.GreaterOrEqual(t, diff, 2)
}
