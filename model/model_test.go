package model_test

import (
	"testing"

	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/model"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (dsl.Grid, *dsl.Policy) {
	t.Helper()
	grid, pol, err := dsl.ParseLOT(src)
	require.NoError(t, err)
	return grid, pol
}

func TestBuild_NodeOrderNumeric(t *testing.T) {
	grid, pol := parse(t, "[3,1,2]\n---\n<a> @1\n")
	m := model.Build(grid, pol)
	require.Len(t, m.Nodes, 3)
	require.Equal(t, "1", m.Nodes[0].Root())
	require.Equal(t, "2", m.Nodes[1].Root())
	require.Equal(t, "3", m.Nodes[2].Root())
}

func TestBuild_AllowForbidCoeff(t *testing.T) {
	grid, pol := parse(t, "[Mon,Tue,Wed]\n---\n<alice> -o[Mon] -x[Wed]\n")
	m := model.Build(grid, pol)
	var monIdx, tueIdx, wedIdx int
	for i, n := range m.Nodes {
		switch n.Root() {
		case "Mon":
			monIdx = i
		case "Tue":
			tueIdx = i
		case "Wed":
			wedIdx = i
		}
	}
	require.Equal(t, 1.0, m.Coeff[model.Pair{Actor: "alice", Node: monIdx}])
	require.Equal(t, 0.0, m.Coeff[model.Pair{Actor: "alice", Node: tueIdx}])
	require.Equal(t, 0.0, m.Coeff[model.Pair{Actor: "alice", Node: wedIdx}])
	require.True(t, m.Forbid[model.Pair{Actor: "alice", Node: wedIdx}])
}

func TestBuild_NoAllowListDefaultsToOne(t *testing.T) {
	grid, pol := parse(t, "[A,B]\n---\n<a> @1\n")
	m := model.Build(grid, pol)
	for idx := range m.Nodes {
		require.Equal(t, 1.0, m.Coeff[model.Pair{Actor: "a", Node: idx}])
	}
}

func TestBuild_RestGapDefault(t *testing.T) {
	grid, pol := parse(t, "[A,B]\n---\n<a> @1\n<b> @1 /2\n")
	m := model.Build(grid, pol, model.WithDefaultMinRest(1))
	require.Equal(t, 1, m.RestGap["a"])
	require.Equal(t, 2, m.RestGap["b"])
}

func TestBuild_RootGrouping(t *testing.T) {
	grid, pol := parse(t, "[mon,tue] + [am,pm]\n---\n<a> @1\n")
	m := model.Build(grid, pol)
	require.Len(t, m.RootOrder, 4)
	require.Len(t, m.Roots["mon"], 1)
}
