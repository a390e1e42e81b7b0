package result_test

import (
	"testing"

	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/model"
	"github.com/katalvlaran/lot/objective"
	"github.com/katalvlaran/lot/result"
	"github.com/stretchr/testify/require"
)

func TestBuild_Projections(t *testing.T) {
	grid, pol, err := dsl.ParseLOT("[a,b,c]\n---\n<A> -o[a]\n<B>\n")
	require.NoError(t, err)
	m := model.Build(grid, pol)

	var aIdx, bIdx, cIdx int
	for i, n := range m.Nodes {
		switch n.Root() {
		case "a":
			aIdx = i
		case "b":
			bIdx = i
		case "c":
			cIdx = i
		}
	}

	assignment := objective.Assignment{
		{Actor: "A", Node: aIdx}: true,
		{Actor: "B", Node: bIdx}: true,
		{Actor: "B", Node: cIdx}: true,
	}
	r := result.Build(m, assignment)

	require.Equal(t, "A", r.Nodes["a"])
	require.Equal(t, "B", r.Nodes["b"])
	require.Equal(t, "B", r.Nodes["c"])
	require.ElementsMatch(t, []string{"b", "c"}, r.Actors["B"])
	require.Equal(t, []string{"a"}, r.Actors["A"])

	yamlBytes, err := r.YAML()
	require.NoError(t, err)
	require.NotEmpty(t, yamlBytes)

	jsonBytes, err := r.JSON()
	require.NoError(t, err)
	require.NotEmpty(t, jsonBytes)
}

func TestBuild_StarMarksZeroCoeffWinner(t *testing.T) {
	grid, pol, err := dsl.ParseLOT("[a,b]\n---\n<A> -o[a]\n<B>\n")
	require.NoError(t, err)
	m := model.Build(grid, pol)

	var bIdx int
	for i, n := range m.Nodes {
		if n.Root() == "b" {
			bIdx = i
		}
	}
	// A is forced onto node "b" despite a zero coefficient there.
	assignment := objective.Assignment{{Actor: "A", Node: bIdx}: true}
	r := result.Build(m, assignment)
	require.Equal(t, "*", r.Nodes["b"])
}
