package objective_test

import (
	"testing"

	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/model"
	"github.com/katalvlaran/lot/objective"
	"github.com/stretchr/testify/require"
)

func TestDeriveWeights_Deterministic(t *testing.T) {
	grid, pol, err := dsl.ParseLOT("[A,B,C]\n---\n<a> @1\n<b> @1\n")
	require.NoError(t, err)
	m := model.Build(grid, pol)

	w1 := objective.DeriveWeights(m, 42)
	w2 := objective.DeriveWeights(m, 42)
	require.Equal(t, w1, w2)

	w3 := objective.DeriveWeights(m, 7)
	require.NotEqual(t, w1, w3)
}

func TestScore_VarianceFavorsBalance(t *testing.T) {
	grid, pol, err := dsl.ParseLOT("[1,2,3,4]\n---\n<a> @0\n<b> @0\n")
	require.NoError(t, err)
	m := model.Build(grid, pol)
	w := objective.DeriveWeights(m, 1)

	balanced := objective.Assignment{
		{Actor: "a", Node: 0}: true, {Actor: "a", Node: 1}: true,
		{Actor: "b", Node: 2}: true, {Actor: "b", Node: 3}: true,
	}
	skewed := objective.Assignment{
		{Actor: "a", Node: 0}: true, {Actor: "a", Node: 1}: true,
		{Actor: "a", Node: 2}: true, {Actor: "a", Node: 3}: true,
	}
	require.Greater(t, objective.Score(m, w, balanced), objective.Score(m, w, skewed))
}

func TestScore_EntropyPenalizesClumping(t *testing.T) {
	// A single axis-set of two consecutive keyword lists yields
	// multi-component nodes: (mon,am),(mon,pm),(tue,am),(tue,pm) — "mon"
	// then appears on two distinct nodes, which is what the entropy
	// penalty reacts to (single-component nodes never repeat a value).
	grid, pol, err := dsl.ParseLOT("[mon,tue][am,pm]\n---\n<a> @0\n")
	require.NoError(t, err)
	m := model.Build(grid, pol)
	w := objective.DeriveWeights(m, 1)

	spread := objective.Assignment{{Actor: "a", Node: 0}: true, {Actor: "a", Node: 3}: true}
	clumped := objective.Assignment{{Actor: "a", Node: 0}: true, {Actor: "a", Node: 1}: true}
	require.GreaterOrEqual(t, objective.Score(m, w, spread), objective.Score(m, w, clumped))
}
