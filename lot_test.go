package lot_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/katalvlaran/lot"
	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/parse"
	"github.com/katalvlaran/lot/solver"
	"github.com/katalvlaran/lot/solver/stub"
	"github.com/stretchr/testify/require"
)

func stubEngine() solver.Engine { return stub.New() }

func cfg(seed int64) lot.Config {
	c := lot.DefaultConfig()
	c.Engine = stubEngine
	c.Seed = seed
	c.Samples = 6
	return c
}

// Scenario 1: [a,b] + [c], <A> -o[a], <B> -> A gets only "a", B gets the rest.
func TestSolve_ScenarioExclusiveAllowList(t *testing.T) {
	res, _, err := lot.Solve(context.Background(), "[a,b] + [c]\n---\n<A> -o[a]\n<B>\n", cfg(1))
	require.NoError(t, err)

	require.Equal(t, "A", res.Nodes["a"])
	require.Equal(t, "B", res.Nodes["b"])
	require.Equal(t, "B", res.Nodes["c"])
}

// Scenario 2: [1-3], three actors each "@1" -> every actor gets exactly one
// root and the union of their assignments is {1,2,3}.
func TestSolve_ScenarioExactOneEachCoversRange(t *testing.T) {
	res, _, err := lot.Solve(context.Background(), "[1-3]\n---\n<A> @1\n<B> @1\n<C> @1\n", cfg(2))
	require.NoError(t, err)

	require.Len(t, res.Actors["A"], 1)
	require.Len(t, res.Actors["B"], 1)
	require.Len(t, res.Actors["C"], 1)

	union := map[string]struct{}{}
	for _, actor := range []string{"A", "B", "C"} {
		for _, key := range res.Actors[actor] {
			union[key] = struct{}{}
		}
	}
	require.Equal(t, map[string]struct{}{"1": {}, "2": {}, "3": {}}, union)
}

// Scenario 3: [mon,tue,wed] + [am,pm], <A> -x[mon] -> A never assigned "mon".
func TestSolve_ScenarioForbidExcludesKeyword(t *testing.T) {
	res, _, err := lot.Solve(context.Background(), "[mon,tue,wed] + [am,pm]\n---\n<A> -x[mon]\n<B>\n", cfg(3))
	require.NoError(t, err)

	for _, key := range res.Actors["A"] {
		require.NotEqual(t, "mon", key)
	}
}

// Scenario 4: [1-5], <A> /2 @2 -> A's two roots differ by at least 2.
func TestSolve_ScenarioRestGapEnforced(t *testing.T) {
	res, _, err := lot.Solve(context.Background(), "[1-5]\n---\n<A> /2 @2\n<B>\n", cfg(4))
	require.NoError(t, err)
	require.Len(t, res.Actors["A"], 2)

	roots := make([]int, 2)
	for i, key := range res.Actors["A"] {
		n, err := strconv.Atoi(key)
		require.NoError(t, err)
		roots[i] = n
	}
	diff := roots[1] - roots[0]
	if diff < 0 {
		diff = -diff
	}
	require.GreaterOrEqual(t, diff, 2)
}

// Scenario 5: policy references a keyword absent from the grid -> validation
// error naming the offending actor and keyword, solve refused.
func TestSolve_ScenarioUnknownKeywordRejected(t *testing.T) {
	_, _, err := lot.Solve(context.Background(), "[a,b]\n---\n<A> -o[zzz]\n", cfg(5))
	require.Error(t, err)

	var verr *dsl.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Refs, 1)
	require.Equal(t, "A", verr.Refs[0].Actor)
	require.Equal(t, "zzz", verr.Refs[0].Keyword)
}

// Scenario 6: a grid list missing its closing "]" produces a parse error
// whose Format renders a caret diagnostic.
func TestSolve_ScenarioMalformedGridParseError(t *testing.T) {
	_, _, err := lot.Solve(context.Background(), "[a,b\n---\n<A>\n", cfg(6))
	require.Error(t, err)

	var perr *parse.Error
	if errors.As(err, &perr) {
		require.NotEmpty(t, perr.Format())
		return
	}
	// Some malformed sources surface as a plain formatted error instead of
	// a typed *parse.Error; either way Solve must refuse to proceed.
	require.Error(t, err)
}
