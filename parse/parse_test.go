package parse_test

import (
	"testing"

	"github.com/katalvlaran/lot/parse"
	"github.com/katalvlaran/lot/stream"
	"github.com/stretchr/testify/require"
)

func run[T any](t *testing.T, p parse.Parser[T], src string) (T, stream.Stream, error) {
	t.Helper()
	return p(stream.New(src))
}

func TestChar(t *testing.T) {
	v, s, err := run(t, parse.Char('s'), "sofia")
	require.NoError(t, err)
	require.Equal(t, 's', v)
	require.Equal(t, "ofia", s.Rest)

	_, _, err = run(t, parse.Char('x'), "sofia")
	require.Error(t, err)
}

func TestString(t *testing.T) {
	v, s, err := run(t, parse.String("ave-"), "ave-maria")
	require.NoError(t, err)
	require.Equal(t, "ave-", v)
	require.Equal(t, "maria", s.Rest)

	_, _, err = run(t, parse.String("ave-"), "averia")
	require.Error(t, err)
	pe := err.(*parse.Error)
	require.Equal(t, "ave-", pe.Expected)
}

func TestDigits(t *testing.T) {
	v, s, err := run(t, parse.Parser[string](parse.Digits), "2010SEP")
	require.NoError(t, err)
	require.Equal(t, "2010", v)
	require.Equal(t, "SEP", s.Rest)

	_, _, err = run(t, parse.Parser[string](parse.Digits), "abc")
	require.Error(t, err)
}

func TestMany_NoSilentTruncation(t *testing.T) {
	// "aaaab" with a parser for "aa" pairs: Many consumes "aa","aa" and stops
	// cleanly on "b", where the parser fails without having consumed — success
	// case.
	p := parse.Count(2, parse.Char('a'))
	v, s, err := run(t, parse.Many(p), "aaaab")
	require.NoError(t, err)
	require.Len(t, v, 2)
	require.Equal(t, "b", s.Rest)
}

func TestMany_PreservesInnerErrorOnPartialConsume(t *testing.T) {
	// A parser that consumes 'a' then requires 'b'; on "abac" it matches "ab",
	// then on "ac" it fails having consumed 'a'. many() must not silently stop
	// — it should surface that failure instead of returning the single "ab".
	ab := func(s stream.Stream) (string, stream.Stream, error) {
		_, s1, err := parse.Char('a')(s)
		if err != nil {
			return "", s, err
		}
		_, s2, err := parse.Char('b')(s1)
		if err != nil {
			return "", s, err
		}
		return "ab", s2, nil
	}
	_, _, err := run(t, parse.Many(parse.Parser[string](ab)), "abac")
	require.Error(t, err)
}

func TestSome(t *testing.T) {
	_, _, err := run(t, parse.Some(parse.Char('a')), "bbb")
	require.Error(t, err)

	v, _, err := run(t, parse.Some(parse.Char('a')), "aaab")
	require.NoError(t, err)
	require.Len(t, v, 3)
}

func TestOption(t *testing.T) {
	v, s, err := run(t, parse.Option("7", parse.Parser[string](parse.Digits)), "seven")
	require.NoError(t, err)
	require.Equal(t, "7", v)
	require.Equal(t, "seven", s.Rest)
}

func TestBetween(t *testing.T) {
	v, s, err := run(t, parse.Between(parse.Char('('), parse.Char(')'), parse.Parser[string](parse.Digits)), "(777)")
	require.NoError(t, err)
	require.Equal(t, "777", v)
	require.Equal(t, "", s.Rest)
}

func TestSepBy(t *testing.T) {
	v, s, err := run(t, parse.SepBy(parse.Char(','), parse.Parser[string](parse.Digits)), "1,2,3")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3"}, v)
	require.Equal(t, "", s.Rest)
}

func TestChoice_FurthestErrorWins(t *testing.T) {
	// "abX": first alt matches "ab" then fails wanting 'c' (progress 2),
	// second alt fails immediately wanting 'z' (progress 0). Choice must
	// report the first alt's deeper error.
	first := func(s stream.Stream) (string, stream.Stream, error) {
		_, s1, err := parse.String("ab")(s)
		if err != nil {
			return "", s, err
		}
		_, _, err = parse.Char('c')(s1)
		if err != nil {
			return "", s, err
		}
		return "", s1, nil
	}
	second := parse.Parser[string](func(s stream.Stream) (string, stream.Stream, error) {
		_, s1, err := parse.Char('z')(s)
		return "", s1, err
	})
	_, _, err := run(t, parse.Choice(parse.Parser[string](first), second), "abX")
	require.Error(t, err)
	pe := err.(*parse.Error)
	require.Equal(t, stream.Pos{Line: 1, Col: 3}, pe.Progress())
}

func TestChoice_TiesKeepFirst(t *testing.T) {
	a := parse.Label("A", parse.Char('x'))
	b := parse.Label("B", parse.Char('y'))
	_, _, err := run(t, parse.Choice(a, b), "z")
	require.Error(t, err)
	pe := err.(*parse.Error)
	require.Equal(t, "A", pe.Expected)
}

func TestPeek_DoesNotConsume(t *testing.T) {
	v, s, err := run(t, parse.Peek(parse.Char('a')), "abc")
	require.NoError(t, err)
	require.Equal(t, 'a', v)
	require.Equal(t, "abc", s.Rest)
}

func TestLabel(t *testing.T) {
	p := parse.Label("digit", parse.Parser[rune](parse.Digit))
	_, _, err := run(t, p, "x")
	require.Error(t, err)
	pe := err.(*parse.Error)
	require.Equal(t, "digit", pe.Expected)
}

func TestJumpSkipsCommentsAndWhitespace(t *testing.T) {
	_, s, err := run(t, parse.Parser[struct{}](parse.Jump), "   # a comment\n  rest")
	require.NoError(t, err)
	require.Equal(t, "rest", s.Rest)
}

func TestTokenConsumesTrailingSpace(t *testing.T) {
	v, s, err := run(t, parse.Token(parse.String("foo")), "foo   bar")
	require.NoError(t, err)
	require.Equal(t, "foo", v)
	require.Equal(t, "bar", s.Rest)
}

func TestSquaresParens(t *testing.T) {
	v, _, err := run(t, parse.Squares(parse.Parser[string](parse.Digits)), "[42]")
	require.NoError(t, err)
	require.Equal(t, "42", v)

	v2, _, err := run(t, parse.Parens(parse.Parser[string](parse.Digits)), "(42)")
	require.NoError(t, err)
	require.Equal(t, "42", v2)
}

func TestEOF(t *testing.T) {
	_, _, err := run(t, parse.Parser[struct{}](parse.EOF), "")
	require.NoError(t, err)

	_, _, err = run(t, parse.Parser[struct{}](parse.EOF), "x")
	require.Error(t, err)
}

func TestRun_IncompleteParseFails(t *testing.T) {
	_, err := parse.Run(parse.String("ab"), "abc")
	require.Error(t, err)
}

func TestErrorFormat_CaretAlignment(t *testing.T) {
	_, err := parse.Run(parse.String("xyz"), "ab]")
	require.Error(t, err)
	pe := err.(*parse.Error)
	out := pe.Format()
	require.Contains(t, out, "^")
	require.Contains(t, out, "line 1, column 1")
}
