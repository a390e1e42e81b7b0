package stream_test

import (
	"testing"

	"github.com/katalvlaran/lot/stream"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := stream.New("abc")
	require.Equal(t, "abc", s.Rest)
	require.Equal(t, stream.Pos{Line: 1, Col: 1}, s.Pos)
	require.False(t, s.Empty())
}

func TestAdvance_Newline(t *testing.T) {
	s := stream.New("a\nb")
	s = s.Advance() // 'a'
	require.Equal(t, stream.Pos{Line: 1, Col: 2}, s.Pos)
	s = s.Advance() // '\n'
	require.Equal(t, stream.Pos{Line: 2, Col: 1}, s.Pos)
	require.Equal(t, '\n', s.Last)
	require.Equal(t, "b", s.Rest)
}

func TestAdvance_Tab(t *testing.T) {
	s := stream.New("\tx")
	s = s.Advance()
	require.Equal(t, stream.Pos{Line: 1, Col: 5}, s.Pos)
}

func TestAdvance_Plain(t *testing.T) {
	s := stream.New("xy")
	s = s.Advance()
	require.Equal(t, stream.Pos{Line: 1, Col: 2}, s.Pos)
	require.Equal(t, 'x', s.Last)
}

func TestImmutability(t *testing.T) {
	s := stream.New("xy")
	next := s.Advance()
	require.Equal(t, "xy", s.Rest, "original stream must not mutate")
	require.Equal(t, "y", next.Rest)
}

func TestPosLess(t *testing.T) {
	a := stream.Pos{Line: 1, Col: 5}
	b := stream.Pos{Line: 2, Col: 1}
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))

	c := stream.Pos{Line: 1, Col: 9}
	require.True(t, a.Less(c))
}

func TestWindowBounded(t *testing.T) {
	long := make([]byte, stream.WindowSize*2)
	for i := range long {
		long[i] = 'a'
	}
	s := stream.New(string(long))
	require.LessOrEqual(t, len(s.Window()), stream.WindowSize)
}

func TestLine(t *testing.T) {
	s := stream.New("first\nsecond\nthird")
	s = s.Advance() // f
	s = s.Advance() // i
	require.Equal(t, "first", s.Line())
	// advance to second line
	for s.Pos.Line == 1 {
		s = s.Advance()
	}
	require.Equal(t, "second", s.Line())
}
