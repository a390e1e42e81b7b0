// Package stream implements the immutable cursor that the parser kernel
// (package parse) advances over LOT source text.
//
// A Stream never mutates in place: Advance returns a new value, leaving the
// receiver untouched, so a failed parse can always resume from the position
// it started at. Positions compare by (Line, Col), which is the contract
// that lets the parser keep "the error that made the most progress" when
// choosing between alternatives (see parse.Choice).
//
// Complexity: Empty, Peek and Advance are O(1) (one UTF-8 decode at most);
// Window is bounded by WindowSize; Line rescans the whole original source.
package stream

import "unicode/utf8"

// Pos is a (line, column) position, 1-indexed to match editor conventions.
// Pos values are ordered lexicographically: a position "makes more
// progress" than another iff it compares greater under Less.
type Pos struct {
	Line int
	Col  int
}

// Less reports whether p represents less progress through the source than o.
func (p Pos) Less(o Pos) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

// Stream is an immutable cursor over UTF-8 source text.
//
// Rest is the unconsumed suffix of the original text. Last is the rune most
// recently consumed by Advance (zero value at the start of input). The
// Window method returns a bounded slice of Rest that diagnostics can use as
// a context excerpt.
type Stream struct {
	Orig string // full original source, for diagnostics
	Rest string // unconsumed suffix
	Pos  Pos
	Last rune
}

// WindowSize bounds, in bytes, how much of Rest Window returns; longer input
// is truncated at a rune boundary.
const WindowSize = 64

// New returns a Stream positioned at the start of src.
func New(src string) Stream {
	return Stream{Orig: src, Rest: src, Pos: Pos{Line: 1, Col: 1}}
}

// Empty reports whether the stream has no more input.
func (s Stream) Empty() bool { return len(s.Rest) == 0 }

// Peek returns the next rune without consuming it, and whether one exists.
func (s Stream) Peek() (rune, bool) {
	if s.Empty() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.Rest)
	return r, true
}

// Advance consumes exactly one rune and returns the resulting Stream.
//
// Column/line bookkeeping follows the contract in spec §3: '\n' increments
// Line and resets Col to 1; '\t' advances Col by 4; any other rune advances
// Col by 1. Advance panics if the stream is empty — callers (package parse)
// must check Empty/Peek first, as every combinator does.
func (s Stream) Advance() Stream {
	r, size := utf8.DecodeRuneInString(s.Rest)
	next := Stream{
		Orig: s.Orig,
		Rest: s.Rest[size:],
		Last: r,
	}
	switch r {
	case '\n':
		next.Pos = Pos{Line: s.Pos.Line + 1, Col: 1}
	case '\t':
		next.Pos = Pos{Line: s.Pos.Line, Col: s.Pos.Col + 4}
	default:
		next.Pos = Pos{Line: s.Pos.Line, Col: s.Pos.Col + 1}
	}
	return next
}

// Window returns a bounded excerpt of the unconsumed input, for error
// messages that must not dump the remainder of a large file.
func (s Stream) Window() string {
	r := s.Rest
	if len(r) > WindowSize {
		// Avoid slicing mid-rune.
		end := WindowSize
		for end > 0 && !utf8.RuneStart(r[end]) {
			end--
		}
		r = r[:end]
	}
	return r
}

// Line returns the full source line the cursor currently sits on, for
// caret-style diagnostics (see parse.Error.Format).
func (s Stream) Line() string {
	lines := splitLines(s.Orig)
	idx := s.Pos.Line - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	return lines[idx]
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
