package parse

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lot/stream"
	"github.com/mattn/go-runewidth"
)

// Error is the single error type every combinator raises. It always carries
// the stream position where it occurred, so Choice can pick "the error that
// made the most progress" among several failed alternatives (spec §3, §4.1).
type Error struct {
	Reason   string // human-readable reason, e.g. "unexpected end of stream"
	At       stream.Stream
	Expected string // tag describing what was wanted, may be empty
	Observed string // the token actually found, may be empty
}

// Error implements the error interface. Prefer Format for user-facing output;
// Error() is the terse single-line form used by %v and log lines.
func (e *Error) Error() string {
	if e.Expected != "" && e.Observed != "" {
		return fmt.Sprintf("parse error at line %d, column %d: %s (expected %q, got %q)",
			e.At.Pos.Line, e.At.Pos.Col, e.Reason, escape(e.Expected), escape(e.Observed))
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.At.Pos.Line, e.At.Pos.Col, e.Reason)
}

// Progress returns the position this error occurred at, for furthest-error
// comparison (see Choice).
func (e *Error) Progress() stream.Pos { return e.At.Pos }

// Format renders the full multi-line diagnostic: the offending source line,
// a caret under the offending column, and the reason/expected/observed
// triple. The caret column is computed with East-Asian display width so it
// lines up under full-width glyphs, per spec §3.
func (e *Error) Format() string {
	var b strings.Builder
	line := e.At.Line()
	fmt.Fprintf(&b, "Parse error at line %d, column %d:\n\n", e.At.Pos.Line, e.At.Pos.Col)

	num := fmt.Sprintf("%d", e.At.Pos.Line)
	fmt.Fprintf(&b, "%4s | %s\n", num, line)

	caretCol := displayWidth(line, e.At.Pos.Col-1)
	fmt.Fprintf(&b, "%4s | %s^\n\n", "", strings.Repeat(" ", caretCol))

	b.WriteString(e.Reason)
	b.WriteString("\n")
	if e.Expected != "" && e.Observed != "" {
		fmt.Fprintf(&b, "Expected %q but got %q\n", escape(e.Expected), escape(e.Observed))
	}
	return b.String()
}

// displayWidth returns the total terminal-cell width of the first n runes
// of line, counting 2 cells for wide/full-width East-Asian code points.
func displayWidth(line string, n int) int {
	runes := []rune(line)
	if n > len(runes) {
		n = len(runes)
	}
	w := 0
	for _, r := range runes[:n] {
		w += runewidth.RuneWidth(r)
	}
	return w
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// fail constructs an *Error anchored at s.
func fail(s stream.Stream, reason string) *Error {
	return &Error{Reason: reason, At: s}
}

func failExpect(s stream.Stream, reason, expected, observed string) *Error {
	return &Error{Reason: reason, At: s, Expected: expected, Observed: observed}
}

// Fail constructs an *Error anchored at s, for grammar-level code (package
// dsl) that needs to raise a parse failure outside a combinator body.
func Fail(s stream.Stream, reason string) *Error { return fail(s, reason) }

// FailExpect constructs an *Error carrying an expected/observed pair.
func FailExpect(s stream.Stream, reason, expected, observed string) *Error {
	return failExpect(s, reason, expected, observed)
}

// deeper returns whichever of a, b made more progress through the stream.
// Ties keep a, matching Choice's "ties retain the first" rule.
func deeper(a, b *Error) *Error {
	if b.Progress().Less(a.Progress()) || a.Progress() == b.Progress() {
		return a
	}
	return b
}
