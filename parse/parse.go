// Package parse is the parser-combinator kernel LOT's grammar (package dsl)
// is built from. Each combinator is a function from a stream.Stream to a
// (value, stream.Stream) pair, or an *Error carrying the furthest-advanced
// position reached (spec §4.1).
//
// Contracts:
//   - Combinators never mutate the stream; they either return an advanced
//     Stream or raise an *Error. stream.Stream is itself immutable, so this
//     is structural, not a convention to remember.
//   - Choice must not mask an inner error that occurred after the
//     alternative consumed input: every caller that tries several
//     alternatives picks the error with the deepest position, never just
//     the last one tried.
package parse

import (
	"strings"

	"github.com/katalvlaran/lot/stream"
)

// Parser[T] parses a T out of a stream.Stream, returning the advanced stream
// on success or an *Error on failure.
type Parser[T any] func(stream.Stream) (T, stream.Stream, error)

// Run parses all of src and requires the parser to consume it completely;
// leftover input is reported as an incomplete-parse error anchored at the
// first unconsumed rune.
func Run[T any](p Parser[T], src string) (T, error) {
	v, s, err := p(stream.New(src))
	if err != nil {
		return v, err
	}
	if !s.Empty() {
		return v, fail(s, "incomplete parse: unconsumed input remains")
	}
	return v, nil
}

// Label overrides the "expected" tag reported when p fails without having
// consumed any input, so grammar-level combinators (package dsl) can surface
// a meaningful name ("keyword", "grid") instead of a low-level character
// class.
func Label[T any](tag string, p Parser[T]) Parser[T] {
	return func(s stream.Stream) (T, stream.Stream, error) {
		v, s2, err := p(s)
		if err != nil {
			if pe, ok := err.(*Error); ok && pe.At.Pos == s.Pos {
				return v, s2, &Error{Reason: pe.Reason, At: pe.At, Expected: tag, Observed: pe.Observed}
			}
		}
		return v, s2, err
	}
}

// Char matches a single literal rune.
func Char(c rune) Parser[rune] {
	return CharBy(func(r rune) bool { return r == c }, string(c))
}

// AnyChar matches any single rune.
func AnyChar(s stream.Stream) (rune, stream.Stream, error) {
	return CharBy(func(rune) bool { return true }, "any character")(s)
}

// AnyCharBut matches any rune other than c.
func AnyCharBut(c rune) Parser[rune] {
	return CharBy(func(r rune) bool { return r != c }, "any character but "+string(c))
}

// OneOf matches any single rune present in cs.
func OneOf(cs string) Parser[rune] {
	expected := "one of " + cs
	return CharBy(func(r rune) bool { return strings.ContainsRune(cs, r) }, expected)
}

// NoneOf matches any single rune absent from cs.
func NoneOf(cs string) Parser[rune] {
	expected := "none of " + cs
	return CharBy(func(r rune) bool { return !strings.ContainsRune(cs, r) }, expected)
}

// CharBy matches a single rune accepted by pred, reporting expected on
// failure.
func CharBy(pred func(rune) bool, expected string) Parser[rune] {
	return func(s stream.Stream) (rune, stream.Stream, error) {
		r, ok := s.Peek()
		if !ok {
			return 0, s, failExpect(s, "reached end of stream", expected, "end-of-stream")
		}
		if !pred(r) {
			return 0, s, failExpect(s, "unexpected character", expected, string(r))
		}
		return r, s.Advance(), nil
	}
}

// String matches the literal sequence lit in full, or fails at the first
// mismatching rune while reporting the whole literal as "expected".
func String(lit string) Parser[string] {
	runes := []rune(lit)
	return func(s stream.Stream) (string, stream.Stream, error) {
		cur := s
		for _, want := range runes {
			r, ok := cur.Peek()
			if !ok || r != want {
				got := "end-of-stream"
				if ok {
					got = string(r)
				}
				return "", s, failExpect(cur, "unexpected string", lit, got)
			}
			cur = cur.Advance()
		}
		return lit, cur, nil
	}
}

// Digit matches a single ASCII decimal digit.
func Digit(s stream.Stream) (rune, stream.Stream, error) {
	return OneOf("0123456789")(s)
}

// Digits matches one or more digits, folded into a string.
func Digits(s stream.Stream) (string, stream.Stream, error) {
	return Fold(Some(Parser[rune](Digit)))(s)
}

// Integer matches an optionally-signed run of digits.
func Integer(s stream.Stream) (string, stream.Stream, error) {
	sign, s1, _ := Option("", Fold(Count(1, OneOf("+-"))))(s)
	d, s2, err := Digits(s1)
	if err != nil {
		return "", s, err
	}
	return sign + d, s2, nil
}

// Floating matches an optionally-signed decimal number with a fractional
// part: Integer "." Digits.
func Floating(s stream.Stream) (string, stream.Stream, error) {
	i, s1, err := Integer(s)
	if err != nil {
		return "", s, err
	}
	_, s2, err := Char('.')(s1)
	if err != nil {
		return "", s, err
	}
	f, s3, err := Digits(s2)
	if err != nil {
		return "", s, err
	}
	return i + "." + f, s3, nil
}

// Number matches Floating if possible, else Integer.
func Number(s stream.Stream) (string, stream.Stream, error) {
	return Choice(Parser[string](Floating), Parser[string](Integer))(s)
}

// Many matches p zero or more times; it never fails. If p consumed input
// before failing on what would have been its last (n+1)-th attempt, that
// inner error is preserved and re-raised instead of silently truncating the
// match — this is the "no silent truncation on partial matches" contract
// from spec §4.1.
func Many[T any](p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		out := []T{}
		cur := s
		for {
			v, next, err := p(cur)
			if err != nil {
				if pe, ok := err.(*Error); ok && pe.At.Pos != cur.Pos {
					// p consumed input before failing: surface that error
					// instead of quietly stopping here.
					return nil, s, pe
				}
				return out, cur, nil
			}
			out = append(out, v)
			cur = next
		}
	}
}

// Some matches p one or more times.
func Some[T any](p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		out, next, err := Many(p)(s)
		if err != nil {
			return nil, s, err
		}
		if len(out) == 0 {
			return nil, s, failExpect(s, "expected one or more occurrences", "1+ match", observedAt(s))
		}
		return out, next, nil
	}
}

// Fold turns a Parser[[]rune] into a Parser[string] by concatenating runes.
func Fold(p Parser[[]rune]) Parser[string] {
	return func(s stream.Stream) (string, stream.Stream, error) {
		rs, next, err := p(s)
		if err != nil {
			return "", s, err
		}
		return string(rs), next, nil
	}
}

// Option returns p's value if p succeeds and def whenever p fails, whether or
// not p consumed input first; it never raises. On failure the returned stream
// is positioned at the failure site (matching spec §4.1's "stream at failure
// site").
func Option[T any](def T, p Parser[T]) Parser[T] {
	return func(s stream.Stream) (T, stream.Stream, error) {
		v, next, err := p(s)
		if err != nil {
			if pe, ok := err.(*Error); ok {
				return def, pe.At, nil
			}
			return def, s, nil
		}
		return v, next, nil
	}
}

// Count matches p exactly n times.
func Count[T any](n int, p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		out := make([]T, 0, n)
		cur := s
		for i := 0; i < n; i++ {
			v, next, err := p(cur)
			if err != nil {
				return nil, s, err
			}
			out = append(out, v)
			cur = next
		}
		return out, cur, nil
	}
}

// AtLeast matches p at least n times, then as many more as possible.
func AtLeast[T any](n int, p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		head, s1, err := Count(n, p)(s)
		if err != nil {
			return nil, s, err
		}
		tail, s2, err := Many(p)(s1)
		if err != nil {
			return nil, s, err
		}
		return append(head, tail...), s2, nil
	}
}

// AtMost matches p up to n times, never failing.
func AtMost[T any](n int, p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		out := make([]T, 0, n)
		cur := s
		for i := 0; i < n; i++ {
			v, next, err := p(cur)
			if err != nil {
				break
			}
			out = append(out, v)
			cur = next
		}
		return out, cur, nil
	}
}

// Between matches open, then p, then close, returning p's value.
func Between[O, T, C any](open Parser[O], close Parser[C], p Parser[T]) Parser[T] {
	return func(s stream.Stream) (T, stream.Stream, error) {
		var zero T
		_, s1, err := open(s)
		if err != nil {
			return zero, s, err
		}
		v, s2, err := p(s1)
		if err != nil {
			return zero, s, err
		}
		_, s3, err := close(s2)
		if err != nil {
			return zero, s, err
		}
		return v, s3, nil
	}
}

// SepBy matches zero or more p separated by sep. If the first p fails after
// consuming input, that error is raised rather than read as an empty match
// (the same rule Many follows).
func SepBy[S, T any](sep Parser[S], p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		first, s1, err := p(s)
		if err != nil {
			if pe, ok := err.(*Error); ok && pe.At.Pos != s.Pos {
				return nil, s, pe
			}
			return []T{}, s, nil
		}
		out := []T{first}
		cur := s1
		for {
			_, next, err := sep(cur)
			if err != nil {
				break
			}
			v, next2, err := p(next)
			if err != nil {
				return nil, s, err
			}
			out = append(out, v)
			cur = next2
		}
		return out, cur, nil
	}
}

// EndBy matches zero or more p, each followed by end.
func EndBy[T, E any](end Parser[E], p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		out := []T{}
		cur := s
		for {
			v, next, err := p(cur)
			if err != nil {
				break
			}
			_, next2, err := end(next)
			if err != nil {
				return nil, s, err
			}
			out = append(out, v)
			cur = next2
		}
		return out, cur, nil
	}
}

// ManyTill matches p zero or more times until end succeeds; end is not
// consumed.
func ManyTill[T, E any](end Parser[E], p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		out := []T{}
		cur := s
		for {
			if _, _, err := end(cur); err == nil {
				return out, cur, nil
			}
			v, next, err := p(cur)
			if err != nil {
				return nil, s, err
			}
			out = append(out, v)
			cur = next
		}
	}
}

// SomeTill matches p one or more times until end succeeds.
func SomeTill[T, E any](end Parser[E], p Parser[T]) Parser[[]T] {
	return func(s stream.Stream) ([]T, stream.Stream, error) {
		out, next, err := ManyTill(end, p)(s)
		if err != nil {
			return nil, s, err
		}
		if len(out) == 0 {
			return nil, s, failExpect(s, "expected one or more before terminator", "1+ match", observedAt(s))
		}
		return out, next, nil
	}
}

// Choice tries each parser in order and returns the first success. If all
// fail, it raises the error with the furthest stream position; ties keep
// the earliest alternative's error (spec §4.1).
func Choice[T any](ps ...Parser[T]) Parser[T] {
	return func(s stream.Stream) (T, stream.Stream, error) {
		var zero T
		var best *Error
		for _, p := range ps {
			v, next, err := p(s)
			if err == nil {
				return v, next, nil
			}
			pe, ok := err.(*Error)
			if !ok {
				return zero, s, err
			}
			if best == nil {
				best = pe
			} else {
				best = deeper(best, pe)
			}
		}
		return zero, s, best
	}
}

// Peek runs p and returns its value without consuming any input.
func Peek[T any](p Parser[T]) Parser[T] {
	return func(s stream.Stream) (T, stream.Stream, error) {
		v, _, err := p(s)
		if err != nil {
			return v, s, err
		}
		return v, s, nil
	}
}

// Skip discards p's value.
func Skip[T any](p Parser[T]) Parser[struct{}] {
	return func(s stream.Stream) (struct{}, stream.Stream, error) {
		_, next, err := p(s)
		if err != nil {
			return struct{}{}, s, err
		}
		return struct{}{}, next, nil
	}
}

// SkipMany discards the result of Many(p).
func SkipMany[T any](p Parser[T]) Parser[struct{}] {
	return Skip[[]T](Many(p))
}

// SkipSome discards the result of Some(p).
func SkipSome[T any](p Parser[T]) Parser[struct{}] {
	return Skip[[]T](Some(p))
}

func observedAt(s stream.Stream) string {
	if r, ok := s.Peek(); ok {
		return string(r)
	}
	return "end-of-stream"
}
