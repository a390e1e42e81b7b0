package parse

import "github.com/katalvlaran/lot/stream"

// Whitespace matches a single space, tab, CR or LF.
func Whitespace(s stream.Stream) (rune, stream.Stream, error) {
	return Label("whitespace", Choice(Parser[rune](Blank), Parser[rune](Tab), Parser[rune](CR), Parser[rune](LF)))(s)
}

// Blank matches a single ASCII space.
func Blank(s stream.Stream) (rune, stream.Stream, error) { return Char(' ')(s) }

// Tab matches a single tab character.
func Tab(s stream.Stream) (rune, stream.Stream, error) { return Char('\t')(s) }

// CR matches a carriage return.
func CR(s stream.Stream) (rune, stream.Stream, error) { return Char('\r')(s) }

// LF matches a line feed.
func LF(s stream.Stream) (rune, stream.Stream, error) { return Char('\n')(s) }

// Comment matches a '#' and everything up to (but not including) the next
// newline or end of stream.
func Comment(s stream.Stream) (string, stream.Stream, error) {
	_, s1, err := Char('#')(s)
	if err != nil {
		return "", s, err
	}
	cur := s1
	for {
		r, ok := cur.Peek()
		if !ok || r == '\n' {
			break
		}
		cur = cur.Advance()
	}
	return s1.Rest[:len(s1.Rest)-len(cur.Rest)], cur, nil
}

// Jump consumes any run of whitespace and comments, never failing. The
// grammar (package dsl) calls Jump between every pair of tokens.
func Jump(s stream.Stream) (struct{}, stream.Stream, error) {
	return SkipMany(Choice(Skip[rune](Whitespace), Skip[string](Comment)))(s)
}

// Token wraps p so that trailing whitespace and comments are consumed after
// a successful match — the standard "lexeme" combinator.
func Token[T any](p Parser[T]) Parser[T] {
	return func(s stream.Stream) (T, stream.Stream, error) {
		v, s1, err := p(s)
		if err != nil {
			var zero T
			return zero, s, err
		}
		_, s2, _ := Jump(s1)
		return v, s2, nil
	}
}

// Lexeme is an alias for Token, matching the naming used by most parser
// combinator libraries.
func Lexeme[T any](p Parser[T]) Parser[T] { return Token(p) }

// Symbol matches a literal string as a token (trailing whitespace/comments
// consumed).
func Symbol(lit string) Parser[string] { return Token(String(lit)) }

// Parens matches p between a literal '(' and ')'.
func Parens[T any](p Parser[T]) Parser[T] {
	return Between(Symbol("("), Symbol(")"), p)
}

// Squares matches p between a literal '[' and ']'.
func Squares[T any](p Parser[T]) Parser[T] {
	return Between(Symbol("["), Symbol("]"), p)
}

// Braces matches p between a literal '{' and '}'.
func Braces[T any](p Parser[T]) Parser[T] {
	return Between(Symbol("{"), Symbol("}"), p)
}

// Angles matches p between a literal '<' and '>'.
func Angles[T any](p Parser[T]) Parser[T] {
	return Between(Symbol("<"), Symbol(">"), p)
}

// Quote matches p between single quotes.
func Quote[T any](p Parser[T]) Parser[T] {
	return Between(Symbol("'"), Symbol("'"), p)
}

// QQuote matches p between double quotes.
func QQuote[T any](p Parser[T]) Parser[T] {
	return Between(Symbol(`"`), Symbol(`"`), p)
}

// Strip consumes leading Jump, then p, i.e. allows leading whitespace before
// a top-level parser.
func Strip[T any](p Parser[T]) Parser[T] {
	return func(s stream.Stream) (T, stream.Stream, error) {
		_, s1, _ := Jump(s)
		return p(s1)
	}
}

// EOF succeeds only at the end of the stream.
func EOF(s stream.Stream) (struct{}, stream.Stream, error) {
	if !s.Empty() {
		r, _ := s.Peek()
		return struct{}{}, s, failExpect(s, "expected end of input", "end-of-stream", string(r))
	}
	return struct{}{}, s, nil
}
