package dsl

import (
	"strconv"

	"github.com/katalvlaran/lot/parse"
	"github.com/katalvlaran/lot/stream"
)

// reservedChars is the punctuation and whitespace a bare keyword may never
// contain (spec §3 Keyword).
const reservedChars = "[](){}<>,=!#:+ \t\n\r"

// component is one colon-separated position inside an xkwd: either a single
// literal keyword (len==1, unexpanded) or the expanded contents of a
// parenthesized tuple (len>=0, each element already range-expanded).
type component []string

func kwd(s stream.Stream) (string, stream.Stream, error) {
	return parse.Label("keyword", parse.Token(parse.Fold(parse.Some(parse.NoneOf(reservedChars)))))(s)
}

func comma(s stream.Stream) (string, stream.Stream, error) { return parse.Symbol(",")(s) }

// gridKeywordList parses "[" kwd ("," kwd)* "]", range-expanding and
// de-duplicating the result (spec §3: "Duplicate keywords within a list are
// eliminated").
func gridKeywordList(s stream.Stream) (KeywordList, stream.Stream, error) {
	raw, s1, err := parse.Squares(parse.SepBy(parse.Parser[string](comma), parse.Parser[string](kwd)))(s)
	if err != nil {
		return nil, s, err
	}
	var out []string
	for _, r := range raw {
		out = append(out, Expand(r)...)
	}
	return KeywordList(Dedup(out)), s1, nil
}

// axisSet parses one-or-more consecutive keyword lists with no '+' between
// them; their Cartesian product forms one contiguous block of grid nodes.
func axisSet(s stream.Stream) (AxisSet, stream.Stream, error) {
	lists, s1, err := parse.Some(parse.Parser[KeywordList](gridKeywordList))(s)
	if err != nil {
		return nil, s, err
	}
	return AxisSet(lists), s1, nil
}

// Grammar: grid := axisSet ("+" axisSet)*
func parseGrid(s stream.Stream) (Grid, stream.Stream, error) {
	axes, s1, err := parse.SepBy(parse.Parser[string](func(s stream.Stream) (string, stream.Stream, error) {
		return parse.Symbol("+")(s)
	}), parse.Parser[AxisSet](axisSet))(s)
	if err != nil {
		return nil, s, err
	}
	if len(axes) == 0 {
		return nil, s, parse.Fail(s, "expected at least one axis-set in grid")
	}
	return Grid(axes), s1, nil
}

// parseBar matches the "---"+ section separator.
func parseBar(s stream.Stream) (struct{}, stream.Stream, error) {
	_, s1, err := parse.Token(parse.Fold(parse.Count(3, parse.Char('-'))))(s)
	if err != nil {
		return struct{}{}, s, parse.FailExpect(s, "expected section separator", "'---'", observed(s))
	}
	_, s2, _ := parse.Token(parse.Fold(parse.Many(parse.Char('-'))))(s1)
	return struct{}{}, s2, nil
}

// tupleComponent parses "(" kwd ("," kwd)* ")", range-expanding every
// element (spec §3 xkwd: "(1-31;14):May:2025").
func tupleComponent(s stream.Stream) (component, stream.Stream, error) {
	raw, s1, err := parse.Parens(parse.SepBy(parse.Parser[string](comma), parse.Parser[string](kwd)))(s)
	if err != nil {
		return nil, s, err
	}
	var out []string
	for _, r := range raw {
		out = append(out, Expand(r)...)
	}
	return component(out), s1, nil
}

// bareComponent parses a single literal keyword, taken verbatim (no range
// expansion — only kwd_list and kwd_tuple elements expand; spec §4.2).
func bareComponent(s stream.Stream) (component, stream.Stream, error) {
	k, s1, err := kwd(s)
	if err != nil {
		return nil, s, err
	}
	return component{k}, s1, nil
}

func colon(s stream.Stream) (string, stream.Stream, error) { return parse.Symbol(":")(s) }

// xkwd parses a colon-separated chain of components.
func xkwd(s stream.Stream) ([]component, stream.Stream, error) {
	return parse.SepBy(parse.Parser[string](colon),
		parse.Choice(parse.Parser[component](tupleComponent), parse.Parser[component](bareComponent)))(s)
}

// normalizeXkwd expands a parsed xkwd into the set of concrete key tuples it
// denotes, by taking the Cartesian product of its components (spec §3).
func normalizeXkwd(comps []component) [][]string {
	lists := make([][]string, len(comps))
	for i, c := range comps {
		lists[i] = []string(c)
	}
	return DedupTuples(CartesianProduct(lists...))
}

var opParser = parse.Label("comparison operator",
	parse.Choice(
		parse.Parser[string](func(s stream.Stream) (string, stream.Stream, error) { return parse.Symbol("<=")(s) }),
		parse.Parser[string](func(s stream.Stream) (string, stream.Stream, error) { return parse.Symbol(">=")(s) }),
		parse.Parser[string](func(s stream.Stream) (string, stream.Stream, error) { return parse.Symbol("=")(s) }),
		parse.Parser[string](func(s stream.Stream) (string, stream.Stream, error) { return parse.Symbol("<")(s) }),
		parse.Parser[string](func(s stream.Stream) (string, stream.Stream, error) { return parse.Symbol(">")(s) }),
	))

// qboundRaw is a parsed-but-not-yet-normalized quantified bound:
// xkwd components, an operator, and an integer bound.
type qboundRaw struct {
	comps []component
	op    Op
	n     int
}

func qbound(s stream.Stream) (qboundRaw, stream.Stream, error) {
	comps, s1, err := xkwd(s)
	if err != nil {
		return qboundRaw{}, s, err
	}
	opLit, s2, err := opParser(s1)
	if err != nil {
		return qboundRaw{}, s, err
	}
	digits, s3, err := parse.Token(parse.Parser[string](parse.Digits))(s2)
	if err != nil {
		return qboundRaw{}, s, err
	}
	n, _ := strconv.Atoi(digits)
	return qboundRaw{comps: comps, op: Op(opLit), n: n}, s3, nil
}

// oEntry is one comma-separated element of an "-o[...]" clause: either a
// plain xkwd (allow-list tuple set) or a quantified bound.
type oEntry struct {
	isQuant bool
	plain   []component
	quant   qboundRaw
}

func oEntryParser(s stream.Stream) (oEntry, stream.Stream, error) {
	if qb, s1, err := qbound(s); err == nil {
		return oEntry{isQuant: true, quant: qb}, s1, nil
	}
	comps, s1, err := xkwd(s)
	if err != nil {
		return oEntry{}, s, err
	}
	return oEntry{plain: comps}, s1, nil
}

func observed(s stream.Stream) string {
	if r, ok := s.Peek(); ok {
		return string(r)
	}
	return "end-of-stream"
}
