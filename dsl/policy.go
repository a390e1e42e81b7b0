package dsl

import (
	"strconv"

	"github.com/katalvlaran/lot/parse"
	"github.com/katalvlaran/lot/stream"
)

// clauseKind tags which policy clause a parsed unit contributes.
type clauseKind int

const (
	clauseActs clauseKind = iota
	clauseRest
	clauseO
	clauseX
	clauseExcl
)

type clause struct {
	kind clauseKind
	n    int       // acts / rest
	o    []oEntry  // allow-list entries (plain tuples and/or quantified bounds)
	x    [][]component
	excl [][]component
}

func actsClause(s stream.Stream) (clause, stream.Stream, error) {
	_, s1, err := parse.Token(parse.Char('@'))(s)
	if err != nil {
		return clause{}, s, err
	}
	digits, s2, err := parse.Token(parse.Parser[string](parse.Digits))(s1)
	if err != nil {
		return clause{}, s, err
	}
	n, _ := strconv.Atoi(digits)
	return clause{kind: clauseActs, n: n}, s2, nil
}

func restClause(s stream.Stream) (clause, stream.Stream, error) {
	_, s1, err := parse.Token(parse.Char('/'))(s)
	if err != nil {
		return clause{}, s, err
	}
	digits, s2, err := parse.Token(parse.Parser[string](parse.Digits))(s1)
	if err != nil {
		return clause{}, s, err
	}
	n, _ := strconv.Atoi(digits)
	return clause{kind: clauseRest, n: n}, s2, nil
}

func oClause(s stream.Stream) (clause, stream.Stream, error) {
	_, s1, err := parse.Token(parse.Char('-'))(s)
	if err != nil {
		return clause{}, s, err
	}
	_, s2, err := parse.Token(parse.OneOf("oO"))(s1)
	if err != nil {
		return clause{}, s, err
	}
	entries, s3, err := parse.Token(parse.Squares(parse.SepBy(parse.Parser[string](comma), parse.Parser[oEntry](oEntryParser))))(s2)
	if err != nil {
		return clause{}, s, err
	}
	return clause{kind: clauseO, o: entries}, s3, nil
}

func xClause(s stream.Stream) (clause, stream.Stream, error) {
	_, s1, err := parse.Token(parse.Char('-'))(s)
	if err != nil {
		return clause{}, s, err
	}
	_, s2, err := parse.Token(parse.OneOf("xX"))(s1)
	if err != nil {
		return clause{}, s, err
	}
	entries, s3, err := parse.Token(parse.Squares(parse.SepBy(parse.Parser[string](comma), parse.Parser[[]component](xkwd))))(s2)
	if err != nil {
		return clause{}, s, err
	}
	return clause{kind: clauseX, x: entries}, s3, nil
}

func exclClause(s stream.Stream) (clause, stream.Stream, error) {
	_, s1, err := parse.Token(parse.Char('-'))(s)
	if err != nil {
		return clause{}, s, err
	}
	_, s2, err := parse.Token(parse.Char('!'))(s1)
	if err != nil {
		return clause{}, s, err
	}
	entries, s3, err := parse.Token(parse.Squares(parse.SepBy(parse.Parser[string](comma), parse.Parser[[]component](xkwd))))(s2)
	if err != nil {
		return clause{}, s, err
	}
	return clause{kind: clauseExcl, excl: entries}, s3, nil
}

func actorName(s stream.Stream) (string, stream.Stream, error) {
	return parse.Label("actor name", parse.Angles(parse.Token(parse.Fold(parse.Some(parse.NoneOf("<>"))))))(s)
}

// unit parses one "<actor> clause*" policy entry and applies every clause to
// a fresh ActorPrefs.
func unit(s stream.Stream) (string, *ActorPrefs, stream.Stream, error) {
	name, s1, err := actorName(s)
	if err != nil {
		return "", nil, s, err
	}
	clauses, s2, err := parse.Many(parse.Parser[clause](
		parse.Choice(
			parse.Parser[clause](actsClause),
			parse.Parser[clause](restClause),
			parse.Parser[clause](oClause),
			parse.Parser[clause](xClause),
			parse.Parser[clause](exclClause),
		),
	))(s1)
	if err != nil {
		return "", nil, s, err
	}

	prefs := &ActorPrefs{}
	for _, c := range clauses {
		switch c.kind {
		case clauseActs:
			n := c.n
			prefs.Exact = &n
		case clauseRest:
			n := c.n
			prefs.RestGap = &n
		case clauseO:
			for _, e := range c.o {
				if e.isQuant {
					for _, tup := range normalizeXkwd(e.quant.comps) {
						prefs.Quant = append(prefs.Quant, QuantBound{Key: tup, Op: e.quant.op, N: e.quant.n})
						prefs.Allow = append(prefs.Allow, tup)
					}
				} else {
					prefs.Allow = append(prefs.Allow, normalizeXkwd(e.plain)...)
				}
			}
		case clauseX:
			for _, comps := range c.x {
				prefs.Forbid = append(prefs.Forbid, normalizeXkwd(comps)...)
			}
		case clauseExcl:
			for _, comps := range c.excl {
				prefs.Priority = append(prefs.Priority, normalizeXkwd(comps)...)
			}
		}
	}
	return name, prefs, s2, nil
}

// parsePolicy parses the full "(<actor> clauses*)+" policy section.
func parsePolicy(s stream.Stream) (*Policy, stream.Stream, error) {
	pol := NewPolicy()
	cur := s
	first := true
	for {
		name, prefs, next, err := unit(cur)
		if err != nil {
			if first {
				return nil, s, err
			}
			break
		}
		first = false
		dst, addErr := pol.Add(name)
		if addErr != nil {
			return nil, s, parse.Fail(cur, addErr.Error())
		}
		*dst = *prefs
		cur = next
	}
	return pol, cur, nil
}
