package dsl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/lot/parse"
	"github.com/katalvlaran/lot/stream"
)

// parsedDocument holds the two top-level sections of a LOT source file.
type parsedDocument struct {
	grid Grid
	pol  *Policy
}

// document parses "grid '---'+ policy", the full LOT source grammar
// (spec §3, §4.2).
func document(s stream.Stream) (parsedDocument, stream.Stream, error) {
	grid, s1, err := parse.Strip(parse.Parser[Grid](parseGrid))(s)
	if err != nil {
		return parsedDocument{}, s, err
	}
	_, s2, err := parseBar(s1)
	if err != nil {
		return parsedDocument{}, s, err
	}
	pol, s3, err := parsePolicy(s2)
	if err != nil {
		return parsedDocument{}, s, err
	}
	return parsedDocument{grid: grid, pol: pol}, s3, nil
}

// ParseLOT parses a complete LOT source document into a Grid and a Policy.
// Syntax errors surface as *parse.Error (use Format for a caret diagnostic).
// Semantic errors — unknown keywords referenced by the policy — surface as
// *ValidationError after every offender has been collected (spec §3 I6).
func ParseLOT(source string) (Grid, *Policy, error) {
	doc, err := parse.Run(parse.Parser[parsedDocument](document), source)
	if err != nil {
		return nil, nil, err
	}
	if err := Validate(doc.grid, doc.pol); err != nil {
		return nil, nil, err
	}
	return doc.grid, doc.pol, nil
}

// UnknownKeywordRef names one keyword referenced by an actor's preferences
// that does not appear anywhere in the grid.
type UnknownKeywordRef struct {
	Actor   string
	Keyword string
}

// ValidationError aggregates every unknown-keyword reference found across
// the whole policy into a single error, rather than stopping at the first
// (spec §3 I6: "report every offending keyword together with its owning
// actor before raising a single fatal error").
type ValidationError struct {
	Refs []UnknownKeywordRef
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("unknown keyword(s) referenced in policy:")
	for _, r := range e.Refs {
		fmt.Fprintf(&b, " %s:%q", r.Actor, r.Keyword)
	}
	return b.String()
}

// Validate checks that every keyword named anywhere in pol's preferences
// (allow, forbid, priority, quantified-bound keys) also appears in grid.
func Validate(grid Grid, pol *Policy) error {
	known := grid.AllKeywords()
	var refs []UnknownKeywordRef

	check := func(actor string, tuples [][]Keyword) {
		for _, t := range tuples {
			for _, k := range t {
				if _, ok := known[k]; !ok {
					refs = append(refs, UnknownKeywordRef{Actor: actor, Keyword: k})
				}
			}
		}
	}

	for _, actor := range pol.Order {
		prefs := pol.Actors[actor]
		check(actor, prefs.Allow)
		check(actor, prefs.Forbid)
		check(actor, prefs.Priority)
		for _, q := range prefs.Quant {
			for _, k := range q.Key {
				if _, ok := known[k]; !ok {
					refs = append(refs, UnknownKeywordRef{Actor: actor, Keyword: k})
				}
			}
		}
	}

	if len(refs) == 0 {
		return nil
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Actor != refs[j].Actor {
			return refs[i].Actor < refs[j].Actor
		}
		return refs[i].Keyword < refs[j].Keyword
	})
	return &ValidationError{Refs: refs}
}
