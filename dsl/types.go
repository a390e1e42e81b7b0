// Package dsl is the LOT front-end: it turns LOT source text into a Grid and
// a Policy using the parser-combinator kernel in package parse (spec §4.2).
//
// A LOT source file is two sections separated by a line of three or more
// '-' characters: a grid declaration, then a policy declaration. Whitespace
// and '#'-comments are insignificant between any two tokens.
package dsl

import "errors"

// Sentinel errors for the dsl package. Syntax errors are *parse.Error values
// (rich, position-carrying) and are never wrapped in these; these sentinels
// cover failures specific to LOT's grammar-level semantics.
var (
	// ErrUnknownOperator is returned when a quantified bound uses a symbol
	// outside {<, <=, =, >, >=}.
	ErrUnknownOperator = errors.New("dsl: unsupported comparison operator")
	// ErrDuplicateActor is returned when an actor name reappears in the
	// policy; spec §3 requires actor names to be unique.
	ErrDuplicateActor = errors.New("dsl: duplicate actor name")
)

// Keyword is a single atom of the grid/policy vocabulary: a non-empty string
// over the printable alphabet excluding "[](){}<>,=!#:+" and whitespace.
type Keyword = string

// Node is a flattened tuple of keywords, one per axis level, denoting one
// assignable slot in the grid.
type Node []Keyword

// Root returns the node's first component, the value R2/R4 group by.
func (n Node) Root() Keyword {
	if len(n) == 0 {
		return ""
	}
	return n[0]
}

// Key returns n's components joined by the unit separator '\x1f', a string
// suitable as a map key (a Node slice itself is not comparable).
func (n Node) Key() string {
	s := ""
	for i, k := range n {
		if i > 0 {
			s += "\x1f" // unit separator, never a valid keyword rune
		}
		s += k
	}
	return s
}

// KeywordList is one bracketed "[a,b,c]" list, after range/step expansion
// and de-duplication.
type KeywordList []Keyword

// AxisSet is an ordered run of KeywordLists whose Cartesian product yields
// one contiguous block of nodes (spec §3 Grid).
type AxisSet []KeywordList

// Grid is the full ordered sequence of axis-sets joined by '+'.
type Grid []AxisSet

// AllKeywords returns the set of every keyword literal that appears
// anywhere in the grid, used by keyword validation (spec §3 I6).
func (g Grid) AllKeywords() map[Keyword]struct{} {
	out := map[Keyword]struct{}{}
	for _, axis := range g {
		for _, kl := range axis {
			for _, k := range kl {
				out[k] = struct{}{}
			}
		}
	}
	return out
}

// Op is a comparison operator used by quantified ("q") preferences.
type Op string

const (
	OpLT Op = "<"
	OpLE Op = "<="
	OpEQ Op = "="
	OpGT Op = ">"
	OpGE Op = ">="
)

// Eval applies the operator to (lhs OP rhs).
func (o Op) Eval(lhs, rhs int) (bool, error) {
	switch o {
	case OpLT:
		return lhs < rhs, nil
	case OpLE:
		return lhs <= rhs, nil
	case OpEQ:
		return lhs == rhs, nil
	case OpGT:
		return lhs > rhs, nil
	case OpGE:
		return lhs >= rhs, nil
	default:
		return false, ErrUnknownOperator
	}
}

// QuantBound is a "q" preference: #assignments matching Key OP N (spec §3).
type QuantBound struct {
	Key []Keyword
	Op  Op
	N   int
}

// ActorPrefs holds every preference declared for one actor, as a tagged
// union decomposed into typed fields rather than a generic list — spec §9
// explicitly asks for a closed variant set, not stringly-typed tags.
type ActorPrefs struct {
	// Allow is the "o" allow-list: tuples of which a node's component set
	// must be a superset for the actor to be eligible. Empty means no
	// allow-list restriction.
	Allow [][]Keyword
	// Forbid is the "x" forbid-list: tuples that exclude a matching node.
	Forbid [][]Keyword
	// Priority is the "!" ordered preference list, most-preferred first.
	Priority [][]Keyword
	// Exact is the "@" exact-count bound, nil if not declared.
	Exact *int
	// RestGap is the "/" minimum root-distance between assignments, nil if
	// not declared (the caller's min-rest default then applies).
	RestGap *int
	// Quant holds every "q" quantified bound embedded in an "o" clause.
	Quant []QuantBound
}

// Policy is the ordered mapping from actor name to preferences. Order
// preserves first-appearance order, matching spec §3's requirement that
// actor iteration be stable and debuggable.
type Policy struct {
	Order  []string
	Actors map[string]*ActorPrefs
}

// NewPolicy returns an empty Policy ready for incremental construction.
func NewPolicy() *Policy {
	return &Policy{Actors: map[string]*ActorPrefs{}}
}

// Add registers a newly-seen actor, preserving first-appearance order.
// Re-declaring an actor name already in the policy is rejected with
// ErrDuplicateActor, per spec §3's uniqueness invariant.
func (p *Policy) Add(actor string) (*ActorPrefs, error) {
	if _, ok := p.Actors[actor]; ok {
		return nil, ErrDuplicateActor
	}
	prefs := &ActorPrefs{}
	p.Actors[actor] = prefs
	p.Order = append(p.Order, actor)
	return prefs, nil
}
