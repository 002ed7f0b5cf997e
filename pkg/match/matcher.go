package match

import (
	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Match is the outcome of a successful match.
type Match struct {
	// Primary is the tightest span identifying the violation.
	Primary syntax.Span
	// Node is the node the rule was triggered on.
	Node *syntax.Node
	// Target is the node a rewrite replaces. It is Node unless a surface
	// variant such as a negation widens it.
	Target *syntax.Node
	// Parent and Field locate Target in the tree, for parenthesization.
	Parent *syntax.Node
	Field  string
	// Negated reports that Target consumes the idiom with inverted polarity.
	Negated bool
	// Captures holds the original sub-nodes bound by the pattern.
	Captures Captures
}

// Capture returns the node bound to name, or nil.
func (m Match) Capture(name string) *syntax.Node {
	return m.Captures[name]
}

// Matcher decides whether the node under a cursor exhibits an idiom.
type Matcher interface {
	Match(c syntax.Cursor, facts semantic.Provider) (Match, bool)
}

// Func adapts a function to Matcher.
type Func func(c syntax.Cursor, facts semantic.Provider) (Match, bool)

// Match implements Matcher.
func (f Func) Match(c syntax.Cursor, facts semantic.Provider) (Match, bool) { return f(c, facts) }

// Spec is a declarative Matcher. Checks run cheapest first: Shape, then
// Guard, then Semantic. Semantic is never consulted for a failed shape.
type Spec struct {
	// Shape is the structural pattern the triggered node must match.
	Shape Pattern
	// Guard rejects matches by syntactic context, such as a ?. chain.
	Guard func(c syntax.Cursor, caps Captures) bool
	// Semantic confirms the match against resolved facts.
	Semantic Predicate
	// Anchor names the capture whose span is reported; empty reports the node.
	Anchor string
	// BooleanTarget widens Target over negations and comparisons with
	// boolean literals that consume the node.
	BooleanTarget bool
}

// Match implements Matcher.
func (s Spec) Match(c syntax.Cursor, facts semantic.Provider) (Match, bool) {
	n := c.Node()
	caps := make(Captures)

	if s.Shape != nil && !s.Shape.Match(n, caps) {
		return Match{}, false
	}

	if s.Guard != nil && !s.Guard(c, caps) {
		return Match{}, false
	}

	m := Match{
		Primary:  n.Span(),
		Node:     n,
		Target:   n,
		Parent:   c.ParentNode(),
		Field:    c.Field(),
		Captures: caps,
	}

	if s.Anchor != "" {
		a := caps[s.Anchor]
		if a == nil {
			return Match{}, false
		}

		m.Primary = a.Span()
	}

	if s.Semantic != nil {
		if facts == nil || !s.Semantic(m, facts) {
			return Match{}, false
		}
	}

	if s.BooleanTarget {
		use := BooleanUse(c)
		m.Target = use.Target
		m.Parent = use.Parent
		m.Field = use.Field
		m.Negated = use.Negated
	}

	return m, true
}
