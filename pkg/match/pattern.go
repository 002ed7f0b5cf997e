// Package match decides whether a node exhibits an idiom: a structural
// pattern over the tree first, then a semantic predicate over the captures.
package match

import (
	"maps"

	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Captures maps capture names to the original sub-nodes they bound.
type Captures map[string]*syntax.Node

// Pattern tests the shape of a node, recording captures on success.
type Pattern interface {
	Match(n *syntax.Node, caps Captures) bool
}

// PatternFunc adapts a function to Pattern.
type PatternFunc func(n *syntax.Node, caps Captures) bool

// Match implements Pattern.
func (f PatternFunc) Match(n *syntax.Node, caps Captures) bool { return f(n, caps) }

// Constraint restricts the children of a node matched by Kind.
type Constraint func(n *syntax.Node, caps Captures) bool

// Any matches every non-nil node.
func Any() Pattern {
	return PatternFunc(func(n *syntax.Node, _ Captures) bool { return n != nil })
}

// Kind matches nodes of kind k satisfying every constraint in order.
func Kind(k syntax.Kind, constraints ...Constraint) Pattern {
	return PatternFunc(func(n *syntax.Node, caps Captures) bool {
		if !n.Is(k) {
			return false
		}

		for _, c := range constraints {
			if !c(n, caps) {
				return false
			}
		}

		return true
	})
}

// Text matches a node whose text, without outer trivia, equals s.
func Text(s string) Pattern {
	return PatternFunc(func(n *syntax.Node, _ Captures) bool {
		return n != nil && n.Text() == s
	})
}

// Capture matches p and binds the node to name.
func Capture(name string, p Pattern) Pattern {
	return PatternFunc(func(n *syntax.Node, caps Captures) bool {
		if !p.Match(n, caps) {
			return false
		}

		caps[name] = n

		return true
	})
}

// OneOf matches the first alternative that holds. Captures of failed
// alternatives are discarded.
func OneOf(alts ...Pattern) Pattern {
	return PatternFunc(func(n *syntax.Node, caps Captures) bool {
		for _, alt := range alts {
			trial := maps.Clone(caps)
			if trial == nil {
				trial = make(Captures)
			}

			if alt.Match(n, trial) {
				maps.Copy(caps, trial)

				return true
			}
		}

		return false
	})
}

// Not matches when p does not. It never captures.
func Not(p Pattern) Pattern {
	return PatternFunc(func(n *syntax.Node, _ Captures) bool {
		return !p.Match(n, make(Captures))
	})
}

// Unparen strips any number of parentheses before matching p.
func Unparen(p Pattern) Pattern {
	return PatternFunc(func(n *syntax.Node, caps Captures) bool {
		return p.Match(StripParens(n), caps)
	})
}

// StripParens returns the expression inside any enclosing parentheses.
func StripParens(n *syntax.Node) *syntax.Node {
	for n.Is(syntax.KindParenthesized) {
		inner := n.Field(syntax.FieldExpression)
		if inner == nil {
			break
		}

		n = inner
	}

	return n
}

// Field requires the child labelled label to exist and match p.
func Field(label string, p Pattern) Constraint {
	return func(n *syntax.Node, caps Captures) bool {
		c := n.Field(label)

		return c != nil && p.Match(c, caps)
	}
}

// Only requires exactly one child of kind k, matching p.
func Only(k syntax.Kind, p Pattern) Constraint {
	return func(n *syntax.Node, caps Captures) bool {
		kids := n.ChildrenOf(k)

		return len(kids) == 1 && p.Match(kids[0], caps)
	}
}

// HasToken requires a direct token child with the given text.
func HasToken(text string) Constraint {
	return func(n *syntax.Node, _ Captures) bool {
		return n.TokenChild(text) != nil
	}
}

// CaptureToken binds the direct token child with the given text.
func CaptureToken(name, text string) Constraint {
	return func(n *syntax.Node, caps Captures) bool {
		t := n.TokenChild(text)
		if t == nil {
			return false
		}

		caps[name] = t

		return true
	}
}

// NoToken forbids a direct token child with the given text.
func NoToken(text string) Constraint {
	return func(n *syntax.Node, _ Captures) bool {
		return n.TokenChild(text) == nil
	}
}
