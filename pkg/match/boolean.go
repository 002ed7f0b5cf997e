package match

import (
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Use describes how a boolean expression is consumed by its context.
type Use struct {
	// Target is the outermost node that only restates the expression's
	// truth value: the expression itself, a negation of it, a comparison
	// with a boolean literal, or parentheses around any of those.
	Target *syntax.Node
	// Parent and Field locate Target in the tree.
	Parent *syntax.Node
	Field  string
	// Negated is true when Target is true exactly when the expression is false.
	Negated bool
}

// BooleanUse classifies the boolean expression under c. It recognizes
// !x, x == true, x == false, true == x, x != true and x != false, looking
// through parentheses, and folds nested forms into one polarity.
func BooleanUse(c syntax.Cursor) Use {
	cur := c
	negated := false

	for {
		next, flip, ok := consumer(cur)
		if !ok {
			break
		}

		cur = next
		negated = negated != flip
	}

	return Use{
		Target:  cur.Node(),
		Parent:  cur.ParentNode(),
		Field:   cur.Field(),
		Negated: negated,
	}
}

// consumer climbs from cur over parentheses to a node that restates its
// truth value, reporting whether that node flips the polarity.
func consumer(cur syntax.Cursor) (syntax.Cursor, bool, bool) {
	up := cur

	for {
		p, ok := up.Parent()
		if !ok {
			return cur, false, false
		}

		pn := p.Node()

		switch pn.Kind() {
		case syntax.KindParenthesized:
			up = p

			continue
		case syntax.KindPrefixUnary:
			if op := pn.Field(syntax.FieldOperator); op != nil && op.TokenText() == "!" {
				return p, true, true
			}
		case syntax.KindBinary:
			if flip, ok := literalComparison(pn, up.Field()); ok {
				return p, flip, true
			}
		default:
		}

		return cur, false, false
	}
}

// literalComparison handles `x OP lit` and `lit OP x` where OP is == or !=
// and lit is true or false; side names the field x occupies.
func literalComparison(bin *syntax.Node, side string) (flip, ok bool) {
	op := bin.Field(syntax.FieldOperator)
	if op == nil {
		return false, false
	}

	eq := op.TokenText() == "=="
	if !eq && op.TokenText() != "!=" {
		return false, false
	}

	other := syntax.FieldRight
	if side == syntax.FieldRight {
		other = syntax.FieldLeft
	} else if side != syntax.FieldLeft {
		return false, false
	}

	lit := StripParens(bin.Field(other))
	if !lit.Is(syntax.KindLiteral) {
		return false, false
	}

	var value bool

	switch lit.Text() {
	case "true":
		value = true
	case "false":
		value = false
	default:
		return false, false
	}

	// x == true and x != false keep polarity.
	return eq != value, true
}

// InConditionalAccess reports whether the node under c is evaluated as part
// of a ?. chain, either below a conditional access or with a member binding
// or conditional access in its receiver chain.
func InConditionalAccess(c syntax.Cursor) bool {
	cur := c

	for {
		p, ok := cur.Parent()
		if !ok {
			break
		}

		switch p.Node().Kind() {
		case syntax.KindConditionalAccess:
			if cur.Field() != syntax.FieldCondition {
				return true
			}
		case syntax.KindMemberAccess, syntax.KindInvocation, syntax.KindParenthesized,
			syntax.KindMemberBinding:
			cur = p

			continue
		default:
		}

		break
	}

	return receiverHasConditional(c.Node())
}

func receiverHasConditional(n *syntax.Node) bool {
	for n != nil {
		switch n.Kind() {
		case syntax.KindMemberBinding, syntax.KindConditionalAccess:
			return true
		case syntax.KindInvocation:
			n = n.Field(syntax.FieldFunction)
		case syntax.KindMemberAccess, syntax.KindParenthesized:
			n = n.Field(syntax.FieldExpression)
		default:
			return false
		}
	}

	return false
}
