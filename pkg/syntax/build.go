package syntax

// Field labels shared by front ends and builders.
const (
	FieldExpression = "expression"
	FieldName       = "name"
	FieldLeft       = "left"
	FieldRight      = "right"
	FieldOperator   = "operator"
	FieldOperand    = "operand"
	FieldFunction   = "function"
	FieldArguments  = "arguments"
	FieldCondition  = "condition"
	FieldType       = "type"
	FieldValue      = "value"
	FieldBody       = "body"
	FieldDecl       = "declaration"
)

// Token creates a bare synthesized token.
func Token(text string) *Node {
	return NewToken(text, nil, nil)
}

// Literal creates a literal expression such as 0 or true.
func Literal(text string) *Node {
	return NewNode(KindLiteral, Child{Node: Token(text)})
}

// Identifier creates an identifier expression.
func Identifier(name string) *Node {
	return NewNode(KindIdentifier, Child{Node: Token(name)})
}

// Paren wraps expr in parentheses.
func Paren(expr *Node) *Node {
	return NewNode(KindParenthesized,
		Child{Node: Token("(")},
		Child{Field: FieldExpression, Node: expr},
		Child{Node: Token(")")},
	)
}

// Binary joins two operands with op. The operator is padded with single
// spaces unless the left operand already ends in whitespace.
// Operands are parenthesized as their precedence requires.
func Binary(left *Node, op string, right *Node) *Node {
	prec := binaryPrecedence(op)
	left = parenthesizeOperand(left, prec, false)
	right = parenthesizeOperand(right, prec, true)

	var lead TriviaList
	if !left.TrailingTrivia().EndsWithSpace() {
		lead = Space
	}

	return NewNode(KindBinary,
		Child{Field: FieldLeft, Node: left},
		Child{Field: FieldOperator, Node: NewToken(op, lead, Space)},
		Child{Field: FieldRight, Node: right},
	)
}

// Not negates expr with a prefix !.
func Not(expr *Node) *Node {
	if Precedence(expr) < PrecUnary {
		expr = Paren(expr)
	}

	return NewNode(KindPrefixUnary,
		Child{Field: FieldOperator, Node: Token("!")},
		Child{Field: FieldOperand, Node: expr},
	)
}

// MemberAccess creates receiver.name.
func MemberAccess(receiver *Node, name string) *Node {
	if Precedence(receiver) < PrecPrimary {
		receiver = Paren(receiver)
	}

	return NewNode(KindMemberAccess,
		Child{Field: FieldExpression, Node: receiver},
		Child{Node: Token(".")},
		Child{Field: FieldName, Node: Identifier(name)},
	)
}

func parenthesizeOperand(n *Node, prec int, right bool) *Node {
	p := Precedence(n)
	if p < prec || (right && p == prec) {
		return Paren(n)
	}

	return n
}

// Parenthesize wraps expr in parentheses when it would otherwise bind
// differently as the field child of parent. A nil parent never requires them.
func Parenthesize(expr, parent *Node, field string) *Node {
	if parent == nil || expr.Is(KindParenthesized) {
		return expr
	}

	p := Precedence(expr)

	switch parent.Kind() {
	case KindMemberAccess, KindConditionalAccess:
		if field == FieldExpression || field == FieldCondition {
			if p < PrecPrimary {
				return Paren(expr)
			}
		}
	case KindInvocation:
		if field == FieldFunction && p < PrecPrimary {
			return Paren(expr)
		}
	case KindPrefixUnary:
		if p < PrecUnary {
			return Paren(expr)
		}
	case KindBinary:
		op := parent.Field(FieldOperator)
		if op == nil {
			return expr
		}

		return parenthesizeOperand(expr, binaryPrecedence(op.TokenText()), field == FieldRight)
	default:
	}

	return expr
}
