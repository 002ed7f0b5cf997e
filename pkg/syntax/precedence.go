package syntax

// Operator precedence levels, lowest first.
const (
	PrecNone = iota
	PrecAssignment
	PrecConditional
	PrecCoalesce
	PrecConditionalOr
	PrecConditionalAnd
	PrecBitwiseOr
	PrecBitwiseXor
	PrecBitwiseAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecPrimary
)

var binaryPrec = map[string]int{
	"??": PrecCoalesce,
	"||": PrecConditionalOr,
	"&&": PrecConditionalAnd,
	"|":  PrecBitwiseOr,
	"^":  PrecBitwiseXor,
	"&":  PrecBitwiseAnd,
	"==": PrecEquality,
	"!=": PrecEquality,
	"<":  PrecRelational,
	">":  PrecRelational,
	"<=": PrecRelational,
	">=": PrecRelational,
	"is": PrecRelational,
	"as": PrecRelational,
	"<<": PrecShift,
	">>": PrecShift,
	"+":  PrecAdditive,
	"-":  PrecAdditive,
	"*":  PrecMultiplicative,
	"/":  PrecMultiplicative,
	"%":  PrecMultiplicative,
}

func binaryPrecedence(op string) int {
	if p, ok := binaryPrec[op]; ok {
		return p
	}

	return PrecNone
}

// Precedence returns how tightly an expression binds.
func Precedence(n *Node) int {
	switch n.Kind() {
	case KindBinary:
		if op := n.Field(FieldOperator); op != nil {
			return binaryPrecedence(op.TokenText())
		}

		return PrecNone
	case KindPrefixUnary:
		return PrecUnary
	case KindAssignment:
		return PrecAssignment
	case KindInvocation, KindMemberAccess, KindConditionalAccess, KindMemberBinding,
		KindIdentifier, KindQualifiedName, KindPredefinedType, KindLiteral,
		KindParenthesized, KindDefault, KindObjectCreation:
		return PrecPrimary
	case KindInvalid, KindToken, KindCompilationUnit, KindUsingDirective, KindNamespace,
		KindClass, KindStruct, KindInterface, KindEnum, KindEnumMember, KindBaseList,
		KindField, KindProperty, KindMethod, KindParameterList, KindParameter, KindBlock,
		KindLocalDeclaration, KindVariableDeclaration, KindVariableDeclarator,
		KindExpressionStatement, KindIfStatement, KindUsingStatement, KindReturnStatement,
		KindArgumentList, KindArgument, KindImplicitType, KindError, KindOther, KindCount:
		return PrecNone
	}

	return PrecNone
}
