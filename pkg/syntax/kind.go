// Package syntax provides the immutable, trivia-preserving tree model that
// rules match against and rewrites produce.
package syntax

// Kind is the closed set of node kinds the engine dispatches on.
// Front ends map their grammar onto these kinds; anything without a
// dedicated kind becomes KindOther.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota
	KindToken
	KindCompilationUnit
	KindUsingDirective
	KindNamespace
	KindClass
	KindStruct
	KindInterface
	KindEnum
	KindEnumMember
	KindBaseList
	KindField
	KindProperty
	KindMethod
	KindParameterList
	KindParameter
	KindBlock
	KindLocalDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindExpressionStatement
	KindIfStatement
	KindUsingStatement
	KindReturnStatement
	KindInvocation
	KindArgumentList
	KindArgument
	KindMemberAccess
	KindConditionalAccess
	KindMemberBinding
	KindIdentifier
	KindQualifiedName
	KindPredefinedType
	KindImplicitType
	KindLiteral
	KindParenthesized
	KindBinary
	KindPrefixUnary
	KindAssignment
	KindDefault
	KindObjectCreation
	KindError
	KindOther

	// KindCount is the number of kinds; it is not a valid kind.
	KindCount
)

var kindNames = [KindCount]string{
	KindInvalid:             "Invalid",
	KindToken:               "Token",
	KindCompilationUnit:     "CompilationUnit",
	KindUsingDirective:      "UsingDirective",
	KindNamespace:           "Namespace",
	KindClass:               "Class",
	KindStruct:              "Struct",
	KindInterface:           "Interface",
	KindEnum:                "Enum",
	KindEnumMember:          "EnumMember",
	KindBaseList:            "BaseList",
	KindField:               "Field",
	KindProperty:            "Property",
	KindMethod:              "Method",
	KindParameterList:       "ParameterList",
	KindParameter:           "Parameter",
	KindBlock:               "Block",
	KindLocalDeclaration:    "LocalDeclaration",
	KindVariableDeclaration: "VariableDeclaration",
	KindVariableDeclarator:  "VariableDeclarator",
	KindExpressionStatement: "ExpressionStatement",
	KindIfStatement:         "IfStatement",
	KindUsingStatement:      "UsingStatement",
	KindReturnStatement:     "ReturnStatement",
	KindInvocation:          "Invocation",
	KindArgumentList:        "ArgumentList",
	KindArgument:            "Argument",
	KindMemberAccess:        "MemberAccess",
	KindConditionalAccess:   "ConditionalAccess",
	KindMemberBinding:       "MemberBinding",
	KindIdentifier:          "Identifier",
	KindQualifiedName:       "QualifiedName",
	KindPredefinedType:      "PredefinedType",
	KindImplicitType:        "ImplicitType",
	KindLiteral:             "Literal",
	KindParenthesized:       "Parenthesized",
	KindBinary:              "Binary",
	KindPrefixUnary:         "PrefixUnary",
	KindAssignment:          "Assignment",
	KindDefault:             "Default",
	KindObjectCreation:      "ObjectCreation",
	KindError:               "Error",
	KindOther:               "Other",
}

// String returns the kind name.
func (k Kind) String() string {
	if k >= KindCount {
		return "Kind(?)"
	}

	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < KindCount
}

// ParseKind maps a kind name back to its value.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k).Valid() {
			return Kind(k), true
		}
	}

	return KindInvalid, false
}

// IsExpression reports whether nodes of kind k appear in expression position.
func (k Kind) IsExpression() bool {
	switch k {
	case KindInvocation, KindMemberAccess, KindConditionalAccess, KindMemberBinding,
		KindIdentifier, KindQualifiedName, KindPredefinedType, KindLiteral,
		KindParenthesized, KindBinary, KindPrefixUnary, KindAssignment,
		KindDefault, KindObjectCreation:
		return true
	case KindInvalid, KindToken, KindCompilationUnit, KindUsingDirective, KindNamespace,
		KindClass, KindStruct, KindInterface, KindEnum, KindEnumMember, KindBaseList,
		KindField, KindProperty, KindMethod, KindParameterList, KindParameter, KindBlock,
		KindLocalDeclaration, KindVariableDeclaration, KindVariableDeclarator,
		KindExpressionStatement, KindIfStatement, KindUsingStatement, KindReturnStatement,
		KindArgumentList, KindArgument, KindImplicitType, KindError, KindOther, KindCount:
		return false
	}

	return false
}
