package csharp

import (
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// grammarKinds maps tree-sitter-c-sharp node types onto the closed kind
// set. Anything absent becomes KindOther.
var grammarKinds = map[string]syntax.Kind{
	"compilation_unit":                  syntax.KindCompilationUnit,
	"using_directive":                   syntax.KindUsingDirective,
	"namespace_declaration":             syntax.KindNamespace,
	"file_scoped_namespace_declaration": syntax.KindNamespace,
	"class_declaration":                 syntax.KindClass,
	"record_declaration":                syntax.KindClass,
	"struct_declaration":                syntax.KindStruct,
	"interface_declaration":             syntax.KindInterface,
	"enum_declaration":                  syntax.KindEnum,
	"enum_member_declaration":           syntax.KindEnumMember,
	"base_list":                         syntax.KindBaseList,
	"field_declaration":                 syntax.KindField,
	"property_declaration":              syntax.KindProperty,
	"method_declaration":                syntax.KindMethod,
	"parameter_list":                    syntax.KindParameterList,
	"parameter":                         syntax.KindParameter,
	"block":                             syntax.KindBlock,
	"local_declaration_statement":       syntax.KindLocalDeclaration,
	"variable_declaration":              syntax.KindVariableDeclaration,
	"variable_declarator":               syntax.KindVariableDeclarator,
	"expression_statement":              syntax.KindExpressionStatement,
	"if_statement":                      syntax.KindIfStatement,
	"using_statement":                   syntax.KindUsingStatement,
	"return_statement":                  syntax.KindReturnStatement,
	"invocation_expression":             syntax.KindInvocation,
	"argument_list":                     syntax.KindArgumentList,
	"argument":                          syntax.KindArgument,
	"member_access_expression":          syntax.KindMemberAccess,
	"conditional_access_expression":     syntax.KindConditionalAccess,
	"member_binding_expression":         syntax.KindMemberBinding,
	"identifier":                        syntax.KindIdentifier,
	"qualified_name":                    syntax.KindQualifiedName,
	"predefined_type":                   syntax.KindPredefinedType,
	"implicit_type":                     syntax.KindImplicitType,
	"parenthesized_expression":          syntax.KindParenthesized,
	"binary_expression":                 syntax.KindBinary,
	"prefix_unary_expression":           syntax.KindPrefixUnary,
	"assignment_expression":             syntax.KindAssignment,
	"default_expression":                syntax.KindDefault,
	"object_creation_expression":        syntax.KindObjectCreation,
	"ERROR":                             syntax.KindError,
}

// literalTypes are converted to a single token, whatever their inner
// structure, so string contents never masquerade as trivia or tokens.
var literalTypes = map[string]bool{
	"integer_literal":                true,
	"real_literal":                   true,
	"boolean_literal":                true,
	"null_literal":                   true,
	"character_literal":              true,
	"string_literal":                 true,
	"verbatim_string_literal":        true,
	"raw_string_literal":             true,
	"interpolated_string_expression": true,
}

// grammarFields are the field names queried on every interior node.
var grammarFields = []string{
	"name", "type", "returns", "expression", "function", "arguments",
	"condition", "consequence", "alternative", "left", "operator", "right",
	"body", "value", "qualifier", "parameters", "initializer",
}

// fieldAliases renames grammar fields onto the names rules use.
var fieldAliases = map[string]string{
	"returns": syntax.FieldType,
}

func kindOf(grammar string) syntax.Kind {
	if literalTypes[grammar] {
		return syntax.KindLiteral
	}

	if k, ok := grammarKinds[grammar]; ok {
		return k
	}

	return syntax.KindOther
}

// labelChildren fills the field labels the grammar leaves implicit.
func labelChildren(k syntax.Kind, children []syntax.Child) {
	switch k {
	case syntax.KindArgument:
		if i := lastNode(children); i >= 0 {
			setField(children, i, syntax.FieldExpression)
		}
	case syntax.KindParenthesized, syntax.KindExpressionStatement, syntax.KindReturnStatement:
		if i := firstNode(children); i >= 0 {
			setField(children, i, syntax.FieldExpression)
		}
	case syntax.KindPrefixUnary:
		for i, c := range children {
			if c.Node.IsToken() {
				setField(children, i, syntax.FieldOperator)

				break
			}
		}

		if i := firstNode(children); i >= 0 {
			setField(children, i, syntax.FieldOperand)
		}
	case syntax.KindUsingStatement:
		for i, c := range children {
			if c.Node.IsToken() || c.Field != "" {
				continue
			}

			if c.Node.Is(syntax.KindVariableDeclaration) {
				setField(children, i, syntax.FieldDecl)
			} else if c.Node.Kind().IsExpression() {
				setField(children, i, syntax.FieldExpression)
			}

			break
		}
	case syntax.KindDefault:
		if i := firstNode(children); i >= 0 {
			setField(children, i, syntax.FieldType)
		}
	case syntax.KindConditionalAccess:
		if i := firstNode(children); i >= 0 {
			setField(children, i, syntax.FieldCondition)
		}
	case syntax.KindVariableDeclarator:
		labelDeclarator(children)
	case syntax.KindUsingDirective, syntax.KindMemberBinding, syntax.KindEnumMember,
		syntax.KindClass, syntax.KindStruct, syntax.KindInterface, syntax.KindEnum,
		syntax.KindNamespace:
		for i, c := range children {
			if c.Node.Is(syntax.KindIdentifier) || c.Node.Is(syntax.KindQualifiedName) {
				setField(children, i, syntax.FieldName)

				break
			}
		}
	default:
	}
}

// labelDeclarator names the declared identifier and an initializer written
// directly after =, as newer grammars emit it.
func labelDeclarator(children []syntax.Child) {
	afterEquals := false

	for i, c := range children {
		switch {
		case c.Node.IsToken():
			afterEquals = c.Node.TokenText() == "="
		case afterEquals:
			setField(children, i, syntax.FieldValue)

			return
		case c.Node.Is(syntax.KindIdentifier):
			setField(children, i, syntax.FieldName)
		}
	}
}

func setField(children []syntax.Child, i int, field string) {
	if children[i].Field == "" {
		children[i].Field = field
	}
}

func firstNode(children []syntax.Child) int {
	for i, c := range children {
		if !c.Node.IsToken() {
			return i
		}
	}

	return -1
}

func lastNode(children []syntax.Child) int {
	for i := len(children) - 1; i >= 0; i-- {
		if !children[i].Node.IsToken() {
			return i
		}
	}

	return -1
}
