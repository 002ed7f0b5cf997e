package rules

import (
	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// AwaitUsing reports a using statement without await whose declared
// resource type implements System.IAsyncDisposable. The diagnostic sits on
// the using keyword. The rule offers no fix: the enclosing method would
// have to become async.
func AwaitUsing() rule.Descriptor {
	return rule.Descriptor{
		ID:       IDAwaitUsing,
		Title:    "Use await using statement",
		Message:  "Resource implements IAsyncDisposable; use 'await using'",
		Category: categoryUsage,
		Severity: rule.SeverityInfo,
		Triggers: []syntax.Kind{syntax.KindUsingStatement},
		Matcher: match.Spec{
			Shape: match.Kind(syntax.KindUsingStatement,
				match.NoToken(keywordAwait),
				match.CaptureToken(captureKeyword, keywordUsing),
				match.Field(syntax.FieldDecl, match.Capture(captureDecl, match.Kind(syntax.KindVariableDeclaration,
					match.Field(syntax.FieldType, match.Any()),
				))),
			),
			Semantic: declaredTypeImplements(captureDecl, semantic.InterfaceAsyncDispose),
			Anchor:   captureKeyword,
		},
	}
}

// declaredTypeImplements holds when the type declared by the captured
// variable declaration implements iface. An implicitly typed declaration
// takes the type of its first initializer.
func declaredTypeImplements(capture, iface string) match.Predicate {
	return func(m match.Match, facts semantic.Provider) bool {
		decl := m.Capture(capture)
		if decl == nil {
			return false
		}

		declared := decl.Field(syntax.FieldType)
		typ := facts.ResolveType(declared)

		if typ == nil && isImplicit(declared) {
			if ds := decl.ChildrenOf(syntax.KindVariableDeclarator); len(ds) > 0 {
				typ = facts.ResolveType(initializer(ds[0]))
			}
		}

		return typ != nil && facts.ImplementsInterface(typ, iface)
	}
}

func isImplicit(typ *syntax.Node) bool {
	return typ.Is(syntax.KindImplicitType) || (typ != nil && typ.Text() == "var")
}

// initializer returns the expression after = in a declarator.
func initializer(d *syntax.Node) *syntax.Node {
	if v := d.Field(syntax.FieldValue); v != nil {
		return v
	}

	for _, c := range d.Children() {
		if c.Grammar() != "equals_value_clause" {
			continue
		}

		for _, e := range c.Children() {
			if !e.IsToken() {
				return e
			}
		}
	}

	return nil
}
