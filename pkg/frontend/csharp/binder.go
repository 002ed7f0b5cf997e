package csharp

import (
	"strings"

	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

type scope struct {
	parent *scope
	locals map[string]*Local
}

func (s *scope) lookup(name string) *Local {
	for cur := s; cur != nil; cur = cur.parent {
		if l, ok := cur.locals[name]; ok {
			return l
		}
	}

	return nil
}

func (s *scope) declare(l *Local) {
	if s.locals == nil {
		s.locals = make(map[string]*Local)
	}

	s.locals[l.name] = l
}

// binder records, for every identifier in expression or type position, the
// local, member or type it refers to at that point of the tree.
type binder struct {
	model *Model
	ns    string
	owner *Type
	cond  *syntax.Node
}

func (b *binder) context() string {
	if b.owner == nil {
		return b.ns
	}

	return b.owner.name
}

func (b *binder) bind(n *syntax.Node, sc *scope) {
	switch n.Kind() {
	case syntax.KindToken, syntax.KindUsingDirective, syntax.KindQualifiedName:
		return
	case syntax.KindNamespace:
		inner := *b
		inner.ns = qualify(b.context(), nameOf(n))
		inner.bindChildren(n, sc)

		return
	case syntax.KindClass, syntax.KindStruct, syntax.KindInterface, syntax.KindEnum:
		inner := *b
		inner.owner = b.model.types[qualify(b.context(), nameOf(n))]

		inner.bindChildren(n, nil)

		return
	case syntax.KindMethod, syntax.KindBlock, syntax.KindUsingStatement:
		b.bindChildren(n, &scope{parent: sc})

		return
	case syntax.KindParameter:
		b.bindChildren(n, sc)

		if name := nameOf(n); name != "" && sc != nil {
			sc.declare(&Local{name: strings.TrimPrefix(name, "@"), typeSyntax: n.Field(syntax.FieldType), context: b.context()})
		}

		return
	case syntax.KindVariableDeclaration:
		b.bindDeclaration(n, sc)

		return
	case syntax.KindConditionalAccess:
		b.bindConditional(n, sc)

		return
	case syntax.KindMemberBinding:
		b.model.conditions[n] = b.cond

		return
	case syntax.KindIdentifier:
		b.bindIdentifier(n, sc)

		return
	default:
	}

	b.bindChildren(n, sc)
}

// bindChildren binds every child except declared names, which are not
// references.
func (b *binder) bindChildren(n *syntax.Node, sc *scope) {
	for i, c := range n.Children() {
		if n.FieldAt(i) == syntax.FieldName {
			continue
		}

		b.bind(c, sc)
	}
}

// bindDeclaration binds initializers before the declared names come into
// scope, in declarator order.
func (b *binder) bindDeclaration(n *syntax.Node, sc *scope) {
	typ := n.Field(syntax.FieldType)
	if typ != nil {
		b.bind(typ, sc)
	}

	for _, d := range n.ChildrenOf(syntax.KindVariableDeclarator) {
		init := initializer(d)
		if init != nil {
			b.bind(init, sc)
		}

		name := nameOf(d)
		if name == "" || sc == nil {
			continue
		}

		sc.declare(&Local{name: strings.TrimPrefix(name, "@"), typeSyntax: typ, init: init, context: b.context()})
	}
}

// initializer returns the expression a declarator is initialized with,
// either directly after = or wrapped in an equals_value_clause.
func initializer(d *syntax.Node) *syntax.Node {
	if v := d.Field(syntax.FieldValue); v != nil {
		return v
	}

	for _, c := range d.Children() {
		if c.Grammar() == "equals_value_clause" {
			for _, e := range c.Children() {
				if !e.IsToken() {
					return e
				}
			}
		}
	}

	return nil
}

func (b *binder) bindConditional(n *syntax.Node, sc *scope) {
	cond := n.Field(syntax.FieldCondition)
	if cond != nil {
		b.bind(cond, sc)
	}

	inner := *b
	inner.cond = cond

	for i, c := range n.Children() {
		if n.FieldAt(i) == syntax.FieldCondition {
			continue
		}

		inner.bind(c, sc)
	}
}

func (b *binder) bindIdentifier(n *syntax.Node, sc *scope) {
	name := strings.TrimPrefix(compact(n), "@")
	if name == "" {
		return
	}

	var sym semantic.Symbol

	if l := sc.lookup(name); l != nil {
		sym = l
	} else if b.owner != nil && b.owner.Member(name) != nil {
		sym = b.owner.Member(name)
	} else if t := b.model.lookupType(name, b.context()); t != nil {
		sym = t
	}

	if sym != nil {
		b.model.bindings[n] = sym
	}
}
