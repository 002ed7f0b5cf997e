package csharp

import (
	"strings"
	"sync"

	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Model resolves names and static types for one syntax tree. Declarations
// and name bindings are collected eagerly; expression types are computed
// on first request and memoized. A Model is safe for concurrent use.
type Model struct {
	catalog *Catalog
	types   map[string]*Type
	usings  []string

	bindings   map[*syntax.Node]semantic.Symbol
	conditions map[*syntax.Node]*syntax.Node

	mu          sync.Mutex
	exprTypes   map[*syntax.Node]*Type
	memberTypes map[*Member]*Type
	localTypes  map[*Local]*Type
}

var _ semantic.Provider = (*Model)(nil)

// NewModel builds the model for root. A nil catalog means the default one.
func NewModel(root *syntax.Node, catalog *Catalog) (*Model, error) {
	if catalog == nil {
		var err error

		catalog, err = DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}

	m := &Model{
		catalog:     catalog,
		types:       make(map[string]*Type),
		bindings:    make(map[*syntax.Node]semantic.Symbol),
		conditions:  make(map[*syntax.Node]*syntax.Node),
		exprTypes:   make(map[*syntax.Node]*Type),
		memberTypes: make(map[*Member]*Type),
		localTypes:  make(map[*Local]*Type),
	}

	m.declare(root, "")
	m.linkTypes()

	b := binder{model: m}
	b.bind(root, nil)

	return m, nil
}

// Lookup returns a source or catalog type by qualified name.
func (m *Model) Lookup(name string) *Type {
	if t, ok := m.types[name]; ok {
		return t
	}

	return m.catalog.Lookup(name)
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}

	return ns + "." + name
}

// compact renders n's tokens without any trivia.
func compact(n *syntax.Node) string {
	if n == nil {
		return ""
	}

	var sb strings.Builder
	for _, t := range n.Tokens() {
		sb.WriteString(t.TokenText())
	}

	return sb.String()
}

func nameOf(n *syntax.Node) string {
	return compact(n.Field(syntax.FieldName))
}

func hasModifier(decl *syntax.Node, modifier string) bool {
	for _, c := range decl.Children() {
		if c.Is(syntax.KindOther) && c.Grammar() == "modifier" && c.Text() == modifier {
			return true
		}

		if c.IsToken() && c.TokenText() == modifier {
			return true
		}
	}

	return false
}

// declare collects namespaces, usings, types and their members.
func (m *Model) declare(n *syntax.Node, context string) {
	switch n.Kind() {
	case syntax.KindUsingDirective:
		if name := compact(n.Field(syntax.FieldName)); name != "" {
			m.usings = append(m.usings, strings.TrimPrefix(name, "global::"))
		}

		return
	case syntax.KindNamespace:
		context = qualify(context, nameOf(n))
	case syntax.KindClass, syntax.KindStruct, syntax.KindInterface, syntax.KindEnum:
		t := m.declareType(n, context)
		if t == nil {
			return
		}

		context = t.name
	case syntax.KindToken:
		return
	default:
	}

	for _, c := range n.Children() {
		m.declare(c, context)
	}
}

func (m *Model) declareType(n *syntax.Node, context string) *Type {
	simple := nameOf(n)
	if simple == "" {
		return nil
	}

	t := &Type{
		name:     qualify(context, simple),
		abstract: hasModifier(n, "abstract"),
		context:  context,
	}

	switch n.Kind() {
	case syntax.KindStruct:
		t.kind = TypeStruct
	case syntax.KindInterface:
		t.kind = TypeInterface
	case syntax.KindEnum:
		t.kind = TypeEnum
	default:
		t.kind = TypeClass
	}

	for _, bl := range n.ChildrenOf(syntax.KindBaseList) {
		for _, c := range bl.Children() {
			if !c.IsToken() {
				t.baseNames = append(t.baseNames, compact(c))
			}
		}
	}

	m.types[t.name] = t

	if t.kind == TypeEnum {
		syntax.Inspect(n, func(c *syntax.Node) bool {
			if c.Is(syntax.KindEnumMember) {
				if name := nameOf(c); name != "" {
					t.addMember(&Member{name: t.name + "." + name, simple: name, kind: MemberField, static: true, owner: t, typ: t})
				}

				return false
			}

			return true
		})

		return t
	}

	for _, body := range n.Children() {
		if body.IsToken() || body.Is(syntax.KindBaseList) {
			continue
		}

		for _, decl := range body.Children() {
			m.declareMember(t, decl)
		}
	}

	return t
}

func (m *Model) declareMember(t *Type, decl *syntax.Node) {
	static := hasModifier(decl, "static")

	switch decl.Kind() {
	case syntax.KindField:
		vd := firstOf(decl, syntax.KindVariableDeclaration)
		if vd == nil {
			return
		}

		typ := vd.Field(syntax.FieldType)
		for _, d := range vd.ChildrenOf(syntax.KindVariableDeclarator) {
			if name := nameOf(d); name != "" {
				t.addMember(&Member{name: t.name + "." + name, simple: name, kind: MemberField, static: static, owner: t, typeSyntax: typ})
			}
		}
	case syntax.KindProperty, syntax.KindMethod:
		name := nameOf(decl)
		if name == "" {
			return
		}

		kind := MemberProperty
		if decl.Is(syntax.KindMethod) {
			kind = MemberMethod
		}

		t.addMember(&Member{name: t.name + "." + name, simple: name, kind: kind, static: static, owner: t, typeSyntax: decl.Field(syntax.FieldType)})
	default:
	}
}

func firstOf(n *syntax.Node, k syntax.Kind) *syntax.Node {
	if cs := n.ChildrenOf(k); len(cs) > 0 {
		return cs[0]
	}

	return nil
}

// linkTypes resolves base lists once every source type is declared. The
// first entry of a class base list is its base class unless it names an
// interface.
func (m *Model) linkTypes() {
	for _, t := range m.types {
		if t.kind == TypeEnum {
			t.base = m.catalog.Lookup(semantic.TypeEnum)

			continue
		}

		for _, name := range t.baseNames {
			bt := m.lookupType(name, t.context)
			if bt == nil || bt == t {
				continue
			}

			if bt.kind == TypeInterface || t.kind != TypeClass || t.base != nil {
				t.interfaces = append(t.interfaces, bt)

				continue
			}

			t.base = bt
		}

		if t.base == nil && t.kind == TypeClass {
			t.base = m.catalog.Lookup("System.Object")
		}
	}
}

// lookupType resolves a type name as written in context: predefined
// keywords, then enclosing namespaces and types from the innermost out,
// then using directives.
func (m *Model) lookupType(name, context string) *Type {
	name = strings.TrimPrefix(name, "global::")
	if name == "" {
		return nil
	}

	if t := m.catalog.Keyword(name); t != nil {
		return t
	}

	for ctx := context; ; {
		if t := m.Lookup(qualify(ctx, name)); t != nil {
			return t
		}

		if ctx == "" {
			break
		}

		if i := strings.LastIndexByte(ctx, '.'); i >= 0 {
			ctx = ctx[:i]
		} else {
			ctx = ""
		}
	}

	for _, u := range m.usings {
		if t := m.Lookup(qualify(u, name)); t != nil {
			return t
		}
	}

	return nil
}

// Resolve implements semantic.Provider.
func (m *Model) Resolve(n *syntax.Node) semantic.Symbol {
	if n == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.resolve(n)
}

func (m *Model) resolve(n *syntax.Node) semantic.Symbol {
	switch n.Kind() {
	case syntax.KindIdentifier:
		if sym, ok := m.bindings[n]; ok {
			return sym
		}
	case syntax.KindMemberAccess:
		if mem := m.memberOf(n); mem != nil {
			return mem
		}

		if t := m.lookupType(compact(n), ""); t != nil {
			return t
		}
	case syntax.KindMemberBinding:
		if mem := m.boundMember(n); mem != nil {
			return mem
		}
	case syntax.KindInvocation:
		return m.resolve(n.Field(syntax.FieldFunction))
	case syntax.KindParenthesized:
		if inner := n.Field(syntax.FieldExpression); inner != nil {
			return m.resolve(inner)
		}
	case syntax.KindQualifiedName, syntax.KindPredefinedType:
		if t := m.lookupType(compact(n), ""); t != nil {
			return t
		}
	default:
	}

	return nil
}

// ResolveType implements semantic.Provider.
func (m *Model) ResolveType(n *syntax.Node) semantic.Symbol {
	if n == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t := m.typeOf(n); t != nil {
		return t
	}

	return nil
}

// typeOf memoizes exprType. The nil placeholder stored before computing
// cuts self-referential declarations such as var x = x.
func (m *Model) typeOf(n *syntax.Node) *Type {
	if n == nil {
		return nil
	}

	if t, ok := m.exprTypes[n]; ok {
		return t
	}

	m.exprTypes[n] = nil
	t := m.exprType(n)
	m.exprTypes[n] = t

	return t
}

func (m *Model) exprType(n *syntax.Node) *Type {
	switch n.Kind() {
	case syntax.KindIdentifier:
		return m.symbolType(m.bindings[n])
	case syntax.KindPredefinedType, syntax.KindQualifiedName:
		return m.lookupType(compact(n), "")
	case syntax.KindLiteral:
		return m.literalType(n.Text())
	case syntax.KindMemberAccess:
		if mem := m.memberOf(n); mem != nil {
			return m.memberType(mem)
		}

		return m.lookupType(compact(n), "")
	case syntax.KindMemberBinding:
		return m.memberType(m.boundMember(n))
	case syntax.KindInvocation:
		if mem, ok := m.resolve(n.Field(syntax.FieldFunction)).(*Member); ok {
			return m.memberType(mem)
		}
	case syntax.KindObjectCreation, syntax.KindDefault:
		return m.typeOf(n.Field(syntax.FieldType))
	case syntax.KindParenthesized:
		return m.typeOf(n.Field(syntax.FieldExpression))
	case syntax.KindPrefixUnary:
		if op := n.Field(syntax.FieldOperator); op != nil && op.TokenText() == "!" {
			return m.catalog.Lookup(semantic.TypeBoolean)
		}

		return m.typeOf(n.Field(syntax.FieldOperand))
	case syntax.KindBinary:
		return m.binaryType(n)
	case syntax.KindAssignment:
		return m.typeOf(n.Field(syntax.FieldLeft))
	case syntax.KindConditionalAccess:
		for i, c := range n.Children() {
			if !c.IsToken() && n.FieldAt(i) != syntax.FieldCondition {
				return m.typeOf(c)
			}
		}
	default:
	}

	return nil
}

func (m *Model) binaryType(n *syntax.Node) *Type {
	op := n.Field(syntax.FieldOperator)
	if op == nil {
		return nil
	}

	switch op.TokenText() {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||", "is":
		return m.catalog.Lookup(semantic.TypeBoolean)
	case "??":
		if t := m.typeOf(n.Field(syntax.FieldLeft)); t != nil {
			return t
		}

		return m.typeOf(n.Field(syntax.FieldRight))
	default:
		return m.typeOf(n.Field(syntax.FieldLeft))
	}
}

func (m *Model) literalType(text string) *Type {
	switch {
	case text == "true" || text == "false":
		return m.catalog.Lookup(semantic.TypeBoolean)
	case text == "null" || text == "":
		return nil
	case text[0] >= '0' && text[0] <= '9':
		if strings.ContainsAny(text, ".eEfFdDmM") && !strings.HasPrefix(text, "0x") {
			return nil
		}

		return m.catalog.Lookup("System.Int32")
	case strings.ContainsRune(`"@$`, rune(text[0])):
		return m.catalog.Lookup("System.String")
	default:
		return nil
	}
}

func (m *Model) symbolType(sym semantic.Symbol) *Type {
	switch s := sym.(type) {
	case *Local:
		return m.localType(s)
	case *Member:
		return m.memberType(s)
	case *Type:
		return s
	default:
		return nil
	}
}

func (m *Model) localType(l *Local) *Type {
	if t, ok := m.localTypes[l]; ok {
		return t
	}

	m.localTypes[l] = nil

	var t *Type
	if l.typeSyntax == nil || l.typeSyntax.Is(syntax.KindImplicitType) || compact(l.typeSyntax) == "var" {
		t = m.typeOf(l.init)
	} else {
		t = m.typeSyntax(l.typeSyntax, l.context)
	}

	m.localTypes[l] = t

	return t
}

func (m *Model) memberType(mem *Member) *Type {
	if mem == nil {
		return nil
	}

	if mem.typ != nil || mem.typeSyntax == nil {
		return mem.typ
	}

	if t, ok := m.memberTypes[mem]; ok {
		return t
	}

	t := m.typeSyntax(mem.typeSyntax, mem.owner.name)
	m.memberTypes[mem] = t

	return t
}

// typeSyntax resolves a type as written in a declaration.
func (m *Model) typeSyntax(n *syntax.Node, context string) *Type {
	switch n.Kind() {
	case syntax.KindIdentifier, syntax.KindQualifiedName, syntax.KindPredefinedType:
		return m.lookupType(compact(n), context)
	default:
		return nil
	}
}

// memberOf resolves receiver.name: static access through a type name or
// instance access through the receiver's static type.
func (m *Model) memberOf(n *syntax.Node) *Member {
	recv := n.Field(syntax.FieldExpression)
	name := nameOf(n)

	if recv == nil || name == "" {
		return nil
	}

	t := m.typeOf(recv)
	if t == nil {
		return nil
	}

	return t.Member(strings.TrimPrefix(name, "@"))
}

func (m *Model) boundMember(n *syntax.Node) *Member {
	cond := m.conditions[n]
	if cond == nil {
		return nil
	}

	t := m.typeOf(cond)
	if t == nil {
		return nil
	}

	return t.Member(strings.TrimPrefix(nameOf(n), "@"))
}

// ImplementsInterface implements semantic.Provider.
func (m *Model) ImplementsInterface(typ semantic.Symbol, iface string) bool {
	t, ok := typ.(*Type)

	return ok && t != nil && t.Implements(iface)
}

// IsWellKnownMember implements semantic.Provider.
func (m *Model) IsWellKnownMember(sym semantic.Symbol, member string) bool {
	mem, ok := sym.(*Member)

	return ok && mem != nil && mem.name == member
}

// IsWellKnownType implements semantic.Provider.
func (m *Model) IsWellKnownType(typ semantic.Symbol, name string) bool {
	t, ok := typ.(*Type)

	return ok && t != nil && t.name == name
}

// IsEnum implements semantic.Provider.
func (m *Model) IsEnum(typ semantic.Symbol) bool {
	t, ok := typ.(*Type)
	if !ok || t == nil {
		return false
	}

	return t.kind == TypeEnum || t.name == semantic.TypeEnum
}
