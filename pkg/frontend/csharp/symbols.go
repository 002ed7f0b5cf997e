package csharp

import (
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// TypeKind classifies a type declaration.
type TypeKind uint8

// Type kinds.
const (
	TypeClass TypeKind = iota
	TypeStruct
	TypeInterface
	TypeEnum
)

var typeKindNames = map[string]TypeKind{
	"class":     TypeClass,
	"struct":    TypeStruct,
	"interface": TypeInterface,
	"enum":      TypeEnum,
}

var typeKindStrings = [...]string{
	TypeClass:     "class",
	TypeStruct:    "struct",
	TypeInterface: "interface",
	TypeEnum:      "enum",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindStrings) {
		return typeKindStrings[k]
	}

	return "unknown"
}

// MemberKind classifies a type member.
type MemberKind uint8

// Member kinds.
const (
	MemberField MemberKind = iota
	MemberProperty
	MemberMethod
)

var memberKindNames = map[string]MemberKind{
	"field":    MemberField,
	"property": MemberProperty,
	"method":   MemberMethod,
}

// Type is a named type from the catalog or from source.
type Type struct {
	name     string
	kind     TypeKind
	abstract bool

	base       *Type
	interfaces []*Type
	members    map[string]*Member

	// Source types resolve base names after every declaration is known.
	baseNames []string
	context   string
}

// Name returns the fully qualified name.
func (t *Type) Name() string { return t.name }

// Kind returns the declaration kind.
func (t *Type) Kind() TypeKind { return t.kind }

// Abstract reports whether the type is declared abstract.
func (t *Type) Abstract() bool { return t.abstract }

// Base returns the base class, or nil.
func (t *Type) Base() *Type { return t.base }

// Interfaces returns the directly implemented interfaces.
func (t *Type) Interfaces() []*Type { return t.interfaces }

// Member looks name up on t and then along its base chain.
func (t *Type) Member(name string) *Member {
	seen := make(map[*Type]bool)

	for cur := t; cur != nil && !seen[cur]; cur = cur.base {
		seen[cur] = true

		if m, ok := cur.members[name]; ok {
			return m
		}
	}

	// Interface members are visible on interface-typed expressions.
	if t.kind == TypeInterface {
		for _, i := range t.interfaces {
			if m := i.Member(name); m != nil {
				return m
			}
		}
	}

	return nil
}

// Implements reports whether t is, derives from, or implements the type
// named iface, following base classes and interface inheritance.
func (t *Type) Implements(iface string) bool {
	seen := make(map[*Type]bool)
	queue := []*Type{t}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == nil || seen[cur] {
			continue
		}

		seen[cur] = true

		if cur.kind == TypeInterface && cur.name == iface {
			return true
		}

		queue = append(queue, cur.interfaces...)
		queue = append(queue, cur.base)
	}

	return false
}

func (t *Type) addMember(m *Member) {
	if t.members == nil {
		t.members = make(map[string]*Member)
	}

	// The first declaration wins for overloads.
	if _, dup := t.members[m.simple]; !dup {
		t.members[m.simple] = m
	}
}

// Member is a field, property, method or enum constant.
type Member struct {
	name   string
	simple string
	kind   MemberKind
	static bool
	owner  *Type

	// Catalog members carry their type; source members resolve typeSyntax
	// in the owner's context on demand.
	typ        *Type
	typeSyntax *syntax.Node
}

// Name returns the qualified name, such as System.Enum.HasFlag.
func (m *Member) Name() string { return m.name }

// Kind returns the member kind.
func (m *Member) Kind() MemberKind { return m.kind }

// Static reports whether the member is static.
func (m *Member) Static() bool { return m.static }

// Owner returns the declaring type.
func (m *Member) Owner() *Type { return m.owner }

// Local is a local variable or parameter.
type Local struct {
	name       string
	typeSyntax *syntax.Node
	init       *syntax.Node
	context    string
}

// Name returns the declared name.
func (l *Local) Name() string { return l.name }
