// Package semantictest provides a hand-wired semantic.Provider for tests
// that build trees without a front end.
package semantictest

import (
	"slices"

	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Symbol is a test symbol.
type Symbol struct {
	name       string
	enum       bool
	interfaces []string
}

// NewType returns a plain type symbol.
func NewType(name string, interfaces ...string) *Symbol {
	return &Symbol{name: name, interfaces: interfaces}
}

// NewEnum returns an enumeration type symbol.
func NewEnum(name string) *Symbol {
	return &Symbol{name: name, enum: true}
}

// NewMember returns a member symbol.
func NewMember(name string) *Symbol {
	return &Symbol{name: name}
}

// Name implements semantic.Symbol.
func (s *Symbol) Name() string { return s.name }

// Provider answers from explicit node bindings.
type Provider struct {
	Symbols map[*syntax.Node]semantic.Symbol
	Types   map[*syntax.Node]semantic.Symbol

	// Calls counts every query, for asserting evaluation order.
	Calls int
}

// New returns an empty provider.
func New() *Provider {
	return &Provider{
		Symbols: make(map[*syntax.Node]semantic.Symbol),
		Types:   make(map[*syntax.Node]semantic.Symbol),
	}
}

// Bind records the symbol a node resolves to.
func (p *Provider) Bind(n *syntax.Node, sym semantic.Symbol) *Provider {
	p.Symbols[n] = sym

	return p
}

// Type records the static type of a node.
func (p *Provider) Type(n *syntax.Node, typ semantic.Symbol) *Provider {
	p.Types[n] = typ

	return p
}

// Resolve implements semantic.Provider.
func (p *Provider) Resolve(n *syntax.Node) semantic.Symbol {
	p.Calls++

	return p.Symbols[n]
}

// ResolveType implements semantic.Provider.
func (p *Provider) ResolveType(n *syntax.Node) semantic.Symbol {
	p.Calls++

	return p.Types[n]
}

// ImplementsInterface implements semantic.Provider.
func (p *Provider) ImplementsInterface(typ semantic.Symbol, iface string) bool {
	p.Calls++

	s, ok := typ.(*Symbol)

	return ok && s != nil && slices.Contains(s.interfaces, iface)
}

// IsWellKnownMember implements semantic.Provider.
func (p *Provider) IsWellKnownMember(sym semantic.Symbol, member string) bool {
	p.Calls++

	return sym != nil && sym.Name() == member
}

// IsWellKnownType implements semantic.Provider.
func (p *Provider) IsWellKnownType(typ semantic.Symbol, name string) bool {
	p.Calls++

	return typ != nil && typ.Name() == name
}

// IsEnum implements semantic.Provider.
func (p *Provider) IsEnum(typ semantic.Symbol) bool {
	p.Calls++

	s, ok := typ.(*Symbol)

	return ok && s != nil && s.enum
}
