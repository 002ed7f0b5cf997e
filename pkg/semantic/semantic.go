// Package semantic declares the symbol and type facts rules consume.
// The engine never resolves names itself; a front end supplies a Provider.
package semantic

import "github.com/Sumatoshi-tech/codefix/pkg/syntax"

// Well-known names used by the bundled rules.
const (
	TypeEnum              = "System.Enum"
	TypeBoolean           = "System.Boolean"
	InterfaceAsyncDispose = "System.IAsyncDisposable"
	InterfaceDispose      = "System.IDisposable"
	MemberEnumHasFlag     = "System.Enum.HasFlag"
)

// Symbol is an opaque handle to a resolved declaration or type.
// Symbols compare by identity; nil means unresolved.
type Symbol interface {
	// Name returns the fully qualified name, for messages and logging.
	Name() string
}

// Provider answers semantic questions about nodes of one tree.
// Every method tolerates nil symbols and unknown nodes by returning nil or false.
type Provider interface {
	// Resolve returns the symbol a name, member access or invocation refers to.
	Resolve(n *syntax.Node) Symbol
	// ResolveType returns the static type of an expression or type syntax.
	ResolveType(n *syntax.Node) Symbol
	// ImplementsInterface reports whether typ implements the named interface,
	// directly or through base types and interface inheritance.
	ImplementsInterface(typ Symbol, iface string) bool
	// IsWellKnownMember reports whether sym is exactly the named member.
	IsWellKnownMember(sym Symbol, member string) bool
	// IsWellKnownType reports whether typ is exactly the named type.
	IsWellKnownType(typ Symbol, name string) bool
	// IsEnum reports whether typ is an enumeration type.
	IsEnum(typ Symbol) bool
}

// SameType reports whether both symbols are resolved and identical.
func SameType(a, b Symbol) bool {
	return a != nil && b != nil && a == b
}

// Null is a Provider that resolves nothing.
type Null struct{}

// Resolve implements Provider.
func (Null) Resolve(*syntax.Node) Symbol { return nil }

// ResolveType implements Provider.
func (Null) ResolveType(*syntax.Node) Symbol { return nil }

// ImplementsInterface implements Provider.
func (Null) ImplementsInterface(Symbol, string) bool { return false }

// IsWellKnownMember implements Provider.
func (Null) IsWellKnownMember(Symbol, string) bool { return false }

// IsWellKnownType implements Provider.
func (Null) IsWellKnownType(Symbol, string) bool { return false }

// IsEnum implements Provider.
func (Null) IsEnum(Symbol) bool { return false }
