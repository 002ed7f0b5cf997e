package match

import (
	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
)

// Predicate is a semantic condition over a structurally matched node.
// Unresolved symbols make every predicate false.
type Predicate func(m Match, facts semantic.Provider) bool

// All holds when every predicate holds, evaluated left to right.
func All(preds ...Predicate) Predicate {
	return func(m Match, facts semantic.Provider) bool {
		for _, p := range preds {
			if !p(m, facts) {
				return false
			}
		}

		return true
	}
}

// AnyOf holds when at least one predicate holds.
func AnyOf(preds ...Predicate) Predicate {
	return func(m Match, facts semantic.Provider) bool {
		for _, p := range preds {
			if p(m, facts) {
				return true
			}
		}

		return false
	}
}

// ImplementsInterface holds when the static type of the capture implements iface.
func ImplementsInterface(capture, iface string) Predicate {
	return func(m Match, facts semantic.Provider) bool {
		n := m.Capture(capture)
		if n == nil {
			return false
		}

		typ := facts.ResolveType(n)

		return typ != nil && facts.ImplementsInterface(typ, iface)
	}
}

// IsWellKnownMember holds when the capture resolves to exactly member.
func IsWellKnownMember(capture, member string) Predicate {
	return func(m Match, facts semantic.Provider) bool {
		n := m.Capture(capture)
		if n == nil {
			return false
		}

		sym := facts.Resolve(n)

		return sym != nil && facts.IsWellKnownMember(sym, member)
	}
}

// IsConcreteEnum holds when the capture's static type is an enumeration
// other than the abstract System.Enum itself.
func IsConcreteEnum(capture string) Predicate {
	return func(m Match, facts semantic.Provider) bool {
		n := m.Capture(capture)
		if n == nil {
			return false
		}

		typ := facts.ResolveType(n)

		return typ != nil && facts.IsEnum(typ) && !facts.IsWellKnownType(typ, semantic.TypeEnum)
	}
}

// SameType holds when both captures have the same resolved static type.
func SameType(a, b string) Predicate {
	return func(m Match, facts semantic.Provider) bool {
		na, nb := m.Capture(a), m.Capture(b)
		if na == nil || nb == nil {
			return false
		}

		return semantic.SameType(facts.ResolveType(na), facts.ResolveType(nb))
	}
}
