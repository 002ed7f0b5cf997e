package rule

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Sentinel errors for rule registration.
var (
	ErrDuplicateRule     = errors.New("duplicate rule id")
	ErrInvalidDescriptor = errors.New("invalid rule descriptor")
	ErrRegistryFrozen    = errors.New("registry identities already materialized")
	ErrUnknownSeverity   = errors.New("unknown severity")
)

// Registry maps rule ids to descriptors and node kinds to the rules they trigger.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	descriptors []Descriptor
	byID        map[string]int
	byKind      [syntax.KindCount][]int

	identities atomic.Pointer[[]string]
	computeMu  sync.Mutex
	computed   atomic.Int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Default is the process-wide registry rule packages register into.
var Default = NewRegistry()

// Register adds d to the Default registry.
func Register(d Descriptor) error { return Default.Register(d) }

// MustRegister adds d to the Default registry and panics on failure.
func MustRegister(d Descriptor) { Default.MustRegister(d) }

// Register adds d exactly once.
func (r *Registry) Register(d Descriptor) error {
	err := d.validate()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.identities.Load() != nil {
		return fmt.Errorf("%w: cannot add %s", ErrRegistryFrozen, d.ID)
	}

	if _, dup := r.byID[d.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, d.ID)
	}

	idx := len(r.descriptors)
	r.descriptors = append(r.descriptors, d)
	r.byID[d.ID] = idx

	for _, k := range d.Triggers {
		if n := len(r.byKind[k]); n > 0 && r.byKind[k][n-1] == idx {
			continue
		}

		r.byKind[k] = append(r.byKind[k], idx)
	}

	return nil
}

// MustRegister is Register that panics on failure.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(fmt.Sprintf("rule: %v", err))
	}
}

// TriggersFor returns, in registration order, every rule triggered by k.
func (r *Registry) TriggersFor(k syntax.Kind) []Descriptor {
	if k >= syntax.KindCount {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.byKind[k]
	if len(idx) == 0 {
		return nil
	}

	out := make([]Descriptor, len(idx))
	for i, j := range idx {
		out[i] = r.descriptors[j]
	}

	return out
}

// HasTriggers reports whether any rule is triggered by k.
func (r *Registry) HasTriggers(k syntax.Kind) bool {
	if k >= syntax.KindCount {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byKind[k]) > 0
}

// Lookup returns the descriptor registered under id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}

	return r.descriptors[idx], true
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)

	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.descriptors)
}

// SupportedIdentities returns the de-duplicated diagnostic ids of every
// registered rule in registration order. The set is built once; after that
// the registry is frozen and further registrations fail. The returned
// slice is shared and must not be modified.
func (r *Registry) SupportedIdentities() []string {
	if ids := r.identities.Load(); ids != nil {
		return *ids
	}

	r.computeMu.Lock()
	defer r.computeMu.Unlock()

	if ids := r.identities.Load(); ids != nil {
		return *ids
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.computed.Add(1)

	seen := make(map[string]bool, len(r.descriptors))
	ids := make([]string, 0, len(r.descriptors))

	for _, d := range r.descriptors {
		if seen[d.ID] {
			continue
		}

		seen[d.ID] = true
		ids = append(ids, d.ID)
	}

	r.identities.Store(&ids)

	return ids
}

// Frozen reports whether the identity set has been materialized.
func (r *Registry) Frozen() bool {
	return r.identities.Load() != nil
}

// Filter returns a new, unfrozen registry holding the descriptors for which
// keep returns true, transformed by it. Registration order is preserved.
func (r *Registry) Filter(keep func(d Descriptor) (Descriptor, bool)) *Registry {
	out := NewRegistry()

	for _, d := range r.Descriptors() {
		nd, ok := keep(d)
		if !ok {
			continue
		}

		// A transform that breaks validity or uniqueness panics.
		out.MustRegister(nd)
	}

	return out
}

// Only returns a registry restricted to the given rule ids.
func (r *Registry) Only(ids ...string) *Registry {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	return r.Filter(func(d Descriptor) (Descriptor, bool) { return d, want[d.ID] })
}

// WithSeverity returns a copy of the registry with one rule's severity overridden.
func (r *Registry) WithSeverity(id string, sev Severity) *Registry {
	return r.Filter(func(d Descriptor) (Descriptor, bool) {
		if d.ID == id {
			d.Severity = sev
		}

		return d, true
	})
}
