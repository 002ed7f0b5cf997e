package engine

import (
	"cmp"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Diagnostic is one reported idiom violation. It is a value; copies share
// the underlying match, which is never mutated.
type Diagnostic struct {
	RuleID   string
	Span     syntax.Span
	Severity rule.Severity
	Message  string

	match match.Match
}

// Match returns the match the diagnostic was derived from.
func (d Diagnostic) Match() match.Match {
	return d.match
}

// Sink receives diagnostics as a pass produces them.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Report implements Sink.
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector is a Sink that keeps every diagnostic. It is safe for
// concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report implements Sink.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of the collected diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.diags)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.diags)
}

// SortDiagnostics orders diagnostics by span, then rule id.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := a.Span.Compare(b.Span); c != 0 {
			return c
		}

		return cmp.Compare(a.RuleID, b.RuleID)
	})
}
