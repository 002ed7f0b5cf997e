// Package rule holds rule descriptors and the registry that dispatches them
// by node kind.
package rule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/rewrite"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Severity of a diagnostic.
type Severity uint8

// Severities, least severe first.
const (
	SeverityHidden Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{
	SeverityHidden:  "hidden",
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}

	return fmt.Sprintf("severity(%d)", s)
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), nil
		}
	}

	return SeverityHidden, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Descriptor declares one rule: what it is called, which node kinds
// trigger it, how it matches and, optionally, how it rewrites.
type Descriptor struct {
	ID       string
	Title    string
	Category string
	Severity Severity
	Triggers []syntax.Kind
	Matcher  match.Matcher

	// Message is the diagnostic text; it defaults to Title.
	Message string

	// Synthesizer is nil for diagnostic-only rules.
	Synthesizer rewrite.Synthesizer
}

// Fixable reports whether the rule offers a rewrite.
func (d Descriptor) Fixable() bool {
	return d.Synthesizer != nil
}

// MessageText returns Message, falling back to Title.
func (d Descriptor) MessageText() string {
	if d.Message != "" {
		return d.Message
	}

	return d.Title
}

// TriggeredBy reports whether kind k triggers the rule.
func (d Descriptor) TriggeredBy(k syntax.Kind) bool {
	return slices.Contains(d.Triggers, k)
}

func (d Descriptor) validate() error {
	switch {
	case strings.TrimSpace(d.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidDescriptor)
	case d.Matcher == nil:
		return fmt.Errorf("%w: %s has no matcher", ErrInvalidDescriptor, d.ID)
	case len(d.Triggers) == 0:
		return fmt.Errorf("%w: %s has no trigger kinds", ErrInvalidDescriptor, d.ID)
	}

	for _, k := range d.Triggers {
		if !k.Valid() {
			return fmt.Errorf("%w: %s triggers on %s", ErrInvalidDescriptor, d.ID, k)
		}
	}

	return nil
}
