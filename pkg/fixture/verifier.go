// Package fixture verifies rules against annotated source: [|…|] markers
// name the exact spans a rule must report, and a companion text states
// what applying every fix must produce.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/codefix/pkg/engine"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
	"github.com/Sumatoshi-tech/codefix/pkg/textutil"
)

// maxFixPasses bounds the apply-and-reanalyze loop of VerifyFix.
const maxFixPasses = 16

// TestingT is the subset of *testing.T the verifier reports through.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

// ParseFunc parses fixture text into a tree that renders back to it.
type ParseFunc func(ctx context.Context, src string) (*syntax.Node, error)

// FactsFunc builds the semantic provider for a parsed tree.
type FactsFunc func(root *syntax.Node) (semantic.Provider, error)

// Verifier checks one rule against fixtures. Only diagnostics of RuleID
// are considered.
type Verifier struct {
	// Registry holds the rule; nil means rule.Default.
	Registry *rule.Registry
	RuleID   string
	Parse    ParseFunc
	// Facts is optional; without it every semantic query is unresolved.
	Facts  FactsFunc
	Logger *slog.Logger
}

type pass struct {
	root  *syntax.Node
	diags []engine.Diagnostic
}

func (v Verifier) analyzer(t TestingT) *engine.Analyzer {
	t.Helper()

	reg := v.Registry
	if reg == nil {
		reg = rule.Default
	}

	if _, ok := reg.Lookup(v.RuleID); !ok {
		t.Errorf("%s: rule is not registered", v.RuleID)
		t.FailNow()
	}

	return engine.New(reg.Only(v.RuleID), engine.WithLogger(v.Logger))
}

func (v Verifier) analyze(t TestingT, a *engine.Analyzer, text string) pass {
	t.Helper()

	ctx := context.Background()

	if v.Parse == nil {
		t.Errorf("%s: verifier has no parser", v.RuleID)
		t.FailNow()
	}

	root, err := v.Parse(ctx, text)
	if err != nil {
		t.Errorf("%s: fixture does not parse: %v\n%s", v.RuleID, err, text)
		t.FailNow()
	}

	if got := root.String(); got != text {
		t.Errorf("%s: tree does not render back to the fixture:\n%s", v.RuleID, textutil.LineDiff(text, got))
		t.FailNow()
	}

	var facts semantic.Provider = semantic.Null{}

	if v.Facts != nil {
		facts, err = v.Facts(root)
		if err != nil {
			t.Errorf("%s: semantic model: %v", v.RuleID, err)
			t.FailNow()
		}
	}

	diags, err := a.Analyze(ctx, root, facts)
	if err != nil {
		t.Errorf("%s: analysis: %v", v.RuleID, err)
		t.FailNow()
	}

	engine.SortDiagnostics(diags)

	return pass{root: root, diags: diags}
}

// VerifyDiagnostic asserts that the rule reports exactly the spans marked
// in before, and returns the diagnostics.
func (v Verifier) VerifyDiagnostic(t TestingT, before string) []engine.Diagnostic {
	t.Helper()

	text, want := v.markers(t, before)
	if len(want) == 0 {
		t.Errorf("%s: fixture marks no span; use VerifyNoDiagnostic", v.RuleID)
		t.FailNow()
	}

	p := v.analyze(t, v.analyzer(t), text)
	v.compare(t, text, want, p.diags)

	return p.diags
}

// VerifyNoDiagnostic asserts that the rule reports nothing for src.
func (v Verifier) VerifyNoDiagnostic(t TestingT, src string) {
	t.Helper()

	text, want := v.markers(t, src)
	if len(want) > 0 {
		t.Errorf("%s: fixture marks %d span(s); use VerifyDiagnostic", v.RuleID, len(want))
		t.FailNow()
	}

	p := v.analyze(t, v.analyzer(t), text)
	v.compare(t, text, nil, p.diags)
}

// VerifyFix asserts the marked diagnostics of before, then applies fixes
// one at a time, reparsing after each, until the rule is silent. The
// result must equal after byte for byte.
func (v Verifier) VerifyFix(t TestingT, before, after string) {
	t.Helper()

	text, want := v.markers(t, before)
	if len(want) == 0 {
		t.Errorf("%s: fixture marks no span to fix", v.RuleID)
		t.FailNow()
	}

	a := v.analyzer(t)
	p := v.analyze(t, a, text)

	if !v.compare(t, text, want, p.diags) {
		t.FailNow()
	}

	for range maxFixPasses {
		if len(p.diags) == 0 {
			break
		}

		out, err := a.ApplyFixContext(t.Context(), p.root, p.diags[0])
		if err != nil {
			if errors.Is(err, engine.ErrNoFix) {
				t.Errorf("%s: rule offers no fix", v.RuleID)
			} else {
				t.Errorf("%s: fix at %s: %v", v.RuleID, p.diags[0].Span, err)
			}

			t.FailNow()
		}

		p = v.analyze(t, a, out.String())
	}

	if len(p.diags) > 0 {
		t.Errorf("%s: still reported after %d fixes:\n%s", v.RuleID, maxFixPasses, Mark(p.root.String(), spansOf(p.diags)))
		t.FailNow()
	}

	if got := p.root.String(); got != after {
		t.Errorf("%s: fixed text differs (-want +got):\n%s", v.RuleID, textutil.LineDiff(after, got))
	}
}

func (v Verifier) markers(t TestingT, src string) (string, []syntax.Span) {
	t.Helper()

	text, spans, err := ParseMarkers(src)
	if err != nil {
		t.Errorf("%s: %v", v.RuleID, err)
		t.FailNow()
	}

	return text, sortedSpans(spans)
}

// compare reports every mismatch between the expected spans and the
// diagnostics. It returns true when they agree.
func (v Verifier) compare(t TestingT, text string, want []syntax.Span, diags []engine.Diagnostic) bool {
	t.Helper()

	got := spansOf(diags)
	if slices.Equal(want, got) {
		return true
	}

	if len(want) != len(got) {
		t.Errorf("%s: expected %d diagnostic(s), got %d\nexpected:\n%s\nactual:\n%s",
			v.RuleID, len(want), len(got), Mark(text, want), Mark(text, got))

		return false
	}

	var sb strings.Builder

	for i := range want {
		if want[i] == got[i] {
			continue
		}

		fmt.Fprintf(&sb, "\n  #%d: expected %s %q, got %s %q", i+1,
			want[i], textutil.Visible(want[i].Text(text)),
			got[i], textutil.Visible(got[i].Text(text)))
	}

	t.Errorf("%s: diagnostic span mismatch:%s", v.RuleID, sb.String())

	return false
}

func spansOf(diags []engine.Diagnostic) []syntax.Span {
	out := make([]syntax.Span, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Span)
	}

	return out
}

func sortedSpans(spans []syntax.Span) []syntax.Span {
	out := slices.Clone(spans)
	slices.SortFunc(out, syntax.Span.Compare)

	return out
}
