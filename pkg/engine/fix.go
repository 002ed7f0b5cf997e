package engine

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rewrite"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// Sentinel errors for fix requests.
var (
	ErrNoFix       = errors.New("rule offers no fix")
	ErrUnknownRule = errors.New("unknown rule")
)

// Fix is FixContext without a caller context.
func (a *Analyzer) Fix(d Diagnostic) (*syntax.Node, error) {
	return a.FixContext(context.Background(), d)
}

// FixContext synthesizes the replacement for the diagnostic's target node.
// The replacement already carries the target's outer trivia. The fix is
// traced and counted under ctx.
func (a *Analyzer) FixContext(ctx context.Context, d Diagnostic) (*syntax.Node, error) {
	desc, ok := a.registry.Lookup(d.RuleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, d.RuleID)
	}

	if !desc.Fixable() {
		return nil, fmt.Errorf("%w: %s", ErrNoFix, d.RuleID)
	}

	m := d.Match()
	if m.Target == nil {
		return nil, fmt.Errorf("%w: %s: diagnostic carries no match", rewrite.ErrTargetNotFound, d.RuleID)
	}

	ctx, span := a.tracer.Start(ctx, "codefix.engine.fix",
		trace.WithAttributes(attribute.String(observability.AttrRuleID, d.RuleID)))
	defer span.End()

	out, err := a.synthesize(desc, m)

	outcome := observability.FixApplied
	if err != nil {
		outcome = observability.FixFailed

		span.RecordError(err)
		span.SetStatus(codes.Error, "fix failed")
	}

	span.SetAttributes(attribute.String(observability.AttrFixOutcome, outcome))
	a.metrics.RecordFix(ctx, d.RuleID, outcome)

	return out, err
}

func (a *Analyzer) synthesize(desc rule.Descriptor, m match.Match) (*syntax.Node, error) {
	built, err := desc.Synthesizer(m)
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", desc.ID, err)
	}

	out, err := rewrite.Replace(m.Target, built)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", desc.ID, err)
	}

	return out, nil
}

// ApplyFix is ApplyFixContext without a caller context.
func (a *Analyzer) ApplyFix(root *syntax.Node, d Diagnostic) (*syntax.Node, error) {
	return a.ApplyFixContext(context.Background(), root, d)
}

// ApplyFixContext returns a new root with the diagnostic's fix spliced in.
// root is left untouched.
func (a *Analyzer) ApplyFixContext(ctx context.Context, root *syntax.Node, d Diagnostic) (*syntax.Node, error) {
	repl, err := a.FixContext(ctx, d)
	if err != nil {
		return nil, err
	}

	out, err := rewrite.Splice(root, d.Match().Target, repl)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", d.RuleID, err)
	}

	return out, nil
}
