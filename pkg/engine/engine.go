// Package engine walks a syntax tree, dispatches registered rules by node
// kind and turns their matches into diagnostics and fixes.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

const tracerName = "github.com/Sumatoshi-tech/codefix/pkg/engine"

// Analyzer runs the rules of one registry. It holds no per-pass state, so
// one Analyzer may run passes over independent trees concurrently.
type Analyzer struct {
	registry *rule.Registry
	logger   *slog.Logger
	metrics  *observability.EngineMetrics
	tracer   trace.Tracer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.EngineMetrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithTracer sets the tracer. The default uses the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(a *Analyzer) {
		if t != nil {
			a.tracer = t
		}
	}
}

// New returns an Analyzer over reg, or rule.Default when reg is nil.
func New(reg *rule.Registry, opts ...Option) *Analyzer {
	if reg == nil {
		reg = rule.Default
	}

	a := &Analyzer{
		registry: reg,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Registry returns the registry the analyzer dispatches from.
func (a *Analyzer) Registry() *rule.Registry {
	return a.registry
}

// Run walks root in pre-order. For every node it tries the rules triggered
// by the node's kind in registration order and reports one diagnostic per
// match. The context is checked before each node; on cancellation Run
// returns the context's error after delivering the diagnostics of every
// node already visited.
func (a *Analyzer) Run(ctx context.Context, root *syntax.Node, facts semantic.Provider, sink Sink) error {
	if root == nil {
		return nil
	}

	ctx, span := a.tracer.Start(ctx, "codefix.engine.run")
	defer span.End()

	var (
		start   = time.Now()
		visited int
		found   int
		err     error
	)

	syntax.Walk(root, func(c syntax.Cursor) bool {
		if err = ctx.Err(); err != nil {
			return false
		}

		visited++

		n := c.Node()
		if !a.registry.HasTriggers(n.Kind()) {
			return true
		}

		for _, d := range a.registry.TriggersFor(n.Kind()) {
			m, ok := d.Matcher.Match(c, facts)
			if !ok {
				continue
			}

			diag := Diagnostic{
				RuleID:   d.ID,
				Span:     m.Primary,
				Severity: d.Severity,
				Message:  d.MessageText(),
				match:    m,
			}

			sink.Report(diag)

			found++

			a.metrics.RecordDiagnostic(ctx, d.ID)
			a.logger.DebugContext(ctx, "diagnostic", "rule", d.ID, "span", diag.Span.String())
		}

		return true
	})

	elapsed := time.Since(start)

	a.metrics.RecordPass(ctx, observability.PassStats{Nodes: visited, Duration: elapsed, Canceled: err != nil})
	span.SetAttributes(
		attribute.Int(observability.AttrNodes, visited),
		attribute.Int(observability.AttrDiagnostics, found),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled")
		a.logger.InfoContext(ctx, "pass canceled", "nodes", visited, "diagnostics", found)

		return fmt.Errorf("engine pass: %w", err)
	}

	a.logger.InfoContext(ctx, "pass complete", "nodes", visited, "diagnostics", found, "elapsed", elapsed)

	return nil
}

// Analyze runs a pass and returns the diagnostics in report order. On
// cancellation it returns the diagnostics gathered so far with the error.
func (a *Analyzer) Analyze(ctx context.Context, root *syntax.Node, facts semantic.Provider) ([]Diagnostic, error) {
	var c Collector

	err := a.Run(ctx, root, facts, &c)

	return c.Diagnostics(), err
}
