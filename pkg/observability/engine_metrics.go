package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricPasses       = "codefix.engine.passes.total"
	MetricDiagnostics  = "codefix.engine.diagnostics.total"
	MetricPassDuration = "codefix.engine.pass.duration"
	MetricNodesVisited = "codefix.engine.nodes.visited.total"
	MetricFixes        = "codefix.engine.fixes.total"
)

// Fix outcomes recorded on MetricFixes.
const (
	FixApplied = "applied"
	FixFailed  = "failed"
)

// EngineMetrics holds the instruments the analysis engine records to.
// A nil *EngineMetrics records nothing.
type EngineMetrics struct {
	passes      metric.Int64Counter
	diagnostics metric.Int64Counter
	duration    metric.Float64Histogram
	nodes       metric.Int64Counter
	fixes       metric.Int64Counter
}

// PassStats summarizes one engine pass.
type PassStats struct {
	Nodes    int
	Duration time.Duration
	Canceled bool
}

// NewEngineMetrics registers the engine instruments on mt.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	passes, err := mt.Int64Counter(MetricPasses,
		metric.WithDescription("Completed and canceled engine passes"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricPasses, err)
	}

	diagnostics, err := mt.Int64Counter(MetricDiagnostics,
		metric.WithDescription("Diagnostics emitted, by rule"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricDiagnostics, err)
	}

	duration, err := mt.Float64Histogram(MetricPassDuration,
		metric.WithDescription("Wall time of one engine pass"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricPassDuration, err)
	}

	nodes, err := mt.Int64Counter(MetricNodesVisited,
		metric.WithDescription("Syntax nodes visited by the walker"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricNodesVisited, err)
	}

	fixes, err := mt.Int64Counter(MetricFixes,
		metric.WithDescription("Fix attempts, by rule and outcome"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricFixes, err)
	}

	return &EngineMetrics{
		passes:      passes,
		diagnostics: diagnostics,
		duration:    duration,
		nodes:       nodes,
		fixes:       fixes,
	}, nil
}

// RecordPass records one pass.
func (m *EngineMetrics) RecordPass(ctx context.Context, s PassStats) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("engine.canceled", s.Canceled))

	m.passes.Add(ctx, 1, attrs)
	m.duration.Record(ctx, s.Duration.Seconds(), attrs)
	m.nodes.Add(ctx, int64(s.Nodes))
}

// RecordDiagnostic counts one diagnostic for ruleID.
func (m *EngineMetrics) RecordDiagnostic(ctx context.Context, ruleID string) {
	if m == nil {
		return
	}

	m.diagnostics.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrRuleID, ruleID)))
}

// RecordFix counts one fix attempt.
func (m *EngineMetrics) RecordFix(ctx context.Context, ruleID, outcome string) {
	if m == nil {
		return
	}

	m.fixes.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRuleID, ruleID),
		attribute.String(AttrFixOutcome, outcome),
	))
}
