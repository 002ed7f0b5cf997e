package engine_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/codefix/pkg/engine"
	"github.com/Sumatoshi-tech/codefix/pkg/match"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/semantic"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
)

// words builds a block of identifiers "x y z" with positioned tokens.
func words(names ...string) *syntax.Node {
	children := make([]syntax.Child, 0, len(names))
	at := 0

	for i, name := range names {
		var trail syntax.TriviaList
		if i < len(names)-1 {
			trail = syntax.Space
		}

		tok := syntax.NewSourceToken("identifier", name, at, nil, trail)
		at += len(name) + len(trail.String())

		children = append(children, syntax.Child{Node: syntax.NewNode(syntax.KindIdentifier, syntax.Child{Node: tok})})
	}

	return syntax.NewNode(syntax.KindBlock, children...)
}

func upper(m match.Match) (*syntax.Node, error) {
	return syntax.Identifier(strings.ToUpper(m.Node.Text())), nil
}

func registry(t *testing.T, descs ...rule.Descriptor) *rule.Registry {
	t.Helper()

	r := rule.NewRegistry()
	for _, d := range descs {
		require.NoError(t, r.Register(d))
	}

	return r
}

func identRule(id string, p match.Pattern) rule.Descriptor {
	return rule.Descriptor{
		ID:       id,
		Title:    id + " found",
		Severity: rule.SeverityWarning,
		Triggers: []syntax.Kind{syntax.KindIdentifier},
		Matcher:  match.Spec{Shape: p},
	}
}

func TestRun_ReportsInPreOrderAndRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := registry(t,
		identRule("ANY", match.Any()),
		identRule("Y", match.Text("y")),
	)

	diags, err := engine.New(reg).Analyze(context.Background(), words("x", "y", "z"), semantic.Null{})
	require.NoError(t, err)

	got := make([]string, 0, len(diags))
	for _, d := range diags {
		got = append(got, d.RuleID+"@"+d.Span.String())
	}

	assert.Equal(t, []string{"ANY@[0..1)", "ANY@[2..3)", "Y@[2..3)", "ANY@[4..5)"}, got)
	assert.Equal(t, rule.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "ANY found", diags[0].Message)
	assert.Equal(t, "y", diags[2].Match().Node.Text())
}

func TestRun_NilRootAndEmptyRegistry(t *testing.T) {
	t.Parallel()

	a := engine.New(rule.NewRegistry())

	diags, err := a.Analyze(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, diags)

	diags, err = a.Analyze(context.Background(), words("x"), nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c engine.Collector

	err := engine.New(registry(t, identRule("ANY", match.Any()))).Run(ctx, words("x", "y"), nil, &c)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Len())
}

func TestRun_CanceledMidPass(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []string

	sink := engine.SinkFunc(func(d engine.Diagnostic) {
		got = append(got, d.Match().Node.Text())
		cancel()
	})

	err := engine.New(registry(t, identRule("ANY", match.Any()))).Run(ctx, words("x", "y", "z"), nil, sink)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"x"}, got)
}

func TestFix_AppliesSynthesizer(t *testing.T) {
	t.Parallel()

	d := identRule("UP", match.Text("y"))
	d.Synthesizer = upper

	a := engine.New(registry(t, d))
	root := words("x", "y", "z")

	diags, err := a.Analyze(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	repl, err := a.Fix(diags[0])
	require.NoError(t, err)
	assert.Equal(t, "Y ", repl.String())

	fixed, err := a.ApplyFix(root, diags[0])
	require.NoError(t, err)
	assert.Equal(t, "x Y z", fixed.String())
	assert.Equal(t, "x y z", root.String())
}

func TestFix_Errors(t *testing.T) {
	t.Parallel()

	failing := identRule("FAIL", match.Text("x"))
	failing.Synthesizer = func(match.Match) (*syntax.Node, error) { return nil, nil }

	a := engine.New(registry(t, identRule("DIAG", match.Text("x")), failing))
	root := words("x")

	diags, err := a.Analyze(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, diags, 2)

	_, err = a.Fix(diags[0])
	require.ErrorIs(t, err, engine.ErrNoFix)
	assert.Contains(t, err.Error(), "DIAG")

	_, err = a.ApplyFix(root, diags[1])
	require.Error(t, err)

	other := engine.New(rule.NewRegistry())
	_, err = other.Fix(diags[0])
	require.ErrorIs(t, err, engine.ErrUnknownRule)
}

func TestApplyFix_TargetMissing(t *testing.T) {
	t.Parallel()

	d := identRule("UP", match.Text("y"))
	d.Synthesizer = upper

	a := engine.New(registry(t, d))

	diags, err := a.Analyze(context.Background(), words("x", "y"), nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	_, err = a.ApplyFix(words("x", "y"), diags[0])
	require.Error(t, err)
}

func TestFixContext_JoinsCallerTrace(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := tp.Tracer("test")

	reader := sdkmetric.NewManualReader()
	metrics, err := observability.NewEngineMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	d := identRule("UP", match.Text("y"))
	d.Synthesizer = upper

	a := engine.New(registry(t, d), engine.WithTracer(tracer), engine.WithMetrics(metrics))
	root := words("x", "y")

	diags, err := a.Analyze(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	ctx, parent := tracer.Start(context.Background(), "caller")
	fixed, err := a.ApplyFixContext(ctx, root, diags[0])
	parent.End()

	require.NoError(t, err)
	assert.Equal(t, "x Y", fixed.String())

	var fix *tracetest.SpanStub

	spans := exporter.GetSpans()
	for i := range spans {
		if spans[i].Name == "codefix.engine.fix" {
			fix = &spans[i]
		}
	}

	require.NotNil(t, fix)
	assert.Equal(t, parent.SpanContext().TraceID(), fix.SpanContext.TraceID())
	assert.Equal(t, parent.SpanContext().SpanID(), fix.Parent.SpanID())
	assert.Contains(t, fix.Attributes, attribute.String(observability.AttrRuleID, "UP"))
	assert.Contains(t, fix.Attributes, attribute.String(observability.AttrFixOutcome, observability.FixApplied))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var fixes int64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == observability.MetricFixes {
				for _, dp := range sum.DataPoints {
					fixes += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(1), fixes)
}

func TestRun_LogsAndRecordsMetrics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reader := sdkmetric.NewManualReader()
	metrics, err := observability.NewEngineMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	a := engine.New(registry(t, identRule("ANY", match.Any())), engine.WithLogger(logger), engine.WithMetrics(metrics))

	_, err = a.Analyze(context.Background(), words("x", "y"), nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"msg":"diagnostic"`)
	assert.Contains(t, buf.String(), `"msg":"pass complete"`)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := make(map[string]bool)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	assert.True(t, names[observability.MetricPasses])
	assert.True(t, names[observability.MetricDiagnostics])
	assert.True(t, names[observability.MetricNodesVisited])
}

func TestSortDiagnosticsAndCollector(t *testing.T) {
	t.Parallel()

	reg := registry(t, identRule("B", match.Any()), identRule("A", match.Any()))

	diags, err := engine.New(reg).Analyze(context.Background(), words("x", "y"), nil)
	require.NoError(t, err)

	engine.SortDiagnostics(diags)

	got := make([]string, 0, len(diags))
	for _, d := range diags {
		got = append(got, d.RuleID+d.Span.String())
	}

	assert.Equal(t, []string{"A[0..1)", "B[0..1)", "A[2..3)", "B[2..3)"}, got)
}
