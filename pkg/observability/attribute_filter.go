package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Span attribute keys the engine and host emit.
const (
	AttrRuleID      = "rule.id"
	AttrFilePath    = "file.path"
	AttrFileBytes   = "file.bytes"
	AttrDiagnostics = "engine.diagnostics"
	AttrNodes       = "engine.nodes"
	AttrFixOutcome  = "fix.outcome"
)

var allowedPrefixes = []string{
	"codefix.",
	"rule.",
	"file.",
	"engine.",
	"fix.",
	"error.",
}

// Source text must never leave the process.
var blockedPrefixes = []string{
	"source.",
	"user.",
}

var blockedKeys = map[string]bool{
	"email":       true,
	"file.text":   true,
	"fix.preview": true,
}

// attributeFilter drops span attributes outside the allow-list before
// they reach the exporter.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate. A non-nil logger receives a warning for
// every dropped key.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, filter: f})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	if err := f.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	if err := f.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) allowed(key string) bool {
	if blockedKeys[key] || hasAnyPrefix(key, blockedPrefixes) {
		f.dropped(key)

		return false
	}

	if key == "error" || hasAnyPrefix(key, allowedPrefixes) {
		return true
	}

	f.dropped(key)

	return false
}

func (f *attributeFilter) dropped(key string) {
	if f.logger != nil {
		f.logger.Warn("span attribute dropped", "key", key)
	}
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}

	return false
}

type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	all := s.ReadOnlySpan.Attributes()
	kept := make([]attribute.KeyValue, 0, len(all))

	for _, kv := range all {
		if s.filter.allowed(string(kv.Key)) {
			kept = append(kept, kv)
		}
	}

	return kept
}
