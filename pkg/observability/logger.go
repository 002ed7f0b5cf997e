package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

const (
	keyTraceID = "trace_id"
	keySpanID  = "span_id"
	keyService = "service"
	keyEnv     = "env"
	keyMode    = "mode"
)

// TracingHandler is an [slog.Handler] that stamps records with the active
// trace and span ids. Service metadata is attached once at construction so
// it stays top-level under WithGroup.
type TracingHandler struct {
	next slog.Handler
}

// NewTracingHandler wraps next with trace correlation and service metadata.
func NewTracingHandler(next slog.Handler, service, env string, mode AppMode) *TracingHandler {
	attrs := []slog.Attr{
		slog.String(keyService, service),
		slog.String(keyMode, string(mode)),
	}

	if env != "" {
		attrs = append(attrs, slog.String(keyEnv, env))
	}

	return &TracingHandler{next: next.WithAttrs(attrs)}
}

// Enabled implements slog.Handler.
func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *TracingHandler) Handle(ctx context.Context, rec slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		rec.AddAttrs(
			slog.String(keyTraceID, sc.TraceID().String()),
			slog.String(keySpanID, sc.SpanID().String()),
		)
	}

	if err := h.next.Handle(ctx, rec); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{next: h.next.WithGroup(name)}
}

// NewLogger builds the codefix logger writing to w.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var base slog.Handler
	if cfg.LogJSON {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}

	return slog.New(NewTracingHandler(base, cfg.ServiceName, cfg.Environment, cfg.Mode))
}

// Diagnostics go to stdout, so logs go to stderr.
func buildLogger(cfg Config) *slog.Logger {
	return NewLogger(os.Stderr, cfg)
}
