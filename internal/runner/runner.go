// Package runner drives analysis passes over files on disk: discovery,
// a bounded worker pool, the fix loop and report rendering.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codefix/pkg/engine"
	"github.com/Sumatoshi-tech/codefix/pkg/frontend/csharp"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/syntax"
	"github.com/Sumatoshi-tech/codefix/pkg/textutil"
)

// maxFixesPerFile bounds the fix loop of a single file.
const maxFixesPerFile = 256

// Sentinel errors for per-file failures.
var (
	ErrBinaryFile     = errors.New("binary file")
	ErrFixLimit       = errors.New("fix limit reached")
	ErrParseFailed    = errors.New("file has syntax errors")
	ErrNotCSharp      = errors.New("not a C# file")
	ErrFixUnavailable = errors.New("fix unavailable")
)

// Options tune a Runner.
type Options struct {
	// Concurrency is the number of files analyzed at once; zero or less
	// means GOMAXPROCS.
	Concurrency int

	// Timeout bounds the work on one file; zero disables it.
	Timeout time.Duration

	// Tracer receives one span per file; nil disables tracing.
	Tracer trace.Tracer
}

// Finding is a diagnostic located in its file.
type Finding struct {
	RuleID   string        `json:"rule"`
	Severity rule.Severity `json:"severity"`
	Message  string        `json:"message"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
	Fixable  bool          `json:"fixable"`
}

// Result is the outcome for one file.
type Result struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Findings []Finding `json:"diagnostics"`

	// Fixed counts applied fixes; Diff is the unified line diff of the
	// rewrite. Both are set only by Fix.
	Fixed int    `json:"fixed,omitempty"`
	Diff  string `json:"diff,omitempty"`

	Err error `json:"-"`

	// Skipped files were not analyzed, for a reason that is not an error.
	Skipped bool `json:"skipped,omitempty"`

	original string
	fixed    string
}

// Runner analyzes files with one Analyzer.
type Runner struct {
	analyzer *engine.Analyzer
	logger   *slog.Logger
	opts     Options
}

// New returns a Runner. A nil logger discards.
func New(a *engine.Analyzer, logger *slog.Logger, opts Options) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Runner{analyzer: a, logger: logger, opts: opts}
}

// Check reports diagnostics for every file. Per-file failures land in the
// file's Result; only cancellation of ctx fails the whole run.
func (r *Runner) Check(ctx context.Context, files []File) ([]Result, error) {
	return r.each(ctx, files, r.checkFile)
}

// Fix applies every available fix to every file. With write set the
// rewritten text replaces the file on disk.
func (r *Runner) Fix(ctx context.Context, files []File, write bool) ([]Result, error) {
	results, err := r.each(ctx, files, r.fixFile)
	if err != nil || !write {
		return results, err
	}

	for i := range results {
		res := &results[i]
		if res.Err != nil || res.Fixed == 0 {
			continue
		}

		if writeErr := writeFile(res.Path, res.fixed); writeErr != nil {
			res.Err = writeErr
		}
	}

	return results, nil
}

func (r *Runner) each(ctx context.Context, files []File, work func(context.Context, *Result, string) error) ([]Result, error) {
	results := make([]Result, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.opts.Concurrency, len(files)))

	for i, f := range files {
		g.Go(func() error {
			res := &results[i]
			res.Path, res.Size = f.Path, f.Size

			if err := gctx.Err(); err != nil {
				return err
			}

			fileCtx, cancel := r.fileContext(gctx)
			defer cancel()

			fileCtx, span := r.opts.Tracer.Start(fileCtx, "codefix.file", trace.WithAttributes(
				attribute.String(observability.AttrFilePath, f.Path),
				attribute.Int64(observability.AttrFileBytes, f.Size),
			))
			defer span.End()

			src, err := r.read(f)
			if err != nil {
				res.Err = err
				res.Skipped = errors.Is(err, ErrBinaryFile) || errors.Is(err, ErrNotCSharp)
				span.SetAttributes(attribute.Bool("file.skipped", res.Skipped))

				return nil
			}

			res.original = src

			err = work(fileCtx, res, src)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}

				res.Err = err
				span.RecordError(err)
				span.SetStatus(codes.Error, "file failed")
				r.logger.Warn("file failed", "path", f.Path, "error", err)
			}

			span.SetAttributes(attribute.Int(observability.AttrDiagnostics, len(res.Findings)))

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return results, fmt.Errorf("analysis interrupted: %w", err)
	}

	return results, nil
}

func (r *Runner) fileContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.Timeout > 0 {
		return context.WithTimeout(ctx, r.opts.Timeout)
	}

	return context.WithCancel(ctx)
}

func (r *Runner) read(f File) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}

	if textutil.IsBinary(data) {
		return "", fmt.Errorf("%w: %s", ErrBinaryFile, f.Path)
	}

	if !f.Explicit && !isCSharp(f.Path, data) {
		return "", fmt.Errorf("%w: %s", ErrNotCSharp, f.Path)
	}

	return string(data), nil
}

func (r *Runner) checkFile(ctx context.Context, res *Result, src string) error {
	file, model, err := csharp.Load(ctx, src)
	if file == nil {
		return err
	}

	if err != nil {
		// Partial trees are still analyzed; the rules only match
		// well-formed shapes.
		r.logger.Debug("analyzing file with syntax errors", "path", res.Path, "error", err)
	}

	diags, err := r.analyzer.Analyze(ctx, file.Root, model)
	if err != nil {
		return err
	}

	engine.SortDiagnostics(diags)
	res.Findings = r.findings(src, diags)

	return nil
}

// fixFile applies the first fixable diagnostic, reparses and repeats until
// nothing fixable is reported. Files with syntax errors are left alone.
func (r *Runner) fixFile(ctx context.Context, res *Result, src string) error {
	text := src

	for range maxFixesPerFile {
		file, model, err := csharp.Load(ctx, text)
		if err != nil {
			if errors.Is(err, csharp.ErrParse) {
				return fmt.Errorf("%w after %d fix(es): %w", ErrParseFailed, res.Fixed, err)
			}

			return err
		}

		diags, err := r.analyzer.Analyze(ctx, file.Root, model)
		if err != nil {
			return err
		}

		d, ok := r.firstFixable(diags)
		if !ok {
			res.Findings = r.findings(text, diags)
			res.fixed = text
			res.Diff = textutil.LineDiff(src, text)

			return nil
		}

		out, err := r.analyzer.ApplyFixContext(ctx, file.Root, d)
		if err != nil {
			return fmt.Errorf("%w: %s at %s: %w", ErrFixUnavailable, d.RuleID, syntax.PositionOf(text, d.Span.Start), err)
		}

		text = out.String()
		res.Fixed++
	}

	return fmt.Errorf("%w: %d", ErrFixLimit, maxFixesPerFile)
}

func (r *Runner) firstFixable(diags []engine.Diagnostic) (engine.Diagnostic, bool) {
	reg := r.analyzer.Registry()

	for _, d := range diags {
		if desc, ok := reg.Lookup(d.RuleID); ok && desc.Fixable() {
			return d, true
		}
	}

	return engine.Diagnostic{}, false
}

func (r *Runner) findings(src string, diags []engine.Diagnostic) []Finding {
	reg := r.analyzer.Registry()
	out := make([]Finding, 0, len(diags))

	for _, d := range diags {
		desc, _ := reg.Lookup(d.RuleID)
		pos := syntax.PositionOf(src, d.Span.Start)

		out = append(out, Finding{
			RuleID:   d.RuleID,
			Severity: d.Severity,
			Message:  d.Message,
			Line:     pos.Line,
			Column:   pos.Column,
			Start:    d.Span.Start,
			End:      d.Span.End(),
			Fixable:  desc.Fixable(),
		})
	}

	return out
}

func writeFile(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	err = os.WriteFile(path, []byte(text), info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
