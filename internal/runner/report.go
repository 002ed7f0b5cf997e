package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codefix/pkg/rule"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

// ErrUnknownFormat is returned by Render.
var ErrUnknownFormat = errors.New("unknown output format")

// Summary aggregates a run.
type Summary struct {
	Files       int            `json:"files"`
	Bytes       int64          `json:"bytes"`
	Diagnostics int            `json:"diagnostics"`
	Fixed       int            `json:"fixed"`
	Failed      int            `json:"failed"`
	Skipped     int            `json:"skipped"`
	BySeverity  map[string]int `json:"by_severity,omitempty"`
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{BySeverity: make(map[string]int)}

	for _, res := range results {
		switch {
		case res.Skipped:
			s.Skipped++

			continue
		case res.Err != nil:
			s.Failed++
		}

		s.Files++
		s.Bytes += res.Size
		s.Fixed += res.Fixed
		s.Diagnostics += len(res.Findings)

		for _, f := range res.Findings {
			s.BySeverity[f.Severity.String()]++
		}
	}

	return s
}

// Worst returns the highest severity reported, and false when nothing was.
func Worst(results []Result) (rule.Severity, bool) {
	var (
		worst rule.Severity
		found bool
	)

	for _, res := range results {
		for _, f := range res.Findings {
			if !found || f.Severity > worst {
				worst, found = f.Severity, true
			}
		}
	}

	return worst, found
}

// String renders the one-line summary.
func (s Summary) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s in %s %s (%s)",
		plural(s.Diagnostics, "diagnostic"), humanize.Comma(int64(s.Files)), pluralWord(s.Files, "file"),
		humanize.Bytes(uint64(max(s.Bytes, 0))))

	if s.Fixed > 0 {
		fmt.Fprintf(&b, ", %s applied", plural(s.Fixed, "fix"))
	}

	if s.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", s.Failed)
	}

	if s.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", s.Skipped)
	}

	return b.String()
}

func plural(n int, word string) string {
	return humanize.Comma(int64(n)) + " " + pluralWord(n, word)
}

func pluralWord(n int, word string) string {
	if n == 1 {
		return word
	}

	if strings.HasSuffix(word, "x") {
		return word + "es"
	}

	return word + "s"
}

// RenderOptions tune Render.
type RenderOptions struct {
	// Diff prints the rewrite diff of fixed files.
	Diff bool
}

// Render writes results in format. Text and table output end with the
// summary line.
func Render(w io.Writer, format string, results []Result, opts RenderOptions) error {
	switch format {
	case FormatText, "":
		return renderText(w, results, opts)
	case FormatTable:
		return renderTable(w, results, opts)
	case FormatJSON:
		return renderJSON(w, results)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

var severityColors = map[rule.Severity]*color.Color{
	rule.SeverityHidden:  color.New(color.Faint),
	rule.SeverityInfo:    color.New(color.FgCyan),
	rule.SeverityWarning: color.New(color.FgYellow),
	rule.SeverityError:   color.New(color.FgRed, color.Bold),
}

func severityColor(s rule.Severity) *color.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}

	return color.New(color.Reset)
}

func renderText(w io.Writer, results []Result, opts RenderOptions) error {
	pathColor := color.New(color.Bold)
	failColor := color.New(color.FgRed)

	for _, res := range results {
		if res.Skipped {
			continue
		}

		if res.Err != nil {
			failColor.Fprintf(w, "%s: error: %v\n", res.Path, res.Err)

			continue
		}

		for _, f := range res.Findings {
			pathColor.Fprintf(w, "%s:%d:%d:", res.Path, f.Line, f.Column)
			fmt.Fprint(w, " ")
			severityColor(f.Severity).Fprint(w, f.Severity.String())
			fmt.Fprintf(w, " %s: %s\n", f.RuleID, f.Message)
		}

		writeDiff(w, res, opts)
	}

	_, err := fmt.Fprintln(w, Summarize(results).String())

	return err
}

func writeDiff(w io.Writer, res Result, opts RenderOptions) {
	if !opts.Diff || res.Diff == "" {
		return
	}

	fmt.Fprintf(w, "--- %s\n+++ %s (fixed)\n", res.Path, res.Path)

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for line := range strings.Lines(res.Diff) {
		switch {
		case strings.HasPrefix(line, "+"):
			added.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

func renderTable(w io.Writer, results []Result, opts RenderOptions) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Rule", "Message", "Fix"})

	for _, res := range results {
		if res.Skipped {
			continue
		}

		if res.Err != nil {
			tbl.AppendRow(table.Row{res.Path, "", "", "failed", "", res.Err.Error(), ""})

			continue
		}

		for _, f := range res.Findings {
			fix := ""
			if f.Fixable {
				fix = "yes"
			}

			tbl.AppendRow(table.Row{res.Path, f.Line, f.Column, f.Severity.String(), f.RuleID, f.Message, fix})
		}
	}

	tbl.AppendFooter(table.Row{Summarize(results).String()})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return err
	}

	if opts.Diff {
		for _, res := range results {
			writeDiff(w, res, opts)
		}
	}

	return nil
}

type jsonResult struct {
	Result

	Error string `json:"error,omitempty"`
}

type jsonReport struct {
	Files   []jsonResult `json:"files"`
	Summary Summary      `json:"summary"`
}

func renderJSON(w io.Writer, results []Result) error {
	report := jsonReport{Files: make([]jsonResult, 0, len(results)), Summary: Summarize(results)}

	for _, res := range results {
		jr := jsonResult{Result: res}
		if jr.Findings == nil {
			jr.Findings = []Finding{}
		}

		if res.Err != nil {
			jr.Error = res.Err.Error()
		}

		report.Files = append(report.Files, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}
