package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefix/internal/runner"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
	"github.com/Sumatoshi-tech/codefix/pkg/rules"
)

func checked(t *testing.T) []runner.Result {
	t.Helper()

	path := writeFile(t, t.TempDir(), "a.cs", source)

	results, err := newRunner(t).Check(context.Background(), []runner.File{{Path: path, Size: int64(len(source))}})
	require.NoError(t, err)

	return results
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	results := checked(t)
	path := results[0].Path

	var buf bytes.Buffer
	require.NoError(t, runner.Render(&buf, runner.FormatText, results, runner.RenderOptions{}))

	out := buf.String()
	assert.Contains(t, out, path+":10:13: info RCS1096: Convert 'HasFlag' call to bitwise operation\n")
	assert.Contains(t, out, path+":14:9: info RCS1249: ")
	assert.Contains(t, out, "3 diagnostics in 1 file (")
}

func TestRender_TextWithDiff(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.cs", source)

	results, err := newRunner(t).Fix(context.Background(), []runner.File{{Path: path}}, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runner.Render(&buf, runner.FormatText, results, runner.RenderOptions{Diff: true}))

	out := buf.String()
	assert.Contains(t, out, "--- "+path+"\n+++ "+path+" (fixed)\n")
	assert.Contains(t, out, "+        if ((options & StringSplitOptions.RemoveEmptyEntries) != 0) { }\n")
	assert.Contains(t, out, "2 fixes applied")
}

func TestRender_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, runner.Render(&buf, runner.FormatTable, checked(t), runner.RenderOptions{}))

	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "severity")
	assert.Contains(t, out, strings.ToLower(rules.IDConvertHasFlag))
	assert.Contains(t, out, strings.ToLower(rules.IDAwaitUsing))
	assert.Contains(t, out, "3 diagnostics in 1 file")
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()

	results := checked(t)
	results = append(results, runner.Result{Path: "broken.cs", Err: errors.New("boom")})

	var buf bytes.Buffer
	require.NoError(t, runner.Render(&buf, runner.FormatJSON, results, runner.RenderOptions{}))

	var report struct {
		Files []struct {
			Path        string `json:"path"`
			Error       string `json:"error"`
			Diagnostics []struct {
				Rule     string `json:"rule"`
				Severity string `json:"severity"`
				Line     int    `json:"line"`
				Fixable  bool   `json:"fixable"`
			} `json:"diagnostics"`
		} `json:"files"`
		Summary runner.Summary `json:"summary"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Files, 2)
	require.Len(t, report.Files[0].Diagnostics, 3)
	assert.Equal(t, "info", report.Files[0].Diagnostics[0].Severity)
	assert.Equal(t, 10, report.Files[0].Diagnostics[0].Line)
	assert.True(t, report.Files[0].Diagnostics[0].Fixable)
	assert.Equal(t, "boom", report.Files[1].Error)
	assert.NotNil(t, report.Files[1].Diagnostics)
	assert.Equal(t, 3, report.Summary.Diagnostics)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Equal(t, 3, report.Summary.BySeverity["info"])
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := runner.Render(&bytes.Buffer{}, "xml", nil, runner.RenderOptions{})
	require.ErrorIs(t, err, runner.ErrUnknownFormat)
}

func TestSummary_String(t *testing.T) {
	t.Parallel()

	s := runner.Summary{Files: 2, Bytes: 2048, Diagnostics: 1, Fixed: 1, Failed: 1, Skipped: 3}
	assert.Equal(t, "1 diagnostic in 2 files (2.0 kB), 1 fix applied, 1 failed, 3 skipped", s.String())

	s = runner.Summary{Files: 1, Fixed: 2}
	assert.Equal(t, "0 diagnostics in 1 file (0 B), 2 fixes applied", s.String())
}

func TestWorst(t *testing.T) {
	t.Parallel()

	_, ok := runner.Worst(nil)
	assert.False(t, ok)

	worst, ok := runner.Worst([]runner.Result{
		{Findings: []runner.Finding{{Severity: rule.SeverityInfo}}},
		{Findings: []runner.Finding{{Severity: rule.SeverityWarning}, {Severity: rule.SeverityHidden}}},
	})
	require.True(t, ok)
	assert.Equal(t, rule.SeverityWarning, worst)
}
