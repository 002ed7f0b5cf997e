package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefix/cmd/codefix/commands"
	"github.com/Sumatoshi-tech/codefix/pkg/config"
	"github.com/Sumatoshi-tech/codefix/pkg/rules"
)

func TestMain(m *testing.M) {
	color.NoColor = true

	os.Exit(m.Run())
}

const source = `using System;
using System.IO;

class C
{
    void M()
    {
        var options = StringSplitOptions.None;

        if (options.HasFlag(StringSplitOptions.RemoveEmptyEntries)) { }

        using (Stream fs = new FileStream(null, FileMode.Open)) { }
    }
}
`

const fixedSource = `using System;
using System.IO;

class C
{
    void M()
    {
        var options = StringSplitOptions.None;

        if ((options & StringSplitOptions.RemoveEmptyEntries) != 0) { }

        using (Stream fs = new FileStream(null, FileMode.Open)) { }
    }
}
`

// workspace writes a source file and a config file into a fresh directory.
func workspace(t *testing.T, cfg string) (srcPath, cfgPath string) {
	t.Helper()

	dir := t.TempDir()
	srcPath = filepath.Join(dir, "src", "a.cs")
	cfgPath = filepath.Join(dir, "codefix.yaml")

	require.NoError(t, os.MkdirAll(filepath.Dir(srcPath), 0o755))
	require.NoError(t, os.WriteFile(srcPath, []byte(source), 0o644))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	return srcPath, cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "codefix ")
	assert.Contains(t, out, "commit:")
}

func TestCheck_ReportsAndFails(t *testing.T) {
	t.Parallel()

	src, cfg := workspace(t, "logging:\n  level: error\n")

	out, err := execute(t, "check", "--config", cfg, "--no-color", filepath.Dir(src))
	require.ErrorIs(t, err, commands.ErrDiagnostics)
	assert.Contains(t, out, src+":10:13: info RCS1096: ")
	assert.Contains(t, out, src+":12:9: info RCS1249: ")
	assert.Contains(t, out, "2 diagnostics in 1 file")
}

func TestCheck_FailOn(t *testing.T) {
	t.Parallel()

	src, cfg := workspace(t, "")

	_, err := execute(t, "check", "--config", cfg, "--fail-on", "none", src)
	require.NoError(t, err)

	_, err = execute(t, "check", "--config", cfg, "--fail-on", "warning", src)
	require.NoError(t, err)

	_, err = execute(t, "check", "--config", cfg, "--fail-on", "fatal", src)
	require.Error(t, err)
}

func TestCheck_ConfigOverridesRules(t *testing.T) {
	t.Parallel()

	src, cfg := workspace(t, `rules:
  RCS1096:
    enabled: false
  rcs1249:
    severity: error
output:
  format: json
`)

	out, err := execute(t, "check", "--config", cfg, src)
	require.ErrorIs(t, err, commands.ErrDiagnostics)

	var report struct {
		Files []struct {
			Diagnostics []struct {
				Rule     string `json:"rule"`
				Severity string `json:"severity"`
			} `json:"diagnostics"`
		} `json:"files"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 1)
	require.Len(t, report.Files[0].Diagnostics, 1)
	assert.Equal(t, rules.IDAwaitUsing, report.Files[0].Diagnostics[0].Rule)
	assert.Equal(t, "error", report.Files[0].Diagnostics[0].Severity)
}

func TestCheck_InvalidInput(t *testing.T) {
	t.Parallel()

	src, cfg := workspace(t, "")

	_, err := execute(t, "check", "--config", cfg, "--format", "xml", src)
	require.ErrorIs(t, err, config.ErrInvalidFormat)

	_, err = execute(t, "check", "--config", cfg, filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, badCfg := workspace(t, "rules:\n  RCS9999:\n    enabled: false\n")
	_, err = execute(t, "check", "--config", badCfg, src)
	require.ErrorIs(t, err, config.ErrUnknownRule)

	_, err = execute(t, "check", "--config", cfg)
	require.Error(t, err)
}

func TestCheck_MetricsTextfile(t *testing.T) {
	t.Parallel()

	src, cfg := workspace(t, "")
	metricsPath := filepath.Join(t.TempDir(), "codefix.prom")

	_, err := execute(t, "check", "--config", cfg, "--fail-on", "none", "--metrics-textfile", metricsPath, src)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "codefix_engine_passes")
	assert.Contains(t, string(data), "codefix_engine_diagnostics")
}

func TestFix(t *testing.T) {
	t.Parallel()

	t.Run("writes", func(t *testing.T) {
		t.Parallel()

		src, cfg := workspace(t, "")

		out, err := execute(t, "fix", "--config", cfg, src)
		require.NoError(t, err)
		assert.Contains(t, out, "1 fix applied")

		data, err := os.ReadFile(src)
		require.NoError(t, err)
		assert.Equal(t, fixedSource, string(data))
	})

	t.Run("dry run with diff", func(t *testing.T) {
		t.Parallel()

		src, cfg := workspace(t, "")

		out, err := execute(t, "fix", "--config", cfg, "--dry-run", "--diff", src)
		require.NoError(t, err)
		assert.Contains(t, out, "-        if (options.HasFlag(StringSplitOptions.RemoveEmptyEntries)) { }\n")
		assert.Contains(t, out, "+        if ((options & StringSplitOptions.RemoveEmptyEntries) != 0) { }\n")

		data, err := os.ReadFile(src)
		require.NoError(t, err)
		assert.Equal(t, source, string(data))
	})
}

func TestRules(t *testing.T) {
	t.Parallel()

	_, cfg := workspace(t, "rules:\n  RCS1249:\n    severity: warning\n  RCS1096:\n    enabled: false\n")

	out, err := execute(t, "rules", "--config", cfg, "--format", "json")
	require.NoError(t, err)

	var infos []struct {
		ID       string   `json:"id"`
		Severity string   `json:"severity"`
		Fixable  bool     `json:"fixable"`
		Enabled  bool     `json:"enabled"`
		Triggers []string `json:"triggers"`
	}

	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)

	assert.Equal(t, rules.IDConvertHasFlag, infos[0].ID)
	assert.True(t, infos[0].Fixable)
	assert.False(t, infos[0].Enabled)
	assert.Equal(t, rules.IDAwaitUsing, infos[1].ID)
	assert.Equal(t, "warning", infos[1].Severity)
	assert.True(t, infos[1].Enabled)
	assert.NotEmpty(t, infos[1].Triggers)

	out, err = execute(t, "rules", "--config", cfg, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, rules.IDConvertHasFlag)
	assert.Contains(t, out, "Use await using statement")
}

func TestTest_RuleArchives(t *testing.T) {
	t.Parallel()

	_, cfg := workspace(t, "")

	out, err := execute(t, "test", "--config", cfg, filepath.Join("..", "..", "..", "pkg", "rules", "testdata"))
	require.NoError(t, err)
	assert.Contains(t, out, "PASS hasflag_local (RCS1096)")
	assert.Contains(t, out, "5 passed, 0 failed")
}

func TestTest_ReportsFailures(t *testing.T) {
	t.Parallel()

	_, cfg := workspace(t, "")
	dir := t.TempDir()

	archive := `RCS1096
-- before.cs --
using System;

class C
{
    void M()
    {
        var options = StringSplitOptions.None;

        if (options.HasFlag(StringSplitOptions.TrimEntries)) { }
    }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unmarked.txtar"), []byte(archive), 0o600))

	out, err := execute(t, "test", "--config", cfg, dir)
	require.ErrorIs(t, err, commands.ErrFixturesFailed)
	assert.Contains(t, out, "FAIL unmarked (RCS1096)")
	assert.Contains(t, out, "0 passed, 1 failed")

	_, err = execute(t, "test", "--config", cfg, t.TempDir())
	require.ErrorIs(t, err, commands.ErrNoFixtures)
}
