package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codefix/pkg/fixture"
	"github.com/Sumatoshi-tech/codefix/pkg/frontend/csharp"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
)

// Sentinel errors for the test command.
var (
	ErrFixturesFailed = errors.New("fixture cases failed")
	ErrNoFixtures     = errors.New("no fixture archives found")
)

// TestCommand holds the flags for the test command.
type TestCommand struct {
	common commonFlags
}

// caseOutcome is the verdict on one archive.
type caseOutcome struct {
	c        fixture.Case
	passed   bool
	failures []string
}

// NewTestCommand creates and configures the test command.
func NewTestCommand() *cobra.Command {
	cmd := &TestCommand{}

	cobraCmd := &cobra.Command{
		Use:   "test [dirs...]",
		Short: "Run txtar fixture archives against the rules",
		Long: `Verify every *.txtar archive in the given directories. An archive names
its rule in the comment and holds a "before" file, optionally marked with
[| |] spans, and an optional "after" file with the expected fix.`,
		Args: cobra.MinimumNArgs(1),
		RunE: cmd.Run,
	}

	cmd.common.register(cobraCmd)

	return cobraCmd
}

// Run executes the test command.
func (c *TestCommand) Run(cmd *cobra.Command, dirs []string) error {
	s, err := openSession(c.common, observability.ModeTest)
	if err != nil {
		return err
	}
	defer s.close()

	var cases []fixture.Case

	for _, dir := range dirs {
		found, loadErr := fixture.LoadArchives(dir)
		if loadErr != nil {
			return loadErr
		}

		cases = append(cases, found...)
	}

	if len(cases) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFixtures, strings.Join(dirs, ", "))
	}

	base := fixture.Verifier{
		Registry: rule.Default,
		Parse:    csharp.ParseTree,
		Facts:    csharp.Facts,
		Logger:   s.providers.Logger,
	}

	outcomes := make([]caseOutcome, len(cases))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(s.cfg.Analysis.Concurrency, len(cases)))

	for i, fc := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec := &fixture.Recorder{}
			passed := rec.Run(func(t fixture.TestingT) { fc.Verify(t, base) })
			outcomes[i] = caseOutcome{c: fc, passed: passed, failures: rec.Failures()}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	failed := writeOutcomes(cmd.OutOrStdout(), outcomes)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFixturesFailed, failed, len(outcomes))
	}

	return nil
}

func writeOutcomes(w io.Writer, outcomes []caseOutcome) int {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	failed := 0

	for _, o := range outcomes {
		if o.passed {
			pass.Fprint(w, "PASS")
			fmt.Fprintf(w, " %s (%s)\n", o.c.Name, o.c.RuleID)

			continue
		}

		failed++

		fail.Fprint(w, "FAIL")
		fmt.Fprintf(w, " %s (%s)\n", o.c.Name, o.c.RuleID)

		for _, msg := range o.failures {
			for line := range strings.Lines(msg) {
				fmt.Fprintf(w, "    %s\n", strings.TrimSuffix(line, "\n"))
			}
		}
	}

	fmt.Fprintf(w, "%d passed, %d failed\n", len(outcomes)-failed, failed)

	return failed
}
