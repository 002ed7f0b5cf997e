package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/codefix/internal/runner"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
)

// Sentinel errors for command outcomes.
var (
	ErrDiagnostics = errors.New("diagnostics reported")
	ErrFilesFailed = errors.New("some files could not be processed")
)

// CheckCommand holds the flags for the check command.
type CheckCommand struct {
	common commonFlags
	failOn string
}

// NewCheckCommand creates and configures the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &CheckCommand{}

	cobraCmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report idiom diagnostics",
		Long: `Analyze C# files and directories and report every rule violation.

The command fails when a diagnostic at or above --fail-on is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: cmd.Run,
	}

	cmd.common.register(cobraCmd)
	cobraCmd.Flags().StringVar(&cmd.failOn, "fail-on", rule.SeverityInfo.String(),
		"Lowest severity that fails the run: hidden, info, warning, error, or none")

	return cobraCmd
}

// Run executes the check command.
func (c *CheckCommand) Run(cmd *cobra.Command, args []string) error {
	threshold, failEnabled, err := parseFailOn(c.failOn)
	if err != nil {
		return err
	}

	s, err := openSession(c.common, observability.ModeCheck)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, span := s.providers.Tracer.Start(cmd.Context(), "codefix.check")
	defer span.End()

	files, err := s.discover(args)
	if err != nil {
		return err
	}

	results, err := s.runner().Check(ctx, files)
	if err != nil {
		return err
	}

	summary := runner.Summarize(results)
	span.SetAttributes(
		attribute.Int("codefix.files", summary.Files),
		attribute.Int("codefix.diagnostics", summary.Diagnostics),
	)

	err = runner.Render(cmd.OutOrStdout(), s.cfg.Output.Format, results, runner.RenderOptions{})
	if err != nil {
		return err
	}

	return outcome(results, summary, threshold, failEnabled)
}

func outcome(results []runner.Result, summary runner.Summary, threshold rule.Severity, failEnabled bool) error {
	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d", ErrFilesFailed, summary.Failed)
	}

	worst, found := runner.Worst(results)
	if failEnabled && found && worst >= threshold {
		return fmt.Errorf("%w: highest severity %s", ErrDiagnostics, worst)
	}

	return nil
}

func parseFailOn(name string) (rule.Severity, bool, error) {
	if name == "none" {
		return 0, false, nil
	}

	sev, err := rule.ParseSeverity(name)
	if err != nil {
		return 0, false, fmt.Errorf("--fail-on: %w", err)
	}

	return sev, true, nil
}
