package commands

import (
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/codefix/internal/runner"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
)

// FixCommand holds the flags for the fix command.
type FixCommand struct {
	common commonFlags
	dryRun bool
	diff   bool
}

// NewFixCommand creates and configures the fix command.
func NewFixCommand() *cobra.Command {
	cmd := &FixCommand{}

	cobraCmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Apply available fixes in place",
		Long: `Rewrite C# files, applying every fix the enabled rules offer.

Diagnostics without a fix are reported like check does. Files with syntax
errors are left untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: cmd.Run,
	}

	cmd.common.register(cobraCmd)
	cobraCmd.Flags().BoolVarP(&cmd.dryRun, "dry-run", "n", false, "Do not write files")
	cobraCmd.Flags().BoolVarP(&cmd.diff, "diff", "d", false, "Print the diff of every rewritten file")

	return cobraCmd
}

// Run executes the fix command.
func (c *FixCommand) Run(cmd *cobra.Command, args []string) error {
	s, err := openSession(c.common, observability.ModeFix)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, span := s.providers.Tracer.Start(cmd.Context(), "codefix.fix")
	defer span.End()

	files, err := s.discover(args)
	if err != nil {
		return err
	}

	results, err := s.runner().Fix(ctx, files, !c.dryRun)
	if err != nil {
		return err
	}

	summary := runner.Summarize(results)
	span.SetAttributes(
		attribute.Int("codefix.files", summary.Files),
		attribute.Int("codefix.fixed", summary.Fixed),
		attribute.Bool("codefix.dry_run", c.dryRun),
	)

	err = runner.Render(cmd.OutOrStdout(), s.cfg.Output.Format, results, runner.RenderOptions{Diff: c.diff})
	if err != nil {
		return err
	}

	// Unfixable diagnostics are informational here.
	return outcome(results, summary, 0, false)
}
