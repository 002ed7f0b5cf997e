// Package commands implements the codefix subcommands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefix/pkg/version"
)

// NewRootCommand assembles the codefix command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codefix",
		Short: "codefix - idiom diagnostics and trivia-preserving fixes for C#",
		Long: `codefix reports idiom violations in C# sources and rewrites them
without disturbing comments or whitespace.

Commands:
  check     Report diagnostics
  fix       Apply available fixes
  rules     List registered rules
  test      Run txtar fixture archives against the rules`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewFixCommand())
	rootCmd.AddCommand(NewRulesCommand())
	rootCmd.AddCommand(NewTestCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
