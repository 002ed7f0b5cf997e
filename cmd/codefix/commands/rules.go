package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codefix/internal/runner"
	"github.com/Sumatoshi-tech/codefix/pkg/observability"
	"github.com/Sumatoshi-tech/codefix/pkg/rule"
)

// RulesCommand holds the flags for the rules command.
type RulesCommand struct {
	common commonFlags
}

// ruleInfo is one row of the rules listing.
type ruleInfo struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Category string        `json:"category"`
	Severity rule.Severity `json:"severity"`
	Fixable  bool          `json:"fixable"`
	Enabled  bool          `json:"enabled"`
	Triggers []string      `json:"triggers"`
}

// NewRulesCommand creates and configures the rules command.
func NewRulesCommand() *cobra.Command {
	cmd := &RulesCommand{}

	cobraCmd := &cobra.Command{
		Use:   "rules",
		Short: "List registered rules",
		Long:  "List every built-in rule with its effective severity after configuration.",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}

	cmd.common.register(cobraCmd)

	return cobraCmd
}

// Run executes the rules command.
func (c *RulesCommand) Run(cmd *cobra.Command, _ []string) error {
	s, err := openSession(c.common, observability.ModeRules)
	if err != nil {
		return err
	}
	defer s.close()

	infos := listRules(rule.Default, s.registry)

	if s.cfg.Output.Format == runner.FormatJSON {
		return writeRulesJSON(cmd.OutOrStdout(), infos)
	}

	return writeRulesTable(cmd.OutOrStdout(), infos)
}

// listRules describes every rule of all in identity order, with severity
// and enablement taken from effective.
func listRules(all, effective *rule.Registry) []ruleInfo {
	ids := all.SupportedIdentities()
	out := make([]ruleInfo, 0, len(ids))

	for _, id := range ids {
		d, ok := all.Lookup(id)
		if !ok {
			continue
		}

		eff, enabled := effective.Lookup(id)
		if enabled {
			d.Severity = eff.Severity
		}

		triggers := make([]string, 0, len(d.Triggers))
		for _, k := range d.Triggers {
			triggers = append(triggers, k.String())
		}

		out = append(out, ruleInfo{
			ID:       d.ID,
			Title:    d.Title,
			Category: d.Category,
			Severity: d.Severity,
			Fixable:  d.Fixable(),
			Enabled:  enabled,
			Triggers: triggers,
		})
	}

	return out
}

func writeRulesJSON(w io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}

	return nil
}

func writeRulesTable(w io.Writer, infos []ruleInfo) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"ID", "Title", "Category", "Severity", "Fix", "Enabled", "Triggers"})

	for _, ri := range infos {
		tbl.AppendRow(table.Row{
			ri.ID, ri.Title, ri.Category, ri.Severity.String(),
			yesNo(ri.Fixable), yesNo(ri.Enabled), strings.Join(ri.Triggers, ", "),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d rules", len(infos))})

	_, err := fmt.Fprintln(w, tbl.Render())

	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
