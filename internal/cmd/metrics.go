package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks"
	"github.com/steveyegge/gasworks/internal/style"
	"github.com/steveyegge/gasworks/internal/ui"
)

var metricsJSON bool

var metricsCmd = &cobra.Command{
	Use:     "metrics",
	GroupID: GroupDiag,
	Short:   "Show engine performance targets",
	Long: `Show the engine descriptor: contract version, declared per-operation
performance targets, and the optimizations behind them.

The descriptor is static and informational; use --json for the exact
machine-readable form.

Examples:
  gw metrics
  gw metrics --json`,
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	m := gasworks.Metrics()

	if metricsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	fmt.Printf("\n%s %s\n\n", style.Bold.Render("Engine"), m.Version)

	tbl := style.NewTable(
		style.Column{Name: "OPERATION", Width: 20},
		style.Column{Name: "TARGET", Width: 12, Align: style.AlignRight},
	)
	tbl.AddRow("parse", fmt.Sprintf("%.2f ms", m.Targets.ParseTOML))
	tbl.AddRow("cook", fmt.Sprintf("%.2f ms", m.Targets.CookFormula))
	tbl.AddRow("batch of 100", fmt.Sprintf("%.2f ms", m.Targets.Batch100))
	tbl.AddRow("generate molecule", fmt.Sprintf("%.2f ms", m.Targets.GenerateMolecule))
	fmt.Print(tbl.Render())

	fmt.Printf("\n%s %s\n", style.Bold.Render("Optimizations:"),
		ui.RenderMuted(strings.Join(m.Optimizations, ", ")))
	return nil
}
