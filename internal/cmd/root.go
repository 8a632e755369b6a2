package cmd

import (
	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/internal/style"
	"github.com/steveyegge/gasworks/internal/ui"
)

// Command group IDs for the root help output.
const (
	GroupFormula  = "formula"
	GroupMolecule = "molecule"
	GroupDiag     = "diag"
)

var rootCmd = &cobra.Command{
	Use:   "gw",
	Short: "Gas Town formula engine",
	Long: `Parse, cook, and compile Gas Town formulas.

Formulas are TOML recipes for multi-step work. gw validates them, binds
their variables ("cooking"), and compiles the result into a molecule:
beads wired with dependencies, in deterministic execution order.

Pipeline:
  formula (TOML)  →  cooked formula (vars bound)  →  molecule (bead DAG)

Formula types:
  workflow   sequential steps with needs-based ordering
  convoy     parallel legs grouped into waves
  expansion  fan-out work with a synthesis phase
  aspect     cross-cutting review with a synthesis phase

Environment:
  GW_THEME=dark|light|auto   Override color scheme detection
  GW_AGENT_MODE=1            Plain output for machine consumers
  GW_NO_PAGER=1              Never pipe long output to a pager
  NO_COLOR                   Disable colored output`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.InitTheme("")
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupFormula, Title: "Formula Commands:"},
		&cobra.Group{ID: GroupMolecule, Title: "Molecule Commands:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if code, ok := IsSilentExit(err); ok {
			return code
		}
		style.PrintError("%v", err)
		return 1
	}
	return 0
}

// requireSubcommand is the RunE for parent commands that do nothing on
// their own: print help, exit nonzero so scripts notice.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if err := cmd.Help(); err != nil {
		return err
	}
	return NewSilentExit(1)
}
