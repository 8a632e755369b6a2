package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/formula"
	"github.com/steveyegge/gasworks/internal/tui/browser"
)

var browseDir string

var browseCmd = &cobra.Command{
	Use:     "browse",
	GroupID: GroupFormula,
	Short:   "Interactive formula browser",
	Long: `Browse formulas in an interactive terminal UI.

Shows the workspace formulas when a provisioned .beads/formulas
directory exists, the builtin library otherwise. Formulas expand in
place to show their steps, legs, variables, and synthesis settings.

Keys:
  j/k or arrows   Move
  enter/space     Expand or collapse
  1-9             Jump to formula
  q               Quit

Examples:
  gw browse                  # Workspace formulas, or builtins
  gw browse --dir ./recipes  # Browse a directory of formula files`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseDir, "dir", "", "Directory of .formula.toml files")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	dir := browseDir
	if dir == "" {
		// Prefer the provisioned workspace library when present.
		ws := formula.FormulasDir(".")
		if info, err := os.Stat(ws); err == nil && info.IsDir() {
			dir = ws
		}
	}

	p := tea.NewProgram(browser.New(dir), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
