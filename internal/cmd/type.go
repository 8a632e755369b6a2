package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/formula"
)

var typeCmd = &cobra.Command{
	Use:     "type <file>",
	GroupID: GroupFormula,
	Short:   "Print a formula's type",
	Long: `Print the type tag of a formula file (workflow, convoy, expansion,
or aspect).

The type is read from the raw TOML without a full parse, so this is
cheap enough to run over large formula collections.

Examples:
  gw type deploy.formula.toml
  for f in *.toml; do echo "$f: $(gw type $f)"; done`,
	Args: cobra.ExactArgs(1),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
}

func runType(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	typ, err := formula.DetectType(data)
	if err != nil {
		return fmt.Errorf("detecting type of %s: %w", args[0], err)
	}

	fmt.Println(typ)
	return nil
}
