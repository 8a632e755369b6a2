package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/formula"
	"github.com/steveyegge/gasworks/internal/ui"
)

var validateQuiet bool

var validateCmd = &cobra.Command{
	Use:     "validate <file>...",
	GroupID: GroupFormula,
	Short:   "Validate formula files",
	Long: `Validate one or more formula files against the schema.

Each file is parsed and checked; failures are reported with the field
and reason. The exit code is 0 when every file is valid, 1 otherwise.

With --quiet nothing is printed and validation stops at the first
invalid file, which makes the command usable as a shell predicate.

Examples:
  gw validate deploy.formula.toml
  gw validate formulas/*.toml
  gw validate --quiet deploy.formula.toml && echo ok`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "No output, exit code only")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	invalid := 0
	for _, path := range args {
		if err := validateFile(path); err != nil {
			invalid++
			if validateQuiet {
				return NewSilentExit(1)
			}
			fmt.Printf("%s %s\n", ui.RenderFailIcon(), path)
			fmt.Printf("    %v\n", err)
			continue
		}
		if !validateQuiet {
			fmt.Printf("%s %s\n", ui.RenderPassIcon(), path)
		}
	}

	if invalid > 0 {
		if !validateQuiet {
			fmt.Printf("\n%d of %d file(s) invalid\n", invalid, len(args))
		}
		return NewSilentExit(1)
	}
	return nil
}

// validateFile parses one file; the returned error carries no path so
// the caller can print it under the filename.
func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = formula.Parse(data)
	return err
}
