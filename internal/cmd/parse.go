package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/formula"
	"github.com/steveyegge/gasworks/internal/style"
	"github.com/steveyegge/gasworks/internal/ui"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:     "parse <file>",
	GroupID: GroupFormula,
	Short:   "Parse a formula file and show its structure",
	Long: `Parse a TOML formula file, validate its schema, and display the result.

The structured view shows the formula header, declared variables with
their constraints, and the step or leg definitions. Use --json for the
canonical JSON form of the parsed formula.

Examples:
  gw parse deploy.formula.toml          # Structured view
  gw parse deploy.formula.toml --json   # Canonical JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	f, err := formula.ParseFile(args[0])
	if err != nil {
		return err
	}

	if parseJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}

	fmt.Print(renderFormulaDetail(f))
	return nil
}

// renderFormulaDetail renders the structured human-readable view of a
// parsed formula.
func renderFormulaDetail(f *formula.Formula) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s  %s  %s\n",
		style.Bold.Render(f.Name),
		ui.RenderFormulaType(string(f.Type)),
		ui.RenderMuted(fmt.Sprintf("v%d", f.Version))))
	if f.Description != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", f.Description))
	}
	sb.WriteString("\n")

	if len(f.Vars) > 0 {
		sb.WriteString(style.Bold.Render("Vars:") + "\n")
		tbl := style.NewTable(
			style.Column{Name: "NAME", Width: 14},
			style.Column{Name: "REQ", Width: 4},
			style.Column{Name: "DEFAULT", Width: 12},
			style.Column{Name: "CONSTRAINT", Width: 40},
		)
		for _, name := range sortedVarNames(f.Vars) {
			v := f.Vars[name]
			def := "-"
			if v.Default != nil {
				def = *v.Default
				if def == "" {
					def = `""`
				}
			}
			tbl.AddRow(name, ui.RenderVarRequired(v.Required), def, varConstraint(v))
		}
		sb.WriteString(tbl.Render())
		sb.WriteString("\n")
	}

	switch f.Type {
	case formula.TypeWorkflow:
		sb.WriteString(style.Bold.Render("Steps:") + "\n")
		for _, s := range f.Steps {
			sb.WriteString("  " + ui.RenderBeadLine(s.ID, s.Needs))
			if s.Title != "" {
				sb.WriteString(ui.RenderMuted("  " + s.Title))
			}
			sb.WriteString("\n")
		}
	case formula.TypeConvoy:
		sb.WriteString(style.Bold.Render("Legs:") + "\n")
		for _, l := range f.Legs {
			wave := "parallel"
			if l.Order != nil {
				wave = fmt.Sprintf("wave %d", *l.Order)
			}
			sb.WriteString(fmt.Sprintf("  %s %s %s",
				ui.RenderAccent(ui.BeadIcon), l.ID, ui.RenderMuted("("+wave+")")))
			if l.Title != "" {
				sb.WriteString(ui.RenderMuted("  " + l.Title))
			}
			sb.WriteString("\n")
		}
	}

	if f.Synthesis != nil {
		sb.WriteString(style.Bold.Render("Synthesis:") + "\n")
		sb.WriteString(fmt.Sprintf("  strategy %s", f.Synthesis.Strategy))
		if f.Synthesis.Format != "" {
			sb.WriteString(fmt.Sprintf(" → %s", f.Synthesis.Format))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// varConstraint summarizes a var's validation rules for display.
func varConstraint(v formula.Var) string {
	var parts []string
	if v.Pattern != "" {
		parts = append(parts, "pattern: "+v.Pattern)
	}
	if len(v.Enum) > 0 {
		parts = append(parts, "enum: "+strings.Join(v.Enum, ", "))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}

func sortedVarNames(vars map[string]formula.Var) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
