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
	"github.com/steveyegge/gasworks/molecule"
)

var (
	molVarFlags []string
	molVarsFile string
	molJSON     bool
	molTiers    bool
)

var moleculeCmd = &cobra.Command{
	Use:     "molecule <file>",
	Aliases: []string{"mol"},
	GroupID: GroupMolecule,
	Short:   "Cook a formula and compile it into a molecule",
	Long: `Cook a formula and compile the result into a molecule: beads wired
with dependencies, in deterministic execution order.

The tree view (default) shows the dependency structure rooted at the
beads with no prerequisites. --tiers groups beads by execution tier
instead: everything in one tier can run in parallel once the previous
tier is done. Both views print the critical path, the longest
dependency chain through the molecule.

Examples:
  gw molecule deploy.formula.toml --var env=prod   # Tree view
  gw mol deploy.formula.toml --var env=prod --tiers
  gw mol deploy.formula.toml --var env=prod --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMolecule,
}

func init() {
	moleculeCmd.Flags().StringArrayVar(&molVarFlags, "var", nil, "Variable binding name=value (repeatable)")
	moleculeCmd.Flags().StringVar(&molVarsFile, "vars-file", "", "JSON file with variable bindings")
	moleculeCmd.Flags().BoolVar(&molJSON, "json", false, "Output as JSON")
	moleculeCmd.Flags().BoolVar(&molTiers, "tiers", false, "Group output by execution tier")
	rootCmd.AddCommand(moleculeCmd)
}

func runMolecule(cmd *cobra.Command, args []string) error {
	bindings, err := collectBindings(molVarsFile, molVarFlags)
	if err != nil {
		return err
	}

	f, err := formula.ParseFile(args[0])
	if err != nil {
		return err
	}

	cooked, err := formula.Cook(f, bindings)
	if err != nil {
		return fmt.Errorf("cooking %s: %w", f.Name, err)
	}

	mol, err := molecule.Generate(cooked)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", cooked.Name, err)
	}

	if molJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(mol)
	}

	if molTiers {
		outputMoleculeTiers(mol)
		return nil
	}
	outputMoleculeTree(mol)
	return nil
}

// outputMoleculeTree prints the molecule as a dependency tree rooted at
// the beads with no prerequisites.
func outputMoleculeTree(m *molecule.Molecule) {
	tiers := m.Tiers()

	fmt.Printf("\n%s %s  %s\n", style.Bold.Render("Molecule:"), m.Formula,
		ui.RenderFormulaType(string(m.Type)))
	fmt.Printf("   Beads: %d | Tiers: %d\n", len(m.Beads), len(tiers))
	if path := m.CriticalPath(); len(path) > 0 {
		fmt.Printf("   Critical path: %s\n", strings.Join(path, " → "))
	}
	fmt.Println()

	dependents := beadDependents(m)
	titles := make(map[string]string, len(m.Beads))
	for _, b := range m.Beads {
		titles[b.ID] = b.Title
	}

	if len(tiers) > 0 {
		visited := make(map[string]bool)
		for i, id := range tiers[0] {
			printBeadNode(id, "", i == len(tiers[0])-1, dependents, titles, visited)
		}
	}
}

// printBeadNode recursively prints a bead and its dependents.
func printBeadNode(id, prefix string, isLast bool, dependents map[string][]string, titles map[string]string, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true

	connector := ui.TreeChild
	if isLast {
		connector = ui.TreeLast
	}

	line := fmt.Sprintf("%s%s %s %s", prefix, connector, ui.RenderAccent(ui.BeadIcon), id)
	if title := titles[id]; title != "" {
		line += ui.RenderMuted("  " + title)
	}
	fmt.Println(line)

	childPrefix := prefix
	if isLast {
		childPrefix += "   "
	} else {
		childPrefix += ui.TreeIndent
	}

	children := dependents[id]
	for i, depID := range children {
		printBeadNode(depID, childPrefix, i == len(children)-1, dependents, titles, visited)
	}
}

// outputMoleculeTiers prints the molecule grouped by execution tier.
func outputMoleculeTiers(m *molecule.Molecule) {
	tiers := m.Tiers()

	fmt.Printf("\n%s %s  %s\n", style.Bold.Render("Molecule:"), m.Formula,
		ui.RenderFormulaType(string(m.Type)))
	fmt.Printf("   Beads: %d | Tiers: %d\n\n", len(m.Beads), len(tiers))

	needs := make(map[string][]string, len(m.Beads))
	for _, b := range m.Beads {
		needs[b.ID] = b.Needs
	}
	fmt.Print(style.TierProgress(tiers, needs, nil))

	if path := m.CriticalPath(); len(path) > 0 {
		fmt.Printf("\n   %s %s\n", style.Bold.Render("Critical path:"), strings.Join(path, " → "))
	}
}

// beadDependents builds the reverse dependency map, children sorted for
// stable display.
func beadDependents(m *molecule.Molecule) map[string][]string {
	dependents := make(map[string][]string)
	for _, b := range m.Beads {
		for _, need := range b.Needs {
			dependents[need] = append(dependents[need], b.ID)
		}
	}
	for id := range dependents {
		sort.Strings(dependents[id])
	}
	return dependents
}
