package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/formula"
	"github.com/steveyegge/gasworks/internal/style"
	"github.com/steveyegge/gasworks/internal/suggest"
	"github.com/steveyegge/gasworks/internal/ui"
)

var (
	formulasBeadsPath string
	formulasShowTOML  bool
	formulasNoPager   bool
)

var formulasCmd = &cobra.Command{
	Use:     "formulas",
	GroupID: GroupFormula,
	Short:   "Manage the builtin formula library",
	Long: `Manage the builtin formula library and its workspace copies.

gw ships a set of builtin formulas compiled into the binary. Provision
installs them into <workspace>/.beads/formulas/ so they can be edited
and versioned; health compares the workspace copies against the
builtins; update refreshes what is safe to refresh without touching
user-modified files.

Examples:
  gw formulas list                  # List builtin formulas
  gw formulas show deploy           # Show one formula
  gw formulas provision             # Install builtins into the workspace
  gw formulas health                # Compare workspace copies to builtins
  gw formulas update                # Refresh unmodified workspace copies`,
	RunE: requireSubcommand,
}

var formulasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List builtin formulas",
	RunE:  runFormulasList,
}

var formulasShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a formula in detail",
	Long: `Show one formula rendered for reading.

The workspace copy is preferred when it exists, the builtin otherwise.
Use --toml for the canonical TOML instead of the rendered view.

Examples:
  gw formulas show deploy
  gw formulas show deploy --toml`,
	Args: cobra.ExactArgs(1),
	RunE: runFormulasShow,
}

var formulasProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Install builtin formulas into the workspace",
	Long: `Install builtin formulas into <workspace>/.beads/formulas/.

Files that already exist are left alone; only missing formulas are
written. Installed checksums are recorded so later health checks can
tell user edits from builtin updates.`,
	RunE: runFormulasProvision,
}

var formulasUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh workspace formulas from the builtins",
	Long: `Bring workspace formulas up to date with the builtins.

Outdated and never-installed formulas are written, deleted ones are
reinstalled, and user-modified files are skipped. Run health first to
see what would change.`,
	RunE: runFormulasUpdate,
}

var formulasHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Compare workspace formulas against the builtins",
	RunE:  runFormulasHealth,
}

func init() {
	formulasCmd.PersistentFlags().StringVar(&formulasBeadsPath, "beads-path", ".", "Workspace root containing the .beads directory")
	formulasShowCmd.Flags().BoolVar(&formulasShowTOML, "toml", false, "Print canonical TOML instead of the rendered view")
	formulasShowCmd.Flags().BoolVar(&formulasNoPager, "no-pager", false, "Never pipe output to a pager")

	formulasCmd.AddCommand(formulasListCmd)
	formulasCmd.AddCommand(formulasShowCmd)
	formulasCmd.AddCommand(formulasProvisionCmd)
	formulasCmd.AddCommand(formulasUpdateCmd)
	formulasCmd.AddCommand(formulasHealthCmd)
	rootCmd.AddCommand(formulasCmd)
}

const formulasLockTimeout = 5 * time.Second

// lockFormulasDir acquires an exclusive lock guarding the workspace
// formulas directory, so concurrent gw invocations cannot interleave
// writes. The lock file sits next to the directory with a .lock suffix;
// the caller must unlock.
func lockFormulasDir(workspace string) (*flock.Flock, error) {
	lockPath := formula.FormulasDir(workspace) + ".lock"

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(lockPath)
	ctx, cancel := context.WithTimeout(context.Background(), formulasLockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("timeout waiting for formulas lock")
	}

	return lock, nil
}

func runFormulasList(cmd *cobra.Command, args []string) error {
	builtins, err := formula.BuiltinFormulas()
	if err != nil {
		return fmt.Errorf("loading builtin formulas: %w", err)
	}

	tbl := style.NewTable(
		style.Column{Name: "NAME", Width: 16},
		style.Column{Name: "TYPE", Width: 10},
		style.Column{Name: "VARS", Width: 4, Align: style.AlignRight},
		style.Column{Name: "DESCRIPTION", Width: 44},
	)

	for _, name := range sortedFormulaFiles(builtins) {
		f := builtins[name]
		tbl.AddRow(f.Name, string(f.Type), fmt.Sprintf("%d", len(f.Vars)), f.Description)
	}

	fmt.Println()
	fmt.Print(tbl.Render())
	fmt.Printf("\n%d builtin formula(s)\n", len(builtins))
	return nil
}

func runFormulasShow(cmd *cobra.Command, args []string) error {
	f, err := resolveFormula(args[0])
	if err != nil {
		return err
	}

	if formulasShowTOML {
		data, err := f.EncodeTOML()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", f.Name, err)
		}
		fmt.Print(string(data))
		return nil
	}

	rendered := ui.RenderMarkdown(formulaMarkdown(f))
	return ui.ToPager(rendered, ui.PagerOptions{NoPager: formulasNoPager})
}

// resolveFormula finds a formula by name: the workspace copy when one
// exists, the builtin otherwise.
func resolveFormula(name string) (*formula.Formula, error) {
	file := name
	if !strings.HasSuffix(file, ".formula.toml") {
		file += ".formula.toml"
	}

	wsPath := filepath.Join(formula.FormulasDir(formulasBeadsPath), file)
	if _, err := os.Stat(wsPath); err == nil {
		f, err := formula.ParseFile(wsPath)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	builtins, err := formula.BuiltinFormulas()
	if err != nil {
		return nil, fmt.Errorf("loading builtin formulas: %w", err)
	}
	if f, ok := builtins[file]; ok {
		return f, nil
	}

	var names []string
	for _, f := range builtins {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	fmt.Print(style.SuggestionBox(
		fmt.Sprintf("unknown formula %q", name),
		suggest.FindSimilar(name, names, 3),
		"Run 'gw formulas list' to see all builtin formulas."))
	return nil, NewSilentExit(1)
}

// formulaMarkdown builds the readable markdown document for a formula.
func formulaMarkdown(f *formula.Formula) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", f.Name)
	if f.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", f.Description)
	}
	fmt.Fprintf(&sb, "**Type:** %s | **Version:** %d\n\n", f.Type, f.Version)

	if len(f.Vars) > 0 {
		sb.WriteString("## Variables\n\n")
		sb.WriteString("| name | required | default | constraint |\n")
		sb.WriteString("|------|----------|---------|------------|\n")
		for _, name := range sortedVarNames(f.Vars) {
			v := f.Vars[name]
			req := "no"
			if v.Required {
				req = "yes"
			}
			def := "-"
			if v.Default != nil {
				def = "`" + *v.Default + "`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", name, req, def, varConstraint(v))
		}
		sb.WriteString("\n")
	}

	switch f.Type {
	case formula.TypeWorkflow:
		sb.WriteString("## Steps\n\n")
		for _, s := range f.Steps {
			fmt.Fprintf(&sb, "- **%s**", s.ID)
			if s.Title != "" {
				fmt.Fprintf(&sb, " %s", s.Title)
			}
			if len(s.Needs) > 0 {
				fmt.Fprintf(&sb, " _(needs: %s)_", strings.Join(s.Needs, ", "))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	case formula.TypeConvoy:
		sb.WriteString("## Legs\n\n")
		for _, l := range f.Legs {
			fmt.Fprintf(&sb, "- **%s**", l.ID)
			if l.Title != "" {
				fmt.Fprintf(&sb, " %s", l.Title)
			}
			if l.Order != nil {
				fmt.Fprintf(&sb, " _(wave %d)_", *l.Order)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if f.Synthesis != nil {
		sb.WriteString("## Synthesis\n\n")
		fmt.Fprintf(&sb, "Strategy `%s`", f.Synthesis.Strategy)
		if f.Synthesis.Format != "" {
			fmt.Fprintf(&sb, ", format `%s`", f.Synthesis.Format)
		}
		sb.WriteString(".\n")
		if f.Synthesis.Description != "" {
			fmt.Fprintf(&sb, "\n%s\n", f.Synthesis.Description)
		}
	}

	return sb.String()
}

func runFormulasProvision(cmd *cobra.Command, args []string) error {
	lock, err := lockFormulasDir(formulasBeadsPath)
	if err != nil {
		return fmt.Errorf("locking formulas directory: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	count, err := formula.ProvisionFormulas(formulasBeadsPath)
	if err != nil {
		return fmt.Errorf("provisioning formulas: %w", err)
	}

	dir := formula.FormulasDir(formulasBeadsPath)
	if count == 0 {
		fmt.Printf("%s All builtin formulas already present in %s\n", ui.RenderPassIcon(), dir)
		return nil
	}
	fmt.Printf("%s Installed %d formula(s) to %s\n", ui.RenderPassIcon(), count, dir)
	return nil
}

func runFormulasUpdate(cmd *cobra.Command, args []string) error {
	lock, err := lockFormulasDir(formulasBeadsPath)
	if err != nil {
		return fmt.Errorf("locking formulas directory: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	updated, skipped, reinstalled, err := formula.UpdateFormulas(formulasBeadsPath)
	if err != nil {
		return fmt.Errorf("updating formulas: %w", err)
	}

	if updated == 0 && skipped == 0 && reinstalled == 0 {
		fmt.Printf("%s Everything up to date\n", ui.RenderPassIcon())
		return nil
	}
	if updated > 0 {
		fmt.Printf("%s Updated %d formula(s)\n", ui.RenderPassIcon(), updated)
	}
	if reinstalled > 0 {
		fmt.Printf("%s Reinstalled %d deleted formula(s)\n", ui.RenderPassIcon(), reinstalled)
	}
	if skipped > 0 {
		style.PrintWarning("Skipped %d user-modified formula(s)", skipped)
	}
	return nil
}

func runFormulasHealth(cmd *cobra.Command, args []string) error {
	report, err := formula.CheckFormulaHealth(formulasBeadsPath)
	if err != nil {
		return fmt.Errorf("checking formula health: %w", err)
	}

	fmt.Println()
	for _, status := range report.Formulas {
		name := strings.TrimSuffix(status.Name, ".formula.toml")
		fmt.Printf("  %s %-16s %s\n",
			ui.RenderStateIcon(string(status.State)), name, stateNote(status.State))
	}

	fmt.Println()
	var parts []string
	for _, state := range []formula.FormulaState{
		formula.StateOK, formula.StateOutdated, formula.StateModified,
		formula.StateMissing, formula.StateNew, formula.StateUntracked,
	} {
		if n := report.Counts[state]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, state))
		}
	}
	fmt.Printf("  %s\n", strings.Join(parts, ", "))

	stale := report.Counts[formula.StateOutdated] + report.Counts[formula.StateMissing] +
		report.Counts[formula.StateNew] + report.Counts[formula.StateUntracked]
	if stale > 0 {
		fmt.Println()
		style.PrintWarning("%d formula(s) out of sync with the builtins", stale)
		fmt.Printf("  Run 'gw formulas update' to refresh them. %s\n",
			style.Dim.Render("User-modified formulas are never overwritten."))
	}
	return nil
}

// stateNote is the one-line explanation shown next to each health state.
func stateNote(state formula.FormulaState) string {
	switch state {
	case formula.StateOK:
		return ui.RenderMuted("up to date")
	case formula.StateOutdated:
		return ui.RenderWarn("builtin has a newer version")
	case formula.StateModified:
		return ui.RenderAccent("locally modified, will not be touched")
	case formula.StateMissing:
		return ui.RenderFail("installed copy deleted")
	case formula.StateNew:
		return ui.RenderMuted("not installed yet")
	case formula.StateUntracked:
		return ui.RenderWarn("present without an install record")
	default:
		return ""
	}
}

func sortedFormulaFiles(m map[string]*formula.Formula) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
