package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/steveyegge/gasworks/formula"
	"github.com/steveyegge/gasworks/internal/ui"
)

var (
	cookVarFlags []string
	cookVarsFile string
	cookOut      string
	cookManifest string
)

var cookCmd = &cobra.Command{
	Use:     "cook [file]",
	GroupID: GroupFormula,
	Short:   "Bind variables and produce a cooked formula",
	Long: `Cook a formula: resolve every declared variable, validate supplied
values against patterns and enums, and substitute {{var}} references.

The result is the cooked formula as JSON, written to stdout or --out.
Variables come from repeated --var flags and/or a --vars-file JSON
object; --var wins when both supply the same name.

Batch mode cooks many formulas in one call. The manifest is a JSON
array of {"formula": <path>, "vars": {...}} entries; results come back
in the same order, and one entry's failure never disturbs the others.

Examples:
  gw cook deploy.formula.toml --var env=prod
  gw cook deploy.formula.toml --var env=prod --var service=web
  gw cook deploy.formula.toml --vars-file prod.json --out cooked.json
  gw cook --batch manifest.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCook,
}

func init() {
	cookCmd.Flags().StringArrayVar(&cookVarFlags, "var", nil, "Variable binding name=value (repeatable)")
	cookCmd.Flags().StringVar(&cookVarsFile, "vars-file", "", "JSON file with variable bindings")
	cookCmd.Flags().StringVar(&cookOut, "out", "", "Write output to file instead of stdout")
	cookCmd.Flags().StringVar(&cookManifest, "batch", "", "Cook a JSON manifest of formulas")
	rootCmd.AddCommand(cookCmd)
}

func runCook(cmd *cobra.Command, args []string) error {
	if cookManifest != "" {
		if len(args) > 0 {
			return fmt.Errorf("--batch takes no file argument")
		}
		return runCookBatch(cookManifest)
	}
	if len(args) == 0 {
		return fmt.Errorf("formula file required (or use --batch)")
	}

	bindings, err := collectBindings(cookVarsFile, cookVarFlags)
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

	return writeJSON(cooked, cookOut)
}

// batchEntry is one line of a --batch manifest.
type batchEntry struct {
	Formula string            `json:"formula"`
	Vars    map[string]string `json:"vars,omitempty"`
}

// batchSlot is one result slot, index-aligned with the manifest.
type batchSlot struct {
	Formula string                 `json:"formula"`
	Cooked  *formula.CookedFormula `json:"cooked,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// batchOutput is the envelope printed by batch mode.
type batchOutput struct {
	Run     string      `json:"run"`
	Cooked  int         `json:"cooked"`
	Failed  int         `json:"failed"`
	Results []batchSlot `json:"results"`
}

func runCookBatch(manifestPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	var entries []batchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("manifest is empty")
	}

	// Parse every formula up front. A file that fails to parse keeps
	// its slot; the error lands there instead of aborting the batch.
	formulas := make([]*formula.Formula, len(entries))
	bindingsList := make([]map[string]string, len(entries))
	parseErrs := make([]error, len(entries))
	for i, e := range entries {
		bindingsList[i] = e.Vars
		f, err := formula.ParseFile(e.Formula)
		if err != nil {
			parseErrs[i] = err
			continue
		}
		formulas[i] = f
	}

	results := formula.CookBatch(formulas, bindingsList)

	out := batchOutput{
		Run:     uuid.New().String()[:8],
		Results: make([]batchSlot, len(entries)),
	}
	for i, r := range results {
		slot := batchSlot{Formula: entries[i].Formula}
		switch {
		case parseErrs[i] != nil:
			slot.Error = parseErrs[i].Error()
		case r.Err != nil:
			slot.Error = r.Err.Error()
		default:
			slot.Cooked = r.Cooked
		}
		if slot.Error != "" {
			out.Failed++
		} else {
			out.Cooked++
		}
		out.Results[i] = slot
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	// Summary goes to stderr so stdout stays pipeable JSON.
	summary := fmt.Sprintf("batch %s: %d cooked, %d failed", out.Run, out.Cooked, out.Failed)
	if out.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderWarnIcon(), summary)
		return NewSilentExit(1)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderPassIcon(), summary)
	return nil
}

// collectBindings merges a --vars-file JSON object with --var flags.
// Flags win on conflict.
func collectBindings(varsFile string, varFlags []string) (map[string]string, error) {
	bindings := make(map[string]string)

	if varsFile != "" {
		data, err := os.ReadFile(varsFile)
		if err != nil {
			return nil, fmt.Errorf("reading vars file: %w", err)
		}
		if err := json.Unmarshal(data, &bindings); err != nil {
			return nil, fmt.Errorf("parsing vars file: %w", err)
		}
	}

	for _, pair := range varFlags {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q (expected name=value)", pair)
		}
		bindings[name] = value
	}

	return bindings, nil
}

// writeJSON writes v as indented JSON to path, or stdout when path is
// empty.
func writeJSON(v interface{}, path string) error {
	if path == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
