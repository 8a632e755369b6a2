package gasworks

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMetrics(t *testing.T) {
	m := Metrics()

	if m.Version != EngineVersion {
		t.Errorf("Version = %q, want %q", m.Version, EngineVersion)
	}
	if m.Targets.ParseTOML <= 0 || m.Targets.CookFormula <= 0 ||
		m.Targets.Batch100 <= 0 || m.Targets.GenerateMolecule <= 0 {
		t.Errorf("Targets = %+v, want all positive", m.Targets)
	}
	if len(m.Optimizations) == 0 {
		t.Error("Optimizations is empty")
	}
}

// The descriptor's wire shape is part of the contract.
func TestMetrics_JSONKeys(t *testing.T) {
	data, err := json.Marshal(Metrics())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, key := range []string{
		`"version"`,
		`"targets"`,
		`"optimizations"`,
		`"parse_toml_ms"`,
		`"cook_formula_ms"`,
		`"batch_100_ms"`,
		`"generate_molecule_ms"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("marshaled metrics missing %s:\n%s", key, data)
		}
	}
}
