package formula

import (
	"errors"
	"fmt"
	"testing"
)

// One bad item must not poison its neighbors: position 1 is missing a
// required var, positions 0 and 2 cook cleanly.
func TestCookBatch_Isolation(t *testing.T) {
	f := mustParse(t, deployFormula)
	formulas := []*Formula{f, f, f}
	bindings := []map[string]string{
		{"env": "dev"},
		nil,
		{"env": "prod"},
	}

	results := CookBatch(formulas, bindings)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	if results[0].Err != nil {
		t.Errorf("results[0].Err = %v, want nil", results[0].Err)
	}
	if results[0].Cooked.CookedVars["env"] != "dev" {
		t.Errorf("results[0] env = %q, want %q", results[0].Cooked.CookedVars["env"], "dev")
	}

	if results[1].Err == nil {
		t.Error("results[1].Err = nil, want missing var error")
	}
	if results[1].Cooked != nil {
		t.Error("results[1].Cooked should be nil on failure")
	}
	var cerr *CookError
	if !errors.As(results[1].Err, &cerr) || cerr.Kind != MissingRequiredVar {
		t.Errorf("results[1].Err = %v, want MissingRequiredVar", results[1].Err)
	}

	if results[2].Err != nil {
		t.Errorf("results[2].Err = %v, want nil", results[2].Err)
	}
	if results[2].Cooked.CookedVars["env"] != "prod" {
		t.Errorf("results[2] env = %q, want %q", results[2].Cooked.CookedVars["env"], "prod")
	}
}

// Results come back in input order regardless of worker scheduling.
func TestCookBatch_PreservesOrder(t *testing.T) {
	const n = 25
	formulas := make([]*Formula, n)
	bindings := make([]map[string]string, n)
	for i := 0; i < n; i++ {
		formulas[i] = mustParse(t, fmt.Sprintf(`
formula = "item-%d"
description = "Item {{n}}"
type = "workflow"

[vars.n]
required = true
`, i))
		bindings[i] = map[string]string{"n": fmt.Sprintf("%d", i)}
	}

	results := CookBatch(formulas, bindings)
	if len(results) != n {
		t.Fatalf("len(results) = %d, want %d", len(results), n)
	}
	for i := 0; i < n; i++ {
		if results[i].Err != nil {
			t.Fatalf("results[%d].Err = %v", i, results[i].Err)
		}
		wantName := fmt.Sprintf("item-%d", i)
		if results[i].Cooked.OriginalName != wantName {
			t.Errorf("results[%d].OriginalName = %q, want %q", i, results[i].Cooked.OriginalName, wantName)
		}
		wantDesc := fmt.Sprintf("Item %d", i)
		if results[i].Cooked.Description != wantDesc {
			t.Errorf("results[%d].Description = %q, want %q", i, results[i].Cooked.Description, wantDesc)
		}
	}
}

// A bindings list shorter than the formulas list pads with nil, which
// still cooks formulas whose vars all have defaults.
func TestCookBatch_ShortBindingsList(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "Mode {{mode}}"
type = "workflow"

[vars.mode]
default = "auto"
`)

	results := CookBatch([]*Formula{f, f}, []map[string]string{{"mode": "manual"}})
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Err != nil || results[1].Err != nil {
		t.Fatalf("errors = %v, %v, want none", results[0].Err, results[1].Err)
	}
	if results[0].Cooked.Description != "Mode manual" {
		t.Errorf("results[0].Description = %q, want %q", results[0].Cooked.Description, "Mode manual")
	}
	if results[1].Cooked.Description != "Mode auto" {
		t.Errorf("results[1].Description = %q, want %q", results[1].Cooked.Description, "Mode auto")
	}
}

func TestCookBatch_Empty(t *testing.T) {
	if results := CookBatch(nil, nil); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestCookBatch_NilFormula(t *testing.T) {
	f := mustParse(t, deployFormula)
	results := CookBatch([]*Formula{f, nil}, []map[string]string{{"env": "dev"}, {"env": "dev"}})

	if results[0].Err != nil {
		t.Errorf("results[0].Err = %v, want nil", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("results[1].Err = nil, want error for nil formula")
	}
}
