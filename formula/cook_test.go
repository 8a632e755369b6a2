package formula

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, data string) *Formula {
	t.Helper()
	f, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return f
}

const deployFormula = `
formula = "deploy"
description = "Deploy {{service}} to {{env}}"
type = "workflow"
version = 1

[vars.env]
description = "Target environment"
required = true

[vars.service]
default = "api"

[[steps]]
id = "build"
title = "Build {{service}}"
description = "Compile and package."

[[steps]]
id = "ship"
title = "Ship to {{env}}"
description = "Roll out."
needs = ["build"]
`

func TestCook_Deploy(t *testing.T) {
	f := mustParse(t, deployFormula)

	cooked, err := Cook(f, map[string]string{"env": "prod"})
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}

	if cooked.Description != "Deploy api to prod" {
		t.Errorf("Description = %q, want %q", cooked.Description, "Deploy api to prod")
	}
	if cooked.Steps[0].Title != "Build api" {
		t.Errorf("build title = %q, want %q", cooked.Steps[0].Title, "Build api")
	}
	if cooked.Steps[1].Title != "Ship to prod" {
		t.Errorf("ship title = %q, want %q", cooked.Steps[1].Title, "Ship to prod")
	}
	if cooked.OriginalName != "deploy" {
		t.Errorf("OriginalName = %q, want %q", cooked.OriginalName, "deploy")
	}
	if cooked.CookedAt.IsZero() {
		t.Error("CookedAt is zero")
	}

	wantVars := map[string]string{"env": "prod", "service": "api"}
	if !reflect.DeepEqual(cooked.CookedVars, wantVars) {
		t.Errorf("CookedVars = %v, want %v", cooked.CookedVars, wantVars)
	}
}

func TestCook_MissingRequiredVar(t *testing.T) {
	f := mustParse(t, deployFormula)

	_, err := Cook(f, nil)
	if err == nil {
		t.Fatal("expected error for missing required var")
	}

	var cerr *CookError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %T, want *CookError", err)
	}
	if cerr.Kind != MissingRequiredVar {
		t.Errorf("Kind = %q, want %q", cerr.Kind, MissingRequiredVar)
	}
	if cerr.Var != "env" {
		t.Errorf("Var = %q, want %q", cerr.Var, "env")
	}
}

func TestCook_PatternMismatch(t *testing.T) {
	f := mustParse(t, `
formula = "release"
description = "Release {{version}}"
type = "workflow"

[vars.version]
required = true
pattern = "v[0-9]+\\.[0-9]+\\.[0-9]+"

[[steps]]
id = "tag"
title = "Tag {{version}}"
`)

	_, err := Cook(f, map[string]string{"version": "1.2.3"})
	if err == nil {
		t.Fatal("expected pattern mismatch")
	}

	var cerr *CookError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %T, want *CookError", err)
	}
	if cerr.Kind != PatternMismatch {
		t.Errorf("Kind = %q, want %q", cerr.Kind, PatternMismatch)
	}
	if cerr.Var != "version" || cerr.Value != "1.2.3" {
		t.Errorf("Var = %q, Value = %q, want version, 1.2.3", cerr.Var, cerr.Value)
	}
	if cerr.Pattern == "" {
		t.Error("Pattern should carry the declared pattern")
	}

	// A failed cook leaves the source formula untouched.
	if f.Steps[0].Title != "Tag {{version}}" {
		t.Errorf("source title = %q, want the raw template", f.Steps[0].Title)
	}
}

// Pattern constraints apply to the whole value, not a substring.
func TestCook_PatternFullMatch(t *testing.T) {
	f := mustParse(t, `
formula = "release"
description = "Release"
type = "workflow"

[vars.version]
required = true
pattern = "v[0-9]+"
`)

	if _, err := Cook(f, map[string]string{"version": "xv1y"}); err == nil {
		t.Error("expected mismatch for partial match")
	}
	if _, err := Cook(f, map[string]string{"version": "v42"}); err != nil {
		t.Errorf("Cook failed for full match: %v", err)
	}
}

func TestCook_InvalidEnumValue(t *testing.T) {
	f := mustParse(t, `
formula = "deploy"
description = "Deploy to {{env}}"
type = "workflow"

[vars.env]
required = true
enum = ["dev", "staging", "prod"]
`)

	_, err := Cook(f, map[string]string{"env": "production"})
	if err == nil {
		t.Fatal("expected enum error")
	}

	var cerr *CookError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %T, want *CookError", err)
	}
	if cerr.Kind != InvalidEnumValue {
		t.Errorf("Kind = %q, want %q", cerr.Kind, InvalidEnumValue)
	}
	if len(cerr.Allowed) != 3 {
		t.Errorf("Allowed = %v, want the declared enum", cerr.Allowed)
	}
}

// When a var declares both pattern and enum, a supplied value must
// satisfy both.
func TestCook_PatternAndEnum(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "d"
type = "workflow"

[vars.env]
required = true
pattern = "[a-z]+"
enum = ["dev", "prod", "QA"]
`)

	// In the enum but fails the pattern.
	if _, err := Cook(f, map[string]string{"env": "QA"}); err == nil {
		t.Error("expected pattern mismatch for QA")
	}
	// Matches the pattern but outside the enum.
	if _, err := Cook(f, map[string]string{"env": "staging"}); err == nil {
		t.Error("expected enum error for staging")
	}
	if _, err := Cook(f, map[string]string{"env": "prod"}); err != nil {
		t.Errorf("Cook failed for value satisfying both: %v", err)
	}
}

// Defaults are the formula author's responsibility: they are not
// validated against pattern or enum.
func TestCook_DefaultNotValidated(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "Value is {{mode}}"
type = "workflow"

[vars.mode]
default = "UNSET"
pattern = "[a-z]+"
enum = ["fast", "slow"]
`)

	cooked, err := Cook(f, nil)
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	if cooked.CookedVars["mode"] != "UNSET" {
		t.Errorf("CookedVars[mode] = %q, want %q", cooked.CookedVars["mode"], "UNSET")
	}
	if cooked.Description != "Value is UNSET" {
		t.Errorf("Description = %q, want %q", cooked.Description, "Value is UNSET")
	}

	// The same value supplied by the caller is rejected.
	if _, err := Cook(f, map[string]string{"mode": "UNSET"}); err == nil {
		t.Error("expected error for supplied value violating constraints")
	}
}

func TestCook_UnknownVariableReference(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "References {{nowhere}}"
type = "workflow"
`)

	_, err := Cook(f, nil)
	if err == nil {
		t.Fatal("expected unknown reference error")
	}

	var cerr *CookError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %T, want *CookError", err)
	}
	if cerr.Kind != UnknownVariableReference {
		t.Errorf("Kind = %q, want %q", cerr.Kind, UnknownVariableReference)
	}
	if cerr.Var != "nowhere" {
		t.Errorf("Var = %q, want %q", cerr.Var, "nowhere")
	}
	if !strings.Contains(cerr.Field, "description") {
		t.Errorf("Field = %q, want a description reference", cerr.Field)
	}
}

// A binding for an undeclared name is ignored: it cannot be referenced.
func TestCook_ExtraBindingsIgnored(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "Plain"
type = "workflow"

[vars.known]
default = "k"
`)

	cooked, err := Cook(f, map[string]string{"known": "yes", "unknown": "ignored"})
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	if _, ok := cooked.CookedVars["unknown"]; ok {
		t.Error("undeclared binding leaked into CookedVars")
	}
	if cooked.CookedVars["known"] != "yes" {
		t.Errorf("CookedVars[known] = %q, want %q", cooked.CookedVars["known"], "yes")
	}
}

// Optional vars with no binding and no default resolve to empty.
func TestCook_OptionalResolvesEmpty(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "Note: {{note}}"
type = "workflow"

[vars.note]
description = "Optional note"
`)

	cooked, err := Cook(f, nil)
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	value, ok := cooked.CookedVars["note"]
	if !ok {
		t.Fatal("note missing from CookedVars")
	}
	if value != "" {
		t.Errorf("CookedVars[note] = %q, want empty", value)
	}
	if cooked.Description != "Note: " {
		t.Errorf("Description = %q, want %q", cooked.Description, "Note: ")
	}
}

// An explicit empty-string default is a usable value, distinct from no
// default at all.
func TestCook_EmptyStringDefault(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "d"
type = "workflow"

[vars.suffix]
default = ""
required = true
`)

	cooked, err := Cook(f, nil)
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	if v, ok := cooked.CookedVars["suffix"]; !ok || v != "" {
		t.Errorf("CookedVars[suffix] = %q (present %v), want empty string", v, ok)
	}
}

// Substitution is single-pass: substituted values are never re-scanned.
func TestCook_SubstitutionSinglePass(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "Value: {{outer}}"
type = "workflow"

[vars.outer]
default = "{{inner}}"

[vars.inner]
default = "should-not-appear"
`)

	cooked, err := Cook(f, nil)
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	if cooked.Description != "Value: {{inner}}" {
		t.Errorf("Description = %q, want the un-rescanned %q", cooked.Description, "Value: {{inner}}")
	}
}

func TestCook_LegAndSynthesisFields(t *testing.T) {
	f := mustParse(t, `
formula = "audit"
description = "Audit {{target}}"
type = "convoy"

[vars.target]
required = true

[[legs]]
id = "scan"
title = "Scan {{target}}"
focus = "Surface of {{target}}"
description = "Sweep {{target}} for problems"
`)

	cooked, err := Cook(f, map[string]string{"target": "vault"})
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	leg := cooked.Legs[0]
	if leg.Title != "Scan vault" {
		t.Errorf("Title = %q, want %q", leg.Title, "Scan vault")
	}
	if leg.Focus != "Surface of vault" {
		t.Errorf("Focus = %q, want %q", leg.Focus, "Surface of vault")
	}
	if leg.Description != "Sweep vault for problems" {
		t.Errorf("Description = %q, want %q", leg.Description, "Sweep vault for problems")
	}

	synth := mustParse(t, `
formula = "dive"
description = "Dive into {{topic}}"
type = "expansion"

[vars.topic]
required = true

[synthesis]
strategy = "merge"
description = "Merge findings on {{topic}}"
`)
	cookedSynth, err := Cook(synth, map[string]string{"topic": "latency"})
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	if cookedSynth.Synthesis.Description != "Merge findings on latency" {
		t.Errorf("Synthesis.Description = %q, want %q",
			cookedSynth.Synthesis.Description, "Merge findings on latency")
	}
}

// Cooking twice with identical inputs yields identical results apart
// from the timestamp.
func TestCook_Idempotent(t *testing.T) {
	f := mustParse(t, deployFormula)
	bindings := map[string]string{"env": "staging"}

	first, err := Cook(f, bindings)
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}
	second, err := Cook(f, bindings)
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}

	if !reflect.DeepEqual(first.CookedVars, second.CookedVars) {
		t.Errorf("CookedVars differ: %v vs %v", first.CookedVars, second.CookedVars)
	}
	if !reflect.DeepEqual(first.Formula, second.Formula) {
		t.Error("substituted formulas differ between identical cooks")
	}
}

// Cooking must deep-copy: mutating the cooked result cannot reach the
// source formula.
func TestCook_SourceIsolation(t *testing.T) {
	f := mustParse(t, `
formula = "f"
description = "d"
type = "convoy"

[vars.v]
default = "x"

[[legs]]
id = "a"
title = "A"
order = 1
`)

	cooked, err := Cook(f, nil)
	if err != nil {
		t.Fatalf("Cook failed: %v", err)
	}

	cooked.Legs[0].Title = "mutated"
	*cooked.Legs[0].Order = 99
	v := cooked.Vars["v"]
	*v.Default = "mutated"

	if f.Legs[0].Title != "A" {
		t.Errorf("source leg title = %q, want %q", f.Legs[0].Title, "A")
	}
	if *f.Legs[0].Order != 1 {
		t.Errorf("source leg order = %d, want 1", *f.Legs[0].Order)
	}
	if *f.Vars["v"].Default != "x" {
		t.Errorf("source default = %q, want %q", *f.Vars["v"].Default, "x")
	}
}
