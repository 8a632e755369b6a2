// Package formula parses, validates, and cooks TOML-based work templates.
//
// # Overview
//
// A formula is a declarative description of repeatable work. The package
// takes formula text through the first two stages of the compilation
// pipeline: parsing (text to Formula) and cooking (Formula plus variable
// bindings to CookedFormula). The molecule package compiles the cooked
// result into an executable dependency graph.
//
// Four formula types are supported, each with its own execution shape:
//
//   - convoy: parallel legs, optionally sequenced into waves by order
//   - workflow: sequential steps with explicit needs dependencies
//   - expansion: template expansion resolved by a synthesis strategy
//   - aspect: multi-aspect analysis resolved by a synthesis strategy
//
// # Quick Start
//
// Parse a formula file, cook it with bindings, and plan execution:
//
//	f, err := formula.ParseFile("deploy.formula.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cooked, err := formula.Cook(f, map[string]string{"env": "prod"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Get topologically sorted execution order
//	order, err := cooked.TopologicalSort()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Execute steps, tracking completion
//	completed := make(map[string]bool)
//	for len(completed) < len(order) {
//	    ready := cooked.ReadySteps(completed)
//	    // Execute ready steps in parallel...
//	    for _, id := range ready {
//	        completed[id] = true
//	    }
//	}
//
// # Variables and Cooking
//
// Formulas declare variables under [vars]; template-bearing fields
// reference them as {{name}}:
//
//	formula = "deploy"
//	description = "Deploy {{service}} to {{env}}"
//	type = "workflow"
//
//	[vars.env]
//	description = "Target environment"
//	required = true
//	enum = ["dev", "staging", "prod"]
//
//	[vars.service]
//	default = "api"
//	pattern = "[a-z][a-z0-9-]*"
//
//	[[steps]]
//	id = "build"
//	title = "Build {{service}}"
//
//	[[steps]]
//	id = "ship"
//	title = "Ship to {{env}}"
//	needs = ["build"]
//
// Cook resolves each declared variable (binding, then default, then empty),
// enforces pattern and enum constraints on caller-supplied values, and
// substitutes references in a single non-recursive pass. The result is an
// independent CookedFormula; the source Formula is never modified.
//
// # Validation
//
// Parse enforces the schema: a known type tag, non-empty name and
// description, a non-negative version (default 1), non-empty enums,
// unique non-empty step and leg ids, and no step needing itself.
// References to other steps are not resolved at parse time; dangling
// needs and dependency cycles surface when the molecule is compiled.
//
// # Errors
//
// Parse failures are *ParseError (syntax or schema), cook failures are
// *CookError (missing required var, pattern mismatch, invalid enum value,
// unknown variable reference). Both families support errors.As.
//
// # Embedded Formulas
//
// The package embeds a builtin formula library that can be provisioned
// into a workspace. ProvisionFormulas performs initial setup,
// UpdateFormulas applies safe updates, and CheckFormulaHealth reports
// drift between builtin, installed, and on-disk copies.
//
// # Thread Safety
//
// Formula values are safe for concurrent read access after parsing, and
// every operation in this package is a pure function of its inputs.
// CookBatch cooks independent formulas concurrently; each result slot is
// index-aligned with its input.
package formula
