// Package gasworks is the Gas Town formula engine: it parses TOML work
// templates ("formulas"), cooks them with variable bindings, and
// compiles the cooked result into molecules (bead dependency graphs)
// for the downstream orchestrator.
//
// The pipeline lives in the formula and molecule packages:
//
//	f, _ := formula.ParseFile("deploy.formula.toml")
//	cooked, _ := formula.Cook(f, map[string]string{"env": "prod"})
//	mol, _ := molecule.Generate(cooked)
//
// This package carries the engine-level metrics descriptor. The gw
// command wraps the pipeline for the command line.
package gasworks
