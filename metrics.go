package gasworks

// EngineVersion is the formula engine contract version reported by
// Metrics.
const EngineVersion = "3.0.0"

// Targets holds the engine's declared per-operation performance
// targets, in milliseconds.
type Targets struct {
	ParseTOML        float64 `json:"parse_toml_ms"`
	CookFormula      float64 `json:"cook_formula_ms"`
	Batch100         float64 `json:"batch_100_ms"`
	GenerateMolecule float64 `json:"generate_molecule_ms"`
}

// EngineMetrics is the static engine descriptor: the contract version,
// declared performance targets, and applied optimizations. The
// descriptor is informational and never load-bearing.
type EngineMetrics struct {
	Version       string   `json:"version"`
	Targets       Targets  `json:"targets"`
	Optimizations []string `json:"optimizations"`
}

// Metrics returns the engine descriptor.
func Metrics() EngineMetrics {
	return EngineMetrics{
		Version: EngineVersion,
		Targets: Targets{
			ParseTOML:        0.1,
			CookFormula:      0.05,
			Batch100:         1.0,
			GenerateMolecule: 0.1,
		},
		Optimizations: []string{
			"precompiled_patterns",
			"single_pass_substitution",
			"parallel_batch",
			"sorted_ready_queue",
		},
	}
}
