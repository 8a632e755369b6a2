package molecule

import "sort"

// Tiers groups bead ids by execution wave: tier 0 holds beads with no
// predecessors, and every bead's needs live in strictly earlier tiers.
// Ids within a tier are sorted. Beads in the same tier may run in
// parallel.
func (m *Molecule) Tiers() [][]string {
	indegree := make(map[string]int, len(m.Beads))
	dependents := make(map[string][]string, len(m.Beads))
	for _, b := range m.Beads {
		indegree[b.ID] = len(b.Needs)
		for _, need := range b.Needs {
			dependents[need] = append(dependents[need], b.ID)
		}
	}

	var tiers [][]string
	remaining := len(m.Beads)
	for remaining > 0 {
		var tier []string
		for _, b := range m.Beads {
			if deg, ok := indegree[b.ID]; ok && deg == 0 {
				tier = append(tier, b.ID)
			}
		}
		if len(tier) == 0 {
			break // beads come pre-validated, but never spin
		}
		sort.Strings(tier)
		tiers = append(tiers, tier)

		for _, id := range tier {
			delete(indegree, id)
			remaining--
			for _, dep := range dependents[id] {
				if _, ok := indegree[dep]; ok {
					indegree[dep]--
				}
			}
		}
	}
	return tiers
}

// CriticalPath returns the longest dependency chain through the
// molecule, the lower bound on sequential execution. Ties resolve to
// the path through the smallest ids.
func (m *Molecule) CriticalPath() []string {
	dependents := make(map[string][]string, len(m.Beads))
	for _, b := range m.Beads {
		for _, need := range b.Needs {
			dependents[need] = append(dependents[need], b.ID)
		}
	}
	for _, deps := range dependents {
		sort.Strings(deps)
	}

	memo := make(map[string][]string, len(m.Beads))
	var longestFrom func(id string) []string
	longestFrom = func(id string) []string {
		if path, ok := memo[id]; ok {
			return path
		}
		var suffix []string
		for _, dep := range dependents[id] {
			if candidate := longestFrom(dep); len(candidate) > len(suffix) {
				suffix = candidate
			}
		}
		path := append([]string{id}, suffix...)
		memo[id] = path
		return path
	}

	var roots []string
	for _, b := range m.Beads {
		if len(b.Needs) == 0 {
			roots = append(roots, b.ID)
		}
	}
	sort.Strings(roots)

	var critical []string
	for _, id := range roots {
		if path := longestFrom(id); len(path) > len(critical) {
			critical = path
		}
	}
	return critical
}
