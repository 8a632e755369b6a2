// Package molecule compiles cooked formulas into executable dependency
// graphs.
//
// A molecule is an ordered sequence of beads: one bead per workflow
// step or convoy leg, or a single synthesis bead for expansion and
// aspect formulas. Bead order is the topological order of the
// predecessor relation with ties broken by the lexicographically
// smallest eligible id, so compiling the same cooked formula always
// produces byte-identical output.
package molecule

import (
	"fmt"
	"sort"

	"github.com/steveyegge/gasworks/formula"
)

// SynthesisBeadID is the id of the single bead compiled from expansion
// and aspect formulas.
const SynthesisBeadID = "synthesis"

// Bead is one unit of executable work. Needs lists the ids that must
// complete before this bead may run.
type Bead struct {
	ID          string             `json:"id"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Needs       []string           `json:"needs,omitempty"`
	Synthesis   *formula.Synthesis `json:"synthesis,omitempty"` // expansion/aspect payload, verbatim
}

// Molecule is the compiled form of a cooked formula: beads in
// execution order.
type Molecule struct {
	Formula string       `json:"formula"`
	Type    formula.Type `json:"type"`
	Beads   []Bead       `json:"beads"`
}

// Generate compiles a cooked formula into a molecule.
//
// Workflow steps become beads with their needs as predecessors; a need
// naming no declared step is a DanglingReference. Convoy legs become
// beads wave by wave: a leg's predecessors are all legs at the next
// lower order value present, legs sharing an order value are mutually
// unordered, and legs without order stand alone. Expansion and aspect
// formulas compile to a single synthesis bead carrying the synthesis
// table verbatim. A cycle in the needs graph is a CycleDetected error.
func Generate(cf *formula.CookedFormula) (*Molecule, error) {
	var beads []Bead
	switch cf.Type {
	case formula.TypeWorkflow:
		var err error
		if beads, err = workflowBeads(cf.Steps); err != nil {
			return nil, err
		}
	case formula.TypeConvoy:
		beads = convoyBeads(cf.Legs)
	case formula.TypeExpansion, formula.TypeAspect:
		beads = []Bead{synthesisBead(cf)}
	default:
		return nil, fmt.Errorf("cannot compile formula type %q", cf.Type)
	}

	ordered, err := orderBeads(beads)
	if err != nil {
		return nil, err
	}
	return &Molecule{Formula: cf.Name, Type: cf.Type, Beads: ordered}, nil
}

// Compile is an alias for Generate.
func Compile(cf *formula.CookedFormula) (*Molecule, error) {
	return Generate(cf)
}

func workflowBeads(steps []formula.Step) ([]Bead, error) {
	ids := make(map[string]bool, len(steps))
	for _, s := range steps {
		ids[s.ID] = true
	}

	beads := make([]Bead, 0, len(steps))
	for _, s := range steps {
		for _, need := range s.Needs {
			if !ids[need] {
				return nil, &GraphError{Kind: DanglingReference, Bead: s.ID, ID: need}
			}
		}
		beads = append(beads, Bead{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Needs:       append([]string(nil), s.Needs...),
		})
	}
	return beads, nil
}

func convoyBeads(legs []formula.Leg) []Bead {
	preds := legPredecessors(legs)
	beads := make([]Bead, 0, len(legs))
	for _, l := range legs {
		desc := l.Description
		if l.Focus != "" {
			if desc == "" {
				desc = l.Focus
			} else {
				desc = l.Focus + "\n\n" + desc
			}
		}
		beads = append(beads, Bead{
			ID:          l.ID,
			Title:       l.Title,
			Description: desc,
			Needs:       append([]string(nil), preds[l.ID]...),
		})
	}
	return beads
}

// legPredecessors maps each leg id to the legs at the next lower order
// value present. Unordered legs and the lowest wave map to nothing.
func legPredecessors(legs []formula.Leg) map[string][]string {
	byOrder := make(map[int][]string)
	var orders []int
	for _, l := range legs {
		if l.Order == nil {
			continue
		}
		if _, seen := byOrder[*l.Order]; !seen {
			orders = append(orders, *l.Order)
		}
		byOrder[*l.Order] = append(byOrder[*l.Order], l.ID)
	}
	sort.Ints(orders)

	prev := make(map[int]int, len(orders))
	for i := 1; i < len(orders); i++ {
		prev[orders[i]] = orders[i-1]
	}

	preds := make(map[string][]string, len(legs))
	for _, l := range legs {
		if l.Order == nil {
			continue
		}
		if prevOrder, ok := prev[*l.Order]; ok {
			preds[l.ID] = byOrder[prevOrder]
		}
	}
	return preds
}

func synthesisBead(cf *formula.CookedFormula) Bead {
	bead := Bead{ID: SynthesisBeadID, Title: "Synthesis"}
	if cf.Synthesis != nil {
		synth := *cf.Synthesis
		bead.Synthesis = &synth
		bead.Description = synth.Description
	}
	return bead
}

// orderBeads arranges beads so every bead follows all of its needs,
// choosing the lexicographically smallest eligible id at each step.
func orderBeads(beads []Bead) ([]Bead, error) {
	byID := make(map[string]Bead, len(beads))
	indegree := make(map[string]int, len(beads))
	dependents := make(map[string][]string, len(beads))
	for _, b := range beads {
		byID[b.ID] = b
		indegree[b.ID] = len(b.Needs)
	}
	for _, b := range beads {
		for _, need := range b.Needs {
			dependents[need] = append(dependents[need], b.ID)
		}
	}

	var ready []string
	for _, b := range beads {
		if indegree[b.ID] == 0 {
			ready = append(ready, b.ID)
		}
	}
	sort.Strings(ready)

	ordered := make([]Bead, 0, len(beads))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byID[id])
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		sort.Strings(ready)
	}

	if len(ordered) != len(beads) {
		return nil, &GraphError{Kind: CycleDetected, IDs: cycleIDs(beads)}
	}
	return ordered, nil
}

// cycleIDs finds one cycle in the needs graph and returns its ids,
// sorted. Only called when a cycle is known to exist.
func cycleIDs(beads []Bead) []string {
	needs := make(map[string][]string, len(beads))
	for _, b := range beads {
		needs[b.ID] = b.Needs
	}

	// Visit states: 0 = unvisited, 1 = on the current path, 2 = done.
	state := make(map[string]int, len(beads))
	var path []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		if state[id] == 2 {
			return false
		}
		if state[id] == 1 {
			// Back edge: the path from the first occurrence is the cycle.
			start := 0
			for i, n := range path {
				if n == id {
					start = i
					break
				}
			}
			cycle = append([]string(nil), path[start:]...)
			return true
		}
		state[id] = 1
		path = append(path, id)
		for _, need := range needs[id] {
			if _, ok := needs[need]; !ok {
				continue
			}
			if dfs(need) {
				return true
			}
		}
		path = path[:len(path)-1]
		state[id] = 2
		return false
	}

	for _, b := range beads {
		if state[b.ID] == 0 && dfs(b.ID) {
			break
		}
	}
	sort.Strings(cycle)
	return cycle
}
