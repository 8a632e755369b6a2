package formula

import (
	"fmt"
	"sort"
)

// TopologicalSort returns step ids in dependency order: dependencies
// before dependents, ties broken by the lexicographically smallest
// ready id. Convoy legs come back wave by wave, unordered legs first in
// declaration order, then ascending order value. Expansion and aspect
// formulas have no steps and return nil.
func (f *Formula) TopologicalSort() ([]string, error) {
	switch f.Type {
	case TypeWorkflow:
		return sortSteps(f.Steps)
	case TypeConvoy:
		return sortLegs(f.Legs), nil
	default:
		return nil, nil
	}
}

// ReadySteps returns the ids whose prerequisites are all completed and
// that are not themselves completed, in declaration order. Workflow
// steps wait on their needs; convoy legs wait on the previous order
// wave, with unordered legs always ready. A need naming an unknown id
// never completes, so the step never becomes ready.
func (f *Formula) ReadySteps(completed map[string]bool) []string {
	var ready []string
	switch f.Type {
	case TypeWorkflow:
		for _, s := range f.Steps {
			if completed[s.ID] {
				continue
			}
			blocked := false
			for _, need := range s.Needs {
				if !completed[need] {
					blocked = true
					break
				}
			}
			if !blocked {
				ready = append(ready, s.ID)
			}
		}
	case TypeConvoy:
		preds := legPredecessors(f.Legs)
		for _, l := range f.Legs {
			if completed[l.ID] {
				continue
			}
			blocked := false
			for _, pred := range preds[l.ID] {
				if !completed[pred] {
					blocked = true
					break
				}
			}
			if !blocked {
				ready = append(ready, l.ID)
			}
		}
	}
	return ready
}

// sortSteps runs Kahn's algorithm over the needs graph with a sorted
// ready queue.
func sortSteps(steps []Step) ([]string, error) {
	ids := make(map[string]bool, len(steps))
	for _, s := range steps {
		ids[s.ID] = true
	}

	indegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string, len(steps))
	for _, s := range steps {
		for _, need := range s.Needs {
			if !ids[need] {
				return nil, fmt.Errorf("step %q needs unknown step %q", s.ID, need)
			}
			indegree[s.ID]++
			dependents[need] = append(dependents[need], s.ID)
		}
	}

	var ready []string
	for _, s := range steps {
		if indegree[s.ID] == 0 {
			ready = append(ready, s.ID)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(steps))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		sort.Strings(ready)
	}

	if len(order) != len(steps) {
		// Every unplaced step sits on or behind a cycle.
		placed := make(map[string]bool, len(order))
		for _, id := range order {
			placed[id] = true
		}
		var stuck []string
		for _, s := range steps {
			if !placed[s.ID] {
				stuck = append(stuck, s.ID)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("cycle detected involving step %q", stuck[0])
	}
	return order, nil
}

// sortLegs flattens legs wave by wave. Unordered legs lead in
// declaration order; ordered legs follow by ascending order value,
// declaration order within a wave.
func sortLegs(legs []Leg) []string {
	var ids []string
	for _, l := range legs {
		if l.Order == nil {
			ids = append(ids, l.ID)
		}
	}

	ordered := make([]Leg, 0, len(legs))
	for _, l := range legs {
		if l.Order != nil {
			ordered = append(ordered, l)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return *ordered[i].Order < *ordered[j].Order
	})
	for _, l := range ordered {
		ids = append(ids, l.ID)
	}
	return ids
}

// legPredecessors maps each leg id to the ids of the legs at the next
// lower order value present. Unordered legs and legs at the lowest
// order have no predecessors; legs sharing an order value are mutually
// unordered.
func legPredecessors(legs []Leg) map[string][]string {
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
