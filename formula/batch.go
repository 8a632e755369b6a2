package formula

import (
	"fmt"
	"runtime"
	"sync"
)

// BatchResult is one slot of a CookBatch call. Exactly one of Cooked
// and Err is set.
type BatchResult struct {
	Cooked *CookedFormula
	Err    error
}

// CookBatch cooks each formula with its index-aligned bindings map.
// Results always line up 1:1 with the inputs: slot i holds the outcome
// for formulas[i], and one item's failure never disturbs its siblings.
// A bindings list shorter than the formula list is padded with empty
// bindings.
//
// Items are independent, so the batch fans out across a bounded set of
// workers; each worker writes only its own result slots.
func CookBatch(formulas []*Formula, bindingsList []map[string]string) []BatchResult {
	results := make([]BatchResult, len(formulas))
	if len(formulas) == 0 {
		return results
	}

	workers := runtime.NumCPU()
	if workers > len(formulas) {
		workers = len(formulas)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = cookOne(formulas[i], bindings(bindingsList, i))
			}
		}()
	}
	for i := range formulas {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func cookOne(f *Formula, b map[string]string) BatchResult {
	if f == nil {
		return BatchResult{Err: fmt.Errorf("nil formula")}
	}
	cooked, err := Cook(f, b)
	if err != nil {
		return BatchResult{Err: err}
	}
	return BatchResult{Cooked: cooked}
}

func bindings(list []map[string]string, i int) map[string]string {
	if i < len(list) {
		return list[i]
	}
	return nil
}
