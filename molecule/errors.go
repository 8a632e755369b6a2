package molecule

import (
	"fmt"
	"strings"
)

// GraphErrorKind discriminates dependency graph defects.
type GraphErrorKind string

const (
	// CycleDetected: the needs graph contains a dependency cycle.
	CycleDetected GraphErrorKind = "cycle"
	// DanglingReference: a need names an id with no bead.
	DanglingReference GraphErrorKind = "dangling"
)

// GraphError reports a formula whose dependency graph cannot compile.
type GraphError struct {
	Kind GraphErrorKind
	Bead string   // bead holding the dangling need
	ID   string   // the missing id (DanglingReference)
	IDs  []string // ids on the cycle, sorted (CycleDetected)
}

func (e *GraphError) Error() string {
	switch e.Kind {
	case CycleDetected:
		return fmt.Sprintf("dependency cycle involving %s", strings.Join(e.IDs, ", "))
	case DanglingReference:
		return fmt.Sprintf("bead %q needs unknown bead %q", e.Bead, e.ID)
	}
	return "dependency graph error"
}
