package formula

import "time"

// Type identifies the execution shape of a formula. Compilation branches
// on this tag.
type Type string

// The four formula types.
const (
	TypeConvoy    Type = "convoy"
	TypeWorkflow  Type = "workflow"
	TypeExpansion Type = "expansion"
	TypeAspect    Type = "aspect"
)

// IsValid reports whether t is one of the known formula types.
func (t Type) IsValid() bool {
	switch t {
	case TypeConvoy, TypeWorkflow, TypeExpansion, TypeAspect:
		return true
	}
	return false
}

// String returns the type tag as it appears in formula files.
func (t Type) String() string { return string(t) }

// Var declares a substitution slot that cooking resolves to a concrete
// value. Pattern and enum, when both declared, must both be satisfied by
// any caller-supplied value.
type Var struct {
	// Name mirrors the var's key in the vars table; the parser fills it in.
	Name        string `toml:"name,omitempty" json:"name"`
	Description string `toml:"description,omitempty" json:"description,omitempty"`

	// Default is nil when the var declares no default. An explicit empty
	// string is a usable default.
	Default *string `toml:"default,omitempty" json:"default,omitempty"`

	Required bool     `toml:"required,omitempty" json:"required,omitempty"`
	Pattern  string   `toml:"pattern,omitempty" json:"pattern,omitempty"`
	Enum     []string `toml:"enum,omitempty" json:"enum,omitempty"`
}

// Step is a workflow unit. Needs lists prerequisite step ids; forward
// references are allowed at parse time.
type Step struct {
	ID          string   `toml:"id" json:"id"`
	Title       string   `toml:"title,omitempty" json:"title,omitempty"`
	Description string   `toml:"description,omitempty" json:"description,omitempty"`
	Needs       []string `toml:"needs,omitempty" json:"needs,omitempty"`
	Duration    int      `toml:"duration,omitempty" json:"duration,omitempty"` // estimated minutes
	Requires    []string `toml:"requires,omitempty" json:"requires,omitempty"` // capability tags, opaque to the engine
}

// Leg is a convoy unit. Legs run in parallel; Order sequences them into
// waves when set.
type Leg struct {
	ID          string `toml:"id" json:"id"`
	Title       string `toml:"title,omitempty" json:"title,omitempty"`
	Focus       string `toml:"focus,omitempty" json:"focus,omitempty"`
	Description string `toml:"description,omitempty" json:"description,omitempty"`
	Agent       string `toml:"agent,omitempty" json:"agent,omitempty"`

	// Order is nil for unordered legs: they have no predecessors and gate
	// nothing. Legs sharing an order value run without ordering between them.
	Order *int `toml:"order,omitempty" json:"order,omitempty"`
}

// Synthesis describes how expansion and aspect results are combined. The
// engine carries it verbatim; the strategy is interpreted downstream.
type Synthesis struct {
	Strategy    string `toml:"strategy" json:"strategy"`
	Format      string `toml:"format,omitempty" json:"format,omitempty"`
	Description string `toml:"description,omitempty" json:"description,omitempty"`
}

// Formula is a parsed work template. It is immutable after Parse; a
// single Formula may be cooked any number of times.
type Formula struct {
	Name        string         `toml:"formula" json:"formula"`
	Description string         `toml:"description" json:"description"`
	Type        Type           `toml:"type" json:"type"`
	Version     int            `toml:"version" json:"version"`
	Steps       []Step         `toml:"steps,omitempty" json:"steps,omitempty"`
	Legs        []Leg          `toml:"legs,omitempty" json:"legs,omitempty"`
	Synthesis   *Synthesis     `toml:"synthesis,omitempty" json:"synthesis,omitempty"`
	Vars        map[string]Var `toml:"vars,omitempty" json:"vars,omitempty"`
}

// CookedFormula is a formula with every variable resolved and every
// reference substituted. It is a deep snapshot: cooking never touches
// the source formula.
type CookedFormula struct {
	Formula

	CookedAt     time.Time         `toml:"cooked_at" json:"cooked_at"`
	CookedVars   map[string]string `toml:"cooked_vars" json:"cooked_vars"`
	OriginalName string            `toml:"original_name" json:"original_name"`
}

// clone returns a deep copy of f. Cook substitutes into the copy.
func (f *Formula) clone() *Formula {
	c := *f
	if f.Steps != nil {
		c.Steps = make([]Step, len(f.Steps))
		copy(c.Steps, f.Steps)
		for i := range c.Steps {
			c.Steps[i].Needs = append([]string(nil), f.Steps[i].Needs...)
			c.Steps[i].Requires = append([]string(nil), f.Steps[i].Requires...)
		}
	}
	if f.Legs != nil {
		c.Legs = make([]Leg, len(f.Legs))
		copy(c.Legs, f.Legs)
		for i := range c.Legs {
			if f.Legs[i].Order != nil {
				order := *f.Legs[i].Order
				c.Legs[i].Order = &order
			}
		}
	}
	if f.Synthesis != nil {
		synth := *f.Synthesis
		c.Synthesis = &synth
	}
	if f.Vars != nil {
		c.Vars = make(map[string]Var, len(f.Vars))
		for name, v := range f.Vars {
			if v.Default != nil {
				def := *v.Default
				v.Default = &def
			}
			v.Enum = append([]string(nil), v.Enum...)
			c.Vars[name] = v
		}
	}
	return &c
}
