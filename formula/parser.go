package formula

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// typeLineRegex matches a top-level `type = "..."` assignment, with an
// optional trailing comment.
var typeLineRegex = regexp.MustCompile(`^\s*type\s*=\s*"([a-z]+)"\s*(?:#.*)?$`)

// Parse decodes TOML formula content and validates it against the
// formula schema. Syntax failures and schema violations are both
// returned as *ParseError.
func Parse(data []byte) (*Formula, error) {
	var f Formula
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, &ParseError{Kind: SyntaxError, Err: err}
	}

	// An absent version defaults to 1; an explicit version = 0 stands.
	if !md.IsDefined("version") {
		f.Version = 1
	}

	// The map key is the variable's name.
	for name, v := range f.Vars {
		v.Name = name
		f.Vars[name] = v
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseFile reads and parses a formula file.
func ParseFile(path string) (*Formula, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading formula: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Validate reports whether data is a well-formed formula document. It
// runs the same checks as Parse without returning the parsed result.
func Validate(data []byte) bool {
	_, err := Parse(data)
	return err == nil
}

// DetectType extracts the formula type without a full parse when
// possible. The fast path scans for a top-level `type = "..."`
// assignment before the first table header; anything trickier falls
// back to Parse.
func DetectType(data []byte) (Type, error) {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			break // first table header: type is no longer top-level
		}
		m := typeLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		t := Type(m[1])
		if !t.IsValid() {
			return "", &ParseError{
				Kind:   SchemaError,
				Field:  "type",
				Reason: fmt.Sprintf("unknown formula type %q", m[1]),
			}
		}
		return t, nil
	}

	f, err := Parse(data)
	if err != nil {
		return "", err
	}
	return f.Type, nil
}

// validate enforces the formula schema. Dependency references are not
// resolved here: dangling needs and cycles are molecule compile errors,
// not parse errors.
func (f *Formula) validate() error {
	if f.Name == "" {
		return &ParseError{Kind: SchemaError, Field: "formula", Reason: "formula name is required"}
	}
	if f.Description == "" {
		return &ParseError{Kind: SchemaError, Field: "description", Reason: "description is required"}
	}
	if f.Type == "" {
		return &ParseError{Kind: SchemaError, Field: "type", Reason: "type is required"}
	}
	if !f.Type.IsValid() {
		return &ParseError{
			Kind:   SchemaError,
			Field:  "type",
			Reason: fmt.Sprintf("unknown formula type %q (want convoy, workflow, expansion, or aspect)", string(f.Type)),
		}
	}
	if f.Version < 0 {
		return &ParseError{
			Kind:   SchemaError,
			Field:  "version",
			Reason: fmt.Sprintf("version must be non-negative, got %d", f.Version),
		}
	}

	if err := f.validateVars(); err != nil {
		return err
	}

	stepIDs := make(map[string]bool, len(f.Steps))
	for i, s := range f.Steps {
		if s.ID == "" {
			return &ParseError{
				Kind:   SchemaError,
				Field:  fmt.Sprintf("steps[%d].id", i),
				Reason: "step id must not be empty",
			}
		}
		if stepIDs[s.ID] {
			return &ParseError{
				Kind:   SchemaError,
				Field:  fmt.Sprintf("steps[%d].id", i),
				Reason: fmt.Sprintf("duplicate step id %q", s.ID),
			}
		}
		stepIDs[s.ID] = true
		for _, need := range s.Needs {
			if need == s.ID {
				return &ParseError{
					Kind:   SchemaError,
					Field:  fmt.Sprintf("steps[%d].needs", i),
					Reason: fmt.Sprintf("step %q needs itself", s.ID),
				}
			}
		}
	}

	legIDs := make(map[string]bool, len(f.Legs))
	for i, l := range f.Legs {
		if l.ID == "" {
			return &ParseError{
				Kind:   SchemaError,
				Field:  fmt.Sprintf("legs[%d].id", i),
				Reason: "leg id must not be empty",
			}
		}
		if legIDs[l.ID] {
			return &ParseError{
				Kind:   SchemaError,
				Field:  fmt.Sprintf("legs[%d].id", i),
				Reason: fmt.Sprintf("duplicate leg id %q", l.ID),
			}
		}
		legIDs[l.ID] = true
	}

	if f.Synthesis != nil && f.Synthesis.Strategy == "" {
		return &ParseError{
			Kind:   SchemaError,
			Field:  "synthesis.strategy",
			Reason: "strategy is required",
		}
	}

	return nil
}

// validateVars checks declared variables in name order so the reported
// violation is deterministic.
func (f *Formula) validateVars() error {
	names := make([]string, 0, len(f.Vars))
	for name := range f.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := f.Vars[name]
		if name == "" {
			return &ParseError{Kind: SchemaError, Field: "vars", Reason: "variable name must not be empty"}
		}
		if v.Enum != nil && len(v.Enum) == 0 {
			return &ParseError{
				Kind:   SchemaError,
				Field:  "vars." + name + ".enum",
				Reason: "enum must list at least one value",
			}
		}
		if v.Pattern != "" {
			if _, err := regexp.Compile(v.Pattern); err != nil {
				return &ParseError{
					Kind:   SchemaError,
					Field:  "vars." + name + ".pattern",
					Reason: fmt.Sprintf("invalid pattern: %v", err),
				}
			}
		}
	}
	return nil
}
