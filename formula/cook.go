package formula

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// varRefRegex matches {{name}} placeholders in template fields.
var varRefRegex = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// Cook resolves f's variables against the caller's bindings and
// substitutes every {{name}} reference, returning an independent
// CookedFormula. The source formula is never modified, so one Formula
// may be cooked concurrently with different bindings.
//
// Each declared var resolves to its binding if supplied, else its
// default if declared, else the empty string; a required var with
// neither fails with MissingRequiredVar. Only caller-supplied values
// are checked against pattern and enum constraints: defaults are the
// formula author's responsibility. Constraint checks run before any
// substitution, so a failed cook leaves nothing half-rewritten.
//
// Substitution is a single non-recursive pass over the template-bearing
// fields (formula name and description; step title and description; leg
// title, focus, and description; synthesis description). Substituted
// values are never re-scanned, so substitution cannot loop. A reference
// to an undeclared variable fails with UnknownVariableReference.
// Bindings for undeclared variables are ignored.
func Cook(f *Formula, bindings map[string]string) (*CookedFormula, error) {
	names := make([]string, 0, len(f.Vars))
	for name := range f.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make(map[string]string, len(names))
	for _, name := range names {
		v := f.Vars[name]
		if value, ok := bindings[name]; ok {
			resolved[name] = value
			continue
		}
		if v.Default != nil {
			resolved[name] = *v.Default
			continue
		}
		if v.Required {
			return nil, &CookError{Kind: MissingRequiredVar, Var: name}
		}
		resolved[name] = ""
	}

	// Matcher table: every declared pattern compiled once per cook,
	// anchored so values must match in full.
	matchers := make(map[string]*regexp.Regexp, len(names))
	for _, name := range names {
		pat := f.Vars[name].Pattern
		if pat == "" {
			continue
		}
		re, err := regexp.Compile(`\A(?:` + pat + `)\z`)
		if err != nil {
			// Parse rejects bad patterns; a hand-built Formula can still carry one.
			return nil, &ParseError{
				Kind:   SchemaError,
				Field:  "vars." + name + ".pattern",
				Reason: fmt.Sprintf("invalid pattern: %v", err),
			}
		}
		matchers[name] = re
	}

	for _, name := range names {
		value, supplied := bindings[name]
		if !supplied {
			continue
		}
		if re, ok := matchers[name]; ok && !re.MatchString(value) {
			return nil, &CookError{
				Kind:    PatternMismatch,
				Var:     name,
				Value:   value,
				Pattern: f.Vars[name].Pattern,
			}
		}
		if allowed := f.Vars[name].Enum; len(allowed) > 0 && !containsString(allowed, value) {
			return nil, &CookError{
				Kind:    InvalidEnumValue,
				Var:     name,
				Value:   value,
				Allowed: allowed,
			}
		}
	}

	cooked := &CookedFormula{
		Formula:      *f.clone(),
		CookedAt:     time.Now().UTC(),
		CookedVars:   resolved,
		OriginalName: f.Name,
	}
	if err := cooked.substitute(resolved); err != nil {
		return nil, err
	}
	return cooked, nil
}

// substitute rewrites every template-bearing field in place. The
// receiver is already a private deep copy.
func (cf *CookedFormula) substitute(resolved map[string]string) error {
	var err error
	if cf.Name, err = expand(cf.Name, "formula name", resolved); err != nil {
		return err
	}
	if cf.Description, err = expand(cf.Description, "description", resolved); err != nil {
		return err
	}
	for i := range cf.Steps {
		s := &cf.Steps[i]
		if s.Title, err = expand(s.Title, fmt.Sprintf("step %q title", s.ID), resolved); err != nil {
			return err
		}
		if s.Description, err = expand(s.Description, fmt.Sprintf("step %q description", s.ID), resolved); err != nil {
			return err
		}
	}
	for i := range cf.Legs {
		l := &cf.Legs[i]
		if l.Title, err = expand(l.Title, fmt.Sprintf("leg %q title", l.ID), resolved); err != nil {
			return err
		}
		if l.Focus, err = expand(l.Focus, fmt.Sprintf("leg %q focus", l.ID), resolved); err != nil {
			return err
		}
		if l.Description, err = expand(l.Description, fmt.Sprintf("leg %q description", l.ID), resolved); err != nil {
			return err
		}
	}
	if cf.Synthesis != nil {
		if cf.Synthesis.Description, err = expand(cf.Synthesis.Description, "synthesis description", resolved); err != nil {
			return err
		}
	}
	return nil
}

// expand substitutes {{name}} references in text. field names the
// location for error reporting.
func expand(text, field string, resolved map[string]string) (string, error) {
	var refErr error
	out := varRefRegex.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		value, ok := resolved[name]
		if !ok {
			if refErr == nil {
				refErr = &CookError{Kind: UnknownVariableReference, Var: name, Field: field}
			}
			return match
		}
		return value
	})
	if refErr != nil {
		return "", refErr
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
