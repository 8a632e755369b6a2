package formula

import (
	"fmt"
	"strings"
)

// ParseErrorKind discriminates the two ways a formula document can be
// rejected.
type ParseErrorKind string

const (
	// SyntaxError means the document is not valid TOML.
	SyntaxError ParseErrorKind = "syntax"
	// SchemaError means the TOML is valid but violates the formula schema.
	SchemaError ParseErrorKind = "schema"
)

// ParseError reports a rejected formula document. Parsing is strict: the
// first violation aborts the parse and no partial Formula is returned.
type ParseError struct {
	Kind   ParseErrorKind
	Field  string // offending field path, when known
	Reason string
	Err    error // underlying TOML error for syntax failures
}

func (e *ParseError) Error() string {
	if e.Kind == SyntaxError {
		return fmt.Sprintf("formula syntax error: %v", e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid formula: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid formula: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CookErrorKind discriminates cooking failures.
type CookErrorKind string

const (
	// MissingRequiredVar: a required var has no binding and no default.
	MissingRequiredVar CookErrorKind = "missing_required_var"
	// PatternMismatch: a supplied value does not match the var's pattern.
	PatternMismatch CookErrorKind = "pattern_mismatch"
	// InvalidEnumValue: a supplied value is outside the var's enum.
	InvalidEnumValue CookErrorKind = "invalid_enum_value"
	// UnknownVariableReference: a template field references an undeclared var.
	UnknownVariableReference CookErrorKind = "unknown_variable_reference"
)

// CookError reports a failed cook. Cooking is all-or-nothing: on error no
// substitution has been applied.
type CookError struct {
	Kind    CookErrorKind
	Var     string
	Value   string   // supplied value (PatternMismatch, InvalidEnumValue)
	Pattern string   // declared pattern (PatternMismatch)
	Allowed []string // declared enum (InvalidEnumValue)
	Field   string   // template field holding the reference (UnknownVariableReference)
}

func (e *CookError) Error() string {
	switch e.Kind {
	case MissingRequiredVar:
		return fmt.Sprintf("required variable %q has no binding and no default", e.Var)
	case PatternMismatch:
		return fmt.Sprintf("variable %q: value %q does not match pattern %q", e.Var, e.Value, e.Pattern)
	case InvalidEnumValue:
		return fmt.Sprintf("variable %q: value %q is not one of [%s]", e.Var, e.Value, strings.Join(e.Allowed, ", "))
	case UnknownVariableReference:
		return fmt.Sprintf("%s references undeclared variable %q", e.Field, e.Var)
	}
	return fmt.Sprintf("cook error: variable %q", e.Var)
}
