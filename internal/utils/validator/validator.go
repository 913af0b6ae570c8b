// Package validator checks request inputs before any remote call is made.
package validator

import "fmt"

// ValidationError reports a missing or empty required input.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing %s", e.Field)
}

// HasLength reports whether s is non-empty.
func HasLength(s string) bool {
	return s != ""
}

// Required fails with a ValidationError when value is empty. field is the
// descriptive label surfaced to the caller.
func Required(value, field string) error {
	if !HasLength(value) {
		return &ValidationError{Field: field}
	}
	return nil
}
