package config

import "fmt"

// Error reports a missing or invalid configuration field. Configuration
// errors are never retried; the operator must fix the input.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
