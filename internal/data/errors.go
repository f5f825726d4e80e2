// internal/data/errors.go
package data

import "fmt"

// ValidationError reports a malformed or missing field in an inbound record.
// It is returned by the parse step before anything touches storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
