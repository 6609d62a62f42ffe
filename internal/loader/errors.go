package loader

import "fmt"

// MissingColumnError is returned when a declared column is absent from a source
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("source %s: missing column %q", e.Source, e.Column)
}
