package attachment

import "fmt"

var (
	// ErrNotFound is returned when an attachment with the given id does not
	// exist in the underlying store.
	ErrNotFound = fmt.Errorf("attachment not found")
)
