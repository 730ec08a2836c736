package walk

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaWalk is the root of all failures raised while walking a schema.
	ErrSchemaWalk = errors.New("schema walk failure")
	// ErrUnsupported marks schema constructs the type model rejects.
	ErrUnsupported = errors.New("unsupported schema construct")
	// ErrNoRoot is returned when the root element is missing or ambiguous.
	ErrNoRoot = errors.New("no root element")
)

// Error is a schema walk failure located at a schema component.
type Error struct {
	// Path lists the open elements, outermost first.
	Path      string
	Component string
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrSchemaWalk, e.Component)
	if e.Path != "" {
		msg += " at " + e.Path
	}

	return msg + ": " + e.Err.Error()
}

// Unwrap returns both the sentinel and the cause so errors.Is matches either.
func (e *Error) Unwrap() []error {
	return []error{ErrSchemaWalk, e.Err}
}
