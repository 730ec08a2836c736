package resolve

import (
	"errors"
	"fmt"
	"strings"

	"schema-bridge/internal/model"
)

// ErrResolution is the root of all resolver construction failures.
var ErrResolution = errors.New("resolution failure")

// ResolutionError reports a write type that cannot be read with a read
// schema.
type ResolutionError struct {
	// Write and Read describe the mismatched pair.
	Write string
	Read  string
	// Path locates the pair inside the read schema.
	Path   string
	Reason string
	// Suggestions are near-miss names for unmatched fields.
	Suggestions []string
}

func (e *ResolutionError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s", ErrResolution)

	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}

	fmt.Fprintf(&b, ": %s (write %s, read %s)", e.Reason, e.Write, e.Read)

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "; did you mean %s?", strings.Join(e.Suggestions, ", "))
	}

	return b.String()
}

func (e *ResolutionError) Unwrap() error {
	return ErrResolution
}

// describe returns a readable form of a possibly absent write type.
func describe(t model.Type) string {
	if t == nil {
		return "<any>"
	}

	return t.String()
}
