package assemble

import (
	"errors"
	"fmt"
)

// ErrParse is the root of all document parse failures.
var ErrParse = errors.New("parse failure")

// ErrInvalidDocument is returned by the Validator for documents that do not
// follow the write type.
var ErrInvalidDocument = errors.New("invalid document")

// ParseError locates a parse failure inside a document.
type ParseError struct {
	Line   int
	Column int
	// Path is the dotted path of the open elements, empty outside the root.
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s at line %d, column %d: %v", ErrParse, e.Line, e.Column, e.Err)
	}

	return fmt.Sprintf("%s at line %d, column %d (%s): %v", ErrParse, e.Line, e.Column, e.Path, e.Err)
}

// Unwrap exposes both ErrParse and the cause to errors.Is and errors.As.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
