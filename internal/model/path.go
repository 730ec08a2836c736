package model

import "strings"

// Path builds a readable location string inside a type graph.
// Examples:
//   - "Order" for a root struct
//   - "Order.items" for a nested field
//   - "Order.items[]" for the elements of a repeated field
//   - "Order.items[].id" for a field within repeated elements
type Path struct {
	parts []string
}

// NewPath creates a new Path from a root name.
func NewPath(root string) Path {
	return Path{parts: []string{root}}
}

// Field appends a field name to the path.
func (p Path) Field(name string) Path {
	return Path{parts: append(append([]string{}, p.parts...), name)}
}

// Items appends a "[]" indicator to the last element of the path.
func (p Path) Items() Path {
	if len(p.parts) == 0 {
		return Path{parts: []string{"[]"}}
	}

	parts := make([]string, len(p.parts))
	copy(parts, p.parts)
	parts[len(parts)-1] += "[]"

	return Path{parts: parts}
}

// String returns the full path string.
func (p Path) String() string {
	return strings.Join(p.parts, ".")
}
