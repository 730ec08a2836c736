// Package cardinality models occurrence constraints of schema particles and
// how they combine across nested groups.
package cardinality

//go:generate go tool stringer -type=Cardinality -linecomment -output=cardinality_string.go

// Cardinality is the occurrence constraint of a field.
//
// Values are ordered by width: Required < Optional < Multiple. None is
// annihilating and never widens.
type Cardinality int

const (
	None     Cardinality = iota // NONE
	Required                    // REQUIRED
	Optional                    // OPTIONAL
	Multiple                    // MULTIPLE
)

// Unbounded is the maxOccurs value used for "unbounded".
const Unbounded = -1

// Of maps a minOccurs/maxOccurs declaration to a Cardinality.
// A negative maxOccurs means unbounded.
func Of(minOccurs, maxOccurs int) Cardinality {
	switch {
	case maxOccurs == 0:
		return None
	case maxOccurs < 0 || maxOccurs > 1:
		return Multiple
	case minOccurs == 0:
		return Optional
	default:
		return Required
	}
}

// AdjustFor combines c, observed locally, with the cardinality of the
// enclosing context.
func (c Cardinality) AdjustFor(outer Cardinality) Cardinality {
	if c == None || outer == None {
		return None
	}

	return max(c, outer)
}

// ForChoice returns the cardinality of a branch of a choice group whose own
// cardinality is c. Branches of a choice are never required.
func (c Cardinality) ForChoice() Cardinality {
	return c.AdjustFor(Optional)
}

// IsRepeated reports whether the field may occur more than once.
func (c Cardinality) IsRepeated() bool {
	return c == Multiple
}

// IsOptional reports whether the field may be absent.
func (c Cardinality) IsOptional() bool {
	return c == Optional || c == Multiple
}

// Stack is the context stack kept while walking nested groups.
// The zero value behaves as an empty stack whose top is Required.
type Stack struct {
	items []Cardinality
}

// Push adjusts c for the current top and pushes the result.
// It returns the pushed value.
func (s *Stack) Push(c Cardinality) Cardinality {
	adjusted := c.AdjustFor(s.Peek())
	s.items = append(s.items, adjusted)

	return adjusted
}

// PushChoice pushes the cardinality of a choice group, forcing Optional on
// its branches.
func (s *Stack) PushChoice(c Cardinality) Cardinality {
	adjusted := c.AdjustFor(s.Peek()).ForChoice()
	s.items = append(s.items, adjusted)

	return adjusted
}

// PushReset pushes Required without combining with the current top. The
// walker uses it when entering an element, whose content starts a fresh
// context.
func (s *Stack) PushReset() {
	s.items = append(s.items, Required)
}

// Pop removes the top value. Popping an empty stack is a no-op.
func (s *Stack) Pop() Cardinality {
	if len(s.items) == 0 {
		return Required
	}

	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]

	return top
}

// Peek returns the top value, or Required if the stack is empty.
func (s *Stack) Peek() Cardinality {
	if len(s.items) == 0 {
		return Required
	}

	return s.items[len(s.items)-1]
}

// Len returns the stack depth.
func (s *Stack) Len() int {
	return len(s.items)
}
