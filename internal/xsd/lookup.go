package xsd

import (
	"errors"
	"fmt"
)

// ErrUnresolved is returned when a reference names no known component.
var ErrUnresolved = errors.New("unresolved schema reference")

func lookup[V any](m map[QName]V, kind string, q QName) (V, error) {
	v, ok := m[q]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %s %s", ErrUnresolved, kind, q)
	}

	return v, nil
}

// Element returns the global element named q.
func (s *Schema) Element(q QName) (*Element, error) {
	return lookup(s.Elements, "element", q)
}

// ComplexType returns the global complex type named q.
func (s *Schema) ComplexType(q QName) (*ComplexType, error) {
	return lookup(s.ComplexTypes, "complex type", q)
}

// SimpleType returns the global simple type named q.
func (s *Schema) SimpleType(q QName) (*SimpleType, error) {
	return lookup(s.SimpleTypes, "simple type", q)
}

// Group returns the named model group q.
func (s *Schema) Group(q QName) (*ModelGroup, error) {
	return lookup(s.Groups, "group", q)
}

// AttributeGroup returns the named attribute group q.
func (s *Schema) AttributeGroup(q QName) (*AttributeGroup, error) {
	return lookup(s.AttributeGroups, "attribute group", q)
}

// Attribute returns the global attribute named q.
func (s *Schema) Attribute(q QName) (*Attribute, error) {
	return lookup(s.Attributes, "attribute", q)
}

// FindElement returns the global element with the given local name,
// preferring the target namespace.
func (s *Schema) FindElement(local string) (*Element, bool) {
	if el, ok := s.Elements[QName{Space: s.TargetNamespace, Local: local}]; ok {
		return el, true
	}

	for _, q := range s.ElementOrder {
		if q.Local == local {
			return s.Elements[q], true
		}
	}

	return nil, false
}

// Substitutes returns the global elements whose substitution group is head,
// in document order.
func (s *Schema) Substitutes(head QName) []QName {
	var members []QName

	for _, q := range s.ElementOrder {
		if s.Elements[q].SubstitutionGroup == head {
			members = append(members, q)
		}
	}

	return members
}

// IsComplex reports whether q names a complex type, including xs:anyType.
func (s *Schema) IsComplex(q QName) bool {
	if q.IsBuiltin() {
		return q.Local == "anyType"
	}

	_, ok := s.ComplexTypes[q]

	return ok
}
