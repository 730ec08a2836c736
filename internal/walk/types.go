package walk

import (
	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/xsd"
)

// FieldData describes one occurrence of an element inside its parent.
type FieldData struct {
	Name        xsd.QName
	Cardinality cardinality.Cardinality
	Doc         string
	Default     *string
}

// SimpleRef points at a simple type: a built-in or named type, or an inline
// definition. Facets holds extra restriction facets applied on top of it.
type SimpleRef struct {
	TypeName xsd.QName
	Inline   *xsd.SimpleType
	Facets   *xsd.Facets
	// Owner is the declaring element or attribute, used to name anonymous
	// enumerations.
	Owner xsd.QName
}

// TypeData describes the schema type of an element.
type TypeData struct {
	// Key identifies the underlying schema type: a QName for named and
	// built-in types, the definition pointer for anonymous ones.
	Key any
	// Name is the schema type name; zero for anonymous types.
	Name xsd.QName
	// Owner is the element declaring the type.
	Owner xsd.QName
	Doc   string

	Complex *xsd.ComplexType
	// Value is set when the element carries a simple value: a simple type or
	// simple content.
	Value *SimpleRef

	// AnyType marks xs:anyType and untyped elements.
	AnyType  bool
	Mixed    bool
	Wildcard bool
}

// Anonymous reports whether the type has no schema name.
func (t TypeData) Anonymous() bool {
	return t.Name.IsZero()
}

// AttributeData describes an attribute of an element type.
type AttributeData struct {
	Name     xsd.QName
	Type     SimpleRef
	Required bool
	Default  *string
	Doc      string
}

// Builder receives the walk callbacks.
type Builder[S, R any] interface {
	// StartElement is called once per distinct schema type, before its
	// content is walked.
	StartElement(field FieldData, typ TypeData, attrs []AttributeData) (S, error)
	// EndElement finalizes a started element and returns its type.
	EndElement(state S) (R, error)
	// RepeatedElement returns the type registered for an already started
	// schema type. It may still be incomplete.
	RepeatedElement(typ TypeData) (R, error)
	// Element embeds a child element type into its parent.
	Element(parent S, field FieldData, result R) error
	// ElementContainsAny marks the element as not structurally parsed.
	ElementContainsAny(state S)
}
