package xsd

import "fmt"

// Namespace is the XML Schema namespace.
const Namespace = "http://www.w3.org/2001/XMLSchema"

// Unbounded is the MaxOccurs value for maxOccurs="unbounded".
const Unbounded = -1

// QName is a namespace-qualified name.
type QName struct {
	Space string
	Local string
}

// String returns the Clark notation of the name.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}

	return fmt.Sprintf("{%s}%s", q.Space, q.Local)
}

// IsZero reports whether q is the empty name.
func (q QName) IsZero() bool {
	return q.Local == ""
}

// IsBuiltin reports whether q names a type of the XML Schema namespace.
func (q QName) IsBuiltin() bool {
	return q.Space == Namespace
}

// Schema holds the global components of one or more merged schema documents.
type Schema struct {
	TargetNamespace string

	Elements        map[QName]*Element
	ComplexTypes    map[QName]*ComplexType
	SimpleTypes     map[QName]*SimpleType
	Groups          map[QName]*ModelGroup
	AttributeGroups map[QName]*AttributeGroup
	Attributes      map[QName]*Attribute

	// ElementOrder lists global elements in document order.
	ElementOrder []QName
}

// NewSchema creates an empty Schema.
func NewSchema(targetNamespace string) *Schema {
	return &Schema{
		TargetNamespace: targetNamespace,
		Elements:        make(map[QName]*Element),
		ComplexTypes:    make(map[QName]*ComplexType),
		SimpleTypes:     make(map[QName]*SimpleType),
		Groups:          make(map[QName]*ModelGroup),
		AttributeGroups: make(map[QName]*AttributeGroup),
		Attributes:      make(map[QName]*Attribute),
	}
}

// Merge copies the global components of other into s. Components already
// present in s win.
func (s *Schema) Merge(other *Schema) {
	for _, q := range other.ElementOrder {
		if _, ok := s.Elements[q]; !ok {
			s.Elements[q] = other.Elements[q]
			s.ElementOrder = append(s.ElementOrder, q)
		}
	}

	mergeMap(s.ComplexTypes, other.ComplexTypes)
	mergeMap(s.SimpleTypes, other.SimpleTypes)
	mergeMap(s.Groups, other.Groups)
	mergeMap(s.AttributeGroups, other.AttributeGroups)
	mergeMap(s.Attributes, other.Attributes)
}

func mergeMap[V any](dst, src map[QName]V) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// Particle is a member of a content model: *Element, *ModelGroup,
// *GroupRef or *Any.
type Particle interface {
	Occurs() (minOccurs, maxOccurs int)
}

// Element is an element declaration or reference.
type Element struct {
	Name QName
	// Ref is set for <xs:element ref="..."/>.
	Ref QName

	TypeName QName
	Complex  *ComplexType
	Simple   *SimpleType

	MinOccurs int
	MaxOccurs int

	SubstitutionGroup QName
	Abstract          bool
	Default           *string
	Fixed             *string
	Doc               string
}

// Occurs implements Particle.
func (e *Element) Occurs() (int, int) { return e.MinOccurs, e.MaxOccurs }

// GroupKind is the compositor of a model group.
type GroupKind int

const (
	Sequence GroupKind = iota
	Choice
	All
)

// String returns the compositor element name.
func (k GroupKind) String() string {
	switch k {
	case Choice:
		return "choice"
	case All:
		return "all"
	default:
		return "sequence"
	}
}

// ModelGroup is a sequence, choice or all group.
type ModelGroup struct {
	// Name is set for named <xs:group> definitions.
	Name      QName
	Kind      GroupKind
	Particles []Particle
	MinOccurs int
	MaxOccurs int
}

// Occurs implements Particle.
func (g *ModelGroup) Occurs() (int, int) { return g.MinOccurs, g.MaxOccurs }

// GroupRef references a named model group.
type GroupRef struct {
	Ref       QName
	MinOccurs int
	MaxOccurs int
}

// Occurs implements Particle.
func (g *GroupRef) Occurs() (int, int) { return g.MinOccurs, g.MaxOccurs }

// Any is an element wildcard.
type Any struct {
	Namespace       string
	ProcessContents string
	MinOccurs       int
	MaxOccurs       int
}

// Occurs implements Particle.
func (a *Any) Occurs() (int, int) { return a.MinOccurs, a.MaxOccurs }

// Derivation tells how a complex type derives from its base.
type Derivation int

const (
	DerivationNone Derivation = iota
	DerivationExtension
	DerivationRestriction
)

// ComplexType is a complex type definition, named or anonymous.
type ComplexType struct {
	Name     QName
	Mixed    bool
	Abstract bool
	Doc      string

	// SimpleContent is true for <xs:simpleContent>; the value type is Base
	// (or Facets applied to Base for restrictions).
	SimpleContent bool
	Base          QName
	Derivation    Derivation
	Facets        Facets

	Content         *ModelGroup
	Attributes      []*Attribute
	AttributeGroups []QName
	AnyAttribute    bool
}

// Facets are the constraining facets of a simple-type restriction.
type Facets struct {
	Enumeration    []string
	FractionDigits *int
	TotalDigits    *int
	MinInclusive   *string
	MaxInclusive   *string
	MinExclusive   *string
	MaxExclusive   *string
	Pattern        []string
	Length         *int
	MinLength      *int
	MaxLength      *int
}

// Inherit fills facets unset in f from base.
func (f Facets) Inherit(base Facets) Facets {
	if len(f.Enumeration) == 0 {
		f.Enumeration = base.Enumeration
	}

	f.FractionDigits = firstNonNil(f.FractionDigits, base.FractionDigits)
	f.TotalDigits = firstNonNil(f.TotalDigits, base.TotalDigits)
	f.MinInclusive = firstNonNil(f.MinInclusive, base.MinInclusive)
	f.MaxInclusive = firstNonNil(f.MaxInclusive, base.MaxInclusive)
	f.MinExclusive = firstNonNil(f.MinExclusive, base.MinExclusive)
	f.MaxExclusive = firstNonNil(f.MaxExclusive, base.MaxExclusive)
	f.Length = firstNonNil(f.Length, base.Length)
	f.MinLength = firstNonNil(f.MinLength, base.MinLength)
	f.MaxLength = firstNonNil(f.MaxLength, base.MaxLength)
	f.Pattern = append(append([]string{}, base.Pattern...), f.Pattern...)

	return f
}

func firstNonNil[T any](a, b *T) *T {
	if a != nil {
		return a
	}

	return b
}

// SimpleType is a simple type definition, named or anonymous.
type SimpleType struct {
	Name QName
	Doc  string

	Base       QName
	InlineBase *SimpleType
	Facets     Facets

	// List and Union mark constructs the type model rejects.
	List  bool
	Union bool
}

// AttributeUse is the use of an attribute declaration.
type AttributeUse string

const (
	UseOptional   AttributeUse = "optional"
	UseRequired   AttributeUse = "required"
	UseProhibited AttributeUse = "prohibited"
)

// Attribute is an attribute declaration or reference.
type Attribute struct {
	Name QName
	Ref  QName

	TypeName QName
	Simple   *SimpleType

	Use     AttributeUse
	Default *string
	Fixed   *string
	Doc     string
}

// AttributeGroup is a named attribute group.
type AttributeGroup struct {
	Name            QName
	Attributes      []*Attribute
	AttributeGroups []QName
	AnyAttribute    bool
}
