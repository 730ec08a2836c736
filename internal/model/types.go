package model

import (
	"fmt"
	"strings"

	"schema-bridge/internal/cardinality"
)

//go:generate go tool stringer -type=Kind,FixedKind,FieldRole -linecomment -output=types_string.go

// Kind represents the kind of a type.
type Kind int

const (
	KindUnknown  Kind = iota // unknown
	KindFixed                // fixed
	KindDecimal              // decimal
	KindEnum                 // enum
	KindStruct               // struct
	KindUnparsed             // unparsed
)

// Type is a node of the structural type model.
type Type interface {
	Kind() Kind
	String() string
	sealed()
}

// FixedKind enumerates primitive kinds without parameters.
type FixedKind int

const (
	_ FixedKind = iota // skip zero value, use it as an invalid kind

	Boolean        // boolean
	Float          // float
	Double         // double
	Date           // date
	DateTime       // datetime
	DateTimeMicros // datetime-micros
	Time           // time
	TimeMicros     // time-micros
	String         // string
	BinaryHex      // binary-hex
	BinaryBase64   // binary-base64

	// FixedKindTotal is the number of fixed kinds defined, including the invalid zero value.
	FixedKindTotal = int(iota)
)

// IsTemporal reports whether k is a date, time or datetime kind.
func (k FixedKind) IsTemporal() bool {
	switch k {
	case Date, DateTime, DateTimeMicros, Time, TimeMicros:
		return true
	default:
		return false
	}
}

// IsBinary reports whether k is an encoded binary kind.
func (k FixedKind) IsBinary() bool {
	return k == BinaryHex || k == BinaryBase64
}

// FixedType is a primitive type without parameters.
type FixedType struct {
	FixedKind FixedKind
}

// Predefined fixed types.
var (
	BooleanType        = FixedType{Boolean}
	FloatType          = FixedType{Float}
	DoubleType         = FixedType{Double}
	DateType           = FixedType{Date}
	DateTimeType       = FixedType{DateTime}
	DateTimeMicrosType = FixedType{DateTimeMicros}
	TimeType           = FixedType{Time}
	TimeMicrosType     = FixedType{TimeMicros}
	StringType         = FixedType{String}
	BinaryHexType      = FixedType{BinaryHex}
	BinaryBase64Type   = FixedType{BinaryBase64}
)

func (FixedType) Kind() Kind { return KindFixed }

func (t FixedType) String() string { return t.FixedKind.String() }

func (FixedType) sealed() {}

// DecimalType is a numeric type with a known scale.
//
// Bits is 32 or 64 for fixed-width integers and 0 for arbitrary precision.
// Precision is the maximum number of digits, or 0 if no bound was known.
type DecimalType struct {
	Bits      int
	Precision int
	Scale     int
}

// Int32Type and Int64Type are the fixed-width integer decimals.
var (
	Int32Type = DecimalType{Bits: 32}
	Int64Type = DecimalType{Bits: 64}
)

func (DecimalType) Kind() Kind { return KindDecimal }

func (t DecimalType) String() string {
	switch {
	case t.IsInt32():
		return "int32"
	case t.IsInt64():
		return "int64"
	default:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	}
}

func (DecimalType) sealed() {}

// IsInt32 reports whether t is a 32-bit integer.
func (t DecimalType) IsInt32() bool { return t.Scale == 0 && t.Bits == 32 }

// IsInt64 reports whether t is a 64-bit integer.
func (t DecimalType) IsInt64() bool { return t.Scale == 0 && t.Bits == 64 }

// IsInteger reports whether t has no fractional digits.
func (t DecimalType) IsInteger() bool { return t.Scale == 0 }

// IsArbitrary reports whether t requires arbitrary precision.
func (t DecimalType) IsArbitrary() bool { return t.Bits == 0 }

// IntegerDigits returns the number of digits before the decimal point, or -1
// when no precision is known.
func (t DecimalType) IntegerDigits() int {
	if t.Precision == 0 {
		return -1
	}

	return t.Precision - t.Scale
}

// EnumType is a closed set of symbols.
type EnumType struct {
	Name      string
	Namespace string
	Doc       string
	Symbols   []string
	// Default is the fallback symbol; empty when none is declared.
	Default string
}

func (*EnumType) Kind() Kind { return KindEnum }

func (t *EnumType) String() string {
	return "enum " + t.Name + "{" + strings.Join(t.Symbols, ",") + "}"
}

func (*EnumType) sealed() {}

// HasSymbol reports whether sym is one of the enum symbols.
func (t *EnumType) HasSymbol(sym string) bool {
	for _, s := range t.Symbols {
		if s == sym {
			return true
		}
	}

	return false
}

// Unparsed marks a type whose content is reconstructed as raw text instead of
// being parsed structurally.
type Unparsed struct {
	Inner Type
}

// UnparsedString is the usual unparsed wrapper.
var UnparsedString = Unparsed{Inner: StringType}

func (Unparsed) Kind() Kind { return KindUnparsed }

func (t Unparsed) String() string { return "unparsed<" + t.Inner.String() + ">" }

func (Unparsed) sealed() {}

// FieldRole tells where a field's value comes from in a document.
type FieldRole int

const (
	RoleElement   FieldRole = iota // element
	RoleAttribute                  // attribute
	RoleValue                      // value
	RoleUnparsed                   // unparsed
)

// IsText reports whether the field receives the element's own text.
func (r FieldRole) IsText() bool {
	return r == RoleValue || r == RoleUnparsed
}

// Field describes a struct member.
type Field struct {
	Name        string
	Aliases     []string
	Doc         string
	Cardinality cardinality.Cardinality
	Type        Type
	// Default is the lexical default value; nil when none is declared.
	Default *string

	// Source is the local name of the element or attribute in documents.
	Source string
	Role   FieldRole
}

// Matches reports whether name equals the field name or one of its aliases.
func (f *Field) Matches(name string) bool {
	if f.Name == name {
		return true
	}

	for _, a := range f.Aliases {
		if a == name {
			return true
		}
	}

	return false
}

// StructType is a named, fielded composite type.
type StructType struct {
	Name      string
	Namespace string
	Aliases   []string
	Doc       string

	fields   []*Field
	complete bool
}

func (*StructType) Kind() Kind { return KindStruct }

func (t *StructType) String() string {
	if t.Namespace == "" {
		return t.Name
	}

	return t.Namespace + "." + t.Name
}

func (*StructType) sealed() {}

// Fields returns the ordered field list. It is empty until the struct is
// complete.
func (t *StructType) Fields() []*Field {
	return t.fields
}

// Complete reports whether the field list has been filled in.
func (t *StructType) Complete() bool {
	return t.complete
}

// SetFields fills in the field list. It panics when called twice.
func (t *StructType) SetFields(fields []*Field) {
	if t.complete {
		panic("model: fields of " + t.Name + " already set")
	}

	t.fields = fields
	t.complete = true
}

// Field returns the field with the given name or alias.
func (t *StructType) Field(name string) *Field {
	for _, f := range t.fields {
		if f.Matches(name) {
			return f
		}
	}

	return nil
}

// SoleField returns the only field of t, or nil when t has zero or several
// fields.
func (t *StructType) SoleField() *Field {
	if len(t.fields) != 1 {
		return nil
	}

	return t.fields[0]
}
