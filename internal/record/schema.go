package record

import (
	"strings"
)

//go:generate go tool stringer -type=Type -linecomment -output=schema_string.go

// Type is the kind of a schema node.
type Type int

const (
	_ Type = iota // skip zero value, use it as an invalid type

	TypeNull    // null
	TypeBoolean // boolean
	TypeInt     // int
	TypeLong    // long
	TypeFloat   // float
	TypeDouble  // double
	TypeBytes   // bytes
	TypeString  // string
	TypeRecord  // record
	TypeEnum    // enum
	TypeArray   // array
	TypeMap     // map
	TypeFixed   // fixed
	TypeUnion   // union
)

// Logical is a logical type annotation.
type Logical string

const (
	LogicalNone            Logical = ""
	LogicalDecimal         Logical = "decimal"
	LogicalDate            Logical = "date"
	LogicalTimeMillis      Logical = "time-millis"
	LogicalTimeMicros      Logical = "time-micros"
	LogicalTimestampMillis Logical = "timestamp-millis"
	LogicalTimestampMicros Logical = "timestamp-micros"
)

// Binary encodings declared on bytes schemas with the "encoding" property.
const (
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
)

// Schema is a node of a read schema.
type Schema struct {
	Type    Type
	Logical Logical

	// Name, Namespace and Aliases identify records, enums and fixed types.
	Name      string
	Namespace string
	Aliases   []string
	Doc       string

	Fields []*Field

	Symbols []string
	// Default is the fallback enum symbol; empty when none is declared.
	Default string

	Items    *Schema
	Values   *Schema
	Branches []*Schema

	Size      int
	Precision int
	Scale     int

	// Encoding is the text encoding of bytes values: hex or base64.
	Encoding string
}

// Field is a record field.
type Field struct {
	Name    string
	Aliases []string
	Doc     string
	Type    *Schema
	// Default is the converted default value, valid when HasDefault is set.
	Default    any
	HasDefault bool
	// Pos is the index of the field in its record.
	Pos int
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

// Primitive returns a new schema of a primitive type.
func Primitive(t Type) *Schema {
	return &Schema{Type: t}
}

// IsNamed reports whether s is a record, enum or fixed type.
func (s *Schema) IsNamed() bool {
	return s.Type == TypeRecord || s.Type == TypeEnum || s.Type == TypeFixed
}

// FullName returns the namespace-qualified name of a named type.
func (s *Schema) FullName() string {
	if s.Namespace == "" {
		return s.Name
	}

	return s.Namespace + "." + s.Name
}

// NameMatches reports whether name equals the simple or full name of s, or
// one of its aliases.
func (s *Schema) NameMatches(name string) bool {
	if name == s.Name || name == s.FullName() {
		return true
	}

	for _, a := range s.Aliases {
		if a == name {
			return true
		}
	}

	return false
}

// Field returns the record field with the given name or alias.
func (s *Schema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Matches(name) {
			return f
		}
	}

	return nil
}

// Nullable returns the non-null branch of a union of null and exactly one
// other type.
func (s *Schema) Nullable() (*Schema, bool) {
	if s.Type != TypeUnion || len(s.Branches) != 2 {
		return nil, false
	}

	switch {
	case s.Branches[0].Type == TypeNull:
		return s.Branches[1], true
	case s.Branches[1].Type == TypeNull:
		return s.Branches[0], true
	default:
		return nil, false
	}
}

// AcceptsNull reports whether null is a valid value of s.
func (s *Schema) AcceptsNull() bool {
	if s.Type == TypeNull {
		return true
	}

	if s.Type != TypeUnion {
		return false
	}

	for _, b := range s.Branches {
		if b.Type == TypeNull {
			return true
		}
	}

	return false
}

// String returns a short description of s.
func (s *Schema) String() string {
	switch {
	case s.IsNamed():
		return s.Type.String() + " " + s.FullName()
	case s.Type == TypeArray:
		return "array<" + s.Items.String() + ">"
	case s.Type == TypeMap:
		return "map<" + s.Values.String() + ">"
	case s.Type == TypeUnion:
		names := make([]string, len(s.Branches))
		for i, b := range s.Branches {
			names[i] = b.String()
		}

		return "[" + strings.Join(names, ",") + "]"
	case s.Logical != LogicalNone:
		return s.Type.String() + "(" + string(s.Logical) + ")"
	default:
		return s.Type.String()
	}
}
