// Package model provides the language-agnostic structural type model built
// from a schema walk.
//
// Key types:
//   - Type: sealed interface implemented by FixedType, DecimalType, EnumType,
//     StructType and Unparsed
//   - Field: named, aliased struct member with a cardinality and a routing role
//   - Registry: owns every StructType and guarantees name uniqueness
//
// Struct types are allocated by the Registry before their fields are known
// and filled in exactly once, which lets a type reference itself.
package model
