package model

import "slices"

// Equal reports whether a and b describe the same structure: names, fields,
// cardinalities and scalar parameters. Node identity is ignored and cycles
// are handled.
func Equal(a, b Type) bool {
	return equal(a, b, make(map[[2]*StructType]struct{}))
}

func equal(a, b Type, seen map[[2]*StructType]struct{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch at := a.(type) {
	case FixedType, DecimalType:
		return a == b
	case *EnumType:
		bt := b.(*EnumType)
		return at.Name == bt.Name && at.Default == bt.Default && slices.Equal(at.Symbols, bt.Symbols)
	case Unparsed:
		return equal(at.Inner, b.(Unparsed).Inner, seen)
	case *StructType:
		return equalStruct(at, b.(*StructType), seen)
	default:
		return false
	}
}

func equalStruct(a, b *StructType, seen map[[2]*StructType]struct{}) bool {
	key := [2]*StructType{a, b}
	if _, ok := seen[key]; ok {
		return true
	}

	seen[key] = struct{}{}

	if a.Name != b.Name || a.Namespace != b.Namespace || len(a.fields) != len(b.fields) {
		return false
	}

	for i, fa := range a.fields {
		fb := b.fields[i]
		if fa.Name != fb.Name || fa.Cardinality != fb.Cardinality || fa.Role != fb.Role || fa.Source != fb.Source {
			return false
		}

		if !slices.Equal(fa.Aliases, fb.Aliases) {
			return false
		}

		if !equal(fa.Type, fb.Type, seen) {
			return false
		}
	}

	return true
}
