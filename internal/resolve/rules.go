package resolve

import (
	"fmt"
	"slices"

	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/diagnostic"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
)

// Rule builds the resolver of a (write, read) pair. Write receives nil when
// the write type is absent.
type Rule struct {
	Name  string
	Write func(model.Type) bool
	Read  func(*record.Schema) bool
	Build func(s *Session, write model.Type, read *record.Schema) (Resolver, error)
}

// Decimal digits that float and double represent exactly. They approximate
// IEEE 754 single and double precision.
const (
	FloatDigits  = 7
	DoubleDigits = 16
)

// Integer digits of the fixed-width integer decimals.
const (
	int32Digits = 10
	int64Digits = 19
)

// DefaultRules returns the rule table: rules for concrete write types first,
// then the base rules for an absent write type. Several rules overlap and
// rely on this order.
func DefaultRules() []Rule {
	return append(specializedRules(), baseRules()...)
}

func specializedRules() []Rule {
	return []Rule{
		{Name: "unparsed-string", Write: isUnparsed, Read: readIs(record.TypeString), Build: buildUnparsed},
		{Name: "struct-record", Write: isStruct, Read: readIs(record.TypeRecord), Build: buildStructRecord},
		{Name: "struct-map", Write: isStruct, Read: readIs(record.TypeMap), Build: buildStructMap},
		{Name: "simple-content", Write: hasValueField, Read: readScalar, Build: buildSimpleContent},

		{Name: "boolean", Write: isFixed(model.Boolean), Read: readIs(record.TypeBoolean), Build: buildScalar},
		{Name: "string", Write: isFixed(model.String), Read: readIs(record.TypeString), Build: buildScalar},
		{Name: "float", Write: isFixed(model.Float), Read: readIs(record.TypeFloat), Build: buildScalar},
		{Name: "float-double", Write: isFixed(model.Float, model.Double), Read: readIs(record.TypeDouble), Build: buildScalar},

		{Name: "decimal-int", Write: isDecimal(fitsInt32), Read: readIs(record.TypeInt), Build: buildScalar},
		{Name: "decimal-long", Write: isDecimal(fitsInt64), Read: readIs(record.TypeLong), Build: buildScalar},
		{Name: "decimal-float", Write: isDecimal(digitsWithin(FloatDigits)), Read: readIs(record.TypeFloat), Build: buildScalar},
		{Name: "decimal-double", Write: isDecimal(digitsWithin(DoubleDigits)), Read: readIs(record.TypeDouble), Build: buildScalar},
		{Name: "decimal-decimal", Write: isKind(model.KindDecimal), Read: readLogical(record.LogicalDecimal), Build: buildDecimal},

		{Name: "date", Write: isFixed(model.Date), Read: readLogical(record.LogicalDate), Build: buildScalar},
		{Name: "time-millis", Write: isFixed(model.Time), Read: readLogical(record.LogicalTimeMillis), Build: buildScalar},
		{Name: "time-micros", Write: isFixed(model.Time, model.TimeMicros), Read: readLogical(record.LogicalTimeMicros), Build: buildScalar},
		{Name: "timestamp-millis", Write: isFixed(model.DateTime), Read: readLogical(record.LogicalTimestampMillis), Build: buildScalar},
		{Name: "timestamp-micros", Write: isFixed(model.DateTime, model.DateTimeMicros), Read: readLogical(record.LogicalTimestampMicros), Build: buildScalar},
		{Name: "temporal-string", Write: isTemporal, Read: readIs(record.TypeString), Build: buildScalar},

		{Name: "enum-enum", Write: isKind(model.KindEnum), Read: readIs(record.TypeEnum), Build: buildEnum},
		{Name: "enum-string", Write: isKind(model.KindEnum), Read: readIs(record.TypeString), Build: buildScalar},

		{Name: "binary-bytes", Write: isBinary, Read: readIs(record.TypeBytes, record.TypeFixed), Build: buildBinary},

		{Name: "union", Write: present, Read: readIs(record.TypeUnion), Build: buildUnion},
	}
}

func baseRules() []Rule {
	return []Rule{
		{Name: "base-record", Write: absent, Read: readIs(record.TypeRecord), Build: buildBaseRecord},
		{Name: "base-map", Write: absent, Read: readIs(record.TypeMap), Build: buildBaseMap},
		{Name: "base-union", Write: absent, Read: readIs(record.TypeUnion), Build: buildUnion},
		{Name: "base-scalar", Write: absent, Read: readScalar, Build: buildScalar},
	}
}

// Write predicates.

func absent(t model.Type) bool  { return t == nil }
func present(t model.Type) bool { return t != nil }

func isKind(k model.Kind) func(model.Type) bool {
	return func(t model.Type) bool { return t != nil && t.Kind() == k }
}

func isFixed(kinds ...model.FixedKind) func(model.Type) bool {
	return func(t model.Type) bool {
		ft, ok := t.(model.FixedType)
		if !ok {
			return false
		}

		for _, k := range kinds {
			if ft.FixedKind == k {
				return true
			}
		}

		return false
	}
}

func isStruct(t model.Type) bool   { return isKind(model.KindStruct)(t) }
func isUnparsed(t model.Type) bool { return isKind(model.KindUnparsed)(t) }

func isTemporal(t model.Type) bool {
	ft, ok := t.(model.FixedType)
	return ok && ft.FixedKind.IsTemporal()
}

func isBinary(t model.Type) bool {
	ft, ok := t.(model.FixedType)
	return ok && ft.FixedKind.IsBinary()
}

func hasValueField(t model.Type) bool {
	return valueField(t) != nil
}

// valueField returns the simple content field of a struct.
func valueField(t model.Type) *model.Field {
	st, ok := t.(*model.StructType)
	if !ok {
		return nil
	}

	for _, f := range st.Fields() {
		if f.Role == model.RoleValue {
			return f
		}
	}

	return nil
}

func isDecimal(accept func(model.DecimalType) bool) func(model.Type) bool {
	return func(t model.Type) bool {
		dt, ok := t.(model.DecimalType)
		return ok && accept(dt)
	}
}

func fitsInt32(t model.DecimalType) bool { return t.IsInteger() && t.Bits == 32 }

func fitsInt64(t model.DecimalType) bool {
	return t.IsInteger() && (t.Bits == 32 || t.Bits == 64)
}

// digitsWithin accepts decimals whose significant digits fit in n.
func digitsWithin(n int) func(model.DecimalType) bool {
	return func(t model.DecimalType) bool {
		return precisionOf(t) <= n
	}
}

// precisionOf returns the digit count of t, deriving it from the bit size of
// fixed-width integers.
func precisionOf(t model.DecimalType) int {
	switch {
	case t.Precision > 0:
		return t.Precision
	case t.Bits == 32:
		return int32Digits
	case t.Bits == 64:
		return int64Digits
	default:
		return 0
	}
}

// Read predicates.

func readIs(types ...record.Type) func(*record.Schema) bool {
	return func(s *record.Schema) bool {
		for _, t := range types {
			if s.Type == t {
				return s.Logical == record.LogicalNone
			}
		}

		return false
	}
}

func readLogical(l record.Logical) func(*record.Schema) bool {
	return func(s *record.Schema) bool { return s.Logical == l }
}

func readScalar(s *record.Schema) bool {
	switch s.Type {
	case record.TypeRecord, record.TypeArray, record.TypeMap, record.TypeUnion:
		return false
	default:
		return true
	}
}

// Builders.

func buildScalar(_ *Session, _ model.Type, read *record.Schema) (Resolver, error) {
	convert, err := converterFor(read)
	if err != nil {
		return nil, err
	}

	return &scalar{name: read.String(), convert: convert}, nil
}

func buildUnparsed(_ *Session, _ model.Type, read *record.Schema) (Resolver, error) {
	return &scalar{
		name:     read.String(),
		convert:  func(text string) (any, error) { return text, nil },
		unparsed: true,
	}, nil
}

// buildDecimal accepts a write decimal whose integer and fraction digits fit
// the read decimal.
func buildDecimal(_ *Session, write model.Type, read *record.Schema) (Resolver, error) {
	wt := write.(model.DecimalType)

	intDigits := precisionOf(wt) - wt.Scale
	if precisionOf(wt) == 0 {
		return nil, fmt.Errorf("decimal %s has no known precision", wt)
	}

	if intDigits > read.Precision-read.Scale || wt.Scale > read.Scale {
		return nil, fmt.Errorf("decimal %s does not fit precision %d scale %d", wt, read.Precision, read.Scale)
	}

	return &scalar{name: read.String(), convert: decimalConverter(read.Scale)}, nil
}

// buildEnum accepts enums whose symbols the read enum covers, or any enum
// when the read enum has a default symbol.
func buildEnum(_ *Session, write model.Type, read *record.Schema) (Resolver, error) {
	wt := write.(*model.EnumType)

	if read.Default == "" {
		var missing []string

		for _, sym := range wt.Symbols {
			if !slices.Contains(read.Symbols, sym) {
				missing = append(missing, sym)
			}
		}

		if len(missing) > 0 {
			return nil, fmt.Errorf("read enum lacks symbols %v and has no default", missing)
		}
	}

	return &scalar{name: read.String(), convert: enumConverter(read)}, nil
}

func buildBinary(_ *Session, write model.Type, read *record.Schema) (Resolver, error) {
	want := record.EncodingBase64
	if write.(model.FixedType).FixedKind == model.BinaryHex {
		want = record.EncodingHex
	}

	if read.Encoding != want {
		return nil, fmt.Errorf("binary %s needs a read encoding of %q, got %q", write, want, read.Encoding)
	}

	return buildScalar(nil, write, read)
}

// buildSimpleContent reads the value field of a struct with simple content
// into a scalar, ignoring its attributes.
func buildSimpleContent(s *Session, write model.Type, read *record.Schema) (Resolver, error) {
	f := valueField(write)

	for _, other := range write.(*model.StructType).Fields() {
		if other.Role == model.RoleAttribute && other.Cardinality == cardinality.Required {
			s.Diagnostics().AddInfo(diagnostic.CodeFieldDropped,
				"attribute "+other.Name+" is dropped when reading the value only", describe(write), s.Path())
		}
	}

	return s.Resolve(f.Type, read)
}

// buildUnion resolves against the non-null branch of a nullable union, or
// the first branch that resolves.
func buildUnion(s *Session, write model.Type, read *record.Schema) (Resolver, error) {
	if inner, ok := read.Nullable(); ok {
		r, err := s.Resolve(write, inner)
		if err != nil {
			return nil, err
		}

		return nullable(r), nil
	}

	var firstErr error

	for _, branch := range read.Branches {
		if branch.Type == record.TypeNull {
			continue
		}

		r, err := s.Resolve(write, branch)
		if err == nil {
			if read.AcceptsNull() {
				return nullable(r), nil
			}

			return r, nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		return nil, fmt.Errorf("union %s has no branch for values", read)
	}

	return nil, firstErr
}
