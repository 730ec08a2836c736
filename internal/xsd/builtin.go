package xsd

// Builtin classifies a built-in simple type of the XML Schema namespace.
type Builtin int

const (
	BuiltinUnknown Builtin = iota
	BuiltinString
	BuiltinBoolean
	BuiltinFloat
	BuiltinDouble
	BuiltinDecimal
	BuiltinDate
	BuiltinDateTime
	BuiltinTime
	BuiltinHexBinary
	BuiltinBase64Binary
	BuiltinAnyURI
	BuiltinList
)

// IntegerBounds are the implicit bounds of a built-in integer type. Nil
// entries mean unbounded on that side.
type IntegerBounds struct {
	Min *string
	Max *string
}

func bound(s string) *string { return &s }

var integerBuiltins = map[string]IntegerBounds{
	"integer":            {},
	"nonNegativeInteger": {Min: bound("0")},
	"positiveInteger":    {Min: bound("1")},
	"nonPositiveInteger": {Max: bound("0")},
	"negativeInteger":    {Max: bound("-1")},
	"long":               {Min: bound("-9223372036854775808"), Max: bound("9223372036854775807")},
	"int":                {Min: bound("-2147483648"), Max: bound("2147483647")},
	"short":              {Min: bound("-32768"), Max: bound("32767")},
	"byte":               {Min: bound("-128"), Max: bound("127")},
	"unsignedLong":       {Min: bound("0"), Max: bound("18446744073709551615")},
	"unsignedInt":        {Min: bound("0"), Max: bound("4294967295")},
	"unsignedShort":      {Min: bound("0"), Max: bound("65535")},
	"unsignedByte":       {Min: bound("0"), Max: bound("255")},
}

var stringBuiltins = map[string]struct{}{
	"string": {}, "normalizedString": {}, "token": {}, "language": {}, "Name": {},
	"NCName": {}, "ID": {}, "IDREF": {}, "ENTITY": {}, "NMTOKEN": {}, "QName": {},
	"NOTATION": {}, "duration": {}, "gYear": {}, "gYearMonth": {}, "gMonth": {},
	"gMonthDay": {}, "gDay": {}, "anySimpleType": {},
}

var listBuiltins = map[string]struct{}{
	"IDREFS": {}, "ENTITIES": {}, "NMTOKENS": {},
}

// ClassifyBuiltin returns the classification of the built-in type local name.
// Integer types classify as BuiltinDecimal; use IntegerBuiltin for their
// implicit bounds.
func ClassifyBuiltin(local string) Builtin {
	switch local {
	case "boolean":
		return BuiltinBoolean
	case "float":
		return BuiltinFloat
	case "double":
		return BuiltinDouble
	case "decimal":
		return BuiltinDecimal
	case "date":
		return BuiltinDate
	case "dateTime", "dateTimeStamp":
		return BuiltinDateTime
	case "time":
		return BuiltinTime
	case "hexBinary":
		return BuiltinHexBinary
	case "base64Binary":
		return BuiltinBase64Binary
	case "anyURI":
		return BuiltinAnyURI
	}

	if _, ok := integerBuiltins[local]; ok {
		return BuiltinDecimal
	}

	if _, ok := stringBuiltins[local]; ok {
		return BuiltinString
	}

	if _, ok := listBuiltins[local]; ok {
		return BuiltinList
	}

	return BuiltinUnknown
}

// IntegerBuiltin returns the implicit bounds of a built-in integer type.
func IntegerBuiltin(local string) (IntegerBounds, bool) {
	b, ok := integerBuiltins[local]
	return b, ok
}
