// Package record describes the read schema that parsed documents are
// converted to, and the record values produced for it.
//
// Schemas use the usual record-schema shape: records, arrays, maps, enums,
// fixed, the primitive types and the decimal, date, time and timestamp
// logical types. A union of null and one other type marks an optional
// value. Schemas are read from JSON or YAML; named types may be referenced
// by name, which allows recursive schemas.
//
// Values are plain Go values:
//
//	null       nil
//	boolean    bool
//	int        int32
//	long       int64
//	float      float32
//	double     float64
//	string     string
//	bytes      []byte
//	fixed      []byte
//	enum       string
//	array      []any
//	map        map[string]any
//	record     *Record
//	decimal    decimal.Decimal
//	date       time.Time
//	time       time.Duration since midnight
//	timestamp  time.Time
package record
