package record

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Record is a value of a record schema. Values are stored by field position.
type Record struct {
	schema *Schema
	values []any
}

// NewRecord creates a record of s with every field unset.
func NewRecord(s *Schema) *Record {
	return &Record{schema: s, values: make([]any, len(s.Fields))}
}

// Schema returns the record schema.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Set stores the value of the field at pos.
func (r *Record) Set(pos int, v any) {
	r.values[pos] = v
}

// Value returns the value of the field at pos.
func (r *Record) Value(pos int) any {
	return r.values[pos]
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	f := r.schema.Field(name)
	if f == nil {
		return nil, false
	}

	return r.values[f.Pos], true
}

// Map converts the record into nested maps keyed by field name.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for _, f := range r.schema.Fields {
		out[f.Name] = plain(r.values[f.Pos])
	}

	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}

		return out
	default:
		return v
	}
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, f := range r.schema.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(r.values[f.Pos])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// String returns the JSON form of the record.
func (r *Record) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("record %s: %v", r.schema.FullName(), err)
	}

	return string(data)
}
