package record

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSchema is returned for malformed read schemas.
var ErrInvalidSchema = errors.New("invalid record schema")

var primitives = map[string]Type{
	"null":    TypeNull,
	"boolean": TypeBoolean,
	"int":     TypeInt,
	"long":    TypeLong,
	"float":   TypeFloat,
	"double":  TypeDouble,
	"bytes":   TypeBytes,
	"string":  TypeString,
}

// Parse parses a JSON read schema.
func Parse(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return FromValue(raw)
}

// ParseYAML parses a read schema written in YAML. The structure is the same
// as for JSON.
func ParseYAML(data []byte) (*Schema, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return FromValue(raw)
}

// MustParse is like Parse but panics on error.
func MustParse(data string) *Schema {
	s, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}

	return s
}

// FromValue builds a schema from decoded JSON or YAML values.
func FromValue(raw any) (*Schema, error) {
	p := &parser{named: make(map[string]*Schema)}

	s, err := p.parse(raw, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return s, nil
}

type parser struct {
	// named holds named types by full name.
	named map[string]*Schema
}

func (p *parser) parse(raw any, namespace string) (*Schema, error) {
	switch v := raw.(type) {
	case string:
		return p.reference(v, namespace)
	case []any:
		union := &Schema{Type: TypeUnion}

		for _, b := range v {
			branch, err := p.parse(b, namespace)
			if err != nil {
				return nil, err
			}

			if branch.Type == TypeUnion {
				return nil, errors.New("union may not directly contain a union")
			}

			union.Branches = append(union.Branches, branch)
		}

		return union, nil
	case map[string]any:
		return p.object(v, namespace)
	default:
		return nil, fmt.Errorf("unexpected schema value %v", raw)
	}
}

func (p *parser) reference(name, namespace string) (*Schema, error) {
	if t, ok := primitives[name]; ok {
		return Primitive(t), nil
	}

	if !strings.Contains(name, ".") && namespace != "" {
		if s, ok := p.named[namespace+"."+name]; ok {
			return s, nil
		}
	}

	if s, ok := p.named[name]; ok {
		return s, nil
	}

	return nil, fmt.Errorf("unknown type %q", name)
}

func (p *parser) object(m map[string]any, namespace string) (*Schema, error) {
	typeName, ok := m["type"].(string)
	if !ok {
		if nested, found := m["type"]; found {
			return p.parse(nested, namespace)
		}

		return nil, errors.New("schema object without type")
	}

	switch typeName {
	case "record", "error":
		return p.record(m, namespace)
	case "enum":
		return p.enum(m, namespace)
	case "fixed":
		return p.fixed(m, namespace)
	case "array":
		items, err := p.parse(m["items"], namespace)
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}

		return &Schema{Type: TypeArray, Items: items}, nil
	case "map":
		values, err := p.parse(m["values"], namespace)
		if err != nil {
			return nil, fmt.Errorf("map values: %w", err)
		}

		return &Schema{Type: TypeMap, Values: values}, nil
	}

	t, ok := primitives[typeName]
	if !ok {
		return p.reference(typeName, namespace)
	}

	s := Primitive(t)
	s.Encoding, _ = m["encoding"].(string)

	if err := p.logical(s, m); err != nil {
		return nil, err
	}

	return s, nil
}

// logical applies a logicalType annotation. Annotations that do not fit the
// underlying type are ignored.
func (p *parser) logical(s *Schema, m map[string]any) error {
	lt, _ := m["logicalType"].(string)

	switch Logical(lt) {
	case LogicalDecimal:
		if s.Type != TypeBytes && s.Type != TypeFixed {
			return nil
		}

		precision, err := intProp(m, "precision")
		if err != nil {
			return err
		}

		scale, err := intProp(m, "scale")
		if err != nil {
			return err
		}

		if precision <= 0 || scale < 0 || scale > precision {
			return fmt.Errorf("invalid decimal precision %d scale %d", precision, scale)
		}

		s.Logical, s.Precision, s.Scale = LogicalDecimal, precision, scale
	case LogicalDate, LogicalTimeMillis:
		if s.Type == TypeInt {
			s.Logical = Logical(lt)
		}
	case LogicalTimeMicros, LogicalTimestampMillis, LogicalTimestampMicros:
		if s.Type == TypeLong {
			s.Logical = Logical(lt)
		}
	}

	return nil
}

func (p *parser) declare(m map[string]any, t Type, namespace string) (*Schema, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("%s without name", t)
	}

	if ns, ok := m["namespace"].(string); ok {
		namespace = ns
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		namespace, name = name[:i], name[i+1:]
	}

	s := &Schema{Type: t, Name: name, Namespace: namespace}
	s.Doc, _ = m["doc"].(string)

	aliases, err := stringsProp(m, "aliases")
	if err != nil {
		return nil, err
	}

	s.Aliases = aliases

	full := s.FullName()
	if _, dup := p.named[full]; dup {
		return nil, fmt.Errorf("duplicate type %q", full)
	}

	p.named[full] = s

	return s, nil
}

func (p *parser) record(m map[string]any, namespace string) (*Schema, error) {
	s, err := p.declare(m, TypeRecord, namespace)
	if err != nil {
		return nil, err
	}

	rawFields, ok := m["fields"].([]any)
	if !ok {
		return nil, fmt.Errorf("record %s: fields must be a list", s.Name)
	}

	seen := make(map[string]struct{})

	for i, rf := range rawFields {
		fm, ok := rf.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %s: field %d is not an object", s.Name, i)
		}

		f, err := p.field(fm, s.Namespace)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", s.Name, err)
		}

		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("record %s: duplicate field %q", s.Name, f.Name)
		}

		seen[f.Name] = struct{}{}
		f.Pos = i
		s.Fields = append(s.Fields, f)
	}

	return s, nil
}

func (p *parser) field(m map[string]any, namespace string) (*Field, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return nil, errors.New("field without name")
	}

	t, err := p.parse(m["type"], namespace)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}

	f := &Field{Name: name, Type: t}
	f.Doc, _ = m["doc"].(string)

	if f.Aliases, err = stringsProp(m, "aliases"); err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}

	if raw, ok := m["default"]; ok {
		if f.Default, err = DefaultValue(t, raw); err != nil {
			return nil, fmt.Errorf("field %s: default: %w", name, err)
		}

		f.HasDefault = true
	}

	return f, nil
}

func (p *parser) enum(m map[string]any, namespace string) (*Schema, error) {
	s, err := p.declare(m, TypeEnum, namespace)
	if err != nil {
		return nil, err
	}

	if s.Symbols, err = stringsProp(m, "symbols"); err != nil {
		return nil, err
	}

	if len(s.Symbols) == 0 {
		return nil, fmt.Errorf("enum %s without symbols", s.Name)
	}

	if def, ok := m["default"].(string); ok {
		if !slices.Contains(s.Symbols, def) {
			return nil, fmt.Errorf("enum %s: default %q is not a symbol", s.Name, def)
		}

		s.Default = def
	}

	return s, nil
}

func (p *parser) fixed(m map[string]any, namespace string) (*Schema, error) {
	s, err := p.declare(m, TypeFixed, namespace)
	if err != nil {
		return nil, err
	}

	if s.Size, err = intProp(m, "size"); err != nil {
		return nil, err
	}

	s.Encoding, _ = m["encoding"].(string)

	if err := p.logical(s, m); err != nil {
		return nil, err
	}

	return s, nil
}

func intProp(m map[string]any, key string) (int, error) {
	raw, ok := m[key]
	if !ok {
		return 0, nil
	}

	n, err := toInt64(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return int(n), nil
}

func stringsProp(m map[string]any, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", key)
	}

	out := make([]string, 0, len(list))

	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s must contain strings", key)
		}

		out = append(out, s)
	}

	return out, nil
}
