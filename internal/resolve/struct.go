package resolve

import (
	"errors"
	"fmt"

	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/diagnostic"
	"schema-bridge/internal/match"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
)

// ErrMissingValue is returned when a document leaves a required read field
// without a value.
var ErrMissingValue = errors.New("missing value")

// binding routes the content of one element, attribute or text to a read
// field.
type binding struct {
	field    *record.Field
	resolver Resolver
	// repeated accumulates every occurrence into an array.
	repeated bool
}

// structResolver fills a record from elements, attributes and text.
type structResolver struct {
	read       *record.Schema
	elements   map[string]*binding
	attributes map[string]*binding
	text       *binding
	parse      bool
	// missing holds whitelisted read fields that may stay unset.
	missing map[int]struct{}
}

func newStructResolver(read *record.Schema) *structResolver {
	return &structResolver{
		read:       read,
		elements:   make(map[string]*binding),
		attributes: make(map[string]*binding),
		parse:      true,
		missing:    make(map[int]struct{}),
	}
}

func (r *structResolver) Element(name string) Resolver {
	if b, ok := r.elements[name]; ok {
		return b.resolver
	}

	return Ignore
}

func (r *structResolver) Attribute(name string) Resolver {
	if b, ok := r.attributes[name]; ok {
		return b.resolver
	}

	return nil
}

func (r *structResolver) ParseContent() bool { return r.parse }

func (r *structResolver) Begin() Collector {
	return &structCollector{
		r:   r,
		rec: record.NewRecord(r.read),
		set: make([]bool, len(r.read.Fields)),
	}
}

type structCollector struct {
	r   *structResolver
	rec *record.Record
	set []bool
}

func (c *structCollector) Text(text string) error {
	if c.r.text == nil {
		return nil
	}

	v, err := Resolve(c.r.text.resolver, text)
	if err != nil {
		return fmt.Errorf("field %s: %w", c.r.text.field.Name, err)
	}

	c.put(c.r.text, v)

	return nil
}

func (c *structCollector) Attribute(name string, value any) error {
	if b, ok := c.r.attributes[name]; ok {
		c.put(b, value)
	}

	return nil
}

func (c *structCollector) Element(name string, value any) error {
	if b, ok := c.r.elements[name]; ok {
		c.put(b, value)
	}

	return nil
}

func (c *structCollector) put(b *binding, v any) {
	pos := b.field.Pos

	if b.repeated {
		items, _ := c.rec.Value(pos).([]any)
		c.rec.Set(pos, append(items, v))
	} else {
		c.rec.Set(pos, v)
	}

	c.set[pos] = true
}

// Complete fills every unset field with its default.
func (c *structCollector) Complete() (any, error) {
	for _, f := range c.r.read.Fields {
		if c.set[f.Pos] {
			continue
		}

		switch {
		case f.HasDefault:
			c.rec.Set(f.Pos, clone(f.Default))
		case f.Type.AcceptsNull():
			c.rec.Set(f.Pos, nil)
		case f.Type.Type == record.TypeArray:
			c.rec.Set(f.Pos, []any{})
		default:
			if _, ok := c.r.missing[f.Pos]; ok {
				continue
			}

			return nil, fmt.Errorf("%w for field %s of %s", ErrMissingValue, f.Name, c.r.read.FullName())
		}
	}

	return c.rec, nil
}

// clone copies mutable default values so records never share them.
func clone(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = clone(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = clone(item)
		}

		return out
	case []byte:
		return append([]byte{}, t...)
	case *record.Record:
		out := record.NewRecord(t.Schema())
		for i := range t.Schema().Fields {
			out.Set(i, clone(t.Value(i)))
		}

		return out
	default:
		return v
	}
}

// buildStructRecord matches the fields of a write struct with the fields of a
// read record.
func buildStructRecord(s *Session, write model.Type, read *record.Schema) (Resolver, error) {
	wt := write.(*model.StructType)
	r := newStructResolver(read)

	used := make(map[*model.Field]bool)

	for _, rf := range read.Fields {
		wf := matchField(wt, rf)
		if wf == nil {
			if err := s.unmatchedRead(wt, read, rf, r); err != nil {
				return nil, err
			}

			continue
		}

		used[wf] = true

		b, err := s.bindField(wf, rf)
		if err != nil {
			return nil, err
		}

		switch wf.Role {
		case model.RoleAttribute:
			r.attributes[wf.Source] = b
		case model.RoleValue, model.RoleUnparsed:
			r.text = b
		default:
			r.elements[wf.Source] = b
		}
	}

	for _, wf := range wt.Fields() {
		if wf.Role == model.RoleUnparsed {
			r.parse = false
		}

		if used[wf] {
			continue
		}

		if err := s.unmatchedWrite(wt, read, wf); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// matchField finds the write field of a read field by name or alias, in both
// directions.
func matchField(wt *model.StructType, rf *record.Field) *model.Field {
	if wf := wt.Field(rf.Name); wf != nil {
		return wf
	}

	for _, alias := range rf.Aliases {
		if wf := wt.Field(alias); wf != nil {
			return wf
		}
	}

	return nil
}

func (s *Session) unmatchedRead(wt *model.StructType, read *record.Schema, rf *record.Field, r *structResolver) error {
	switch {
	case rf.HasDefault:
		s.diags.AddInfo(diagnostic.CodeFieldDefaulted, "read field "+rf.Name+" takes its default", wt.Name, s.path.Field(rf.Name).String())
		return nil
	case rf.Type.AcceptsNull():
		return nil
	case s.engine.isAllowedMissing(read.Name, rf.Name):
		r.missing[rf.Pos] = struct{}{}
		s.diags.AddInfo(diagnostic.CodeAllowedMissing, "read field "+rf.Name+" stays unset", wt.Name, s.path.Field(rf.Name).String())

		return nil
	}

	names := make([]string, 0, len(wt.Fields()))
	for _, f := range wt.Fields() {
		names = append(names, f.Name)
	}

	saved := s.path
	s.path = s.path.Field(rf.Name)

	defer func() { s.path = saved }()

	return s.Fail(wt, read,
		fmt.Sprintf("read field %s has no write field and no default", rf.Name),
		match.Suggest(rf.Name, names)...)
}

func (s *Session) unmatchedWrite(wt *model.StructType, read *record.Schema, wf *model.Field) error {
	if wf.Cardinality != cardinality.Required || s.engine.isAllowedMissing(wt.Name, wf.Name) {
		s.diags.AddInfo(diagnostic.CodeFieldDropped, "write field "+wf.Name+" is not read", wt.Name, s.path.Field(wf.Name).String())
		return nil
	}

	names := make([]string, 0, len(read.Fields))
	for _, f := range read.Fields {
		names = append(names, f.Name)
	}

	saved := s.path
	s.path = s.path.Field(wf.Name)

	defer func() { s.path = saved }()

	return s.Fail(wt, read,
		fmt.Sprintf("required write field %s has no read field", wf.Name),
		match.Suggest(wf.Name, names)...)
}

// bindField resolves one matched field pair.
func (s *Session) bindField(wf *model.Field, rf *record.Field) (*binding, error) {
	items := arrayItems(rf.Type)

	switch {
	case wf.Cardinality == cardinality.Multiple:
		if items == nil {
			return nil, s.fieldFail(wf, rf, "repeated write field needs a read array")
		}

		item, err := s.within(rf.Name, true, wf.Type, items)
		if err != nil {
			return nil, err
		}

		return &binding{field: rf, resolver: item, repeated: true}, nil

	case items != nil:
		if sole := wrappedArray(wf.Type); sole != nil && !isWrapperRecord(items) {
			item, err := s.within(rf.Name, true, sole.Type, items)
			if err != nil {
				return nil, err
			}

			s.engine.logger.Debug().Str("field", rf.Name).Str("element", sole.Source).Msg("unwrap array")
			s.diags.AddInfo(diagnostic.CodeArrayUnwrapped,
				"elements "+sole.Source+" of "+wf.Name+" read as a flat array", describe(wf.Type), s.path.Field(rf.Name).String())

			return &binding{field: rf, resolver: &unwrap{source: sole.Source, item: item}}, nil
		}

		item, err := s.within(rf.Name, true, wf.Type, items)
		if err != nil {
			return nil, err
		}

		return &binding{field: rf, resolver: item, repeated: true}, nil

	case wf.Cardinality == cardinality.Optional && !rf.HasDefault && !rf.Type.AcceptsNull():
		return nil, s.fieldFail(wf, rf, "optional write field needs a read default")
	}

	r, err := s.within(rf.Name, false, wf.Type, rf.Type)
	if err != nil {
		return nil, err
	}

	return &binding{field: rf, resolver: r}, nil
}

func (s *Session) fieldFail(wf *model.Field, rf *record.Field, reason string) error {
	saved := s.path
	s.path = s.path.Field(rf.Name)

	defer func() { s.path = saved }()

	return &ResolutionError{
		Write:  wf.Cardinality.String() + " " + describe(wf.Type),
		Read:   rf.Type.String(),
		Path:   s.path.String(),
		Reason: reason,
	}
}

// arrayItems returns the item schema of an array or nullable array.
func arrayItems(s *record.Schema) *record.Schema {
	if inner, ok := s.Nullable(); ok {
		s = inner
	}

	if s.Type != record.TypeArray {
		return nil
	}

	return s.Items
}

// wrappedArray returns the repeated sole element field of a wrapper struct.
func wrappedArray(t model.Type) *model.Field {
	st, ok := t.(*model.StructType)
	if !ok {
		return nil
	}

	sole := st.SoleField()
	if sole == nil || sole.Role != model.RoleElement || sole.Cardinality != cardinality.Multiple {
		return nil
	}

	return sole
}

// isWrapperRecord reports whether s is itself a record around one array.
func isWrapperRecord(s *record.Schema) bool {
	if inner, ok := s.Nullable(); ok {
		s = inner
	}

	return s.Type == record.TypeRecord && len(s.Fields) == 1 && arrayItems(s.Fields[0].Type) != nil
}
