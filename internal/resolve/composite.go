package resolve

import (
	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
)

// unwrap reads the repeated children of a wrapper element as a flat array.
type unwrap struct {
	source string
	item   Resolver
}

func (u *unwrap) Element(name string) Resolver {
	if name == u.source {
		return u.item
	}

	return Ignore
}

func (u *unwrap) Attribute(string) Resolver { return nil }
func (u *unwrap) ParseContent() bool        { return true }
func (u *unwrap) Begin() Collector          { return &unwrapCollector{u: u, items: []any{}} }

type unwrapCollector struct {
	u     *unwrap
	items []any
}

func (c *unwrapCollector) Text(string) error           { return nil }
func (c *unwrapCollector) Attribute(string, any) error { return nil }

func (c *unwrapCollector) Element(name string, value any) error {
	if name == c.u.source {
		c.items = append(c.items, value)
	}

	return nil
}

func (c *unwrapCollector) Complete() (any, error) { return c.items, nil }

// nullableResolver reads a nullable union. Scalars without text are null.
type nullableResolver struct {
	inner      Resolver
	scalarLike bool
}

func nullable(r Resolver) Resolver {
	_, scalarLike := r.(*scalar)
	return &nullableResolver{inner: r, scalarLike: scalarLike}
}

func (n *nullableResolver) Element(name string) Resolver   { return n.inner.Element(name) }
func (n *nullableResolver) Attribute(name string) Resolver { return n.inner.Attribute(name) }
func (n *nullableResolver) ParseContent() bool             { return n.inner.ParseContent() }

func (n *nullableResolver) Begin() Collector {
	return &nullableCollector{n: n, inner: n.inner.Begin()}
}

type nullableCollector struct {
	n       *nullableResolver
	inner   Collector
	touched bool
}

func (c *nullableCollector) Text(text string) error {
	c.touched = true
	return c.inner.Text(text)
}

func (c *nullableCollector) Attribute(name string, value any) error {
	c.touched = true
	return c.inner.Attribute(name, value)
}

func (c *nullableCollector) Element(name string, value any) error {
	c.touched = true
	return c.inner.Element(name, value)
}

func (c *nullableCollector) Complete() (any, error) {
	if c.n.scalarLike && !c.touched {
		return nil, nil
	}

	return c.inner.Complete()
}

// mapEntry routes one element or attribute to a map key.
type mapEntry struct {
	key      string
	resolver Resolver
	repeated bool
}

// mapResolver collects elements into a map. With fallback set, every
// element name becomes a key.
type mapResolver struct {
	elements   map[string]*mapEntry
	attributes map[string]*mapEntry
	fallback   Resolver
	// repeated accumulates fallback values into arrays.
	repeated bool
}

func (m *mapResolver) entry(name string) *mapEntry {
	if e, ok := m.elements[name]; ok {
		return e
	}

	if m.fallback != nil {
		return &mapEntry{key: name, resolver: m.fallback, repeated: m.repeated}
	}

	return nil
}

func (m *mapResolver) Element(name string) Resolver {
	if e := m.entry(name); e != nil {
		return e.resolver
	}

	return Ignore
}

func (m *mapResolver) Attribute(name string) Resolver {
	if e, ok := m.attributes[name]; ok {
		return e.resolver
	}

	return nil
}

func (m *mapResolver) ParseContent() bool { return true }

func (m *mapResolver) Begin() Collector {
	return &mapCollector{m: m, values: make(map[string]any)}
}

type mapCollector struct {
	m      *mapResolver
	values map[string]any
}

func (c *mapCollector) Text(string) error { return nil }

func (c *mapCollector) Attribute(name string, value any) error {
	if e, ok := c.m.attributes[name]; ok {
		c.values[e.key] = value
	}

	return nil
}

func (c *mapCollector) Element(name string, value any) error {
	e := c.m.entry(name)
	if e == nil {
		return nil
	}

	if e.repeated {
		items, _ := c.values[e.key].([]any)
		c.values[e.key] = append(items, value)
	} else {
		c.values[e.key] = value
	}

	return nil
}

func (c *mapCollector) Complete() (any, error) { return c.values, nil }

// buildStructMap reads every element and attribute field of a write struct
// as a map entry keyed by field name.
func buildStructMap(s *Session, write model.Type, read *record.Schema) (Resolver, error) {
	wt := write.(*model.StructType)
	m := &mapResolver{
		elements:   make(map[string]*mapEntry),
		attributes: make(map[string]*mapEntry),
	}

	for _, wf := range wt.Fields() {
		values := read.Values
		repeated := false

		if wf.Cardinality == cardinality.Multiple {
			if values = arrayItems(read.Values); values == nil {
				return nil, s.Failf(wf.Type, read, "repeated field %s needs map values of array type", wf.Name)
			}

			repeated = true
		}

		r, err := s.within(wf.Name, false, wf.Type, values)
		if err != nil {
			return nil, err
		}

		e := &mapEntry{key: wf.Name, resolver: r, repeated: repeated}

		switch wf.Role {
		case model.RoleAttribute:
			m.attributes[wf.Source] = e
		case model.RoleElement:
			m.elements[wf.Source] = e
		default:
			return nil, s.Failf(wf.Type, read, "text field %s cannot be a map entry", wf.Name)
		}
	}

	return m, nil
}

// buildBaseMap reads every child element as a map entry.
func buildBaseMap(s *Session, _ model.Type, read *record.Schema) (Resolver, error) {
	values, repeated := read.Values, false
	if items := arrayItems(read.Values); items != nil {
		values, repeated = items, true
	}

	r, err := s.within("*", repeated, nil, values)
	if err != nil {
		return nil, err
	}

	return &mapResolver{fallback: r, repeated: repeated}, nil
}

// buildBaseRecord binds every read field to the element of the same name,
// and scalar fields also to the attribute of the same name.
func buildBaseRecord(s *Session, _ model.Type, read *record.Schema) (Resolver, error) {
	r := newStructResolver(read)

	for _, rf := range read.Fields {
		if items := arrayItems(rf.Type); items != nil {
			item, err := s.within(rf.Name, true, nil, items)
			if err != nil {
				return nil, err
			}

			r.elements[rf.Name] = &binding{field: rf, resolver: item, repeated: true}

			continue
		}

		res, err := s.within(rf.Name, false, nil, rf.Type)
		if err != nil {
			return nil, err
		}

		b := &binding{field: rf, resolver: res}
		r.elements[rf.Name] = b

		target := rf.Type
		if inner, ok := target.Nullable(); ok {
			target = inner
		}

		if readScalar(target) {
			r.attributes[rf.Name] = b
		}
	}

	return r, nil
}
