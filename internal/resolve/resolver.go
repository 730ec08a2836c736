package resolve

import (
	"errors"
	"fmt"
)

// ErrUnexpectedElement is returned by collectors and parsers when an element
// appears where the read schema expects a scalar.
var ErrUnexpectedElement = errors.New("unexpected element")

// Resolver converts the content of one element into a value.
type Resolver interface {
	// Element returns the resolver of a nested element. Unknown elements get
	// the Ignore resolver; nil means no nested element is allowed here.
	Element(name string) Resolver
	// Attribute returns the resolver of an attribute, or nil when the
	// attribute is ignored.
	Attribute(name string) Resolver
	// ParseContent reports whether nested markup is parsed structurally.
	// When false the content arrives as reconstructed text.
	ParseContent() bool
	// Begin starts collecting the value of one element.
	Begin() Collector
}

// Collector accumulates the value of one element of one document.
type Collector interface {
	// Text receives the normalized text content of the element.
	Text(text string) error
	// Attribute receives the resolved value of an attribute.
	Attribute(name string, value any) error
	// Element receives the completed value of a nested element.
	Element(name string, value any) error
	// Complete returns the value of the element.
	Complete() (any, error)
}

// Resolve converts a text value with a scalar resolver.
func Resolve(r Resolver, text string) (any, error) {
	c := r.Begin()
	if err := c.Text(text); err != nil {
		return nil, err
	}

	return c.Complete()
}

// Ignore drops an element and everything inside it.
var Ignore Resolver = ignore{}

type ignore struct{}

func (ignore) Element(string) Resolver   { return Ignore }
func (ignore) Attribute(string) Resolver { return nil }
func (ignore) ParseContent() bool        { return true }
func (ignore) Begin() Collector          { return ignoreCollector{} }

type ignoreCollector struct{}

func (ignoreCollector) Text(string) error           { return nil }
func (ignoreCollector) Attribute(string, any) error { return nil }
func (ignoreCollector) Element(string, any) error   { return nil }
func (ignoreCollector) Complete() (any, error)      { return nil, nil }

// delegating stands in for a resolver that is still being built. It is
// back-patched once the real resolver exists.
type delegating struct {
	target Resolver
}

func (d *delegating) resolver() Resolver {
	if d.target == nil {
		panic("resolve: delegating resolver used before it was patched")
	}

	return d.target
}

func (d *delegating) Element(name string) Resolver   { return d.resolver().Element(name) }
func (d *delegating) Attribute(name string) Resolver { return d.resolver().Attribute(name) }
func (d *delegating) ParseContent() bool             { return d.resolver().ParseContent() }
func (d *delegating) Begin() Collector               { return d.resolver().Begin() }

// Converter turns element or attribute text into a value.
type Converter func(text string) (any, error)

// scalar resolves element text with a converter.
type scalar struct {
	name    string
	convert Converter
	// empty is the value of an element without text; nil means the
	// converter decides.
	empty    func() (any, error)
	unparsed bool
}

// NewScalar returns a resolver converting text content with convert.
func NewScalar(name string, convert Converter) Resolver {
	return &scalar{name: name, convert: convert}
}

func (s *scalar) Element(string) Resolver   { return nil }
func (s *scalar) Attribute(string) Resolver { return nil }
func (s *scalar) ParseContent() bool        { return !s.unparsed }
func (s *scalar) Begin() Collector          { return &scalarCollector{s: s} }

type scalarCollector struct {
	s    *scalar
	text string
	seen bool
}

func (c *scalarCollector) Text(text string) error {
	c.text += text
	c.seen = true

	return nil
}

func (c *scalarCollector) Attribute(string, any) error { return nil }

func (c *scalarCollector) Element(name string, _ any) error {
	return fmt.Errorf("%w %s inside %s value", ErrUnexpectedElement, name, c.s.name)
}

func (c *scalarCollector) Complete() (any, error) {
	if !c.seen && c.s.empty != nil {
		return c.s.empty()
	}

	v, err := c.s.convert(c.text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", c.s.name, c.text, err)
	}

	return v, nil
}
