package walk

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/xsd"
)

var anyTypeName = xsd.QName{Space: xsd.Namespace, Local: "anyType"}

// Option configures a Walker.
type Option func(*settings)

type settings struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Walker walks a schema and drives a Builder.
type Walker[S, R any] struct {
	schema  *xsd.Schema
	builder Builder[S, R]
	logger  zerolog.Logger

	card    cardinality.Stack
	open    []xsd.QName
	started map[any]struct{}
}

// New creates a Walker over schema.
func New[S, R any](schema *xsd.Schema, builder Builder[S, R], opts ...Option) *Walker[S, R] {
	cfg := settings{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Walker[S, R]{
		schema:  schema,
		builder: builder,
		logger:  cfg.logger,
		started: make(map[any]struct{}),
	}
}

// Result is the outcome of walking a root element.
type Result[R any] struct {
	Field FieldData
	Type  R
}

// Walk visits the global element with the given local name. An empty root
// selects the only global element of the schema.
func (w *Walker[S, R]) Walk(root string) (Result[R], error) {
	el, err := w.root(root)
	if err != nil {
		return Result[R]{}, err
	}

	field, result, err := w.visit(el, el, cardinality.Required)
	if err != nil {
		return Result[R]{}, err
	}

	return Result[R]{Field: field, Type: result}, nil
}

func (w *Walker[S, R]) root(name string) (*xsd.Element, error) {
	if name != "" {
		el, ok := w.schema.FindElement(name)
		if !ok {
			return nil, &Error{Component: "element " + name, Err: ErrNoRoot}
		}

		return el, nil
	}

	if len(w.schema.ElementOrder) != 1 {
		return nil, &Error{
			Component: "schema",
			Err:       fmt.Errorf("%w: %d global elements, name one", ErrNoRoot, len(w.schema.ElementOrder)),
		}
	}

	return w.schema.Elements[w.schema.ElementOrder[0]], nil
}

func (w *Walker[S, R]) fail(component string, err error) error {
	names := make([]string, len(w.open))
	for i, q := range w.open {
		names[i] = q.Local
	}

	return &Error{Path: strings.Join(names, "/"), Component: component, Err: err}
}

// particle dispatches on the particle kind.
func (w *Walker[S, R]) particle(parent S, p xsd.Particle) error {
	switch t := p.(type) {
	case *xsd.Element:
		return w.element(parent, t)
	case *xsd.ModelGroup:
		return w.group(parent, t, t.MinOccurs, t.MaxOccurs)
	case *xsd.GroupRef:
		g, err := w.schema.Group(t.Ref)
		if err != nil {
			return w.fail("group "+t.Ref.String(), err)
		}

		return w.group(parent, g, t.MinOccurs, t.MaxOccurs)
	case *xsd.Any:
		if cardinality.Of(t.MinOccurs, t.MaxOccurs).AdjustFor(w.card.Peek()) != cardinality.None {
			w.builder.ElementContainsAny(parent)
		}

		return nil
	default:
		return w.fail("particle", fmt.Errorf("%w: %T", ErrUnsupported, p))
	}
}

func (w *Walker[S, R]) group(parent S, g *xsd.ModelGroup, minOccurs, maxOccurs int) error {
	local := cardinality.Of(minOccurs, maxOccurs)
	if g.Kind == xsd.Choice {
		w.card.PushChoice(local)
	} else {
		w.card.Push(local)
	}

	defer w.card.Pop()

	for _, p := range g.Particles {
		if err := w.particle(parent, p); err != nil {
			return err
		}
	}

	return nil
}

// element visits a local element particle and embeds it into parent.
func (w *Walker[S, R]) element(parent S, el *xsd.Element) error {
	decl := el
	if !el.Ref.IsZero() {
		ref, err := w.schema.Element(el.Ref)
		if err != nil {
			return w.fail("element "+el.Ref.String(), err)
		}

		decl = ref
	}

	local := cardinality.Of(el.MinOccurs, el.MaxOccurs)
	if local.AdjustFor(w.card.Peek()) == cardinality.None {
		return nil
	}

	field, result, err := w.visit(decl, el, local)
	if err != nil {
		return err
	}

	return w.builder.Element(parent, field, result)
}

// visit starts, walks and ends decl unless its type was already started.
func (w *Walker[S, R]) visit(decl, occurrence *xsd.Element, local cardinality.Cardinality) (FieldData, R, error) {
	var zero R

	if !decl.SubstitutionGroup.IsZero() {
		return FieldData{}, zero, w.fail("element "+decl.Name.Local,
			fmt.Errorf("%w: substitution group %s", ErrUnsupported, decl.SubstitutionGroup))
	}

	if w.schema.Elements[decl.Name] == decl {
		if members := w.schema.Substitutes(decl.Name); len(members) > 0 {
			return FieldData{}, zero, w.fail("element "+decl.Name.Local,
				fmt.Errorf("%w: element heads a substitution group with %s", ErrUnsupported, members[0]))
		}
	}

	if decl.Abstract {
		return FieldData{}, zero, w.fail("element "+decl.Name.Local,
			fmt.Errorf("%w: abstract element heads a substitution group", ErrUnsupported))
	}

	field := FieldData{
		Name:        decl.Name,
		Cardinality: local.AdjustFor(w.card.Peek()),
		Doc:         decl.Doc,
		Default:     decl.Default,
	}

	if decl.Fixed != nil {
		field.Default = decl.Fixed
	}

	if occurrence.Doc != "" {
		field.Doc = occurrence.Doc
	}

	td, err := w.typeData(decl)
	if err != nil {
		return FieldData{}, zero, err
	}

	if _, ok := w.started[td.Key]; ok {
		w.logger.Debug().Str("element", decl.Name.Local).Msg("repeated schema type")

		result, err := w.builder.RepeatedElement(td)
		if err != nil {
			return FieldData{}, zero, w.fail("element "+decl.Name.Local, err)
		}

		return field, result, nil
	}

	w.started[td.Key] = struct{}{}

	attrs, err := w.attributes(td.Complex, decl.Name)
	if err != nil {
		return FieldData{}, zero, err
	}

	state, err := w.builder.StartElement(field, td, attrs)
	if err != nil {
		return FieldData{}, zero, w.fail("element "+decl.Name.Local, err)
	}

	w.logger.Debug().Str("element", decl.Name.Local).Str("cardinality", field.Cardinality.String()).Msg("enter element")

	w.open = append(w.open, decl.Name)
	w.card.PushReset()

	if td.Mixed || td.AnyType {
		w.builder.ElementContainsAny(state)
	}

	if td.Complex != nil && !td.Complex.SimpleContent {
		if err := w.content(state, td.Complex, make(map[*xsd.ComplexType]struct{})); err != nil {
			return FieldData{}, zero, err
		}
	}

	w.card.Pop()
	w.open = w.open[:len(w.open)-1]

	result, err := w.builder.EndElement(state)
	if err != nil {
		return FieldData{}, zero, w.fail("element "+decl.Name.Local, err)
	}

	return field, result, nil
}

// content walks the content model of ct, base types first.
func (w *Walker[S, R]) content(state S, ct *xsd.ComplexType, seen map[*xsd.ComplexType]struct{}) error {
	if _, ok := seen[ct]; ok {
		return w.fail("complex type "+ct.Name.Local, fmt.Errorf("%w: circular derivation", ErrUnsupported))
	}

	seen[ct] = struct{}{}

	if ct.Derivation == xsd.DerivationExtension && ct.Base != anyTypeName {
		base, err := w.schema.ComplexType(ct.Base)
		if err != nil {
			return w.fail("complex type "+ct.Name.Local, err)
		}

		if err := w.content(state, base, seen); err != nil {
			return err
		}
	}

	if ct.Content == nil {
		return nil
	}

	return w.group(state, ct.Content, ct.Content.MinOccurs, ct.Content.MaxOccurs)
}
