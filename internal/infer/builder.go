package infer

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/diagnostic"
	"schema-bridge/internal/model"
	"schema-bridge/internal/walk"
	"schema-bridge/internal/xsd"
)

// ErrSchemaWalk is the root of all type model construction failures.
var ErrSchemaWalk = walk.ErrSchemaWalk

// Default names of the text fields of a struct.
const (
	ValueFieldName    = "value"
	UnparsedFieldName = "content"
)

// representation is the shape chosen for an element type.
type representation int

const (
	reprStruct representation = iota
	reprScalar
	reprUnparsed
)

// State is the per-element state of a build.
type State struct {
	repr   representation
	scalar model.Type
	st     *model.StructType

	attrs    []*model.Field
	value    *model.Field
	children []*model.Field
	unparsed bool

	names map[string]struct{}
}

// Builder builds model types from walk callbacks.
type Builder struct {
	schema   *xsd.Schema
	config   Config
	logger   zerolog.Logger
	registry *model.Registry
	diags    diagnostic.Diagnostics

	// types holds the model type of every started schema type. Structs are
	// stored before their fields are known.
	types map[any]model.Type
	// scalars caches named simple types without extra facets.
	scalars map[xsd.QName]model.Type
}

var _ walk.Builder[*State, model.Type] = (*Builder)(nil)

// NewBuilder creates a Builder for types of schema.
func NewBuilder(schema *xsd.Schema, config Config) *Builder {
	return &Builder{
		schema:   schema,
		config:   config,
		logger:   config.Logger,
		registry: model.NewRegistry(config.MaxNameSuffix),
		types:    make(map[any]model.Type),
		scalars:  make(map[xsd.QName]model.Type),
	}
}

// Registry returns the registry of named types built so far.
func (b *Builder) Registry() *model.Registry {
	return b.registry
}

// Diagnostics returns the non-fatal findings of the build.
func (b *Builder) Diagnostics() diagnostic.Diagnostics {
	return b.diags
}

// StartElement chooses the representation of a new schema type.
func (b *Builder) StartElement(field walk.FieldData, typ walk.TypeData, attrs []walk.AttributeData) (*State, error) {
	switch {
	case typ.Value != nil && len(attrs) == 0:
		scalar, err := b.scalar(*typ.Value)
		if err != nil {
			return nil, err
		}

		b.types[typ.Key] = scalar

		return &State{repr: reprScalar, scalar: scalar}, nil

	case (typ.AnyType || typ.Mixed || typ.Wildcard) && len(attrs) == 0:
		b.types[typ.Key] = model.UnparsedString

		return &State{repr: reprUnparsed, scalar: model.UnparsedString}, nil
	}

	name := typ.Name
	if typ.Anonymous() {
		name = typ.Owner
	}

	st, err := b.registry.NewStruct(name.Local, name.Space)
	if err != nil {
		return nil, err
	}

	if b.config.Documentation {
		st.Doc = typ.Doc
	}

	// Register before the children are walked so recursive references
	// resolve to this instance.
	b.types[typ.Key] = st

	b.logger.Debug().Str("struct", st.Name).Str("element", field.Name.Local).Msg("register struct")

	state := &State{repr: reprStruct, st: st, names: make(map[string]struct{})}

	for _, a := range attrs {
		ft, err := b.scalar(a.Type)
		if err != nil {
			return nil, err
		}

		card := cardinality.Optional
		if a.Required {
			card = cardinality.Required
		}

		state.attrs = append(state.attrs, &model.Field{
			Name:        state.fieldName(a.Name.Local, b.config.MaxNameSuffix),
			Doc:         b.doc(a.Doc),
			Cardinality: card,
			Type:        ft,
			Default:     a.Default,
			Source:      a.Name.Local,
			Role:        model.RoleAttribute,
		})
	}

	if typ.Value != nil {
		vt, err := b.scalar(*typ.Value)
		if err != nil {
			return nil, err
		}

		state.value = &model.Field{
			Name:        state.fieldName(ValueFieldName, b.config.MaxNameSuffix),
			Cardinality: cardinality.Required,
			Type:        vt,
			Role:        model.RoleValue,
		}
	}

	return state, nil
}

// EndElement fills in the field list of a struct. The value field dominates
// the unparsed field, which dominates nested element fields.
func (b *Builder) EndElement(state *State) (model.Type, error) {
	if state.repr != reprStruct {
		return state.scalar, nil
	}

	fields := append([]*model.Field{}, state.attrs...)

	switch {
	case state.value != nil:
		fields = append(fields, state.value)
	case state.unparsed:
		fields = append(fields, &model.Field{
			Name:        state.fieldName(UnparsedFieldName, b.config.MaxNameSuffix),
			Cardinality: cardinality.Required,
			Type:        model.UnparsedString,
			Role:        model.RoleUnparsed,
		})
	default:
		fields = append(fields, state.children...)
	}

	state.st.SetFields(fields)

	return state.st, nil
}

// RepeatedElement returns the type registered for an already started schema
// type.
func (b *Builder) RepeatedElement(typ walk.TypeData) (model.Type, error) {
	t, ok := b.types[typ.Key]
	if !ok {
		return nil, fmt.Errorf("type of element %s was never started", typ.Owner.Local)
	}

	return t, nil
}

// Element embeds a child element into parent. Repeated occurrences of the
// same element name collapse into one repeated field.
func (b *Builder) Element(parent *State, field walk.FieldData, result model.Type) error {
	if parent.repr != reprStruct {
		return nil
	}

	for _, f := range parent.children {
		if f.Source == field.Name.Local {
			b.logger.Debug().Str("struct", parent.st.Name).Str("field", f.Name).Msg("merge repeated element")
			f.Cardinality = cardinality.Multiple

			return nil
		}
	}

	parent.children = append(parent.children, &model.Field{
		Name:        parent.fieldName(field.Name.Local, b.config.MaxNameSuffix),
		Doc:         b.doc(field.Doc),
		Cardinality: field.Cardinality,
		Type:        result,
		Default:     field.Default,
		Source:      field.Name.Local,
		Role:        model.RoleElement,
	})

	return nil
}

// ElementContainsAny marks a struct as unparsed.
func (b *Builder) ElementContainsAny(state *State) {
	if state.repr == reprStruct {
		state.unparsed = true
	}
}

func (b *Builder) doc(s string) string {
	if !b.config.Documentation {
		return ""
	}

	return s
}

// fieldName returns a field name unique within the struct. Field names that
// cannot be made unique keep their stem.
func (s *State) fieldName(stem string, limit int) string {
	name, ok := model.NewStem(stem, s.names, limit).Next()
	if !ok {
		return stem
	}

	return name
}

// Result is a built type model.
type Result struct {
	// Root is the local name of the root element.
	Root string
	// Type is the write type of root documents.
	Type        model.Type
	Registry    *model.Registry
	Diagnostics diagnostic.Diagnostics
}

// Build walks the global element named root and returns its type model. An
// empty root selects the only global element.
func Build(schema *xsd.Schema, root string, config Config) (*Result, error) {
	b := NewBuilder(schema, config)

	res, err := walk.New(schema, b, walk.WithLogger(config.Logger)).Walk(root)
	if err != nil {
		return nil, err
	}

	if incomplete := b.registry.Incomplete(); len(incomplete) > 0 {
		return nil, &walk.Error{
			Component: "schema",
			Err:       fmt.Errorf("incomplete types %v", incomplete),
		}
	}

	return &Result{
		Root:        res.Field.Name.Local,
		Type:        res.Type,
		Registry:    b.registry,
		Diagnostics: b.diags,
	}, nil
}

// FromReader parses a schema document and builds the type model of root.
func FromReader(r io.Reader, root string, config Config) (*Result, error) {
	schema, err := xsd.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	return Build(schema, root, config)
}
