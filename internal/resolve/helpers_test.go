package resolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
)

// node is a parsed element used to drive resolvers without XML.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []node
}

func run(r Resolver, n node) (any, error) {
	c := r.Begin()

	for name, text := range n.attrs {
		ar := r.Attribute(name)
		if ar == nil {
			continue
		}

		v, err := Resolve(ar, text)
		if err != nil {
			return nil, err
		}

		if err := c.Attribute(name, v); err != nil {
			return nil, err
		}
	}

	if n.text != "" {
		if err := c.Text(n.text); err != nil {
			return nil, err
		}
	}

	for _, child := range n.children {
		cr := r.Element(child.name)
		if cr == nil {
			return nil, fmt.Errorf("%w %s", ErrUnexpectedElement, child.name)
		}

		v, err := run(cr, child)
		if err != nil {
			return nil, err
		}

		if err := c.Element(child.name, v); err != nil {
			return nil, err
		}
	}

	return c.Complete()
}

func newStruct(t *testing.T, name string, fields ...*model.Field) *model.StructType {
	t.Helper()

	st, err := model.NewRegistry(0).NewStruct(name, "")
	require.NoError(t, err)

	if fields != nil {
		st.SetFields(fields)
	}

	return st
}

func element(name string, c cardinality.Cardinality, typ model.Type) *model.Field {
	return &model.Field{Name: name, Source: name, Cardinality: c, Type: typ, Role: model.RoleElement}
}

func attribute(name string, c cardinality.Cardinality, typ model.Type) *model.Field {
	return &model.Field{Name: name, Source: name, Cardinality: c, Type: typ, Role: model.RoleAttribute}
}

func textField(name string, role model.FieldRole, typ model.Type) *model.Field {
	return &model.Field{Name: name, Cardinality: cardinality.Required, Type: typ, Role: role}
}

func build(t *testing.T, write model.Type, read string, config Config) (*Graph, error) {
	t.Helper()

	return NewEngine(config).Build(write, record.MustParse(read))
}
