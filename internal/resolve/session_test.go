package resolve

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-bridge/internal/cardinality"
	"schema-bridge/internal/diagnostic"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
)

func TestEnvelope(t *testing.T) {
	write := newStruct(t, "Envelope", element("Payload", cardinality.Required, model.StringType))

	g, err := build(t, write, `{"type":"record","name":"Envelope","fields":[{"name":"Payload","type":"string"}]}`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Envelope", children: []node{{name: "Payload", text: "hi"}}})
	require.NoError(t, err)

	rec, ok := v.(*record.Record)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"Payload": "hi"}, rec.Map())
}

func TestUnmatchedReadFieldSuggests(t *testing.T) {
	write := newStruct(t, "Order", element("customer", cardinality.Required, model.StringType))

	_, err := build(t, write, `{"type":"record","name":"Order","fields":[{"name":"custmer","type":"string"}]}`, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "Order.custmer", resErr.Path)
	assert.Equal(t, []string{"customer"}, resErr.Suggestions)
	assert.Contains(t, err.Error(), "did you mean customer?")
}

func TestUnmatchedRequiredWriteField(t *testing.T) {
	write := newStruct(t, "Order",
		element("id", cardinality.Required, model.StringType),
		element("note", cardinality.Optional, model.StringType),
	)
	read := `{"type":"record","name":"Order","fields":[{"name":"note","type":["null","string"],"default":null}]}`

	_, err := build(t, write, read, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required write field id has no read field")

	config := DefaultConfig()
	config.AllowedMissing = []string{"Order.id"}

	g, err := build(t, write, read, config)
	require.NoError(t, err)
	assert.Contains(t, g.Diagnostics.Codes(), diagnostic.CodeFieldDropped)
}

func TestAllowedMissingReadField(t *testing.T) {
	write := newStruct(t, "Order", element("id", cardinality.Required, model.StringType))
	read := `{"type":"record","name":"Order","fields":[
		{"name":"id","type":"string"},
		{"name":"extra","type":"long"},
		{"name":"kind","type":"string","default":"retail"}]}`

	_, err := build(t, write, read, DefaultConfig())
	require.Error(t, err)

	config := DefaultConfig()
	config.AllowedMissing = []string{"extra"}

	g, err := build(t, write, read, config)
	require.NoError(t, err)
	assert.Contains(t, g.Diagnostics.Codes(), diagnostic.CodeAllowedMissing)
	assert.Contains(t, g.Diagnostics.Codes(), diagnostic.CodeFieldDefaulted)

	v, err := run(g.Root, node{name: "Order", children: []node{{name: "id", text: "7"}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "7", "extra": nil, "kind": "retail"}, v.(*record.Record).Map())
}

func TestMissingValueAtRead(t *testing.T) {
	write := newStruct(t, "Order", element("id", cardinality.Required, model.StringType))

	g, err := build(t, write, `{"type":"record","name":"Order","fields":[{"name":"id","type":"string"}]}`, DefaultConfig())
	require.NoError(t, err)

	_, err = run(g.Root, node{name: "Order"})
	assert.ErrorIs(t, err, ErrMissingValue)
}

func TestOptionalFieldNeedsDefault(t *testing.T) {
	write := newStruct(t, "Order", element("note", cardinality.Optional, model.StringType))

	_, err := build(t, write, `{"type":"record","name":"Order","fields":[{"name":"note","type":"string"}]}`, DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "optional write field needs a read default")

	g, err := build(t, write, `{"type":"record","name":"Order","fields":[{"name":"note","type":["null","string"],"default":null}]}`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Order", children: []node{{name: "note"}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"note": nil}, v.(*record.Record).Map())
}

func TestRepeatedFieldNeedsArray(t *testing.T) {
	write := newStruct(t, "Order", element("line", cardinality.Multiple, model.StringType))

	_, err := build(t, write, `{"type":"record","name":"Order","fields":[{"name":"line","type":"string"}]}`, DefaultConfig())
	require.Error(t, err)

	g, err := build(t, write, `{"type":"record","name":"Order","fields":[{"name":"line","type":{"type":"array","items":"string"}}]}`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Order", children: []node{{name: "line", text: "a"}, {name: "line", text: "b"}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"line": []any{"a", "b"}}, v.(*record.Record).Map())

	v, err = run(g.Root, node{name: "Order"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"line": []any{}}, v.(*record.Record).Map())
}

func TestArrayUnwrapping(t *testing.T) {
	wrapper := newStruct(t, "Items", element("item", cardinality.Multiple, model.StringType))
	write := newStruct(t, "Order", element("items", cardinality.Required, wrapper))

	g, err := build(t, write, `{"type":"record","name":"Order","fields":[{"name":"items","type":{"type":"array","items":"string"}}]}`, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, g.Diagnostics.Codes(), diagnostic.CodeArrayUnwrapped)

	v, err := run(g.Root, node{name: "Order", children: []node{{name: "items", children: []node{
		{name: "item", text: "a"},
		{name: "other", text: "x"},
		{name: "item", text: "b"},
	}}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"items": []any{"a", "b"}}, v.(*record.Record).Map())
}

func TestWrapperRecordIsNotUnwrapped(t *testing.T) {
	wrapper := newStruct(t, "Items", element("item", cardinality.Multiple, model.StringType))
	write := newStruct(t, "Order", element("items", cardinality.Multiple, wrapper))
	read := `{"type":"record","name":"Order","fields":[{"name":"items","type":{"type":"array","items":
		{"type":"record","name":"Items","fields":[{"name":"item","type":{"type":"array","items":"string"}}]}}}]}`

	g, err := build(t, write, read, DefaultConfig())
	require.NoError(t, err)
	assert.NotContains(t, g.Diagnostics.Codes(), diagnostic.CodeArrayUnwrapped)

	v, err := run(g.Root, node{name: "Order", children: []node{
		{name: "items", children: []node{{name: "item", text: "a"}}},
		{name: "items", children: []node{{name: "item", text: "b"}, {name: "item", text: "c"}}},
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"items": []any{
		map[string]any{"item": []any{"a"}},
		map[string]any{"item": []any{"b", "c"}},
	}}, v.(*record.Record).Map())
}

func TestRecursiveTypes(t *testing.T) {
	write := newStruct(t, "Node")
	write.SetFields([]*model.Field{
		element("name", cardinality.Required, model.StringType),
		element("child", cardinality.Optional, write),
	})

	g, err := build(t, write, `{"type":"record","name":"Node","fields":[
		{"name":"name","type":"string"},
		{"name":"child","type":["null","Node"],"default":null}]}`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Node", children: []node{
		{name: "name", text: "a"},
		{name: "child", children: []node{{name: "name", text: "b"}}},
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "a",
		"child": map[string]any{"name": "b", "child": nil},
	}, v.(*record.Record).Map())
}

func TestAttributesAndValue(t *testing.T) {
	write := newStruct(t, "Price",
		attribute("currency", cardinality.Required, model.StringType),
		attribute("note", cardinality.Optional, model.StringType),
		textField("value", model.RoleValue, model.DoubleType),
	)

	g, err := build(t, write, `{"type":"record","name":"Price","fields":[
		{"name":"currency","type":"string"},
		{"name":"value","type":"double"}]}`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Price", attrs: map[string]string{"currency": "EUR", "note": "x"}, text: "9.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"currency": "EUR", "value": 9.5}, v.(*record.Record).Map())

	// Only the value is read against a scalar schema.
	g, err = build(t, write, `"double"`, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, g.Diagnostics.Codes(), diagnostic.CodeFieldDropped)

	v, err = run(g.Root, node{name: "Price", attrs: map[string]string{"currency": "EUR"}, text: "1"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestUnparsedContent(t *testing.T) {
	write := newStruct(t, "Doc",
		attribute("lang", cardinality.Optional, model.StringType),
		textField("content", model.RoleUnparsed, model.UnparsedString),
	)

	g, err := build(t, write, `{"type":"record","name":"Doc","fields":[
		{"name":"lang","type":["null","string"],"default":null},
		{"name":"content","type":"string"}]}`, DefaultConfig())
	require.NoError(t, err)
	assert.False(t, g.Root.ParseContent())

	v, err := run(g.Root, node{name: "Doc", text: "<b>bold</b>"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"lang": nil, "content": "<b>bold</b>"}, v.(*record.Record).Map())
}

func TestStructMap(t *testing.T) {
	write := newStruct(t, "Props",
		attribute("id", cardinality.Required, model.StringType),
		element("color", cardinality.Optional, model.StringType),
		element("size", cardinality.Optional, model.StringType),
	)

	g, err := build(t, write, `{"type":"map","values":"string"}`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Props", attrs: map[string]string{"id": "p1"}, children: []node{
		{name: "color", text: "red"},
		{name: "unknown", text: "x"},
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "p1", "color": "red"}, v)

	repeated := newStruct(t, "Tags", element("tag", cardinality.Multiple, model.StringType))

	_, err = build(t, repeated, `{"type":"map","values":"string"}`, DefaultConfig())
	require.Error(t, err)

	g, err = build(t, repeated, `{"type":"map","values":{"type":"array","items":"string"}}`, DefaultConfig())
	require.NoError(t, err)

	v, err = run(g.Root, node{name: "Tags", children: []node{{name: "tag", text: "a"}, {name: "tag", text: "b"}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tag": []any{"a", "b"}}, v)
}

func TestBaseRecord(t *testing.T) {
	g, err := build(t, nil, `{"type":"record","name":"Row","fields":[
		{"name":"id","type":"int"},
		{"name":"label","type":["null","string"],"default":null},
		{"name":"tags","type":{"type":"array","items":"string"}},
		{"name":"props","type":{"type":"map","values":"long"},"default":{}}]}`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Row", attrs: map[string]string{"id": "3"}, children: []node{
		{name: "tags", text: "x"},
		{name: "tags", text: "y"},
		{name: "props", children: []node{{name: "a", text: "1"}, {name: "b", text: "2"}}},
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":    int32(3),
		"label": nil,
		"tags":  []any{"x", "y"},
		"props": map[string]any{"a": int64(1), "b": int64(2)},
	}, v.(*record.Record).Map())

	v, err = run(g.Root, node{name: "Row", children: []node{{name: "id", text: "4"}, {name: "label", text: "l"}}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"id":    int32(4),
		"label": "l",
		"tags":  []any{},
		"props": map[string]any{},
	}, v.(*record.Record).Map())
}

func TestPrependRule(t *testing.T) {
	upper := Rule{
		Name:  "upper",
		Write: isFixed(model.String),
		Read:  readIs(record.TypeString),
		Build: func(*Session, model.Type, *record.Schema) (Resolver, error) {
			return NewScalar("upper", func(text string) (any, error) { return strings.ToUpper(text), nil }), nil
		},
	}

	e := NewEngine(DefaultConfig())
	e.Prepend(upper)
	assert.Equal(t, "upper", e.Rules()[0].Name)

	g, err := e.Build(model.StringType, record.Primitive(record.TypeString))
	require.NoError(t, err)

	v, err := Resolve(g.Root, "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", v)
}

func TestFailedBranchLeavesNoPlaceholder(t *testing.T) {
	write := newStruct(t, "Item", element("id", cardinality.Required, model.StringType))

	// The first branch fails after memoizing the pair, the second succeeds.
	g, err := build(t, write, `[
		{"type":"record","name":"A","fields":[{"name":"other","type":"string"}]},
		{"type":"record","name":"B","fields":[{"name":"id","type":"string"}]}]`, DefaultConfig())
	require.NoError(t, err)

	v, err := run(g.Root, node{name: "Item", children: []node{{name: "id", text: "1"}}})
	require.NoError(t, err)
	assert.Equal(t, "B", v.(*record.Record).Schema().Name)
}

func TestReadSchemaRequired(t *testing.T) {
	_, err := NewEngine(DefaultConfig()).Build(model.StringType, nil)
	assert.Error(t, err)
}
