package bridge_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-bridge/bridge"
	"schema-bridge/internal/assemble"
	"schema-bridge/internal/config"
	"schema-bridge/internal/metrics"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
	"schema-bridge/internal/resolve"
)

const envelopeXSD = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Envelope">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="Payload" type="xs:string"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

const envelopeRead = `{"type":"record","name":"Envelope","fields":[{"name":"Payload","type":"string"}]}`

func mustRead(t *testing.T, s string) *record.Schema {
	t.Helper()

	read, err := bridge.ReadSchema([]byte(s))
	require.NoError(t, err)

	return read
}

func ExampleNewFromSchema() {
	read, _ := bridge.ReadSchema([]byte(envelopeRead))

	b, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), read)
	if err != nil {
		panic(err)
	}

	v, err := b.ParseBytes([]byte(`<Envelope><Payload>hi</Payload></Envelope>`))
	if err != nil {
		panic(err)
	}

	out, _ := json.Marshal(v)
	fmt.Println(string(out))
	// Output: {"Payload":"hi"}
}

func TestWriteType(t *testing.T) {
	res, err := bridge.WriteType(strings.NewReader(envelopeXSD))
	require.NoError(t, err)
	assert.Equal(t, "Envelope", res.Root)
	assert.Equal(t, "Envelope", res.Type.String())

	_, err = bridge.WriteType(strings.NewReader(envelopeXSD), bridge.WithRoot("Missing"))
	assert.Error(t, err)
}

func TestResolutionFailsBeforeParsing(t *testing.T) {
	read := mustRead(t, `{"type":"record","name":"Envelope","fields":[{"name":"Other","type":"string"}]}`)

	_, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), read)
	require.Error(t, err)
	assert.ErrorIs(t, err, resolve.ErrResolution)
	assert.False(t, errors.Is(err, assemble.ErrParse))

	_, err = bridge.NewFromSchema(strings.NewReader(envelopeXSD), read, bridge.WithAllowedMissing("Other", "Payload"))
	assert.NoError(t, err)
}

func TestArrayUnwrapping(t *testing.T) {
	xsd := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Order">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="items">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="item" type="xs:string" maxOccurs="unbounded"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`
	read := mustRead(t, `{"type":"record","name":"Order","fields":[{"name":"items","type":{"type":"array","items":"string"}}]}`)

	b, err := bridge.NewFromSchema(strings.NewReader(xsd), read)
	require.NoError(t, err)

	v, err := b.ParseBytes([]byte(`<Order>
  <items>
    <item>a</item>
    <item>b</item>
  </items>
</Order>`))
	require.NoError(t, err)

	items, _ := v.(*record.Record).Get("items")
	assert.Equal(t, []any{"a", "b"}, items)
}

func TestYAMLReadSchemaAndWildcard(t *testing.T) {
	xsd := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Note">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="title" type="xs:string"/>
        <xs:element name="body">
          <xs:complexType>
            <xs:sequence>
              <xs:any processContents="lax" minOccurs="0" maxOccurs="unbounded"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

	read, err := bridge.ReadSchemaYAML([]byte(`
type: record
name: Note
fields:
  - name: title
    type: string
  - name: body
    type: string
`))
	require.NoError(t, err)

	b, err := bridge.NewFromSchema(strings.NewReader(xsd), read)
	require.NoError(t, err)

	v, err := b.ParseBytes([]byte(`<Note><title>T</title><body><p>one</p><p>two</p></body></Note>`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "T", "body": "<p>one</p><p>two</p>"}, v.(*record.Record).Map())
}

func TestSchemaLessBridge(t *testing.T) {
	read := mustRead(t, `{"type":"record","name":"Row","fields":[
		{"name":"id","type":"long"},
		{"name":"tags","type":{"type":"array","items":"string"}}]}`)

	b, err := bridge.New(nil, read, bridge.WithValidation())
	require.NoError(t, err)
	assert.Nil(t, b.WriteType())

	v, err := b.ParseBytes([]byte(`<Row id="1"><tags>a</tags><tags>b</tags><other/></Row>`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int64(1), "tags": []any{"a", "b"}}, v.(*record.Record).Map())
}

func TestValidationFromConfig(t *testing.T) {
	c, err := config.Parse([]byte("parser:\n  validate: true\n"))
	require.NoError(t, err)

	read := mustRead(t, envelopeRead)

	strict, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), read, bridge.WithConfig(c))
	require.NoError(t, err)
	assert.Equal(t, "Envelope", strict.Root())

	lenient, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), read)
	require.NoError(t, err)

	doc := []byte(`<Envelope><Payload>hi</Payload><Extra/></Envelope>`)

	_, err = strict.ParseBytes(doc)
	assert.ErrorIs(t, err, assemble.ErrInvalidDocument)

	_, err = lenient.ParseBytes(doc)
	assert.NoError(t, err)
}

func TestConcurrentReuse(t *testing.T) {
	b, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), mustRead(t, envelopeRead))
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			want := fmt.Sprintf("payload %d", i)
			if i%4 == 0 {
				_, err := b.ParseBytes([]byte(`<Envelope><Payload>` + want + `</Envelope>`))
				assert.ErrorIs(t, err, assemble.ErrParse)

				return
			}

			v, err := b.ParseBytes([]byte(`<Envelope><Payload>` + want + `</Payload></Envelope>`))
			if assert.NoError(t, err) {
				got, _ := v.(*record.Record).Get("Payload")
				assert.Equal(t, want, got)
			}
		}(i)
	}

	wg.Wait()
}

func TestMetricsAndLogging(t *testing.T) {
	reg := prometheus.NewRegistry()

	var logs bytes.Buffer

	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)

	b, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), mustRead(t, envelopeRead),
		bridge.WithMetrics(metrics.New(reg)), bridge.WithLogger(logger))
	require.NoError(t, err)

	_, err = b.ParseBytes([]byte(`<Envelope><Payload>hi</Payload></Envelope>`))
	require.NoError(t, err)

	_, err = b.ParseBytes([]byte(`<Envelope/>`))
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := make(map[string]float64)

	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() != nil {
				counts[f.GetName()] += m.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 1.0, counts["schema_bridge_type_builds_total"])
	assert.Equal(t, 1.0, counts["schema_bridge_resolver_builds_total"])
	assert.Equal(t, 2.0, counts["schema_bridge_documents_parsed_total"])

	assert.Contains(t, logs.String(), "rule selected")
	assert.Contains(t, logs.String(), "document rejected")
}

func TestLoggingFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	read := mustRead(t, envelopeRead)

	var logs bytes.Buffer

	_, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), read,
		bridge.WithConfigFile(path), bridge.WithLogOutput(&logs))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"level":"debug"`)
	assert.Contains(t, logs.String(), "rule selected")

	quiet, err := config.Parse([]byte("log:\n  level: warn\n"))
	require.NoError(t, err)

	logs.Reset()

	_, err = bridge.NewFromSchema(strings.NewReader(envelopeXSD), read,
		bridge.WithConfig(quiet), bridge.WithLogOutput(&logs))
	require.NoError(t, err)
	assert.Empty(t, logs.String())

	var explicit bytes.Buffer

	logs.Reset()

	_, err = bridge.NewFromSchema(strings.NewReader(envelopeXSD), read,
		bridge.WithConfigFile(path), bridge.WithLogOutput(&logs),
		bridge.WithLogger(zerolog.New(&explicit).Level(zerolog.DebugLevel)))
	require.NoError(t, err)
	assert.Empty(t, logs.String())
	assert.Contains(t, explicit.String(), "rule selected")

	_, err = bridge.NewFromSchema(strings.NewReader(envelopeXSD), read,
		bridge.WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestCustomRule(t *testing.T) {
	upper := resolve.Rule{
		Name:  "upper-string",
		Write: func(w model.Type) bool { return w == model.StringType },
		Read:  func(s *record.Schema) bool { return s.Type == record.TypeString },
		Build: func(*resolve.Session, model.Type, *record.Schema) (resolve.Resolver, error) {
			return resolve.NewScalar("upper", func(text string) (any, error) { return strings.ToUpper(text), nil }), nil
		},
	}

	b, err := bridge.NewFromSchema(strings.NewReader(envelopeXSD), mustRead(t, envelopeRead), bridge.WithRules(upper))
	require.NoError(t, err)

	v, err := b.ParseBytes([]byte(`<Envelope><Payload>hi</Payload></Envelope>`))
	require.NoError(t, err)

	got, _ := v.(*record.Record).Get("Payload")
	assert.Equal(t, "HI", got)
}
