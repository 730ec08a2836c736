package resolve

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-bridge/internal/model"
)

func TestScalarRules(t *testing.T) {
	enum := &model.EnumType{Name: "Color", Symbols: []string{"RED", "BLUE"}}

	tests := []struct {
		name  string
		write model.Type
		read  string
		ok    bool
	}{
		{"int32 as int", model.Int32Type, `"int"`, true},
		{"int64 as int", model.Int64Type, `"int"`, false},
		{"int32 as long", model.Int32Type, `"long"`, true},
		{"int64 as double", model.Int64Type, `"double"`, false},
		{"small decimal as float", model.DecimalType{Precision: 5, Scale: 2}, `"float"`, true},
		{"wide decimal as float", model.DecimalType{Precision: 9, Scale: 2}, `"float"`, false},
		{"wide decimal as double", model.DecimalType{Precision: 9, Scale: 2}, `"double"`, true},
		{"decimal fits", model.DecimalType{Precision: 5, Scale: 2}, `{"type":"bytes","logicalType":"decimal","precision":6,"scale":2}`, true},
		{"decimal integer digits overflow", model.DecimalType{Precision: 8, Scale: 2}, `{"type":"bytes","logicalType":"decimal","precision":6,"scale":2}`, false},
		{"decimal scale overflow", model.DecimalType{Precision: 5, Scale: 3}, `{"type":"bytes","logicalType":"decimal","precision":6,"scale":2}`, false},
		{"int64 as decimal", model.Int64Type, `{"type":"bytes","logicalType":"decimal","precision":19,"scale":0}`, true},
		{"boolean as string", model.BooleanType, `"string"`, false},
		{"float as double", model.FloatType, `"double"`, true},
		{"double as float", model.DoubleType, `"float"`, false},
		{"date", model.DateType, `{"type":"int","logicalType":"date"}`, true},
		{"date as plain int", model.DateType, `"int"`, false},
		{"date as string", model.DateType, `"string"`, true},
		{"millis as micros", model.DateTimeType, `{"type":"long","logicalType":"timestamp-micros"}`, true},
		{"micros as millis", model.DateTimeMicrosType, `{"type":"long","logicalType":"timestamp-millis"}`, false},
		{"time micros", model.TimeMicrosType, `{"type":"long","logicalType":"time-micros"}`, true},
		{"enum superset", enum, `{"type":"enum","name":"Color","symbols":["RED","GREEN","BLUE"]}`, true},
		{"enum subset", enum, `{"type":"enum","name":"Color","symbols":["RED"]}`, false},
		{"enum subset with default", enum, `{"type":"enum","name":"Color","symbols":["RED","OTHER"],"default":"OTHER"}`, true},
		{"enum as string", enum, `"string"`, true},
		{"hex binary", model.BinaryHexType, `{"type":"bytes","encoding":"hex"}`, true},
		{"hex binary as base64", model.BinaryHexType, `{"type":"bytes","encoding":"base64"}`, false},
		{"base64 binary without encoding", model.BinaryBase64Type, `"bytes"`, false},
		{"nullable string", model.StringType, `["null","string"]`, true},
		{"string or long", model.Int64Type, `["string","long"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.write, tt.read, DefaultConfig())
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrResolution)
			}
		})
	}
}

func TestScalarConversions(t *testing.T) {
	enum := &model.EnumType{Name: "Color", Symbols: []string{"RED", "BLUE"}}

	tests := []struct {
		name  string
		write model.Type
		read  string
		text  string
		want  any
	}{
		{"int", model.Int32Type, `"int"`, " 42 ", int32(42)},
		{"long", model.Int64Type, `"long"`, "-7", int64(-7)},
		{"boolean digit", model.BooleanType, `"boolean"`, "1", true},
		{"float", model.FloatType, `"float"`, "1.5", float32(1.5)},
		{"decimal rounds to scale", model.DecimalType{Precision: 5, Scale: 3}, `{"type":"bytes","logicalType":"decimal","precision":6,"scale":3}`, "1.5", decimal.RequireFromString("1.500")},
		{"enum", enum, `{"type":"enum","name":"Color","symbols":["RED","BLUE"]}`, "BLUE", "BLUE"},
		{"enum default", enum, `{"type":"enum","name":"Color","symbols":["RED","OTHER"],"default":"OTHER"}`, "BLUE", "OTHER"},
		{"hex", model.BinaryHexType, `{"type":"bytes","encoding":"hex"}`, "0a0B", []byte{0x0a, 0x0b}},
		{"base64", model.BinaryBase64Type, `{"type":"bytes","encoding":"base64"}`, "aGk=", []byte("hi")},
		{"date", model.DateType, `{"type":"int","logicalType":"date"}`, "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"date as string", model.DateType, `"string"`, "2024-02-29", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := build(t, tt.write, tt.read, DefaultConfig())
			require.NoError(t, err)

			v, err := Resolve(g.Root, tt.text)
			require.NoError(t, err)

			if d, ok := tt.want.(decimal.Decimal); ok {
				assert.True(t, d.Equal(v.(decimal.Decimal)), "got %v", v)
				return
			}

			assert.Equal(t, tt.want, v)
		})
	}
}

func TestTimestampConversion(t *testing.T) {
	g, err := build(t, model.DateTimeType, `{"type":"long","logicalType":"timestamp-millis"}`, DefaultConfig())
	require.NoError(t, err)

	v, err := Resolve(g.Root, "2024-01-02T03:04:05.678912+02:00")
	require.NoError(t, err)

	want := time.Date(2024, 1, 2, 1, 4, 5, 678000000, time.UTC)
	assert.True(t, want.Equal(v.(time.Time)), "got %v", v)
}

func TestScalarConversionErrors(t *testing.T) {
	tests := []struct {
		name  string
		write model.Type
		read  string
		text  string
	}{
		{"int overflow", model.Int32Type, `"int"`, "3000000000"},
		{"empty int", model.Int32Type, `"int"`, ""},
		{"bad boolean", model.BooleanType, `"boolean"`, "yes"},
		{"unknown symbol", &model.EnumType{Name: "E", Symbols: []string{"A"}}, `{"type":"enum","name":"E","symbols":["A"]}`, "B"},
		{"bad hex", model.BinaryHexType, `{"type":"bytes","encoding":"hex"}`, "zz"},
		{"fixed size", model.BinaryHexType, `{"type":"fixed","name":"F","size":2,"encoding":"hex"}`, "0a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := build(t, tt.write, tt.read, DefaultConfig())
			require.NoError(t, err)

			_, err = Resolve(g.Root, tt.text)
			assert.Error(t, err)
		})
	}
}

func TestNullableScalar(t *testing.T) {
	g, err := build(t, model.Int32Type, `["null","int"]`, DefaultConfig())
	require.NoError(t, err)

	v, err := g.Root.Begin().Complete()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Resolve(g.Root, "5")
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)
}
