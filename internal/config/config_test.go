package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-bridge/internal/infer"
	"schema-bridge/internal/model"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, Version, c.Version)
	assert.Equal(t, model.DefaultMaxSuffix, c.Builder.MaxNameSuffix)
	assert.Equal(t, "millis", c.Builder.TimePrecision)
	assert.True(t, *c.Builder.Documentation)
	assert.True(t, c.TextNormalization())
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, Default(), c)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
builder:
  root: Order
  max_name_suffix: 5
  time_precision: micros
  documentation: false
resolver:
  allowed_missing: [Order.extra, note]
parser:
  validate: true
  text_normalization: false
log:
  level: debug
  format: console
`))
	require.NoError(t, err)

	assert.Equal(t, "Order", c.Builder.Root)
	assert.True(t, c.Parser.Validate)
	assert.False(t, c.TextNormalization())

	ic, err := c.InferConfig(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 5, ic.MaxNameSuffix)
	assert.Equal(t, infer.Micros, ic.TimePrecision)
	assert.False(t, ic.Documentation)

	rc := c.ResolveConfig(zerolog.Nop())
	assert.Equal(t, []string{"Order.extra", "note"}, rc.AllowedMissing)

	var buf bytes.Buffer

	logger, err := c.Logger(&buf)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "builder:\n  unknown: 1\n"},
		{"bad precision", "builder:\n  time_precision: nanos\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"not yaml", "builder: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	data := "resolver:\n  allowed_missing: [id]\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Resolver.AllowedMissing = []string{"id"}
	want.Log.Level = "debug"
	assert.Equal(t, want, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
