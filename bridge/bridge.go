package bridge

import (
	"bytes"
	"fmt"
	"io"

	"schema-bridge/internal/assemble"
	"schema-bridge/internal/diagnostic"
	"schema-bridge/internal/infer"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
	"schema-bridge/internal/resolve"
)

// Bridge parses documents of one write type into values of one read schema.
type Bridge struct {
	write  model.Type
	read   *record.Schema
	root   string
	parser *assemble.Parser
	diags  diagnostic.Diagnostics
}

// ReadSchema parses a JSON record schema.
func ReadSchema(data []byte) (*record.Schema, error) {
	return record.Parse(data)
}

// ReadSchemaYAML parses a record schema written in YAML.
func ReadSchemaYAML(data []byte) (*record.Schema, error) {
	return record.ParseYAML(data)
}

// WriteType walks the XML Schema read from r into a write type.
func WriteType(r io.Reader, opts ...Option) (*infer.Result, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	return writeType(r, o)
}

func writeType(r io.Reader, o *options) (*infer.Result, error) {
	ic, err := o.config.InferConfig(o.logger)
	if err != nil {
		return nil, err
	}

	res, err := infer.FromReader(r, o.root, ic)
	o.metrics.ObserveTypeBuild(err)

	if err != nil {
		return nil, err
	}

	o.logger.Debug().
		Str("root", res.Root).
		Str("type", res.Type.String()).
		Int("types", len(res.Registry.Types())).
		Msg("write type built")

	return res, nil
}

// New resolves write against read. A nil write type reads documents whose
// element and attribute names follow the read schema.
func New(write model.Type, read *record.Schema, opts ...Option) (*Bridge, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	return build(write, read, o, nil)
}

// NewFromSchema builds the write type from the XML Schema read from r and
// resolves it against read.
func NewFromSchema(r io.Reader, read *record.Schema, opts ...Option) (*Bridge, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	res, err := writeType(r, o)
	if err != nil {
		return nil, err
	}

	o.root = res.Root

	return build(res.Type, read, o, &res.Diagnostics)
}

func build(write model.Type, read *record.Schema, o *options, diags *diagnostic.Diagnostics) (*Bridge, error) {
	rc := o.config.ResolveConfig(o.logger)
	rc.AllowedMissing = o.allowed

	engine := resolve.NewEngine(rc)
	engine.Prepend(o.rules...)

	g, err := engine.Build(write, read)
	o.metrics.ObserveResolverBuild(err)

	if err != nil {
		return nil, fmt.Errorf("failed to build resolver: %w", err)
	}

	b := &Bridge{write: write, read: read, root: o.root}

	if diags != nil {
		b.diags.Merge(*diags)
	}

	b.diags.Merge(g.Diagnostics)

	for _, d := range b.diags.All() {
		o.logger.Debug().Str("severity", d.Severity.String()).Str("code", d.Code).Str("path", d.FieldPath).Msg(d.Message)
	}

	popts := []assemble.Option{
		assemble.WithLogger(o.logger),
		assemble.WithMetrics(o.metrics),
		assemble.WithTextNormalization(o.config.TextNormalization()),
	}

	if o.validate && write != nil {
		popts = append(popts, assemble.WithValidation(o.root, write))
	}

	b.parser = assemble.NewParser(g.Root, popts...)

	return b, nil
}

// Parse reads one document from r. Record schemas yield a *record.Record,
// scalar schemas a scalar value.
func (b *Bridge) Parse(r io.Reader) (any, error) {
	return b.parser.Parse(r)
}

// ParseBytes parses one in-memory document.
func (b *Bridge) ParseBytes(data []byte) (any, error) {
	return b.Parse(bytes.NewReader(data))
}

// WriteType returns the write type, nil for a schema-less bridge.
func (b *Bridge) WriteType() model.Type { return b.write }

// ReadSchema returns the read schema.
func (b *Bridge) ReadSchema() *record.Schema { return b.read }

// Root returns the expected root element name, empty when unknown.
func (b *Bridge) Root() string { return b.root }

// Diagnostics returns the non-fatal findings of type and resolver
// construction.
func (b *Bridge) Diagnostics() diagnostic.Diagnostics { return b.diags }
