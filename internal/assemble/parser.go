package assemble

import (
	"bytes"
	"io"

	"github.com/rs/zerolog"

	"schema-bridge/internal/metrics"
	"schema-bridge/internal/model"
	"schema-bridge/internal/resolve"
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger of the parser and its assemblers.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithValidation checks every document against the write type before its
// events reach the assembler. An empty root accepts any root element name.
func WithValidation(root string, write model.Type) Option {
	return func(p *Parser) {
		p.root = root
		p.write = write
		p.validate = true
	}
}

// WithTextNormalization turns the stripping of leading blank lines and
// indentation from text content on or off. It is on by default.
func WithTextNormalization(enabled bool) Option {
	return func(p *Parser) { p.normalize = enabled }
}

// WithMetrics records parse counts and durations.
func WithMetrics(m *metrics.Collector) Option {
	return func(p *Parser) { p.metrics = m }
}

// Parser parses documents with one resolver graph. It is safe for concurrent
// use.
type Parser struct {
	resolver  resolve.Resolver
	logger    zerolog.Logger
	metrics   *metrics.Collector
	normalize bool

	validate bool
	root     string
	write    model.Type
}

// NewParser creates a parser for the resolver graph rooted at r.
func NewParser(r resolve.Resolver, opts ...Option) *Parser {
	p := &Parser{resolver: r, logger: zerolog.Nop(), normalize: true}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse reads one document from r and returns its value: a *record.Record
// for record schemas, or a scalar.
func (p *Parser) Parse(r io.Reader) (any, error) {
	done := p.metrics.StartParse()

	v, err := p.parse(r)
	done(err)

	if err != nil {
		p.logger.Debug().Err(err).Msg("document rejected")
		return nil, err
	}

	return v, nil
}

// ParseBytes parses one in-memory document.
func (p *Parser) ParseBytes(data []byte) (any, error) {
	return p.Parse(bytes.NewReader(data))
}

func (p *Parser) parse(r io.Reader) (any, error) {
	a := NewAssembler(p.resolver, p.logger)
	a.normalize = p.normalize

	var h Handler = a
	if p.validate {
		h = Tee(NewValidator(p.root, p.write), a)
	}

	if err := Stream(r, Unparsed(h)); err != nil {
		return nil, err
	}

	v, _ := a.Result()

	return v, nil
}
