package bridge

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"schema-bridge/internal/config"
	"schema-bridge/internal/metrics"
	"schema-bridge/internal/resolve"
)

// Option configures WriteType, New and NewFromSchema.
type Option func(*options)

type options struct {
	config  *config.Config
	logger  zerolog.Logger
	output  io.Writer
	metrics *metrics.Collector
	rules   []resolve.Rule

	root     string
	allowed  []string
	validate bool

	// configured is set once a configuration was given; only then does its
	// log section apply.
	configured bool
	hasLogger  bool
	err        error
}

func newOptions(opts []Option) (*options, error) {
	o := &options{config: config.Default(), logger: zerolog.Nop(), output: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	if o.err != nil {
		return nil, o.err
	}

	if o.configured && !o.hasLogger {
		logger, err := o.config.Logger(o.output)
		if err != nil {
			return nil, err
		}

		o.logger = logger
	}

	if o.root == "" {
		o.root = o.config.Builder.Root
	}

	o.allowed = append(append([]string(nil), o.config.Resolver.AllowedMissing...), o.allowed...)
	o.validate = o.validate || o.config.Parser.Validate

	return o, nil
}

// WithConfig replaces the default configuration. Unless WithLogger is given,
// components log as described by its log section.
func WithConfig(c *config.Config) Option {
	return func(o *options) {
		o.config = c
		o.configured = true
	}
}

// WithConfigFile loads the configuration from a YAML file, like WithConfig.
func WithConfigFile(path string) Option {
	return func(o *options) {
		c, err := config.Load(path)
		if err != nil {
			o.err = err
			return
		}

		o.config = c
		o.configured = true
	}
}

// WithLogger sets the logger of every component.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
		o.hasLogger = true
	}
}

// WithLogOutput sets where the logger built from the configuration writes.
// It defaults to standard error.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithMetrics records builds and parses on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *options) { o.metrics = m }
}

// WithRoot names the root element. It selects the global element of the XML
// Schema to build and the root name checked by validation.
func WithRoot(name string) Option {
	return func(o *options) { o.root = name }
}

// WithAllowedMissing whitelists unmatched fields, as "Record.field" or
// "field".
func WithAllowedMissing(fields ...string) Option {
	return func(o *options) { o.allowed = append(o.allowed, fields...) }
}

// WithValidation rejects documents that do not follow the write type.
func WithValidation() Option {
	return func(o *options) { o.validate = true }
}

// WithRules adds resolver rules ahead of the default rule table.
func WithRules(rules ...resolve.Rule) Option {
	return func(o *options) { o.rules = append(o.rules, rules...) }
}
