// Package config loads the YAML configuration of schema-bridge and converts
// it into component configurations.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"schema-bridge/internal/infer"
	"schema-bridge/internal/model"
	"schema-bridge/internal/resolve"
)

// Version is the configuration format version written by default.
const Version = "1"

// Config is the root of a configuration file.
type Config struct {
	Version  string         `yaml:"version"`
	Builder  BuilderConfig  `yaml:"builder"`
	Resolver ResolverConfig `yaml:"resolver"`
	Parser   ParserConfig   `yaml:"parser"`
	Log      LogConfig      `yaml:"log"`
}

// BuilderConfig configures write type construction.
type BuilderConfig struct {
	// Root names the global element to build; empty selects the only one.
	Root          string `yaml:"root,omitempty"`
	MaxNameSuffix int    `yaml:"max_name_suffix,omitempty"`
	// TimePrecision is "millis" or "micros".
	TimePrecision string `yaml:"time_precision,omitempty"`
	Documentation *bool  `yaml:"documentation,omitempty"`
}

// ResolverConfig configures resolver construction.
type ResolverConfig struct {
	AllowedMissing []string `yaml:"allowed_missing,omitempty"`
}

// ParserConfig configures document parsing.
type ParserConfig struct {
	Validate          bool  `yaml:"validate,omitempty"`
	TextNormalization *bool `yaml:"text_normalization,omitempty"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is a zerolog level name.
	Level string `yaml:"level,omitempty"`
	// Format is "json" or "console".
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config

	applyDefaults(&c)

	return &c
}

// Load loads and parses a YAML configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.Version == "" {
		c.Version = Version
	}

	if c.Builder.MaxNameSuffix <= 0 {
		c.Builder.MaxNameSuffix = model.DefaultMaxSuffix
	}

	if c.Builder.TimePrecision == "" {
		c.Builder.TimePrecision = "millis"
	}

	if c.Builder.Documentation == nil {
		c.Builder.Documentation = ptr(true)
	}

	if c.Parser.TextNormalization == nil {
		c.Parser.TextNormalization = ptr(true)
	}

	if c.Log.Level == "" {
		c.Log.Level = zerolog.InfoLevel.String()
	}

	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Validate checks the values that are parsed later.
func (c *Config) Validate() error {
	if _, err := infer.ParseTimePrecision(c.Builder.TimePrecision); err != nil {
		return fmt.Errorf("builder: %w", err)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}

	return nil
}

// Logger creates the logger described by the log section, writing to w.
func (c *Config) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log: %w", err)
	}

	if c.Log.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// InferConfig converts the builder section.
func (c *Config) InferConfig(logger zerolog.Logger) (infer.Config, error) {
	precision, err := infer.ParseTimePrecision(c.Builder.TimePrecision)
	if err != nil {
		return infer.Config{}, fmt.Errorf("builder: %w", err)
	}

	return infer.Config{
		MaxNameSuffix: c.Builder.MaxNameSuffix,
		TimePrecision: precision,
		Documentation: c.Builder.Documentation == nil || *c.Builder.Documentation,
		Logger:        logger,
	}, nil
}

// ResolveConfig converts the resolver section.
func (c *Config) ResolveConfig(logger zerolog.Logger) resolve.Config {
	return resolve.Config{
		AllowedMissing: append([]string(nil), c.Resolver.AllowedMissing...),
		Logger:         logger,
	}
}

// TextNormalization reports whether parsed text content is normalized.
func (c *Config) TextNormalization() bool {
	return c.Parser.TextNormalization == nil || *c.Parser.TextNormalization
}

func ptr[T any](v T) *T { return &v }
