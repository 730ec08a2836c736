package resolve

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"schema-bridge/internal/diagnostic"
	"schema-bridge/internal/model"
	"schema-bridge/internal/record"
)

// Config holds configuration for resolver construction.
type Config struct {
	// AllowedMissing lists fields that may stay unmatched: "Record.field" or
	// "field". Entries apply to read fields without a default and to
	// required write fields without a read counterpart.
	AllowedMissing []string
	// Logger receives a debug event for every rule selection.
	Logger zerolog.Logger
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{Logger: zerolog.Nop()}
}

// Graph is a built resolver graph.
type Graph struct {
	Root  Resolver
	Write model.Type
	Read  *record.Schema
	// Diagnostics holds non-fatal findings such as unwrapped arrays and
	// dropped write fields.
	Diagnostics diagnostic.Diagnostics
}

// Engine builds resolver graphs from an ordered rule table.
type Engine struct {
	rules   []Rule
	config  Config
	logger  zerolog.Logger
	allowed map[string]struct{}
}

// NewEngine creates an Engine with the default rule table.
func NewEngine(config Config) *Engine {
	allowed := make(map[string]struct{}, len(config.AllowedMissing))
	for _, name := range config.AllowedMissing {
		allowed[name] = struct{}{}
	}

	return &Engine{
		rules:   DefaultRules(),
		config:  config,
		logger:  config.Logger,
		allowed: allowed,
	}
}

// Prepend adds rules ahead of every existing rule.
func (e *Engine) Prepend(rules ...Rule) {
	e.rules = append(append([]Rule{}, rules...), e.rules...)
}

// Append adds rules after every existing rule.
func (e *Engine) Append(rules ...Rule) {
	e.rules = append(e.rules, rules...)
}

// Rules returns the rule table in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Build resolves write against read. A nil write type accepts any document
// whose element names follow the read schema.
func (e *Engine) Build(write model.Type, read *record.Schema) (*Graph, error) {
	if read == nil {
		return nil, errors.New("read schema is required")
	}

	s := &Session{
		engine: e,
		memo:   make(map[pair]Resolver),
		path:   model.NewPath(rootName(write, read)),
	}

	root, err := s.Resolve(write, read)
	if err != nil {
		return nil, err
	}

	return &Graph{Root: root, Write: write, Read: read, Diagnostics: s.diags}, nil
}

func (e *Engine) isAllowedMissing(owner, field string) bool {
	if _, ok := e.allowed[field]; ok {
		return true
	}

	_, ok := e.allowed[owner+"."+field]

	return ok
}

func rootName(write model.Type, read *record.Schema) string {
	if read.IsNamed() {
		return read.Name
	}

	if st, ok := write.(*model.StructType); ok {
		return st.Name
	}

	return read.Type.String()
}

// pair identifies a (write, read) resolution.
type pair struct {
	write model.Type
	read  *record.Schema
}

// Session is the state of one top-level Build call. It memoizes every pair
// so recursive types resolve to a finite graph.
type Session struct {
	engine *Engine
	memo   map[pair]Resolver
	path   model.Path
	diags  diagnostic.Diagnostics

	// added lists memo keys in insertion order so a failed build can drop
	// everything that may refer to its placeholder.
	added []pair
}

// Resolve returns the resolver of a (write, read) pair, building it with the
// first matching rule. A pair that is still being built resolves to a
// placeholder that is patched when the build finishes.
func (s *Session) Resolve(write model.Type, read *record.Schema) (Resolver, error) {
	key := pair{write: write, read: read}
	if r, ok := s.memo[key]; ok {
		return r, nil
	}

	mark := len(s.added)
	placeholder := &delegating{}
	s.memo[key] = placeholder
	s.added = append(s.added, key)

	r, err := s.build(write, read)
	if err != nil {
		for _, k := range s.added[mark:] {
			delete(s.memo, k)
		}

		s.added = s.added[:mark]

		return nil, err
	}

	placeholder.target = r
	s.memo[key] = r

	return r, nil
}

func (s *Session) build(write model.Type, read *record.Schema) (Resolver, error) {
	for _, rule := range s.engine.rules {
		if !rule.Write(write) || !rule.Read(read) {
			continue
		}

		s.engine.logger.Debug().
			Str("rule", rule.Name).
			Str("write", describe(write)).
			Str("read", read.String()).
			Str("path", s.path.String()).
			Msg("rule selected")

		r, err := rule.Build(s, write, read)
		if err != nil {
			var resErr *ResolutionError
			if errors.As(err, &resErr) {
				return nil, err
			}

			return nil, s.Fail(write, read, err.Error())
		}

		return r, nil
	}

	return nil, s.Fail(write, read, "no rule matches")
}

// Fail returns a ResolutionError for the pair at the current path.
func (s *Session) Fail(write model.Type, read *record.Schema, reason string, suggestions ...string) error {
	return &ResolutionError{
		Write:       describe(write),
		Read:        read.String(),
		Path:        s.path.String(),
		Reason:      reason,
		Suggestions: suggestions,
	}
}

// Failf is Fail with a formatted reason.
func (s *Session) Failf(write model.Type, read *record.Schema, format string, args ...any) error {
	return s.Fail(write, read, fmt.Sprintf(format, args...))
}

// Path returns the location of the pair being resolved.
func (s *Session) Path() string {
	return s.path.String()
}

// Diagnostics returns the session diagnostics for rules to add to.
func (s *Session) Diagnostics() *diagnostic.Diagnostics {
	return &s.diags
}

// within resolves write against read one field deeper in the path.
func (s *Session) within(field string, items bool, write model.Type, read *record.Schema) (Resolver, error) {
	saved := s.path

	s.path = s.path.Field(field)
	if items {
		s.path = s.path.Items()
	}

	defer func() { s.path = saved }()

	return s.Resolve(write, read)
}
