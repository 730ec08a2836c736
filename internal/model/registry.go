package model

import (
	"errors"
	"fmt"
)

// DefaultMaxSuffix is the default number of numeric suffixes tried before a
// name collision becomes fatal.
const DefaultMaxSuffix = 1000

// ErrNamesExhausted is returned when no free name is left for a stem.
var ErrNamesExhausted = errors.New("name suffixes exhausted")

// Registry holds every named type of one model. Names and aliases are unique
// within a registry.
type Registry struct {
	maxSuffix int
	taken     map[string]struct{}
	structs   map[string]*StructType
	enums     map[string]*EnumType
	order     []Type
}

// NewRegistry creates an empty Registry. maxSuffix bounds collision suffixes;
// zero or less selects DefaultMaxSuffix.
func NewRegistry(maxSuffix int) *Registry {
	if maxSuffix <= 0 {
		maxSuffix = DefaultMaxSuffix
	}

	return &Registry{
		maxSuffix: maxSuffix,
		taken:     make(map[string]struct{}),
		structs:   make(map[string]*StructType),
		enums:     make(map[string]*EnumType),
	}
}

// Reserve claims a free name derived from stem.
func (r *Registry) Reserve(stem string) (string, error) {
	name, ok := NewStem(stem, r.taken, r.maxSuffix).Next()
	if !ok {
		return "", fmt.Errorf("%w: %q after %d attempts", ErrNamesExhausted, stem, r.maxSuffix)
	}

	return name, nil
}

// NewStruct allocates an incomplete struct type under a free name derived
// from stem. Its fields are filled in later with SetFields.
func (r *Registry) NewStruct(stem, namespace string) (*StructType, error) {
	name, err := r.Reserve(stem)
	if err != nil {
		return nil, err
	}

	st := &StructType{Name: name, Namespace: namespace}
	r.structs[name] = st
	r.order = append(r.order, st)

	return st, nil
}

// NewEnum registers an enum type under a free name derived from stem.
func (r *Registry) NewEnum(stem, namespace string, symbols []string) (*EnumType, error) {
	name, err := r.Reserve(stem)
	if err != nil {
		return nil, err
	}

	et := &EnumType{Name: name, Namespace: namespace, Symbols: symbols}
	r.enums[name] = et
	r.order = append(r.order, et)

	return et, nil
}

// AddAlias records alias for a struct type. It reports false if the alias is
// already used by another name or alias.
func (r *Registry) AddAlias(st *StructType, alias string) bool {
	if _, ok := r.taken[alias]; ok {
		return false
	}

	r.taken[alias] = struct{}{}
	st.Aliases = append(st.Aliases, alias)

	return true
}

// Struct returns the struct type registered under name, or nil.
func (r *Registry) Struct(name string) *StructType {
	return r.structs[name]
}

// Enum returns the enum type registered under name, or nil.
func (r *Registry) Enum(name string) *EnumType {
	return r.enums[name]
}

// Types returns all named types in registration order.
func (r *Registry) Types() []Type {
	return r.order
}

// Incomplete returns the names of struct types whose fields were never set.
func (r *Registry) Incomplete() []string {
	var names []string

	for _, t := range r.order {
		if st, ok := t.(*StructType); ok && !st.Complete() {
			names = append(names, st.Name)
		}
	}

	return names
}
