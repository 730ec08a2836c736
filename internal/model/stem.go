package model

import "strconv"

// NewStem creates a new Stem instance with the provided stem and namespace.
// The nil namespace is treated as a free namespace, meaning all names are
// available. A limit of zero allows any number of suffixes.
func NewStem(stem string, namespace map[string]struct{}, limit int) *Stem {
	return &Stem{
		taken: namespace,
		stem:  stem,
		limit: limit,
	}
}

// Stem hands out collision-free names: the stem itself first, then the stem
// followed by an increasing numeric suffix.
type Stem struct {
	taken map[string]struct{}
	stem  string
	last  int
	limit int
	used  bool
}

// Next returns the next free name and marks it as taken. It reports false
// once the suffix limit is exhausted.
func (s *Stem) Next() (string, bool) {
	if s.taken == nil {
		s.taken = make(map[string]struct{})
	}

	if !s.used {
		s.used = true

		if _, ok := s.taken[s.stem]; !ok {
			s.taken[s.stem] = struct{}{}
			return s.stem, true
		}
	}

	for s.limit == 0 || s.last < s.limit {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name, true
		}
	}

	return "", false
}
