// Package resolve builds resolver graphs that convert documents of a write
// type into values of a read schema.
//
// An Engine matches a write type against a read schema with an ordered rule
// table: the first rule whose write and read predicates accept the pair
// builds the resolver. Struct resolution matches fields by name and alias,
// handles repeated fields, wrapper elements and defaults, and recurses
// through a Session that memoizes every (write, read) pair so recursive
// schemas produce finite graphs.
//
// Every incompatibility is reported as a *ResolutionError when the graph is
// built, before any document is read. A built graph is immutable and can be
// shared by concurrent parses; per-document state lives in Collectors.
package resolve
