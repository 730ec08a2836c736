// Package xsd reads XML Schema documents into a component model.
//
// Only the structural subset needed to infer a type model is kept:
// element, attribute and type declarations, model groups, wildcards,
// simple-type restriction facets and documentation annotations. References
// are stored as QNames and resolved on lookup.
package xsd
