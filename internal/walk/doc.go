// Package walk visits an XML Schema grammar starting at a root element and
// drives a Builder with enter/exit callbacks.
//
// The walk is a switch over particle kinds (element, group, group reference,
// wildcard) with an explicit context: a cardinality stack for nested groups
// and a stack of open elements. Every distinct schema type is started once;
// later occurrences, including recursive ones, are reported through
// Builder.RepeatedElement.
package walk
