// Package infer builds the structural type model of an XML Schema.
//
// The Builder receives the callbacks of a schema walk and turns every
// distinct schema type into a model type:
//   - elements with a simple value and no attributes become scalars
//   - wildcard, mixed and untyped elements without attributes become
//     unparsed strings
//   - everything else becomes a struct, registered before its children are
//     walked so that recursive types refer to the same instance
//
// Scalar types are inferred from built-in types and restriction facets.
// Decimal restrictions are sized from their bounds and digit facets.
package infer
