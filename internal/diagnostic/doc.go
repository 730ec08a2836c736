// Package diagnostic provides structured, non-fatal findings collected while
// building a type model and resolving it against a read schema.
//
// Key capabilities:
//   - Degraded type warnings (decimals without scale, dropped facets)
//   - Resolution notes (array unwrapping, dropped optional fields)
//   - Near-miss suggestions for unmatched names
package diagnostic
