// Package match provides name normalization, edit distance and ranking of
// near-miss names. Resolution failures use it to suggest the field a read
// schema probably meant.
//
// Key functions:
//   - NormalizeName: normalizes XML and record names for fuzzy matching
//   - Distance: computes the edit distance between two names
//   - Suggest: ranks candidate names by similarity
package match
