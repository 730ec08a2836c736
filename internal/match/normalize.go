package match

import (
	"strings"
	"unicode"
)

// NormalizeName folds a name for fuzzy matching: the namespace part is
// dropped, case is folded and separators are removed.
//
// Examples:
//   - "{urn:shop}OrderID" -> "orderid"
//   - "shop.Order" -> "order"
//   - "xs:order_id" -> "orderid"
func NormalizeName(s string) string {
	s = localPart(s)

	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Tokenize splits a name into lowercase words at separators and case
// changes. "getHTTPResponse" yields get, http, response.
func Tokenize(s string) []string {
	runes := []rune(localPart(s))

	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		current = append(current, r)
	}

	flush()

	return tokens
}

// localPart strips Clark notation, prefixes and dotted namespaces.
func localPart(s string) string {
	if i := strings.LastIndexByte(s, '}'); i >= 0 {
		s = s[i+1:]
	}

	if i := strings.LastIndexAny(s, ":."); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}

	return s
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsWord reports whether a word boundary precedes runes[i]: a lower to
// upper transition, or the last capital of an acronym followed by a lower
// case letter.
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
