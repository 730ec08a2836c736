package match

import (
	"slices"
	"sort"
	"strings"
)

// Default tuning of Suggest.
const (
	// DefaultMinScore is the minimum similarity of a suggestion.
	DefaultMinScore = 0.6
	// DefaultMaxSuggestions is the number of suggestions kept.
	DefaultMaxSuggestions = 3
)

// Suggestion is a candidate name with its similarity to the wanted name.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name, best first. A candidate scores
// the better of its spelling similarity and the similarity of its sorted words,
// so "id_order" matches "orderId". Candidates below minScore are dropped. Ties
// keep the candidate order.
func Rank(name string, candidates []string, minScore float64) []Suggestion {
	want, wantWords := NormalizeName(name), words(name)

	var out []Suggestion

	for _, c := range candidates {
		score := max(Similarity(want, NormalizeName(c)), Similarity(wantWords, words(c)))
		if score >= minScore {
			out = append(out, Suggestion{Name: c, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Suggest returns up to DefaultMaxSuggestions candidates that are probably
// misspellings of name.
func Suggest(name string, candidates []string) []string {
	ranked := Rank(name, candidates, DefaultMinScore)
	if len(ranked) > DefaultMaxSuggestions {
		ranked = ranked[:DefaultMaxSuggestions]
	}

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.Name
	}

	return out
}

// words joins the sorted tokens of s.
func words(s string) string {
	tokens := Tokenize(s)
	slices.Sort(tokens)

	return strings.Join(tokens, "")
}
