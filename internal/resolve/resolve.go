package resolve

import (
	"fmt"
	"sort"
	"strings"
)

// Endpoint is one entry in the catalog of known read-only API operations.
type Endpoint struct {
	// Operation is the pattern-table key, e.g. "eventQuery".
	Operation string
	// Path is the endpoint path, e.g. "/event/query".
	Path string
	// Description is a one-line human summary.
	Description string
	// Tags are the keywords and aliases a natural-language phrase is scored
	// against.
	Tags []string
}

// Match is a resolved endpoint with its score against the input phrase.
type Match struct {
	Endpoint Endpoint
	Score    int
}

// Resolver maps natural-language phrases to catalog endpoints. It is a pure
// scoring function over tags; it holds no mutable state beyond the catalog
// built at construction.
type Resolver struct {
	catalog []Endpoint
}

// NewResolver returns a resolver over the built-in endpoint catalog.
func NewResolver() *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog returns the known endpoints sorted by operation name.
func (r *Resolver) Catalog() []Endpoint {
	out := make([]Endpoint, len(r.catalog))
	copy(out, r.catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// Resolve scores every catalog entry against the phrase and returns the
// matches in descending score order. An error is returned when nothing
// scores, with a "did you mean" suggestion when an operation name is close.
func (r *Resolver) Resolve(phrase string) ([]Match, error) {
	words := tokenize(phrase)
	if len(words) == 0 {
		return nil, fmt.Errorf("resolve: empty phrase")
	}

	var matches []Match
	for _, e := range r.catalog {
		if score := scoreEndpoint(e, words); score > 0 {
			matches = append(matches, Match{Endpoint: e, Score: score})
		}
	}

	if len(matches) == 0 {
		ops := make([]string, 0, len(r.catalog))
		for _, e := range r.catalog {
			ops = append(ops, e.Operation)
		}
		msg := fmt.Sprintf("resolve: no endpoint matches %q", phrase)
		if s := suggest(strings.Join(words, ""), ops); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return nil, fmt.Errorf("%s", msg)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

// Best returns only the top-scoring match for the phrase.
func (r *Resolver) Best(phrase string) (Match, error) {
	matches, err := r.Resolve(phrase)
	if err != nil {
		return Match{}, err
	}
	return matches[0], nil
}

// scoreEndpoint counts phrase words hitting the endpoint's tags. A word equal
// to a tag scores 2, a substring hit scores 1; the operation name itself
// counts as a tag.
func scoreEndpoint(e Endpoint, words []string) int {
	score := 0
	tags := append([]string{strings.ToLower(e.Operation)}, e.Tags...)
	for _, w := range words {
		for _, tag := range tags {
			switch {
			case w == tag:
				score += 2
			case len(w) >= 3 && strings.Contains(tag, w):
				score++
			case len(tag) >= 3 && strings.Contains(w, tag):
				score++
			}
		}
	}
	return score
}

// tokenize lowercases and splits a phrase, dropping filler words that would
// otherwise score against everything.
func tokenize(phrase string) []string {
	fields := strings.FieldsFunc(strings.ToLower(phrase), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var words []string
	for _, f := range fields {
		if _, skip := fillerWords[f]; skip {
			continue
		}
		words = append(words, f)
	}
	return words
}

var fillerWords = map[string]struct{}{
	"a": {}, "an": {}, "all": {}, "any": {}, "the": {}, "of": {}, "for": {},
	"in": {}, "on": {}, "to": {}, "me": {}, "my": {}, "get": {}, "show": {},
	"list": {}, "find": {}, "what": {}, "which": {}, "are": {}, "is": {},
	"give": {}, "please": {}, "with": {}, "by": {},
}

// levenshtein returns the edit distance between a and b, keeping only two
// rows of the table alive.
func levenshtein(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return len(a) + len(b)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// suggest picks the operation name closest to input, case-insensitively.
// Anything further than three edits away is not a plausible typo and yields
// no suggestion.
func suggest(input string, ops []string) string {
	const maxDistance = 3

	bestDist := -1
	bestOp := ""
	for _, op := range ops {
		d := levenshtein(strings.ToLower(input), strings.ToLower(op))
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestOp = op
		}
	}
	if bestDist >= 0 && bestDist <= maxDistance {
		return bestOp
	}
	return ""
}
