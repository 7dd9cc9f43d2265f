package diagnostic

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds how different a candidate may be from got
// before it's not worth suggesting — a heap address typo should be close,
// not merely fuzzy-reachable.
const maxSuggestDistance = 3

// Suggest finds the closest candidate to got, for "did you mean" hints on
// an unresolved directive name or heap address. Returns ("", false) if
// nothing within maxSuggestDistance matches. Closeness is the
// case-insensitive Levenshtein distance; on a tie the earlier candidate wins.
func Suggest(got string, candidates []string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(got), strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist > maxSuggestDistance {
		return "", false
	}
	return best, true
}
