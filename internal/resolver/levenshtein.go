package resolver

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// EditDistance returns the Levenshtein distance between two strings with
// unit-cost inserts, deletes, and substitutions, counted over runes.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Suggestion is a candidate ranked by edit distance from a target.
type Suggestion struct {
	Value    string
	Distance int
}

// FindSimilar ranks candidates by similarity to target. Case-insensitive
// exact matches rank first with a forced distance of 0; the rest rank by
// ascending edit distance (computed case-insensitively), filtered to
// maxDistance and truncated to maxSuggestions. An empty candidate set yields
// an empty result.
func FindSimilar(target string, candidates []string, maxDistance, maxSuggestions int) []Suggestion {
	if len(candidates) == 0 || maxSuggestions <= 0 {
		return nil
	}

	lowerTarget := strings.ToLower(target)
	var exact, fuzzy []Suggestion
	for _, candidate := range candidates {
		if strings.ToLower(candidate) == lowerTarget {
			exact = append(exact, Suggestion{Value: candidate, Distance: 0})
			continue
		}
		d := EditDistance(lowerTarget, strings.ToLower(candidate))
		if d <= maxDistance {
			fuzzy = append(fuzzy, Suggestion{Value: candidate, Distance: d})
		}
	}

	sort.SliceStable(fuzzy, func(i, j int) bool {
		return fuzzy[i].Distance < fuzzy[j].Distance
	})

	out := append(exact, fuzzy...)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
