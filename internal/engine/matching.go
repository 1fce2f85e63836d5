// Package engine - Customer name matching
package engine

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SimilarityThreshold is the minimum normalized similarity for two
// customer names to count as near-duplicates
const SimilarityThreshold = 0.8

// NameMatcher scores how alike two customer names are. It sits behind
// an interface so the pairwise scan can later be swapped for an
// indexed approximate-match structure without touching call sites.
type NameMatcher interface {
	// Similarity returns a score in [0, 1]; 1 means identical
	Similarity(a, b string) float64
}

// LevenshteinMatcher computes normalized edit-distance similarity:
// (maxLen - distance) / maxLen over the trimmed, lowercased names
type LevenshteinMatcher struct{}

// Similarity implements NameMatcher
func (LevenshteinMatcher) Similarity(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)

	if a == b {
		return 1
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// normalizeName trims and lowercases a customer name for comparison
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
