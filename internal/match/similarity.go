// Package match scores transcripts against configured wake phrases using
// normalized edit distance.
package match

import "github.com/antzucaro/matchr"

// Similarity returns the normalized edit-distance similarity between a and
// b: (maxLen - distance) / maxLen, in [0, 1]. Two empty strings score 1.0.
// Damerau-Levenshtein is used so a transposed pair ("cnidy" for "cindy")
// costs one edit; whisper produces those constantly. Symmetric.
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	dist := matchr.DamerauLevenshtein(a, b)
	if dist > longest {
		dist = longest
	}
	return float64(longest-dist) / float64(longest)
}
