package match

import "github.com/agnivade/levenshtein"

// Distance returns the Levenshtein edit distance between a and b: the
// number of single-rune inserts, deletes and substitutions needed to turn
// one into the other. Callers are expected to Normalize both sides first.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}
