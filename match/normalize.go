package match

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a string for comparison: lowercases it, strips
// every rune that is not a letter, digit or whitespace, collapses runs of
// whitespace to a single space, and trims the ends. Both sides of every
// comparison must go through this.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}
