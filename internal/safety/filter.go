// Package safety classifies business descriptions against a fixed denylist.
//
// Matching is a plain case-insensitive substring test. There is no word
// boundary handling, so "class" and "ASS consulting" both match "ass".
package safety

import "strings"

// blockedKeywords is the fixed denylist. Entries are lower case.
var blockedKeywords = []string{
	"xxx", "nude", "sex", "kill", "porn", "wtf", "fck", "suck", "ass", "dark web",
}

// BlockedKeywords returns a copy of the denylist.
func BlockedKeywords() []string {
	out := make([]string, len(blockedKeywords))
	copy(out, blockedKeywords)
	return out
}

// Match returns the first denylisted token contained in description.
func Match(description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, word := range blockedKeywords {
		if strings.Contains(lower, word) {
			return word, true
		}
	}
	return "", false
}

// IsSafe reports whether description contains none of the denylisted tokens.
func IsSafe(description string) bool {
	_, blocked := Match(description)
	return !blocked
}
