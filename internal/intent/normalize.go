// Package intent classifies operator questions and computes deterministic
// answers for the classified question types.
package intent

import (
	"strings"

	"golang.org/x/text/cases"
)

// invisible reports zero-width and bidi control characters that operators
// paste in from Persian keyboards and chat apps.
func invisible(r rune) bool {
	switch {
	case r >= '\u200b' && r <= '\u200f': // ZWSP, ZWNJ, ZWJ, LRM, RLM
		return true
	case r >= '\u202a' && r <= '\u202e': // LRE..RLO
		return true
	case r >= '\u2066' && r <= '\u2069': // LRI..PDI
		return true
	case r == '\u061c', r == '\ufeff':
		return true
	}
	return false
}

// Normalize strips invisible controls, collapses whitespace, trims and
// case-folds s. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if invisible(r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	// Casers keep state; one per call.
	return cases.Fold().String(s)
}
