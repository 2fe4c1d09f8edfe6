// Package textnorm folds user input to a canonical width before keyword and
// price matching, so full-width letters, digits and symbols typed on a CJK
// keyboard behave like their ASCII counterparts.
package textnorm

import (
	"strings"

	"golang.org/x/text/width"
)

// Fold maps full-width runes to narrow and half-width runes to wide.
// CJK ideographs and punctuation are left untouched.
func Fold(s string) string {
	return width.Fold.String(s)
}

// Clean folds s and trims surrounding whitespace, including U+3000.
func Clean(s string) string {
	return strings.TrimSpace(Fold(s))
}
