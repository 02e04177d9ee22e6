package utils

import (
	"html"
	"strings"
)

// StripHTML removes markup from a catalog summary, leaving plain text.
// The remote catalog wraps synopses in paragraph and emphasis tags;
// those are dropped before storage.
func StripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
