package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanText applies NFKC normalization so OCR ligatures and full-width
// characters become plain text, and drops control characters other than
// newlines and tabs. Line structure is preserved.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// CollapseSpaces trims s and replaces runs of whitespace with a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
