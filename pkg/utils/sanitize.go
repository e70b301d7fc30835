package utils

import (
	"strings"
	"unicode"
)

// MaxIdentifierLength bounds user, stage and challenge ids taken from request paths.
const MaxIdentifierLength = 128

// ValidIdentifier reports whether s is usable as an external id: non-empty, no
// surrounding whitespace, no control characters, at most MaxIdentifierLength bytes.
func ValidIdentifier(s string) bool {
	if s == "" || len(s) > MaxIdentifierLength || strings.TrimSpace(s) != s {
		return false
	}
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
