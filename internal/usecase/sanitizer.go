package usecase

import (
	"strings"
	"unicode"
)

// keepQueryRune reports whether r survives sanitization: ASCII letters,
// digits, period, hyphen, apostrophe and any unicode whitespace
func keepQueryRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '\'':
		return true
	}
	return unicode.IsSpace(r)
}

// Sanitize strips disallowed characters from a raw query and trims the result.
// An empty input yields an empty output.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if keepQueryRune(r) {
			return r
		}
		return -1
	}, raw)
	return strings.TrimSpace(cleaned)
}
