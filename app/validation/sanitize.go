package validation

import (
	"html"
	"strings"
)

// Sanitize escapes markup-significant characters. It is not idempotent:
// escaping already-escaped text escapes the ampersands again, so call it once
// on the validated, trimmed value.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return html.EscapeString(s)
}

// Clean trims s and sanitizes the result.
func Clean(s string) string {
	return Sanitize(strings.TrimSpace(s))
}
