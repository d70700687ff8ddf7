package util

import (
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]+`)

// SanitizeForLog removes control characters and newlines from user content before logging.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlChars.ReplaceAllString(s, " ")
}

// SanitizeField trims surrounding whitespace, strips angle brackets and
// collapses control characters from a submitted form field.
func SanitizeField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return controlChars.ReplaceAllString(s, " ")
}

// SanitizeEmail applies SanitizeField and lower-cases the address.
func SanitizeEmail(s string) string {
	return strings.ToLower(SanitizeField(s))
}
