package logging

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

const (
	// MaxFieldLogLength is the maximum number of runes of user text to log
	MaxFieldLogLength = 100
)

// TruncateString shortens s to at most maxLen runes and adds an ellipsis if
// anything was cut. Never splits a multi-byte character.
func TruncateString(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// SanitizeText prepares user-provided text (subject names, topic titles) for
// a log line: control characters become spaces and long values are truncated.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return TruncateString(cleaned, MaxFieldLogLength)
}

// UserText is a zap field for user-provided text.
func UserText(key, value string) zap.Field {
	return zap.String(key, SanitizeText(value))
}
