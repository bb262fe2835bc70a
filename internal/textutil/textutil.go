package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Hash computes a SHA-256 hex hash of raw content, used to key memoized parses.
func Hash(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

// EscapeQuotes backslash-escapes single quotes so extracted text can be embedded
// in single-quoted contexts downstream.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// StartsWith reports whether s begins with any of the given prefixes.
func StartsWith(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// LeftStrip removes prefix from the left of s and trims the result.
// The ";" and "#" markers of .lang files drop exactly one character; any other
// prefix drops as many runes as the prefix holds, whatever they are.
func LeftStrip(s, prefix string) string {
	n := utf8.RuneCountInString(prefix)
	if prefix == ";" || prefix == "#" {
		n = 1
	}
	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}
	return strings.TrimSpace(string(runes[n:]))
}
