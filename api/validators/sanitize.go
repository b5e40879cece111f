package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims a free-text filter and caps it at maxLen characters.
// The cut falls on a rune boundary so accented input such as "Açaí" stays
// valid UTF-8; invalid bytes already present are dropped.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(strings.ToValidUTF8(input, ""))
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	return strings.TrimSpace(string([]rune(trimmed)[:maxLen]))
}
