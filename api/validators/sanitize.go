package validators

import (
	"strings"
	"unicode"
)

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizePhone keeps digits and a leading plus sign.
func SanitizePhone(input string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(input) {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
