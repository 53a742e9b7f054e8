package types

import (
	"strings"
	"unicode"
)

// ToTitleCase lower-cases s and upper-cases the first letter of every word.
func ToTitleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	start := true
	for i, r := range runes {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			start = true
			continue
		}
		if start {
			runes[i] = unicode.ToUpper(r)
			start = false
		}
	}
	return string(runes)
}
