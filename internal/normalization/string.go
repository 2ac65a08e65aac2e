package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString keeps case, for display names and review text.
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
