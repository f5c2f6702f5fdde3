package domain

import "strings"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
