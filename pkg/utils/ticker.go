// Package utils provides common utility functions for finvizlite.
package utils

import (
	"regexp"
	"strings"
)

// tickerPattern matches the symbols finviz accepts on its quote page:
// letters and digits, optionally with a class suffix after a dash (BRK-B).
var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}(-[A-Z0-9]{1,4})?$`)

// NormalizeTicker normalizes a user-input ticker to the canonical finviz form.
// It trims whitespace, uppercases, drops a leading "$" and rewrites share-class
// separators ("BRK.B", "BRK/B") to the dash finviz uses.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	ticker = strings.TrimPrefix(ticker, "$")
	ticker = strings.NewReplacer(".", "-", "/", "-").Replace(ticker)
	return ticker
}

// IsValidTicker reports whether a normalized ticker is syntactically valid.
func IsValidTicker(ticker string) bool {
	return tickerPattern.MatchString(ticker)
}
