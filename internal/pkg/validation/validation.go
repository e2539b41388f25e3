package validation

import (
	"regexp"
	"strings"
)

// Ticker symbols: letters/digits with the dot and dash classes some
// exchanges use (BRK.B, BF-B). Uppercase only; callers normalize first.
var symbolRe = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// NormalizeSymbol trims and uppercases a user-supplied symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsValidSymbol reports whether a normalized symbol is plausibly a ticker.
func IsValidSymbol(symbol string) bool {
	return symbolRe.MatchString(symbol)
}

// IsValidUsername requires a non-empty username after trimming.
func IsValidUsername(username string) bool {
	return strings.TrimSpace(username) != ""
}
