package util

import (
	"strconv"
	"strings"
)

// FormatNumber renders a float without trailing zeros, the way a browser
// would print a JS number (85, 7.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber parses a user-entered number. Blank input is an error rather
// than zero.
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
