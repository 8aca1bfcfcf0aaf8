// Package strings holds text helpers shared by the command-line output.
package strings

import (
	"strings"
)

// DefaultCellMaxLen is the widest value a table cell shows before it is cut.
const DefaultCellMaxLen = 100

// minCellLen leaves room for one character plus "...".
const minCellLen = 4

// Ellipsize flattens s to one line and cuts it to at most maxLen runes,
// marking a cut with "...". Runs of whitespace, including newlines, become a
// single space. maxLen below 4 is treated as 4.
func Ellipsize(s string, maxLen int) string {
	if maxLen < minCellLen {
		maxLen = minCellLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
