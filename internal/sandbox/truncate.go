package sandbox

import (
	"strings"

	"golang.org/x/text/width"
)

// displayWidth returns the terminal column width of r: 2 for East Asian
// wide/fullwidth runes (so CJK pane titles don't overrun a fixed-width
// status bar), 1 otherwise.
func displayWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func displayWidthOf(s string) int {
	w := 0
	for _, r := range s {
		w += displayWidth(r)
	}
	return w
}

func cutToWidth(s string, limit int) string {
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := displayWidth(r)
		if w+rw > limit {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

// Truncate shortens s to at most maxLen display columns, grounded on the
// teacher's truncateWithEllipsis (internal/cmd/status.go): a hard cut
// below 4 columns, otherwise the first maxLen-3 columns plus "...".
// Width-aware so wide runes count as 2 columns instead of 1 (§8 boundary
// behaviors).
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if displayWidthOf(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return cutToWidth(s, maxLen)
	}
	return cutToWidth(s, maxLen-3) + "..."
}
