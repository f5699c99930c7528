// Package history derives the metadata shown for stored conversations:
// titles, recency buckets, grouping and search filters.
package history

import "strings"

const (
	// PlaceholderTitle is used when no meaningful title can be derived.
	PlaceholderTitle = "New Chat"

	maxTitleRunes = 40
	minCutRunes   = 20
	ellipsis      = "..."
)

// DeriveTitle builds a short label from the first user message. Text longer
// than 40 runes is cut at the last space in the window when that space lies
// past position 20, otherwise at exactly 40 runes.
func DeriveTitle(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return PlaceholderTitle
	}
	runes := []rune(trimmed)
	if len(runes) <= maxTitleRunes {
		return trimmed
	}
	window := runes[:maxTitleRunes]
	cut := lastSpace(window)
	if cut > minCutRunes {
		return string(window[:cut]) + ellipsis
	}
	return string(window) + ellipsis
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
