package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingTrending = "Loading trending…"
	MsgSearching       = "Searching…"
	MsgRendering       = "Rendering…"
	MsgOpening         = "Opening viewer…"
	MsgOpened          = "Opened in viewer"
	MsgNoResults       = "No results"
	MsgTrendingEnd     = "End of trending, press r to check again"
	MsgNoHistory       = "No searches yet"
	MsgEmptyQuery      = "Type a query first"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgSearchSummary(query string, n int) string {
	return fmt.Sprintf("%s for '%s'", MsgResultsCount(n), strings.TrimSpace(query))
}

func MsgTrendingSummary(items, pages int) string {
	return fmt.Sprintf("%d gifs • %d pages", items, pages)
}

func MsgLocalSummary(term string, n, indexed int) string {
	base := fmt.Sprintf("%s in history for '%s'", MsgResultsCount(n), strings.TrimSpace(term))
	if indexed >= 0 {
		base += fmt.Sprintf(" • idx: %d docs", indexed)
	}
	return base
}

// wrapErr prefixes err with the part of the UI it came from.
func wrapErr(scope string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", scope, err)
}
