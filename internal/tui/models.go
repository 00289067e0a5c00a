package tui

import (
	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/trending"
)

type View int

const (
	ViewTrending View = iota
	ViewSearch
	ViewHistory
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewTrending:
		return "trending"
	case ViewSearch:
		return "search"
	case ViewHistory:
		return "history"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// gifItem shows one Gif in a results list.
type gifItem struct {
	gif *storage.Gif
}

func (i gifItem) Title() string       { return i.gif.DisplayTitle() }
func (i gifItem) Description() string { return renderMuted(truncateMiddle(i.gif.URL, 60)) }
func (i gifItem) FilterValue() string { return i.gif.Title }

// queryItem shows one stored history query.
type queryItem struct {
	query string
	count int
}

func (i queryItem) Title() string       { return i.query }
func (i queryItem) Description() string { return renderMuted(MsgResultsCount(i.count)) }
func (i queryItem) FilterValue() string { return i.query }

// trendingUpdatedMsg carries a state change published by the trending
// controller.
type trendingUpdatedMsg struct {
	snap trending.Snapshot
}

// historyUpdatedMsg carries the key list after a history change.
type historyUpdatedMsg struct {
	keys []string
}

type trendingFailedMsg struct {
	err error
}

type searchResultsMsg struct {
	query string
	gifs  []*storage.Gif
	err   error
}

// localResultsMsg carries the result of a lookup in the history index.
type localResultsMsg struct {
	term string
	gifs []*storage.Gif
	err  error
}

type detailRenderedMsg struct {
	gifID   string
	content string
}

type mediaOpenedMsg struct {
	err error
}

type errorMsg struct {
	err error
}
