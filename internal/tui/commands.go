package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gifr/internal/storage"
)

// findLimit caps the number of hits shown for a lookup in history.
const findLimit = 50

// waitForTrending blocks until the trending controller publishes a new
// snapshot. Update re-arms it after every delivery.
func (a *App) waitForTrending() tea.Cmd {
	ch, ctx := a.trendingUpdates, a.ctx
	return func() tea.Msg {
		select {
		case snap := <-ch:
			return trendingUpdatedMsg{snap: snap}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) waitForHistory() tea.Cmd {
	ch, ctx := a.historyUpdates, a.ctx
	return func() tea.Msg {
		select {
		case keys := <-ch:
			return historyUpdatedMsg{keys: keys}
		case <-ctx.Done():
			return nil
		}
	}
}

// loadTrendingPage asks the controller for the next page. The new state
// arrives through the subscription; only failures are returned here.
func (a *App) loadTrendingPage() tea.Cmd {
	ctl, ctx := a.trending, a.ctx
	return func() tea.Msg {
		if err := ctl.LoadNextPage(ctx); err != nil {
			return trendingFailedMsg{err: err}
		}
		return nil
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	ctl, ctx := a.search, a.ctx
	return func() tea.Msg {
		gifs, err := ctl.Search(ctx, query)
		if err != nil {
			return searchResultsMsg{query: query, err: err}
		}
		return searchResultsMsg{query: query, gifs: gifs}
	}
}

func (a *App) findInHistory(term string) tea.Cmd {
	ctl := a.search
	return func() tea.Msg {
		gifs, err := ctl.FindInHistory(term, findLimit)
		if err != nil {
			return localResultsMsg{term: term, err: wrapErr("find", err)}
		}
		return localResultsMsg{term: term, gifs: gifs}
	}
}

// renderDetail renders off the event loop; the renderer itself is picked
// here because it is cached on the App.
func (a *App) renderDetail(gif *storage.Gif) tea.Cmd {
	r, rendererErr := a.getRenderer()
	openKey := a.keys.Open.Help().Key
	return func() tea.Msg {
		if rendererErr != nil {
			return detailRenderedMsg{gifID: gif.ID, content: "Error initializing renderer: " + rendererErr.Error()}
		}

		rendered, err := r.Render(detailMarkdown(gif, openKey))
		if err != nil {
			return detailRenderedMsg{gifID: gif.ID, content: fmt.Sprintf("Failed to render %s: %v", gif.ID, err)}
		}
		return detailRenderedMsg{gifID: gif.ID, content: rendered}
	}
}

func detailMarkdown(gif *storage.Gif, openKey string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", gif.DisplayTitle())
	fmt.Fprintf(&b, "*id:* `%s`\n\n", gif.ID)
	if gif.URL != "" {
		fmt.Fprintf(&b, "**Preview:** [%s](%s)\n\n", gif.URL, gif.URL)
	}
	if gif.FullURL != "" {
		fmt.Fprintf(&b, "**Original:** [%s](%s)\n\n", gif.FullURL, gif.FullURL)
	}
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "Press `%s` to open the original in your viewer.\n", openKey)
	return b.String()
}

func (a *App) openMedia(gif *storage.Gif) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		return mediaOpenedMsg{err: launcher.Open(gif)}
	}
}
