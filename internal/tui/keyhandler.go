package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/scroll"
	"github.com/pders01/gifr/internal/validation"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	keys        keyMap
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, keys: app.keys, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.searchInput.Focused()
	case ViewHistory:
		return kh.app.findInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	// Modifier shortcuts keep working while typing.
	if kh.isModifierShortcut(msg) {
		if model, cmd, handled := kh.handleCustomKeys(msg); handled {
			return model, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		if a.view == ViewHistory {
			a.findInput.Blur()
			a.findInput.Reset()
			return a, nil
		}
		if len(a.resultsList.Items()) > 0 {
			a.searchInput.Blur()
			return a, nil
		}
		return kh.navigateBack()
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if a.view == ViewSearch && len(a.resultsList.Items()) > 0 {
			a.searchInput.Blur()
			return a, nil
		}
	}

	return kh.delegateToTextInput(msg)
}

func (kh *KeyHandler) isModifierShortcut(msg tea.KeyMsg) bool {
	if kh.modifierKey == "+" || !strings.HasPrefix(msg.String(), kh.modifierKey) {
		return false
	}
	k := kh.keys
	return key.Matches(msg, k.Trending, k.Search, k.History, k.Open)
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewSearch:
		query := kh.sanitizeSearchInput(a.searchInput.Value())
		if strings.TrimSpace(query) == "" {
			a.setStatus(MsgEmptyQuery, StatusWarn)
			return a, nil
		}
		a.err = nil
		a.searching = true
		return a, tea.Batch(a.startSpinner(MsgSearching), a.performSearch(query))

	case ViewHistory:
		term := kh.sanitizeSearchInput(a.findInput.Value())
		a.findInput.Blur()
		if strings.TrimSpace(term) == "" {
			return a, nil
		}
		a.saveScroll()
		return a, a.findInHistory(term)
	}
	return a, nil
}

// sanitizeSearchInput strips control characters and clamps the length.
// Case and surrounding spaces are kept: they are part of the literal
// query sent upstream.
func (kh *KeyHandler) sanitizeSearchInput(q string) string {
	return validation.SanitizeQuery(q)
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch kh.app.view {
	case ViewSearch:
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
	case ViewHistory:
		kh.app.findInput, cmd = kh.app.findInput.Update(msg)
	}
	return kh.app, cmd
}

// handleCustomKeys handles global keys and the action keys of each view.
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	k := kh.keys

	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit, true
	case key.Matches(msg, k.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, k.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil, true
	case key.Matches(msg, k.Trending):
		a.switchView(ViewTrending)
		return a, nil, true
	case key.Matches(msg, k.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case key.Matches(msg, k.History):
		a.switchView(ViewHistory)
		return a, nil, true
	case key.Matches(msg, k.Open):
		if gif := a.selectedGif(); gif != nil {
			a.setStatus(MsgOpening, StatusInfo)
			return a, a.openMedia(gif), true
		}
		return a, nil, true
	}

	switch a.view {
	case ViewTrending:
		return kh.handleTrendingKeys(msg)
	case ViewSearch:
		return kh.handleSearchKeys(msg)
	case ViewHistory:
		return kh.handleHistoryKeys(msg)
	}
	return a, nil, false
}

func (kh *KeyHandler) handleTrendingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	k := kh.keys
	rowsPerPage := a.trendingView.Height / cellHeight
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}

	switch {
	case key.Matches(msg, k.Up):
		a.grid.move(-1, 0)
	case key.Matches(msg, k.Down):
		a.grid.move(1, 0)
	case key.Matches(msg, k.Left):
		a.grid.move(0, -1)
	case key.Matches(msg, k.Right):
		a.grid.move(0, 1)
	case key.Matches(msg, k.PgUp):
		a.grid.move(-rowsPerPage, 0)
	case key.Matches(msg, k.PgDown):
		a.grid.move(rowsPerPage, 0)
	case key.Matches(msg, k.Top):
		a.grid.home()
	case key.Matches(msg, k.Bottom):
		a.grid.end()
	case key.Matches(msg, k.Select):
		model, cmd := kh.showDetail()
		return model, cmd, true
	case key.Matches(msg, k.Retry):
		if a.trendingSnap.Loading {
			return a, nil, true
		}
		a.trendingErr = nil
		return a, tea.Batch(a.startSpinner(MsgLoadingTrending), a.loadTrendingPage()), true
	default:
		return a, nil, false
	}

	a.refreshGrid()
	a.ensureCursorVisible()
	return a, a.maybeLoadMore(), true
}

func (kh *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Focus):
		return a, a.searchInput.Focus(), true
	case key.Matches(msg, kh.keys.Up):
		if a.resultsList.Index() == 0 {
			return a, a.searchInput.Focus(), true
		}
	case key.Matches(msg, kh.keys.Select):
		model, cmd := kh.showDetail()
		return model, cmd, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Find):
		a.findInput.Reset()
		return a, a.findInput.Focus(), true
	case key.Matches(msg, kh.keys.Select):
		if a.showingHistoryGifs {
			model, cmd := kh.showDetail()
			return model, cmd, true
		}
		if i, ok := a.historyList.SelectedItem().(queryItem); ok {
			a.saveScroll()
			gifs := a.search.HistoryResults(i.query)
			a.historyTitle = i.query
			a.showingHistoryGifs = true
			a.historyResults.Title = "› " + truncateEnd(i.query, 40)
			cmd := a.historyResults.SetItems(gifItems(gifs))
			a.historyResults.Select(0)
			a.setStatus(MsgSearchSummary(i.query, len(gifs)), StatusInfo)
			return a, cmd, true
		}
		return a, nil, true
	}
	return a, nil, false
}

// delegateToCharm lets the bubbles components handle keys we don't intercept.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch a.view {
	case ViewSearch:
		a.resultsList, cmd = a.resultsList.Update(msg)
		a.scroll.Set(scroll.Search, a.resultsList.Index())
	case ViewHistory:
		if a.showingHistoryGifs {
			a.historyResults, cmd = a.historyResults.Update(msg)
		} else {
			a.historyList, cmd = a.historyList.Update(msg)
			a.scroll.Set(scroll.History, a.historyList.Index())
		}
	case ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	}
	return a, cmd
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.switchView(ViewSearch)
	return a, a.searchInput.Focus()
}

func (kh *KeyHandler) showDetail() (tea.Model, tea.Cmd) {
	a := kh.app
	gif := a.selectedGif()
	if gif == nil {
		return a, nil
	}
	a.currentGif = gif
	a.loadingDetail = true
	a.switchView(ViewDetail)
	return a, tea.Batch(a.startSpinner(MsgRendering), a.renderDetail(gif))
}

// navigateBack returns to the view the user came from.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewDetail:
		a.loadingDetail = false
		a.switchView(a.detailFrom)
		if a.view == ViewSearch {
			a.searchInput.Blur()
		}
	case ViewHistory:
		if a.showingHistoryGifs {
			a.showingHistoryGifs = false
			a.historyTitle = ""
			a.historyResults.SetItems([]list.Item{})
			a.restoreScroll()
			return a, nil
		}
		a.switchView(ViewTrending)
	case ViewSearch:
		a.searchInput.Blur()
		a.switchView(ViewTrending)
	}
	a.err = nil
	return a, nil
}
