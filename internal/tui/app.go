// Package tui is the terminal front end: a trending grid, on-demand
// search, the search history and a detail view per GIF.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/media"
	"github.com/pders01/gifr/internal/scroll"
	"github.com/pders01/gifr/internal/search"
	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/trending"
	"github.com/pders01/gifr/internal/validation"
)

// Services are the process-wide instances the UI works on. The caller
// owns them; the UI never creates its own.
type Services struct {
	Trending *trending.Controller
	Search   *search.Controller
	Scroll   *scroll.Cache
	Launcher *media.Launcher
}

type App struct {
	config     *config.Config
	trending   *trending.Controller
	search     *search.Controller
	scroll     *scroll.Cache
	launcher   *media.Launcher
	keys       keyMap
	keyHandler *KeyHandler

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe []func()

	trendingUpdates chan trending.Snapshot
	historyUpdates  chan []string

	trendingSnap trending.Snapshot
	trendingErr  error
	grid         grid
	trendingView viewport.Model

	searchInput textinput.Model
	resultsList list.Model
	searching   bool
	lastQuery   string

	historyList        list.Model
	historyResults     list.Model
	historyKeys        []string
	showingHistoryGifs bool
	historyTitle       string
	findInput          textinput.Model

	detailView      viewport.Model
	currentGif      *storage.Gif
	detailFrom      View
	loadingDetail   bool
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int

	help       help.Model
	spinner    spinner.Model
	status     string
	statusKind StatusKind

	view   View
	width  int
	height int
	err    error
}

func NewApp(cfg *config.Config, svc Services) *App {
	resultsList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultsList.Title = "› results"
	resultsList.SetShowStatusBar(false)
	resultsList.SetFilteringEnabled(false)
	resultsList.SetShowHelp(false)

	historyList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	historyList.Title = "› past searches"
	historyList.SetShowStatusBar(false)
	historyList.SetFilteringEnabled(false)
	historyList.SetShowHelp(false)

	historyResults := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	historyResults.SetShowStatusBar(false)
	historyResults.SetFilteringEnabled(false)
	historyResults.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search gifs..."
	si.CharLimit = validation.MaxQueryLength

	fi := textinput.New()
	fi.Placeholder = "Find in past results..."
	fi.CharLimit = validation.MaxQueryLength

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	launcher := svc.Launcher
	if launcher == nil {
		launcher = media.NewLauncher(cfg)
	}
	cache := svc.Scroll
	if cache == nil {
		cache = scroll.NewCache()
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		trending:        svc.Trending,
		search:          svc.Search,
		scroll:          cache,
		launcher:        launcher,
		keys:            newKeyMap(cfg),
		ctx:             ctx,
		cancel:          cancel,
		trendingUpdates: make(chan trending.Snapshot, 1),
		historyUpdates:  make(chan []string, 1),
		trendingSnap:    svc.Trending.Snapshot(),
		trendingView:    viewport.New(0, 0),
		searchInput:     si,
		resultsList:     resultsList,
		historyList:     historyList,
		historyResults:  historyResults,
		findInput:       fi,
		detailView:      viewport.New(0, 0),
		help:            help.New(),
		spinner:         sp,
		view:            ViewTrending,
	}
	app.keyHandler = NewKeyHandler(app, cfg)

	app.grid.setRows(app.trendingSnap.Grouped())
	app.setHistoryKeys(svc.Search.HistoryKeys())

	app.unsubscribe = append(app.unsubscribe,
		svc.Trending.Subscribe(func(s trending.Snapshot) { offerLatest(ctx, app.trendingUpdates, s) }),
		svc.Search.SubscribeHistory(func(keys []string) { offerLatest(ctx, app.historyUpdates, keys) }),
	)

	return app
}

// offerLatest hands v to a reader of ch, replacing any value still
// waiting there so the reader always sees the newest state.
func offerLatest[T any](ctx context.Context, ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		case <-ctx.Done():
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close drops the controller subscriptions and cancels in-flight work.
func (a *App) Close() {
	for _, fn := range a.unsubscribe {
		fn()
	}
	a.unsubscribe = nil
	a.cancel()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		a.waitForTrending(),
		a.waitForHistory(),
	}
	// The trending feed is fetched as soon as the UI starts.
	if a.trendingSnap.Page == 0 && !a.trendingSnap.Loading {
		cmds = append(cmds, a.startSpinner(MsgLoadingTrending), a.loadTrendingPage())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewTrending {
			var cmd tea.Cmd
			a.trendingView, cmd = a.trendingView.Update(msg)
			a.scroll.Set(scroll.Trending, a.trendingView.YOffset)
			return a, tea.Batch(cmd, a.maybeLoadMore())
		}
		if a.view == ViewDetail {
			var cmd tea.Cmd
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd
		}
		return a, nil

	case trendingUpdatedMsg:
		a.applyTrending(msg.snap)
		return a, a.waitForTrending()

	case historyUpdatedMsg:
		a.setHistoryKeys(msg.keys)
		return a, a.waitForHistory()

	case trendingFailedMsg:
		a.trendingErr = wrapErr("trending", msg.err)

	case searchResultsMsg:
		a.searching = false
		if msg.err != nil {
			a.err = msg.err
			a.setStatus("", StatusError)
			break
		}
		a.err = nil
		a.lastQuery = msg.query
		cmds = append(cmds, a.resultsList.SetItems(gifItems(msg.gifs)))
		a.resultsList.Title = "› results: " + truncateEnd(msg.query, 40)
		a.resultsList.Select(0)
		a.scroll.Set(scroll.Search, 0)
		if len(msg.gifs) == 0 {
			a.setStatus(MsgNoResults, StatusWarn)
		} else {
			a.setStatus(MsgSearchSummary(msg.query, len(msg.gifs)), StatusSuccess)
			if a.view == ViewSearch {
				a.searchInput.Blur()
			}
		}

	case localResultsMsg:
		if msg.err != nil {
			a.err = msg.err
			a.setStatus("", StatusError)
			break
		}
		indexed, err := a.search.IndexedCount()
		if err != nil {
			indexed = -1
		}
		a.historyTitle = "find: " + msg.term
		a.showingHistoryGifs = true
		cmds = append(cmds, a.historyResults.SetItems(gifItems(msg.gifs)))
		a.historyResults.Title = "› " + truncateEnd(a.historyTitle, 40)
		a.historyResults.Select(0)
		a.setStatus(MsgLocalSummary(msg.term, len(msg.gifs), indexed), StatusInfo)

	case detailRenderedMsg:
		if a.currentGif != nil && a.currentGif.ID == msg.gifID {
			a.detailView.SetContent(msg.content)
			a.detailView.GotoTop()
			a.loadingDetail = false
			a.clearStatus()
		}

	case mediaOpenedMsg:
		if msg.err != nil {
			a.err = wrapErr("open", msg.err)
			a.setStatus("", StatusError)
		} else {
			a.setStatus(MsgOpened, StatusSuccess)
		}

	case errorMsg:
		a.err = msg.err
		a.setStatus("", StatusError)

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	bodyHeight := height - 3
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	a.trendingView.Width = width
	a.trendingView.Height = bodyHeight - 2
	a.detailView.Width = width
	a.detailView.Height = bodyHeight

	listHeight := bodyHeight - 5
	if listHeight < 5 {
		listHeight = 5
	}
	a.resultsList.SetSize(width, listHeight)
	a.historyList.SetSize(width, listHeight)
	a.historyResults.SetSize(width, listHeight)

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width - 4
	}
	a.searchInput.Width = inputWidth
	a.findInput.Width = inputWidth
	a.help.Width = width

	a.refreshGrid()
	if a.view == ViewTrending {
		a.trendingView.SetYOffset(a.scroll.Get(scroll.Trending))
	}
}

func (a *App) applyTrending(snap trending.Snapshot) {
	a.trendingSnap = snap
	a.grid.setRows(snap.Grouped())
	a.refreshGrid()

	if snap.Loading {
		return
	}
	a.trendingErr = wrapErr("trending", snap.Err)
	switch {
	case snap.Err != nil:
	case snap.Exhausted:
		a.setStatus(MsgTrendingEnd, StatusWarn)
	default:
		a.setStatus(MsgTrendingSummary(len(snap.Items), snap.Page), StatusInfo)
	}
}

// refreshGrid re-renders the trending grid, keeping the viewport offset.
func (a *App) refreshGrid() {
	offset := a.trendingView.YOffset
	a.trendingView.SetContent(a.grid.render(a.width))
	a.trendingView.SetYOffset(offset)
}

// ensureCursorVisible scrolls the trending viewport to the cursor row
// and records the new offset.
func (a *App) ensureCursorVisible() {
	top, bottom := a.grid.rowSpan()
	switch {
	case top < a.trendingView.YOffset:
		a.trendingView.SetYOffset(top)
	case bottom > a.trendingView.YOffset+a.trendingView.Height:
		a.trendingView.SetYOffset(bottom - a.trendingView.Height)
	}
	a.scroll.Set(scroll.Trending, a.trendingView.YOffset)
}

// maybeLoadMore requests the next trending page once the viewport is
// within the configured threshold of the end of the grid. It stops after
// an empty page; Retry still asks again.
func (a *App) maybeLoadMore() tea.Cmd {
	if a.trendingSnap.Loading || a.trendingSnap.Page == 0 || a.trendingSnap.Exhausted {
		return nil
	}
	threshold := a.config.UI.ScrollThreshold
	total := a.trendingView.TotalLineCount()
	if !scroll.NearBottom(a.trendingView.YOffset, a.trendingView.Height, total, threshold) {
		return nil
	}
	return tea.Batch(a.startSpinner(MsgLoadingTrending), a.loadTrendingPage())
}

func (a *App) setHistoryKeys(keys []string) {
	a.historyKeys = keys
	items := make([]list.Item, len(keys))
	for i, k := range keys {
		items[i] = queryItem{query: k, count: len(a.search.HistoryResults(k))}
	}
	a.historyList.SetItems(items)
}

func gifItems(gifs []*storage.Gif) []list.Item {
	items := make([]list.Item, len(gifs))
	for i, g := range gifs {
		items[i] = gifItem{gif: g}
	}
	return items
}

// switchView leaves the current view, saving its scroll position, and
// restores the saved position of the next one.
func (a *App) switchView(next View) {
	if next == a.view {
		return
	}
	a.saveScroll()
	if next == ViewDetail {
		a.detailFrom = a.view
	}
	a.view = next
	a.restoreScroll()
}

func (a *App) saveScroll() {
	switch a.view {
	case ViewTrending:
		a.scroll.Set(scroll.Trending, a.trendingView.YOffset)
	case ViewSearch:
		a.scroll.Set(scroll.Search, a.resultsList.Index())
	case ViewHistory:
		if !a.showingHistoryGifs {
			a.scroll.Set(scroll.History, a.historyList.Index())
		}
	}
}

func (a *App) restoreScroll() {
	switch a.view {
	case ViewTrending:
		a.trendingView.SetYOffset(a.scroll.Get(scroll.Trending))
		// Bring the cursor into the restored window.
		top := a.trendingView.YOffset / cellHeight
		bottom := (a.trendingView.YOffset + a.trendingView.Height) / cellHeight
		if a.grid.row < top || a.grid.row >= bottom {
			a.grid.row = top
			a.grid.clamp()
			a.refreshGrid()
		}
	case ViewSearch:
		a.resultsList.Select(a.scroll.Get(scroll.Search))
	case ViewHistory:
		if !a.showingHistoryGifs {
			a.historyList.Select(a.scroll.Get(scroll.History))
		}
	}
}

// selectedGif returns the Gif under the cursor of the current view.
func (a *App) selectedGif() *storage.Gif {
	switch a.view {
	case ViewTrending:
		return a.grid.selected()
	case ViewSearch:
		if i, ok := a.resultsList.SelectedItem().(gifItem); ok {
			return i.gif
		}
	case ViewHistory:
		if a.showingHistoryGifs {
			if i, ok := a.historyResults.SelectedItem().(gifItem); ok {
				return i.gif
			}
		}
	case ViewDetail:
		return a.currentGif
	}
	return nil
}

func (a *App) busy() bool {
	return a.trendingSnap.Loading || a.searching || a.loadingDetail
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

// startSpinner shows text next to the spinner and starts it ticking.
func (a *App) startSpinner(text string) tea.Cmd {
	a.setStatus(text, StatusInfo)
	return a.spinner.Tick
}

func (a *App) View() string {
	bodyHeight := a.height - 3
	var content string

	switch a.view {
	case ViewTrending:
		content = a.trendingBody(bodyHeight)
	case ViewSearch:
		content = a.searchBody()
	case ViewHistory:
		content = a.historyBody()
	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, bodyHeight, renderMuted(MsgRendering))
		} else {
			content = a.detailView.View()
		}
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(content)

	separatorWidth := a.width - 1
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := SeparatorStyle.Render(strings.Repeat("─", separatorWidth))

	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusLine(), a.helpLine())
}

func (a *App) trendingBody(height int) string {
	if len(a.trendingSnap.Items) == 0 {
		switch {
		case a.trendingSnap.Loading:
			return renderCentered(a.width, height, GetWelcomeMessage())
		case a.trendingErr != nil:
			return renderCentered(a.width, height, lipgloss.JoinVertical(lipgloss.Center,
				ErrorMessageStyle.Render("Could not load trending gifs"),
				"",
				renderHelp("Press r to retry"),
			))
		default:
			return renderCentered(a.width, height, GetCompactBanner("Nothing trending yet. Press r to load."))
		}
	}

	subtitle := MsgTrendingSummary(len(a.trendingSnap.Items), a.trendingSnap.Page)
	if a.trendingSnap.Loading {
		subtitle += " • loading more…"
	}
	return lipgloss.JoinVertical(lipgloss.Top,
		renderHeader("› trending", subtitle, a.width),
		a.trendingView.View(),
	)
}

func (a *App) searchBody() string {
	helpText := "Type a query • Enter: search • Tab/↓: results • Esc: back"
	if !a.searchInput.Focused() {
		if len(a.resultsList.Items()) > 0 {
			helpText = "↑↓: navigate • Enter: details • /: edit query • Esc: back"
		} else {
			helpText = "No results • /: edit query • Esc: back"
		}
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		renderHeader("› search", "", a.width),
		"",
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
		renderHelp(helpText),
		a.resultsList.View(),
	)
}

func (a *App) historyBody() string {
	if a.showingHistoryGifs {
		return lipgloss.JoinVertical(lipgloss.Top,
			renderHeader("› history", a.historyTitle, a.width),
			"",
			a.historyResults.View(),
		)
	}

	rows := []string{renderHeader("› history", MsgResultsCount(len(a.historyKeys))+" stored", a.width)}
	if a.findInput.Focused() {
		rows = append(rows, renderInputFrame(a.findInput.View(), true, a.findInput.Width))
	} else {
		rows = append(rows, "")
	}
	if len(a.historyKeys) == 0 {
		rows = append(rows, renderMuted(MsgNoHistory))
	} else {
		rows = append(rows, a.historyList.View())
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func (a *App) statusLine() string {
	style := StatusBarStyle.Width(a.width)

	err := a.err
	if err == nil && a.view == ViewTrending {
		err = a.trendingErr
	}
	if err != nil {
		return style.Render(ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", err)))
	}
	if a.status == "" {
		return style.Render(renderMuted(CompactLogo))
	}

	text := a.status
	if a.busy() {
		text = a.spinner.View() + " " + text
	}
	return style.Render(a.statusKind.style().Render(text))
}

func (a *App) helpLine() string {
	return StatusBarStyle.Render(a.help.View(viewKeys{km: a.keys, view: a.view}))
}
