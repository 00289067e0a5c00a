package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/history"
	"github.com/pders01/gifr/internal/scroll"
	"github.com/pders01/gifr/internal/search"
	"github.com/pders01/gifr/internal/trending"
)

type fakeAPI struct {
	mu            sync.Mutex
	trendingCalls []int
	searchCalls   []string
	trendingErr   error
	// trendingEnd, when set, makes every page at or past it empty.
	trendingEnd int
}

func (f *fakeAPI) Trending(_ context.Context, limit, offset int) ([]giphy.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendingCalls = append(f.trendingCalls, offset)
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	if f.trendingEnd > 0 && offset >= f.trendingEnd {
		return []giphy.Item{}, nil
	}
	items := make([]giphy.Item, limit)
	for i := range items {
		items[i] = apiItem(fmt.Sprintf("t%d", offset+i), fmt.Sprintf("trending %d", offset+i))
	}
	return items, nil
}

func (f *fakeAPI) Search(_ context.Context, query string, _ int) ([]giphy.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	return []giphy.Item{
		apiItem(query+"-1", "first "+query),
		apiItem(query+"-2", "second "+query),
	}, nil
}

func (f *fakeAPI) TrendingCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.trendingCalls...)
}

func apiItem(id, title string) giphy.Item {
	return giphy.Item{
		ID:    id,
		Title: title,
		Images: giphy.Images{
			Original:        &giphy.Rendition{URL: "https://media.example/" + id + ".gif"},
			DownsizedMedium: &giphy.Rendition{URL: "https://media.example/" + id + "-m.gif"},
		},
	}
}

type testEnv struct {
	app      *App
	api      *fakeAPI
	trending *trending.Controller
	search   *search.Controller
	scroll   *scroll.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := &fakeAPI{}
	cfg := config.TestConfig()
	tc := trending.NewController(api)
	sc, err := search.NewController(api, history.Open(history.NewMemorySlot(nil)))
	require.NoError(t, err)
	cache := scroll.NewCache()

	app := NewApp(cfg, Services{Trending: tc, Search: sc, Scroll: cache})
	t.Cleanup(func() {
		app.Close()
		_ = sc.Close()
	})

	return &testEnv{app: app, api: api, trending: tc, search: sc, scroll: cache}
}

// loadTrending fills the feed with n pages and hands the result to the app.
func (e *testEnv) loadTrending(t *testing.T, pages int) {
	t.Helper()
	for i := 0; i < pages; i++ {
		require.NoError(t, e.trending.LoadNextPage(context.Background()))
	}
	e.app.Update(trendingUpdatedMsg{snap: e.trending.Snapshot()})
}

func (e *testEnv) press(msg tea.KeyMsg) tea.Cmd {
	_, cmd := e.app.Update(msg)
	return cmd
}

func (e *testEnv) typeText(s string) {
	e.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// runCmd executes cmd and every command nested in batches, returning the
// resulting messages. It must not be used on commands that wait for
// subscription updates.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver feeds every message produced by cmd back into the app.
func (e *testEnv) deliver(cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		e.app.Update(msg)
	}
}

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}
