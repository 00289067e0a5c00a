package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/history"
	"github.com/pders01/gifr/internal/storage"
)

type searchCall struct {
	query string
	limit int
}

// fakeSearcher answers every query with results keyed by a counter so two
// searches for the same text produce different ids.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []searchCall
	err     error
	results map[string][]giphy.Item
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]giphy.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, searchCall{query: query, limit: limit})
	if f.err != nil {
		return nil, f.err
	}
	if items, ok := f.results[query]; ok {
		return items, nil
	}
	n := len(f.calls)
	return []giphy.Item{
		testItem(fmt.Sprintf("%s-%d-a", query, n), "first"),
		testItem(fmt.Sprintf("%s-%d-b", query, n), "second"),
	}, nil
}

func testItem(id, title string) giphy.Item {
	return giphy.Item{
		ID:    id,
		Title: title,
		Images: giphy.Images{
			Original:        &giphy.Rendition{URL: "https://media.example/" + id + ".gif"},
			DownsizedMedium: &giphy.Rendition{URL: "https://media.example/" + id + "-m.gif"},
		},
	}
}

func newTestController(t *testing.T, s Searcher, slot history.Slot) (*Controller, *history.Store) {
	t.Helper()
	store := history.Open(slot)
	c, err := NewController(s, store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, store
}

func ids(gifs []*storage.Gif) []string {
	out := make([]string, len(gifs))
	for i, g := range gifs {
		out[i] = g.ID
	}
	return out
}

func TestSearch_SendsLiteralQuery(t *testing.T) {
	f := &fakeSearcher{}
	c, _ := newTestController(t, f, history.NewMemorySlot(nil))

	gifs, err := c.Search(context.Background(), " Dancing Cats")
	require.NoError(t, err)
	assert.Len(t, gifs, 2)
	assert.Equal(t, []searchCall{{query: " Dancing Cats", limit: 20}}, f.calls)
}

func TestSearch_WritesHistoryBeforeReturning(t *testing.T) {
	slot := history.NewMemorySlot(nil)
	c, store := newTestController(t, &fakeSearcher{}, slot)

	gifs, err := c.Search(context.Background(), "Cats")
	require.NoError(t, err)

	assert.Equal(t, gifs, store.Get("cats"))
	assert.Equal(t, 1, slot.Saves())
	assert.Contains(t, string(slot.Data()), `"cats"`)
}

func TestSearch_CaseVariantsShareKey(t *testing.T) {
	c, _ := newTestController(t, &fakeSearcher{}, history.NewMemorySlot(nil))

	_, err := c.Search(context.Background(), "Cats")
	require.NoError(t, err)
	latest, err := c.Search(context.Background(), "cats")
	require.NoError(t, err)

	assert.Equal(t, []string{"cats"}, c.HistoryKeys())
	assert.Equal(t, ids(latest), ids(c.HistoryResults("CATS")))
	assert.Equal(t, []string{"cats-2-a", "cats-2-b"}, ids(c.HistoryResults("CATS")))
}

func TestSearch_KeysInFirstSearchOrder(t *testing.T) {
	c, _ := newTestController(t, &fakeSearcher{}, history.NewMemorySlot(nil))

	for _, q := range []string{"dogs", "Cats", "birds", "DOGS"} {
		_, err := c.Search(context.Background(), q)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"dogs", "cats", "birds"}, c.HistoryKeys())
}

func TestSearch_NetworkErrorLeavesHistoryAlone(t *testing.T) {
	f := &fakeSearcher{err: &giphy.NetworkError{Op: "search", StatusCode: 500}}
	slot := history.NewMemorySlot(nil)
	c, _ := newTestController(t, f, slot)

	gifs, err := c.Search(context.Background(), "cats")
	require.Error(t, err)
	assert.Nil(t, gifs)

	var netErr *giphy.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.True(t, netErr.Retryable())
	assert.Empty(t, c.HistoryKeys())
	assert.Equal(t, 0, slot.Saves())
}

func TestSearch_MappingErrorLeavesHistoryAlone(t *testing.T) {
	bad := testItem("x", "broken")
	bad.ID = ""
	f := &fakeSearcher{results: map[string][]giphy.Item{"cats": {bad}}}
	c, _ := newTestController(t, f, history.NewMemorySlot(nil))

	_, err := c.Search(context.Background(), "cats")

	var mapErr *giphy.MappingError
	require.True(t, errors.As(err, &mapErr))
	assert.Equal(t, "id", mapErr.Field)
	assert.Empty(t, c.HistoryKeys())
}

func TestSearch_PersistenceFailureStillReturnsResults(t *testing.T) {
	slot := history.NewMemorySlot(nil)
	slot.SaveErr = errors.New("disk full")
	c, _ := newTestController(t, &fakeSearcher{}, slot)

	gifs, err := c.Search(context.Background(), "cats")
	require.NoError(t, err)
	assert.Len(t, gifs, 2)
	assert.Equal(t, ids(gifs), ids(c.HistoryResults("cats")))
}

func TestSearch_EmptyResults(t *testing.T) {
	f := &fakeSearcher{results: map[string][]giphy.Item{"zzz": {}}}
	c, _ := newTestController(t, f, history.NewMemorySlot(nil))

	gifs, err := c.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, gifs)
	assert.Equal(t, []string{"zzz"}, c.HistoryKeys())
	assert.NotNil(t, c.HistoryResults("zzz"))
	assert.True(t, c.Searched("ZZZ"))
	assert.False(t, c.Searched("never searched"))
}

func TestHistoryResults_Unknown(t *testing.T) {
	c, _ := newTestController(t, &fakeSearcher{}, history.NewMemorySlot(nil))

	res := c.HistoryResults("never searched")
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestHistoryResults_NoNetwork(t *testing.T) {
	f := &fakeSearcher{}
	c, _ := newTestController(t, f, history.NewMemorySlot(nil))

	_, err := c.Search(context.Background(), "cats")
	require.NoError(t, err)
	_ = c.HistoryResults("cats")
	_ = c.HistoryKeys()

	assert.Len(t, f.calls, 1)
}

func TestSubscribeHistory(t *testing.T) {
	c, _ := newTestController(t, &fakeSearcher{}, history.NewMemorySlot(nil))

	var got [][]string
	unsubscribe := c.SubscribeHistory(func(keys []string) {
		got = append(got, keys)
	})

	_, err := c.Search(context.Background(), "cats")
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "dogs")
	require.NoError(t, err)

	unsubscribe()
	_, err = c.Search(context.Background(), "birds")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"cats"}, {"cats", "dogs"}}, got)
}

func TestFindInHistory(t *testing.T) {
	f := &fakeSearcher{results: map[string][]giphy.Item{
		"cats": {
			testItem("c1", "Dancing Cat"),
			testItem("c2", "Sleepy kitten"),
		},
		"dogs": {
			testItem("d1", "Dancing Dog"),
		},
	}}
	c, _ := newTestController(t, f, history.NewMemorySlot(nil))

	for _, q := range []string{"cats", "dogs"} {
		_, err := c.Search(context.Background(), q)
		require.NoError(t, err)
	}

	found, err := c.FindInHistory("dancing", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "d1"}, ids(found))

	found, err = c.FindInHistory("sleep", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, ids(found))

	found, err = c.FindInHistory("x", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = c.FindInHistory("dancing", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	n, err := c.IndexedCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

// scriptedSearcher answers each query with its next queued result set.
type scriptedSearcher struct {
	mu      sync.Mutex
	replies map[string][][]giphy.Item
}

func (s *scriptedSearcher) Search(_ context.Context, query string, _ int) ([]giphy.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.replies[query]
	if len(queue) == 0 {
		return []giphy.Item{}, nil
	}
	s.replies[query] = queue[1:]
	return queue[0], nil
}

func TestFindInHistory_RepeatedQueryDropsReplacedResults(t *testing.T) {
	s := &scriptedSearcher{replies: map[string][][]giphy.Item{
		"cats": {
			{testItem("old1", "Grumpy cat")},
			{testItem("new1", "Happy dog")},
		},
	}}
	slot := history.NewMemorySlot(nil)
	c, _ := newTestController(t, s, slot)

	for i := 0; i < 2; i++ {
		_, err := c.Search(context.Background(), "cats")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"new1"}, ids(c.HistoryResults("cats")))

	found, err := c.FindInHistory("grumpy", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = c.FindInHistory("happy", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"new1"}, ids(found))

	n, err := c.IndexedCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A fresh process over the same blob sees the same index.
	restarted, _ := newTestController(t, &fakeSearcher{}, history.NewMemorySlot(slot.Data()))
	found, err = restarted.FindInHistory("grumpy", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
	n, err = restarted.IndexedCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFindInHistory_ReplacedGifHeldByOtherQueryStays(t *testing.T) {
	s := &scriptedSearcher{replies: map[string][][]giphy.Item{
		"kitties": {
			{testItem("old1", "Grumpy cat")},
		},
		"cats": {
			{testItem("old1", "Grumpy cat")},
			{testItem("new1", "Happy dog")},
		},
	}}
	c, _ := newTestController(t, s, history.NewMemorySlot(nil))

	for _, q := range []string{"kitties", "cats", "cats"} {
		_, err := c.Search(context.Background(), q)
		require.NoError(t, err)
	}

	found, err := c.FindInHistory("grumpy", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"old1"}, ids(found))

	// The surviving document now belongs to "kitties" only.
	found, err = c.FindInHistory("cats", 10)
	require.NoError(t, err)
	assert.NotContains(t, ids(found), "old1")

	found, err = c.FindInHistory("kitties", 10)
	require.NoError(t, err)
	assert.Contains(t, ids(found), "old1")

	n, err := c.IndexedCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewController_IndexesExistingHistory(t *testing.T) {
	slot := history.NewMemorySlot(nil)
	seed := history.Open(slot)
	require.NoError(t, seed.Set("cats", []*storage.Gif{
		{ID: "c1", Title: "Grumpy cat", URL: "u", FullURL: "f"},
	}))

	c, _ := newTestController(t, &fakeSearcher{}, history.NewMemorySlot(slot.Data()))

	found, err := c.FindInHistory("grumpy", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids(found))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "a", want: nil},
		{in: "Hello, World!", want: []string{"hello", "world"}},
		{in: "cat-gif 2024", want: []string{"cat", "gif", "2024"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.in), tt.in)
	}
}
