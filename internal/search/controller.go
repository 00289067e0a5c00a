// Package search runs on-demand queries against the media API and records
// every result set in the search history.
package search

import (
	"context"
	"fmt"

	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/history"
	"github.com/pders01/gifr/internal/storage"
)

// ResultLimit is the number of results requested per search.
const ResultLimit = 20

// Searcher is the part of the API client the controller needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]giphy.Item, error)
}

// Controller issues searches and keeps the history up to date. It never
// touches the trending feed.
type Controller struct {
	searcher Searcher
	history  *history.Store
	index    *historyIndex
}

// NewController builds a controller over an opened history store and
// indexes everything the store already holds.
func NewController(searcher Searcher, store *history.Store) (*Controller, error) {
	idx, err := newHistoryIndex()
	if err != nil {
		return nil, err
	}
	if err := idx.reindexAll(store.Entries()); err != nil {
		_ = idx.close()
		return nil, err
	}
	return &Controller{searcher: searcher, history: store, index: idx}, nil
}

// Search sends query as typed and returns the mapped results. The results
// are written to history under the normalized query before Search
// returns. A failed history write is logged; the results are still
// returned since the in-memory history already holds them.
func (c *Controller) Search(ctx context.Context, query string) ([]*storage.Gif, error) {
	log := debuglog.WithFields(map[string]interface{}{"query": query})

	items, err := c.searcher.Search(ctx, query, ResultLimit)
	if err != nil {
		log.Warnf("search: request failed: %v", err)
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	gifs, err := giphy.MapItems(items)
	if err != nil {
		log.Warnf("search: mapping failed: %v", err)
		return nil, fmt.Errorf("mapping results for %q: %w", query, err)
	}

	previous := c.history.Get(query)
	if err := c.history.Set(query, gifs); err != nil {
		log.Errorf("search: %v", err)
	}
	if err := c.index.replace(history.Normalize(query), previous, gifs, c.history.Entries()); err != nil {
		log.Warnf("search: %v", err)
	}

	log.With("count", len(gifs)).Debugf("search: done")
	return gifs, nil
}

// HistoryResults returns the stored results for query without touching
// the network. An unknown query yields an empty slice.
func (c *Controller) HistoryResults(query string) []*storage.Gif {
	return c.history.Get(query)
}

// Searched reports whether query has been searched before, including
// searches that found nothing.
func (c *Controller) Searched(query string) bool {
	return c.history.Has(query)
}

// HistoryKeys returns the stored queries in the order they were first
// searched.
func (c *Controller) HistoryKeys() []string {
	return c.history.Keys()
}

// SubscribeHistory registers fn to receive the key list after every
// history change.
func (c *Controller) SubscribeHistory(fn func(keys []string)) func() {
	return c.history.Subscribe(fn)
}

// FindInHistory does a full-text lookup over the titles of every Gif
// stored in history.
func (c *Controller) FindInHistory(term string, limit int) ([]*storage.Gif, error) {
	return c.index.find(term, limit)
}

// IndexedCount reports how many distinct Gifs the history index holds.
func (c *Controller) IndexedCount() (int, error) {
	return c.index.docCount()
}

func (c *Controller) Close() error {
	return c.index.close()
}
