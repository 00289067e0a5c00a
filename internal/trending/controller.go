// Package trending loads the global trending feed page by page.
package trending

import (
	"context"
	"fmt"
	"sync"

	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/storage"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 20
	// GroupSize is the row width of the grouped feed.
	GroupSize = 3
)

// Fetcher is the part of the API client the controller needs.
type Fetcher interface {
	Trending(ctx context.Context, limit, offset int) ([]giphy.Item, error)
}

// Snapshot is a copy of the controller state handed to observers.
type Snapshot struct {
	Items   []*storage.Gif
	Page    int
	Loading bool
	Err     error

	// Exhausted is set when the last successful page was empty.
	Exhausted bool
}

// Grouped partitions the snapshot items into rows of GroupSize.
func (s Snapshot) Grouped() [][]*storage.Gif {
	return Group(s.Items, GroupSize)
}

// Controller holds the append-only trending feed. At most one page load
// is in flight; calls made while loading return immediately.
type Controller struct {
	fetcher Fetcher

	mu        sync.Mutex
	items     []*storage.Gif
	page      int
	loading   bool
	err       error
	exhausted bool

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObsID int
}

// NewController returns an empty feed. Nothing is fetched until the owner
// calls LoadNextPage for the first page.
func NewController(fetcher Fetcher) *Controller {
	return &Controller{
		fetcher:   fetcher,
		observers: make(map[int]func(Snapshot)),
	}
}

// LoadNextPage requests the page after the last one loaded and appends
// its items. It returns nil without fetching when a load is already in
// progress. On failure the feed is left as it was, the error is kept for
// Err and returned, and the next call retries the same page.
func (c *Controller) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.err = nil
	offset := c.page * PageSize
	c.mu.Unlock()
	c.notify()

	log := debuglog.WithFields(map[string]interface{}{"offset": offset})
	log.Debugf("trending: loading page")

	gifs, err := c.fetch(ctx, offset)

	c.mu.Lock()
	if err != nil {
		c.err = err
	} else {
		c.items = append(c.items, gifs...)
		c.page++
		c.exhausted = len(gifs) == 0
	}
	c.loading = false
	c.mu.Unlock()
	c.notify()

	if err != nil {
		log.Warnf("trending: page load failed: %v", err)
		return err
	}
	log.With("count", len(gifs)).Debugf("trending: page loaded")
	return nil
}

func (c *Controller) fetch(ctx context.Context, offset int) ([]*storage.Gif, error) {
	items, err := c.fetcher.Trending(ctx, PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("loading trending page: %w", err)
	}
	gifs, err := giphy.MapItems(items)
	if err != nil {
		return nil, fmt.Errorf("mapping trending page: %w", err)
	}
	return gifs, nil
}

// Grouped returns the feed in rows of GroupSize.
func (c *Controller) Grouped() [][]*storage.Gif {
	return Group(c.Items(), GroupSize)
}

func (c *Controller) Items() []*storage.Gif {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*storage.Gif{}, c.items...)
}

// Page is the number of pages loaded so far.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Exhausted reports whether the most recent page came back empty. The
// next LoadNextPage still asks the upstream again.
func (c *Controller) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

// Err returns the failure of the most recent load, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Items:     append([]*storage.Gif{}, c.items...),
		Page:      c.page,
		Loading:   c.loading,
		Err:       c.err,
		Exhausted: c.exhausted,
	}
}

// Subscribe registers fn to be called with a fresh Snapshot after every
// state change. The returned func removes the registration.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.obsMu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn
	c.obsMu.Unlock()

	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

func (c *Controller) notify() {
	c.obsMu.Lock()
	if len(c.observers) == 0 {
		c.obsMu.Unlock()
		return
	}
	fns := make([]func(Snapshot), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()

	snap := c.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}
