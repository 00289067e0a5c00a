// Package scroll remembers the last scroll offset of each view for the
// lifetime of the process.
package scroll

import "sync"

// Region names an independently scrolled area.
type Region string

const (
	Trending Region = "trending"
	Search   Region = "search"
	History  Region = "history"
)

// Cache maps regions to their last offset. Offsets are not validated and
// are never persisted.
type Cache struct {
	mu      sync.Mutex
	offsets map[Region]int
}

// NewCache returns a cache where every region starts at offset 0.
func NewCache() *Cache {
	return &Cache{offsets: make(map[Region]int)}
}

// Get returns the last offset stored for region, or 0.
func (c *Cache) Get(region Region) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsets[region]
}

func (c *Cache) Set(region Region, offset int) {
	c.mu.Lock()
	c.offsets[region] = offset
	c.mu.Unlock()
}

// NearBottom reports whether a view showing visible units starting at
// offset is within threshold units of the end of total units of content.
func NearBottom(offset, visible, total, threshold int) bool {
	return offset+visible+threshold >= total
}
