package trending

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gifr/internal/storage"
)

func gifs(n int) []*storage.Gif {
	out := make([]*storage.Gif, n)
	for i := range out {
		out[i] = &storage.Gif{ID: fmt.Sprintf("%d", i)}
	}
	return out
}

func TestGroup(t *testing.T) {
	tests := []struct {
		n     int
		sizes []int
	}{
		{n: 0, sizes: []int{}},
		{n: 1, sizes: []int{1}},
		{n: 2, sizes: []int{2}},
		{n: 3, sizes: []int{3}},
		{n: 4, sizes: []int{3, 1}},
		{n: 7, sizes: []int{3, 3, 1}},
		{n: 20, sizes: []int{3, 3, 3, 3, 3, 3, 2}},
		{n: 21, sizes: []int{3, 3, 3, 3, 3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items", tt.n), func(t *testing.T) {
			items := gifs(tt.n)
			groups := Group(items, GroupSize)

			sizes := make([]int, len(groups))
			var flat []*storage.Gif
			for i, g := range groups {
				sizes[i] = len(g)
				flat = append(flat, g...)
			}
			assert.Equal(t, tt.sizes, sizes)

			// Concatenating the groups yields the input in order.
			if tt.n > 0 {
				assert.Equal(t, items, flat)
			}
		})
	}
}

func TestGroup_DoesNotAliasInput(t *testing.T) {
	items := gifs(4)
	groups := Group(items, GroupSize)
	require.Len(t, groups, 2)

	groups[1] = append(groups[1], &storage.Gif{ID: "extra"})
	groups[0][0] = nil

	assert.Equal(t, "0", items[0].ID)
	assert.Len(t, items, 4)
}

func TestGroup_InvalidSizeFallsBack(t *testing.T) {
	assert.Len(t, Group(gifs(6), 0), 2)
}
