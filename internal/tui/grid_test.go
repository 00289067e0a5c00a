package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/trending"
)

func testRows(n int) [][]*storage.Gif {
	gifs := make([]*storage.Gif, n)
	for i := range gifs {
		gifs[i] = &storage.Gif{
			ID:    fmt.Sprintf("g%d", i),
			Title: fmt.Sprintf("gif %d", i),
			URL:   fmt.Sprintf("https://media.example.com/%d/preview.gif", i),
		}
	}
	return trending.Group(gifs, trending.GroupSize)
}

func TestGrid_Move(t *testing.T) {
	var g grid
	g.setRows(testRows(7))

	assert.Equal(t, "g0", g.selected().ID)

	g.move(0, 1)
	assert.Equal(t, "g1", g.selected().ID)

	g.move(1, 0)
	assert.Equal(t, "g4", g.selected().ID)

	// Past the right edge stays on the last column.
	g.move(0, 5)
	assert.Equal(t, "g5", g.selected().ID)

	// The last row holds a single item.
	g.move(1, 0)
	assert.Equal(t, 2, g.row)
	assert.Equal(t, 0, g.col)
	assert.Equal(t, "g6", g.selected().ID)

	g.move(-10, -10)
	assert.Equal(t, "g0", g.selected().ID)
}

func TestGrid_HomeEnd(t *testing.T) {
	var g grid
	g.setRows(testRows(8))

	g.end()
	assert.Equal(t, "g7", g.selected().ID)

	g.home()
	assert.Equal(t, "g0", g.selected().ID)
}

func TestGrid_Empty(t *testing.T) {
	var g grid
	g.setRows(nil)

	assert.Nil(t, g.selected())
	assert.Equal(t, "", g.render(90))

	g.move(1, 1)
	g.end()
	assert.Equal(t, 0, g.row)
	assert.Equal(t, 0, g.col)
	assert.Nil(t, g.selected())
}

func TestGrid_ShrinkingRowsClampsCursor(t *testing.T) {
	var g grid
	g.setRows(testRows(9))
	g.end()
	assert.Equal(t, "g8", g.selected().ID)

	g.setRows(testRows(4))
	assert.Equal(t, "g3", g.selected().ID)
}

func TestGrid_RowSpan(t *testing.T) {
	var g grid
	g.setRows(testRows(9))
	g.move(2, 0)

	top, bottom := g.rowSpan()
	assert.Equal(t, 2*cellHeight, top)
	assert.Equal(t, 3*cellHeight, bottom)
}

func TestGrid_Render(t *testing.T) {
	var g grid
	g.setRows(testRows(5))

	out := g.render(90)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2*cellHeight)

	for i := 0; i < 5; i++ {
		assert.Contains(t, out, fmt.Sprintf("gif %d", i))
	}
}

func TestGrid_RenderNarrowWidthTruncates(t *testing.T) {
	gifs := []*storage.Gif{{ID: "x", Title: strings.Repeat("long title ", 10)}}
	var g grid
	g.setRows(trending.Group(gifs, trending.GroupSize))

	out := g.render(10)
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.Repeat("long title ", 2))
}
