package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/trending"
)

// cellHeight is the rendered height of one grid cell: three text lines
// inside a rounded border.
const cellHeight = 5

// grid is the cursor state of the trending view over the grouped feed.
type grid struct {
	rows [][]*storage.Gif
	row  int
	col  int
}

func (g *grid) setRows(rows [][]*storage.Gif) {
	g.rows = rows
	g.clamp()
}

func (g *grid) clamp() {
	if len(g.rows) == 0 {
		g.row, g.col = 0, 0
		return
	}
	if g.row >= len(g.rows) {
		g.row = len(g.rows) - 1
	}
	if g.row < 0 {
		g.row = 0
	}
	if n := len(g.rows[g.row]); g.col >= n {
		g.col = n - 1
	}
	if g.col < 0 {
		g.col = 0
	}
}

// move shifts the cursor by dr rows and dc columns, staying on the grid.
func (g *grid) move(dr, dc int) {
	g.row += dr
	g.col += dc
	g.clamp()
}

func (g *grid) home() { g.row, g.col = 0, 0 }

func (g *grid) end() {
	g.row = len(g.rows) - 1
	g.col = trending.GroupSize - 1
	g.clamp()
}

func (g *grid) selected() *storage.Gif {
	if g.row < 0 || g.row >= len(g.rows) {
		return nil
	}
	r := g.rows[g.row]
	if g.col < 0 || g.col >= len(r) {
		return nil
	}
	return r[g.col]
}

// rowSpan returns the first and one-past-last content line of the cursor row.
func (g *grid) rowSpan() (int, int) {
	top := g.row * cellHeight
	return top, top + cellHeight
}

// render draws every row as trending.GroupSize cells across width.
func (g *grid) render(width int) string {
	if len(g.rows) == 0 {
		return ""
	}
	cellWidth := width/trending.GroupSize - 2
	if cellWidth < 12 {
		cellWidth = 12
	}
	inner := cellWidth - 2

	lines := make([]string, 0, len(g.rows))
	for r, row := range g.rows {
		cells := make([]string, 0, len(row))
		for c, gif := range row {
			style := CellStyle
			if r == g.row && c == g.col {
				style = SelectedCellStyle
			}
			body := strings.Join([]string{
				CellTitleStyle.Render(truncateEnd(gif.DisplayTitle(), inner)),
				renderMuted(truncateEnd(gif.ID, inner)),
				renderMuted(truncateMiddle(gif.URL, inner)),
			}, "\n")
			cells = append(cells, style.Width(cellWidth).Render(body))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
