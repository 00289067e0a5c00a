package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StatusKind selects the color of the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func (k StatusKind) style() lipgloss.Style {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

// truncateEnd cuts s to limit terminal cells, the last one being an
// ellipsis when anything was dropped.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return ansi.Truncate(s, limit, "…")
}

// truncateMiddle keeps both ends of s around a single ellipsis. Used for
// media URLs, where the host and the file name both matter.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	width := ansi.StringWidth(s)
	if width <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	left := (limit - 1) / 2
	right := limit - 1 - left
	return ansi.Truncate(s, left, "") + "…" + ansi.TruncateLeft(s, width-right, "")
}

// renderHeader draws a view title with an optional muted second line.
func renderHeader(title, subtitle string, width int) string {
	head := HeaderStyle.Render(truncateEnd(title, width-2))
	if subtitle == "" {
		return head
	}
	return lipgloss.JoinVertical(lipgloss.Top, head, renderMuted(truncateEnd(subtitle, width-2)))
}

// renderInputFrame boxes a text input; the border lights up on focus.
func renderInputFrame(input string, focused bool, width int) string {
	border := MutedColor
	if focused {
		border = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width + 4).
		Render(input)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}
