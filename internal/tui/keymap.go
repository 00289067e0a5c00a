package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/gifr/internal/config"
)

// keyMap holds every binding, built once from the configured keys.
type keyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Help     key.Binding
	Trending key.Binding
	Search   key.Binding
	History  key.Binding
	Open     key.Binding
	Find     key.Binding
	Retry    key.Binding
	Select   key.Binding
	Focus    key.Binding

	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	PgUp   key.Binding
	PgDown key.Binding
	Top    key.Binding
	Bottom key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	mod := ""
	if cfg.Keys.Modifier != "" {
		mod = cfg.Keys.Modifier + "+"
	}
	b := cfg.Keys.Bindings

	return keyMap{
		Quit:     key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
		Back:     key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Help:     key.NewBinding(key.WithKeys(b.Help), key.WithHelp(b.Help, "help")),
		Trending: key.NewBinding(key.WithKeys(mod+b.Trending, "1"), key.WithHelp(mod+b.Trending+"/1", "trending")),
		Search:   key.NewBinding(key.WithKeys(mod+b.Search, "2"), key.WithHelp(mod+b.Search+"/2", "search")),
		History:  key.NewBinding(key.WithKeys(mod+b.History, "3"), key.WithHelp(mod+b.History+"/3", "history")),
		Open:     key.NewBinding(key.WithKeys(mod+b.OpenMedia), key.WithHelp(mod+b.OpenMedia, "open in viewer")),
		Find:     key.NewBinding(key.WithKeys(mod+b.FindLocal), key.WithHelp(mod+b.FindLocal, "find in history")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Focus:    key.NewBinding(key.WithKeys("/", "i", "tab", "shift+tab"), key.WithHelp("/", "edit query")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PgUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PgDown: key.NewBinding(key.WithKeys("pgdown", " ", "f"), key.WithHelp("pgdn", "page down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	}
}

// viewKeys adapts the key map to help.KeyMap for one view.
type viewKeys struct {
	km   keyMap
	view View
}

func (v viewKeys) ShortHelp() []key.Binding {
	k := v.km
	switch v.view {
	case ViewTrending:
		return []key.Binding{k.Select, k.Open, k.Search, k.History, k.Help, k.Quit}
	case ViewSearch:
		return []key.Binding{k.Focus, k.Select, k.Open, k.History, k.Back, k.Help}
	case ViewHistory:
		return []key.Binding{k.Select, k.Find, k.Open, k.Back, k.Help}
	case ViewDetail:
		return []key.Binding{k.Open, k.Back, k.Help, k.Quit}
	}
	return []key.Binding{k.Help, k.Quit}
}

func (v viewKeys) FullHelp() [][]key.Binding {
	k := v.km
	nav := []key.Binding{k.Up, k.Down, k.PgUp, k.PgDown, k.Top, k.Bottom}
	views := []key.Binding{k.Trending, k.Search, k.History}
	general := []key.Binding{k.Back, k.Help, k.Quit}

	switch v.view {
	case ViewTrending:
		return [][]key.Binding{
			append([]key.Binding{k.Left, k.Right}, nav...),
			{k.Select, k.Open, k.Retry},
			views,
			general,
		}
	case ViewSearch:
		return [][]key.Binding{nav, {k.Focus, k.Select, k.Open}, views, general}
	case ViewHistory:
		return [][]key.Binding{nav, {k.Select, k.Find, k.Open}, views, general}
	default:
		return [][]key.Binding{nav, {k.Open}, views, general}
	}
}
