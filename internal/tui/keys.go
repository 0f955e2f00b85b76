package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search     key.Binding
	Up         key.Binding
	Down       key.Binding
	Prev       key.Binding
	Next       key.Binding
	First      key.Binding
	Last       key.Binding
	Popular    key.Binding
	NowPlaying key.Binding
	Open       key.Binding
	Back       key.Binding
	Retry      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
	Next:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
	First:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
	Last:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
	Popular:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "popular")),
	NowPlaying: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "now playing")),
	Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back/clear")),
	Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Prev, k.Next, k.Popular, k.NowPlaying, k.Open, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Back, k.Open, k.Retry},
		{k.Up, k.Down, k.Prev, k.Next, k.First, k.Last},
		{k.Popular, k.NowPlaying, k.Help, k.Quit},
	}
}
