package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	up       key.Binding
	down     key.Binding
	complete key.Binding
	del      key.Binding
	add      key.Binding
	search   key.Binding
	sort     key.Binding
	filter   key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeymap() keymap {
	return keymap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		complete: key.NewBinding(key.WithKeys("enter", " ", "x"), key.WithHelp("x", "complete")),
		del:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.complete, k.del, k.add, k.search, k.sort, k.filter, k.help, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.complete, k.del},
		{k.add, k.search, k.sort, k.filter},
		{k.help, k.quit},
	}
}

var keys = newKeymap()
