package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the browser.
//
// It implements [help.KeyMap]; tracks selects the bindings shown for the track view.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	export key.Binding
	help   key.Binding
	quit   key.Binding

	tracks bool
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.tracks {
		return []key.Binding{k.export, k.back, k.help, k.quit}
	}
	return []key.Binding{k.enter, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	nav := []key.Binding{k.up, k.down}
	if k.tracks {
		return [][]key.Binding{nav, {k.export, k.back}, {k.help, k.quit}}
	}
	return [][]key.Binding{nav, {k.enter}, {k.help, k.quit}}
}
