package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	toggle  key.Binding
	enter   key.Binding
	back    key.Binding
	start   key.Binding
	end     key.Binding
	next    key.Binding
	prev    key.Binding
	history key.Binding
	report  key.Binding
	share   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		start:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new shift")),
		end:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end shift")),
		next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
		history: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		report:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "studio report")),
		share:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle, k.enter},
		{k.start, k.end, k.next, k.prev},
		{k.history, k.report, k.share},
		{k.back, k.quit},
	}
}
