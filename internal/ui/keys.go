package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jscyril/playdeck/api"
)

type keyMap struct {
	PlayPause key.Binding
	Prev      key.Binding
	Next      key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
	Autoplay  key.Binding
	Shuffle   key.Binding
	Open      key.Binding
	Search    key.Binding
	Focus     key.Binding
	Select    key.Binding
	RowUp     key.Binding
	RowDown   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		Prev:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Next:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		VolUp:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "volume up")),
		VolDown:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "volume down")),
		Autoplay:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autoplay")),
		Shuffle:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "add files")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "jump")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus playlist")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play row")),
		RowUp:     key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "row up")),
		RowDown:   key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "row down")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Prev, k.Next, k.Open, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Prev, k.Next, k.VolUp, k.VolDown},
		{k.Autoplay, k.Shuffle, k.Open, k.Search},
		{k.Focus, k.Select, k.RowUp, k.RowDown, k.Help, k.Quit},
	}
}

// controllerKey maps the keys the playback controller understands.
func (k keyMap) controllerKey(msg tea.KeyMsg) api.Key {
	switch {
	case key.Matches(msg, k.PlayPause):
		return api.KeySpace
	case key.Matches(msg, k.Prev):
		return api.KeyLeft
	case key.Matches(msg, k.Next):
		return api.KeyRight
	case key.Matches(msg, k.VolUp):
		return api.KeyUp
	case key.Matches(msg, k.VolDown):
		return api.KeyDown
	}
	return api.KeyNone
}
