package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jscyril/playdeck/api"
)

// TrackList is a scrollable list of playlist rows with a cursor.
type TrackList struct {
	Items         []api.PlaylistRow
	Cursor        int
	Height        int
	Width         int
	Offset        int
	Focused       bool
	CursorStyle   lipgloss.Style
	ActiveStyle   lipgloss.Style
	NormalStyle   lipgloss.Style
	DisabledStyle lipgloss.Style
}

// NewTrackList creates a new track list
func NewTrackList(height, width int) TrackList {
	return TrackList{
		Height: height,
		Width:  width,
		CursorStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true),
		ActiveStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		NormalStyle: lipgloss.NewStyle(),
		DisabledStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
	}
}

// SetItems replaces the rows, keeping the cursor in range. The first call
// and every change of active row scroll the active row into view.
func (l *TrackList) SetItems(items []api.PlaylistRow) {
	prevActive := activeIndex(l.Items)
	l.Items = items
	if active := activeIndex(items); active >= 0 && active != prevActive {
		l.Cursor = active
	}
	if l.Cursor >= len(items) {
		l.Cursor = len(items) - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	l.ensureVisible()
}

func activeIndex(items []api.PlaylistRow) int {
	for i, r := range items {
		if r.Active {
			return i
		}
	}
	return -1
}

// Update handles messages for the track list
func (l TrackList) Update(msg tea.Msg) (TrackList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.Cursor = 0
			l.ensureVisible()
		case "end", "G":
			if len(l.Items) > 0 {
				l.Cursor = len(l.Items) - 1
				l.ensureVisible()
			}
		case "pgup":
			l.Cursor -= l.Height
			if l.Cursor < 0 {
				l.Cursor = 0
			}
			l.ensureVisible()
		case "pgdown":
			l.Cursor += l.Height
			if l.Cursor >= len(l.Items) {
				l.Cursor = len(l.Items) - 1
			}
			l.ensureVisible()
		}
	}
	return l, nil
}

// MoveUp moves the cursor up
func (l *TrackList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
		l.ensureVisible()
	}
}

// MoveDown moves the cursor down
func (l *TrackList) MoveDown() {
	if l.Cursor < len(l.Items)-1 {
		l.Cursor++
		l.ensureVisible()
	}
}

// SetCursor moves the cursor to index.
func (l *TrackList) SetCursor(index int) {
	if index < 0 || index >= len(l.Items) {
		return
	}
	l.Cursor = index
	l.ensureVisible()
}

// RowAt maps a line offset within the list to a playlist index.
func (l TrackList) RowAt(line int) (int, bool) {
	if line < 0 || line >= l.visibleHeight() {
		return 0, false
	}
	index := l.Offset + line
	if index >= len(l.Items) {
		return 0, false
	}
	return l.Items[index].Index, true
}

func (l TrackList) visibleHeight() int {
	if l.Height < 1 {
		return 1
	}
	return l.Height
}

// ensureVisible ensures the cursor row is visible
func (l *TrackList) ensureVisible() {
	visible := l.visibleHeight()
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	} else if l.Cursor >= l.Offset+visible {
		l.Offset = l.Cursor - visible + 1
	}
	if last := len(l.Items) - visible; last >= 0 && l.Offset > last {
		l.Offset = last
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}

// View renders the track list
func (l TrackList) View() string {
	if len(l.Items) == 0 {
		return l.DisabledStyle.Render("No tracks. Press o to add files.")
	}

	end := l.Offset + l.visibleHeight()
	if end > len(l.Items) {
		end = len(l.Items)
	}

	lines := make([]string, 0, end-l.Offset)
	for i := l.Offset; i < end; i++ {
		row := l.Items[i]

		marker := "  "
		if row.Active {
			marker = "♪ "
		}
		line := fmt.Sprintf("%s%3d. %s - %s", marker, i+1, row.Title, row.Artist)
		line = runewidth.Truncate(line, l.Width, "…")
		line = runewidth.FillRight(line, l.Width)

		switch {
		case l.Focused && i == l.Cursor:
			line = l.CursorStyle.Render(line)
		case row.Active:
			line = l.ActiveStyle.Render(line)
		case !row.Playable:
			line = l.DisabledStyle.Render(line)
		default:
			line = l.NormalStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
