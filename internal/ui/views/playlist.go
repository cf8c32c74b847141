package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/ui/components"
)

const (
	playlistBorder  = 1
	playlistPadLeft = 1
	playlistHeader  = 1 // title line above the rows
)

// PlaylistView displays the playlist rows.
type PlaylistView struct {
	Width       int
	Height      int
	TrackList   components.TrackList
	BorderStyle lipgloss.Style
	FocusStyle  lipgloss.Style
	TitleStyle  lipgloss.Style
}

// NewPlaylistView creates a new playlist view
func NewPlaylistView(width, height int) PlaylistView {
	v := PlaylistView{
		TrackList: components.NewTrackList(0, 0),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, playlistPadLeft),
		FocusStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, playlistPadLeft),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
	}
	v.SetSize(width, height)
	return v
}

// SetSize resizes the panel.
func (v *PlaylistView) SetSize(width, height int) {
	v.Width = width
	v.Height = height
	v.TrackList.Width = width - 2*playlistBorder - 2*playlistPadLeft
	v.TrackList.Height = height - 2*playlistBorder - playlistHeader
	if v.TrackList.Height < 1 {
		v.TrackList.Height = 1
	}
}

// SetRows replaces the displayed rows.
func (v *PlaylistView) SetRows(rows []api.PlaylistRow) {
	v.TrackList.SetItems(rows)
}

// SetFocused toggles keyboard focus on the list.
func (v *PlaylistView) SetFocused(focused bool) {
	v.TrackList.Focused = focused
}

// Selected returns the playlist index under the cursor.
func (v PlaylistView) Selected() (int, bool) {
	list := v.TrackList
	if list.Cursor < 0 || list.Cursor >= len(list.Items) {
		return 0, false
	}
	return list.Items[list.Cursor].Index, true
}

// RowAt maps a screen cell to a playlist index for a panel drawn at row top.
func (v PlaylistView) RowAt(top, x, y int) (int, bool) {
	left := playlistBorder + playlistPadLeft
	if x < left || x >= left+v.TrackList.Width {
		return 0, false
	}
	return v.TrackList.RowAt(y - top - playlistBorder - playlistHeader)
}

// Update handles messages
func (v PlaylistView) Update(msg tea.Msg) (PlaylistView, tea.Cmd) {
	var cmd tea.Cmd
	v.TrackList, cmd = v.TrackList.Update(msg)
	return v, cmd
}

// View renders the playlist view
func (v PlaylistView) View() string {
	title := v.TitleStyle.Render(fmt.Sprintf("Playlist (%d)", len(v.TrackList.Items)))
	content := lipgloss.JoinVertical(lipgloss.Left, title, v.TrackList.View())

	style := v.BorderStyle
	if v.TrackList.Focused {
		style = v.FocusStyle
	}
	return style.
		Width(v.Width - 2*playlistBorder).
		Height(v.Height - 2*playlistBorder).
		Render(content)
}
