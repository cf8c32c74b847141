package views

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/library"
	"github.com/jscyril/playdeck/internal/ui/components"
)

// ImportRequestMsg asks the app to scan and import paths.
type ImportRequestMsg struct {
	Paths []string
}

// JumpMsg asks the app to select the playlist entry at Index.
type JumpMsg struct {
	Index int
}

// LibraryMode is what the library overlay is showing.
type LibraryMode int

const (
	LibraryClosed LibraryMode = iota
	LibraryBrowsing
	LibrarySearching
)

const maxResults = 8

// LibraryView is the overlay for adding files and jumping to tracks.
type LibraryView struct {
	Width       int
	Height      int
	Mode        LibraryMode
	FileBrowser components.FileBrowser
	SearchBar   components.SearchInput
	Results     components.TrackList
	tracks      []*api.Track
	accept      func(string) bool
	lastDir     string

	BorderStyle lipgloss.Style
	TitleStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
}

// NewLibraryView creates a new library view. accept filters the files
// the browser lists.
func NewLibraryView(width, height int, accept func(string) bool) LibraryView {
	results := components.NewTrackList(maxResults, width-8)
	results.Focused = true
	return LibraryView{
		Width:     width,
		Height:    height,
		SearchBar: components.NewSearchInput(width - 12),
		Results:   results,
		accept:    accept,
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		HelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Active reports whether the overlay is open.
func (v LibraryView) Active() bool {
	return v.Mode != LibraryClosed
}

// SetSize resizes the overlay.
func (v *LibraryView) SetSize(width, height int) {
	v.Width = width
	v.Height = height
	v.FileBrowser.Width = width
	v.FileBrowser.Height = height
	v.SearchBar.SetWidth(width - 12)
	v.Results.Width = width - 8
}

// OpenBrowser shows the file browser, reopening the last visited directory.
func (v *LibraryView) OpenBrowser() {
	start := v.lastDir
	if start == "" {
		start, _ = os.Getwd()
	}
	v.FileBrowser = components.NewFileBrowser(start, v.Width, v.Height, v.accept)
	v.FileBrowser.IsPlaylist = library.IsPlaylist
	v.FileBrowser.Navigate(v.FileBrowser.CurrentPath)
	v.Mode = LibraryBrowsing
}

// OpenSearch shows the jump-to-track search over tracks.
func (v *LibraryView) OpenSearch(tracks []*api.Track) tea.Cmd {
	v.tracks = tracks
	v.SearchBar.Clear()
	v.Results.SetItems(nil)
	v.Mode = LibrarySearching
	return v.SearchBar.Focus()
}

// Close hides the overlay.
func (v *LibraryView) Close() {
	if v.Mode == LibraryBrowsing {
		v.lastDir = v.FileBrowser.CurrentPath
	}
	v.SearchBar.Blur()
	v.Mode = LibraryClosed
}

// Update handles messages
func (v LibraryView) Update(msg tea.Msg) (LibraryView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch v.Mode {
	case LibraryBrowsing:
		switch keyMsg.String() {
		case "esc":
			v.Close()
		case "enter":
			// Directories are entered; files are imported.
			if path := v.FileBrowser.EnterSelected(); path != "" {
				v.Close()
				return v, request(path)
			}
		case "i":
			dir := v.FileBrowser.CurrentPath
			v.Close()
			return v, request(dir)
		default:
			v.FileBrowser, _ = v.FileBrowser.Update(msg)
		}

	case LibrarySearching:
		switch keyMsg.String() {
		case "esc":
			v.Close()
		case "enter":
			index, ok := v.bestMatch()
			v.Close()
			if ok {
				return v, func() tea.Msg { return JumpMsg{Index: index} }
			}
		case "up", "down":
			v.Results, _ = v.Results.Update(msg)
		default:
			var cmd tea.Cmd
			v.SearchBar, cmd = v.SearchBar.Update(msg)
			v.refreshResults()
			return v, cmd
		}
	}
	return v, nil
}

func request(path string) tea.Cmd {
	return func() tea.Msg { return ImportRequestMsg{Paths: []string{path}} }
}

// refreshResults re-ranks the tracks against the query.
func (v *LibraryView) refreshResults() {
	matches := library.Search(v.tracks, strings.TrimSpace(v.SearchBar.Value()))
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	rows := make([]api.PlaylistRow, len(matches))
	for i, index := range matches {
		t := v.tracks[index]
		rows[i] = api.PlaylistRow{Index: index, Title: t.Title, Artist: t.Artist, Playable: t.Playable()}
	}
	v.Results.Cursor = 0
	v.Results.SetItems(rows)
}

// bestMatch returns the playlist index under the results cursor.
func (v LibraryView) bestMatch() (int, bool) {
	if len(v.Results.Items) == 0 {
		return 0, false
	}
	return v.Results.Items[v.Results.Cursor].Index, true
}

// View renders the library view
func (v LibraryView) View() string {
	switch v.Mode {
	case LibraryBrowsing:
		return v.FileBrowser.View()
	case LibrarySearching:
		var sb strings.Builder
		sb.WriteString(v.TitleStyle.Render("Jump to track"))
		sb.WriteString("\n")
		sb.WriteString(v.SearchBar.View())
		sb.WriteString("\n")
		if len(v.Results.Items) > 0 {
			sb.WriteString(v.Results.View())
		} else {
			sb.WriteString(v.HelpStyle.Render("No matches"))
		}
		sb.WriteString("\n\n")
		sb.WriteString(v.HelpStyle.Render("[Enter] Play  [↑↓] Choose  [Esc] Cancel"))
		return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
	}
	return ""
}
