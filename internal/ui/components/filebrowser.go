package components

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

// EntryKind tells directories, playlists and audio files apart.
type EntryKind int

const (
	EntryDir EntryKind = iota
	EntryPlaylist
	EntryFile
)

// FileEntry is one row of the browser.
type FileEntry struct {
	Name string
	Path string
	Kind EntryKind
}

// IsDir reports whether the entry can be entered.
func (e FileEntry) IsDir() bool {
	return e.Kind == EntryDir
}

func (e FileEntry) icon() string {
	switch e.Kind {
	case EntryDir:
		return "📂 "
	case EntryPlaylist:
		return "📜 "
	}
	return "🎵 "
}

// chromeLines is the height taken by border, padding, path, count and help.
const chromeLines = 10

// FileBrowser lists one directory at a time. Hidden entries are skipped,
// directories come first and files are filtered by Accept.
type FileBrowser struct {
	Width       int
	Height      int
	CurrentPath string
	Entries     []FileEntry
	Selected    int
	Offset      int
	Accept      func(path string) bool
	IsPlaylist  func(path string) bool
	Err         error

	DirStyle      lipgloss.Style
	FileStyle     lipgloss.Style
	SelectedStyle lipgloss.Style
	PathStyle     lipgloss.Style
	DimStyle      lipgloss.Style
	ErrStyle      lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewFileBrowser opens a browser at startPath, or the home directory when
// startPath is empty. accept selects which files are listed; nil lists
// every file.
func NewFileBrowser(startPath string, width, height int, accept func(string) bool) FileBrowser {
	fb := FileBrowser{
		Width:         width,
		Height:        height,
		Accept:        accept,
		DirStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		FileStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		SelectedStyle: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")).Bold(true),
		PathStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		DimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ErrStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}

	if startPath == "" {
		startPath = "/"
		if home, err := os.UserHomeDir(); err == nil {
			startPath = home
		}
	}
	fb.Navigate(startPath)
	return fb
}

// Navigate lists path. On error the listing is empty and Err is set.
func (fb *FileBrowser) Navigate(path string) {
	fb.CurrentPath = path
	fb.Selected, fb.Offset = 0, 0
	fb.Entries, fb.Err = fb.list(path)
}

func (fb *FileBrowser) list(path string) ([]FileEntry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var entries []FileEntry
	if parent := filepath.Dir(path); parent != path {
		entries = append(entries, FileEntry{Name: "..", Path: parent, Kind: EntryDir})
	}

	visible := lo.Filter(dirEntries, func(d os.DirEntry, _ int) bool {
		return !strings.HasPrefix(d.Name(), ".")
	})
	listed := lo.FilterMap(visible, func(d os.DirEntry, _ int) (FileEntry, bool) {
		full := filepath.Join(path, d.Name())
		switch {
		case d.IsDir():
			return FileEntry{Name: d.Name(), Path: full, Kind: EntryDir}, true
		case fb.Accept != nil && !fb.Accept(full):
			return FileEntry{}, false
		case fb.IsPlaylist != nil && fb.IsPlaylist(full):
			return FileEntry{Name: d.Name(), Path: full, Kind: EntryPlaylist}, true
		}
		return FileEntry{Name: d.Name(), Path: full, Kind: EntryFile}, true
	})

	slices.SortStableFunc(listed, func(a, b FileEntry) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return append(entries, listed...), nil
}

// Update moves the selection and handles directory shortcuts.
func (fb FileBrowser) Update(msg tea.Msg) (FileBrowser, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fb, nil
	}

	page := fb.visibleHeight()
	switch keyMsg.String() {
	case "up", "k":
		fb.moveTo(fb.Selected - 1)
	case "down", "j":
		fb.moveTo(fb.Selected + 1)
	case "pgup":
		fb.moveTo(fb.Selected - page)
	case "pgdown":
		fb.moveTo(fb.Selected + page)
	case "home":
		fb.moveTo(0)
	case "end":
		fb.moveTo(len(fb.Entries) - 1)
	case "backspace":
		if parent := filepath.Dir(fb.CurrentPath); parent != fb.CurrentPath {
			fb.Navigate(parent)
		}
	case "~":
		if home, err := os.UserHomeDir(); err == nil {
			fb.Navigate(home)
		}
	}
	return fb, nil
}

func (fb *FileBrowser) moveTo(index int) {
	if len(fb.Entries) == 0 {
		return
	}
	fb.Selected = lo.Clamp(index, 0, len(fb.Entries)-1)

	page := fb.visibleHeight()
	switch {
	case fb.Selected < fb.Offset:
		fb.Offset = fb.Selected
	case fb.Selected >= fb.Offset+page:
		fb.Offset = fb.Selected - page + 1
	}
}

// SelectedEntry returns the entry under the cursor, or nil.
func (fb *FileBrowser) SelectedEntry() *FileEntry {
	if fb.Selected < 0 || fb.Selected >= len(fb.Entries) {
		return nil
	}
	return &fb.Entries[fb.Selected]
}

// EnterSelected enters a selected directory and returns "", or returns
// the path of a selected file.
func (fb *FileBrowser) EnterSelected() string {
	entry := fb.SelectedEntry()
	switch {
	case entry == nil:
		return ""
	case entry.IsDir():
		fb.Navigate(entry.Path)
		return ""
	}
	return entry.Path
}

// FileCount returns the number of listed files and playlists.
func (fb *FileBrowser) FileCount() int {
	return lo.CountBy(fb.Entries, func(e FileEntry) bool { return !e.IsDir() })
}

func (fb FileBrowser) visibleHeight() int {
	return max(fb.Height-chromeLines, 1)
}

// View renders the current directory listing.
func (fb FileBrowser) View() string {
	width := max(fb.Width-8, 10)
	page := fb.visibleHeight()

	lines := []string{
		fb.PathStyle.Render(runewidth.Truncate("📁 "+fb.CurrentPath, width, "…")),
		"",
	}
	if fb.Err != nil {
		lines = append(lines, fb.ErrStyle.Render("Error: "+fb.Err.Error()))
	}

	end := min(fb.Offset+page, len(fb.Entries))
	for i := fb.Offset; i < end; i++ {
		entry := fb.Entries[i]
		line := runewidth.Truncate(entry.icon()+entry.Name, width, "…")
		switch {
		case i == fb.Selected:
			line = fb.SelectedStyle.Render(line)
		case entry.IsDir():
			line = fb.DirStyle.Render(line)
		default:
			line = fb.FileStyle.Render(line)
		}
		lines = append(lines, line)
	}
	for i := end - fb.Offset; i < page; i++ {
		lines = append(lines, "")
	}

	lines = append(lines,
		fb.DimStyle.Render(strings.Repeat("─", 20)),
		fb.DimStyle.Render(fmt.Sprintf("Files: %d", fb.FileCount())),
		"",
		fb.DimStyle.Render("[Enter] Open/Add  [i] Add folder  [Backspace] Up  [~] Home  [Esc] Close"),
	)
	return fb.BorderStyle.Width(fb.Width - 4).Render(strings.Join(lines, "\n"))
}
