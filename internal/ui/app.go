package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zlog "github.com/rs/zerolog/log"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/library"
	"github.com/jscyril/playdeck/internal/playback"
	"github.com/jscyril/playdeck/internal/ui/views"
)

const headerLines = 1

// Options wires the model to its collaborators.
type Options struct {
	Controller *playback.Controller
	Display    *Display
	Dispatcher *Dispatcher
	Media      <-chan api.MediaEvent
	Library    *library.Library
	Accept     func(path string) bool // files offered by the browser
	Import     []string               // paths imported on start
	Theme      string                 // "dark" or "light"
}

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	// Views
	playerView   views.PlayerView
	playlistView views.PlaylistView
	libraryView  views.LibraryView

	// Components
	controller *playback.Controller
	display    *Display
	dispatcher *Dispatcher
	media      <-chan api.MediaEvent
	library    *library.Library
	keys       keyMap
	help       help.Model

	// State
	ctx           context.Context
	drag          *playback.DragSession
	playlistFocus bool
	status        string
	startup       []string

	// Styles
	headerStyle lipgloss.Style
	statusStyle lipgloss.Style
	noticeStyle lipgloss.Style
}

// mediaMsg carries a sink notification onto the update loop.
type mediaMsg struct {
	event api.MediaEvent
}

// importedMsg reports a finished scan.
type importedMsg struct {
	entries []api.FileEntry
	err     error
}

// NewModel creates a new application model
func NewModel(ctx context.Context, opts Options) Model {
	m := Model{
		width:      80,
		height:     24,
		controller: opts.Controller,
		display:    opts.Display,
		dispatcher: opts.Dispatcher,
		media:      opts.Media,
		library:    opts.Library,
		keys:       defaultKeyMap(),
		help:       help.New(),
		ctx:        ctx,
		startup:    opts.Import,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		noticeStyle: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 3).
			Bold(true),
	}

	if opts.Theme == "light" {
		m.headerStyle = m.headerStyle.Foreground(lipgloss.Color("125"))
		m.statusStyle = m.statusStyle.Foreground(lipgloss.Color("238"))
	}

	m.playerView = views.NewPlayerView(m.width)
	m.playlistView = views.NewPlaylistView(m.width, m.playlistHeight())
	m.libraryView = views.NewLibraryView(m.width, m.height, opts.Accept)
	m.sync()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.dispatcher.Wait(), waitForMedia(m.media)}
	if len(m.startup) > 0 {
		paths := m.startup
		cmds = append(cmds, func() tea.Msg { return views.ImportRequestMsg{Paths: paths} })
	}
	return tea.Batch(cmds...)
}

// waitForMedia returns a command delivering the next media event.
func waitForMedia(ch <-chan api.MediaEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return mediaMsg{event: ev}
	}
}

// importCmd scans paths off the update loop.
func (m Model) importCmd(paths []string) tea.Cmd {
	lib, ctx := m.library, m.ctx
	return func() tea.Msg {
		entries, err := lib.Collect(ctx, paths)
		return importedMsg{entries: entries, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.sync()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewSizes()

	case dispatchMsg:
		msg.fn()
		return m, m.dispatcher.Wait()

	case mediaMsg:
		m.controller.HandleMediaEvent(msg.event)
		return m, waitForMedia(m.media)

	case views.ImportRequestMsg:
		m.status = "Scanning " + strings.Join(msg.Paths, ", ") + "…"
		return m, m.importCmd(msg.Paths)

	case importedMsg:
		added := m.controller.ImportTracks(msg.entries)
		m.status = fmt.Sprintf("Added %d track(s)", added)
		if msg.err != nil {
			zlog.Warn().Err(msg.err).Msg("ui: import finished with errors")
			m.status += ", some paths could not be read"
		}

	case views.JumpMsg:
		m.controller.SelectTrack(msg.Index)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// A notice swallows the key that dismisses it.
	if m.display.Notice != "" {
		m.display.Dismiss()
		return m, nil
	}

	if m.libraryView.Active() {
		var cmd tea.Cmd
		m.libraryView, cmd = m.libraryView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.updateViewSizes()
		return m, nil
	case key.Matches(msg, m.keys.Autoplay):
		m.controller.ToggleAutoplay()
		return m, nil
	case key.Matches(msg, m.keys.Shuffle):
		m.controller.ToggleShuffle()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		m.libraryView.OpenBrowser()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m, m.libraryView.OpenSearch(m.controller.Tracks())
	case key.Matches(msg, m.keys.Focus):
		m.playlistFocus = !m.playlistFocus
		m.playlistView.SetFocused(m.playlistFocus)
		return m, nil
	}

	if m.playlistFocus {
		switch {
		case key.Matches(msg, m.keys.Select):
			if index, ok := m.playlistView.Selected(); ok {
				m.controller.SelectTrack(index)
			}
			return m, nil
		case key.Matches(msg, m.keys.RowUp, m.keys.RowDown):
			m.playlistView, _ = m.playlistView.Update(msg)
			return m, nil
		}
	}

	if k := m.keys.controllerKey(msg); k != api.KeyNone {
		m.controller.HandleKey(k)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.display.Notice != "" || m.libraryView.Active() {
		return m, nil
	}

	// Pointer positions are cell centres so the last cell of a bar can
	// reach the end.
	x := float64(msg.X) + 0.5

	switch msg.Action {
	case tea.MouseActionMotion:
		m.controller.Pointer().Move(x)

	case tea.MouseActionRelease:
		m.controller.Pointer().Release()

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if zone := m.playerView.ProgressZone(headerLines); zone.Contains(msg.X, msg.Y) {
			m.drag = m.controller.DragSeek(bounds(zone), x)
			return m, nil
		}
		if zone := m.playerView.VolumeZone(headerLines); zone.Contains(msg.X, msg.Y) {
			m.drag = m.controller.DragVolume(bounds(zone), x)
			return m, nil
		}
		if index, ok := m.playlistView.RowAt(m.playlistTop(), msg.X, msg.Y); ok {
			m.controller.SelectTrack(index)
		}
	}
	return m, nil
}

func bounds(z views.Zone) playback.Bounds {
	return playback.Bounds{Left: float64(z.X), Width: float64(z.Width)}
}

// sync copies the controller's display state into the views.
func (m *Model) sync() {
	m.playlistView.SetRows(m.display.Rows)
}

func (m Model) playlistTop() int {
	return headerLines + m.playerView.Height()
}

func (m Model) playlistHeight() int {
	h := m.height - m.playlistTop() - lipgloss.Height(m.help.View(m.keys)) - 1
	if h < 4 {
		h = 4
	}
	return h
}

// updateViewSizes updates view dimensions
func (m *Model) updateViewSizes() {
	m.help.Width = m.width
	m.playerView.SetWidth(m.width)
	m.playlistView.SetSize(m.width, m.playlistHeight())
	m.libraryView.SetSize(m.width, m.height)
}

// View renders the UI
func (m Model) View() string {
	if m.display.Notice != "" {
		box := m.noticeStyle.Render(m.display.Notice + "\n\n" + m.statusStyle.Render("press any key"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.libraryView.Active() {
		return m.libraryView.View()
	}

	header := m.headerStyle.Render("♫ playdeck")
	if m.status != "" {
		header += "  " + m.statusStyle.Render(m.status)
	}

	np := m.display.NowPlaying
	if m.drag != nil && m.controller.Dragging(m.drag.Kind()) {
		np.Dragging = m.drag.Kind().String()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.playerView.View(np),
		m.playlistView.View(),
		m.help.View(m.keys),
	)
}

// Run starts the bubbletea program
func Run(ctx context.Context, opts Options) error {
	model := NewModel(ctx, opts)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
