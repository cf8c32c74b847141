package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/library"
	"github.com/jscyril/playdeck/internal/playback"
	"github.com/jscyril/playdeck/internal/playlist"
	"github.com/jscyril/playdeck/internal/ui/views"
)

type stubSink struct {
	source   string
	pos      time.Duration
	duration time.Duration
	volume   float64
}

func (s *stubSink) SetSource(uri string)             { s.source = uri }
func (s *stubSink) Play(done func(error))            { done(nil) }
func (s *stubSink) Pause()                           {}
func (s *stubSink) CurrentTime() time.Duration       { return s.pos }
func (s *stubSink) SetCurrentTime(pos time.Duration) { s.pos = pos }
func (s *stubSink) Duration() (time.Duration, bool)  { return s.duration, s.duration > 0 }
func (s *stubSink) SetVolume(level float64)          { s.volume = level }

type stubSources struct{}

func (stubSources) Register(path string) string { return "local:" + path }

func newTestModel(t *testing.T) (Model, *playback.Controller, *stubSink) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	display := NewDisplay()
	dispatcher := NewDispatcher(ctx)
	sink := &stubSink{}
	c := playback.NewController(playback.Deps{
		Sink:       sink,
		Display:    display,
		Dispatcher: dispatcher,
		Sources:    stubSources{},
		Tracks:     playlist.Seed(),
	}, playback.Config{Volume: 1})

	m := NewModel(ctx, Options{
		Controller: c,
		Display:    display,
		Dispatcher: dispatcher,
		Library:    library.NewLibrary(nil),
	})
	return m, c, sink
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestDisplayRecordsControllerOutput(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, "Sample Song 1", m.display.Title)
	assert.Equal(t, "Sample Artist", m.display.Artist)
	assert.Equal(t, "0:00", m.display.Elapsed)
	assert.Equal(t, "0:00", m.display.Total)
	assert.Equal(t, 100.0, m.display.Volume)
	require.Len(t, m.display.Rows, 3)
	assert.True(t, m.display.Rows[0].Active)
	assert.Len(t, m.playlistView.TrackList.Items, 3)
}

func TestNoticeSwallowsNextKey(t *testing.T) {
	m, c, _ := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, playback.NoSourceNotice, m.display.Notice)
	assert.Contains(t, m.View(), playback.NoSourceNotice)

	m = send(t, m, runes("a"))
	assert.Empty(t, m.display.Notice)
	assert.False(t, c.State().IsAutoplay, "dismissing key is not acted on")

	m = send(t, m, runes("a"))
	assert.True(t, c.State().IsAutoplay)
}

func TestKeysDriveController(t *testing.T) {
	m, c, sink := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, c.State().CurrentIndex)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, c.State().CurrentIndex)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.InDelta(t, 0.9, sink.volume, 1e-9)

	m = send(t, m, runes("s"))
	assert.True(t, c.State().IsShuffle)
	assert.True(t, m.display.Shuffle)
}

func TestPlaylistFocusKeepsArrowsOnVolume(t *testing.T) {
	m, c, sink := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("j"), runes("j"))
	assert.Equal(t, 1.0, sink.volume)
	assert.Equal(t, 2, m.playlistView.TrackList.Cursor, "j moves the cursor while the playlist has focus")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.InDelta(t, 0.9, sink.volume, 1e-9, "arrows still adjust volume")
	assert.Equal(t, 2, m.playlistView.TrackList.Cursor)

	m = send(t, m, runes("k"), tea.KeyMsg{Type: tea.KeyUp})
	assert.InDelta(t, 1.0, sink.volume, 1e-9)
	assert.Equal(t, 1, m.playlistView.TrackList.Cursor)

	m = send(t, m, runes("j"))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, c.State().CurrentIndex)
	assert.Equal(t, 2, m.playlistView.TrackList.Cursor)
}

func viewLine(m Model, y int) string {
	lines := strings.Split(m.View(), "\n")
	if y >= len(lines) {
		return ""
	}
	return lines[y]
}

func TestVolumeDragWithMouse(t *testing.T) {
	m, c, sink := newTestModel(t)
	zone := m.playerView.VolumeZone(headerLines)
	require.Equal(t, 20, zone.Width)

	m = send(t, m, press(zone.X+9, zone.Y))
	assert.InDelta(t, 0.475, sink.volume, 1e-9)
	assert.True(t, c.Dragging(playback.DragKindVolume))
	assert.Contains(t, viewLine(m, zone.Y), "◂", "held bar is marked")

	m = send(t, m, motion(zone.X+19, zone.Y+3))
	assert.InDelta(t, 0.975, sink.volume, 1e-9)

	m = send(t, m, release(zone.X+19, zone.Y+3))
	assert.False(t, c.Dragging(playback.DragKindVolume))
	assert.NotContains(t, viewLine(m, zone.Y), "◂")

	send(t, m, motion(zone.X, zone.Y))
	assert.InDelta(t, 0.975, sink.volume, 1e-9, "moves after release are ignored")
}

func TestSeekDragWithMouse(t *testing.T) {
	m, c, sink := newTestModel(t)
	sink.duration = 100 * time.Second
	zone := m.playerView.ProgressZone(headerLines)

	m = send(t, m, press(zone.X, zone.Y))
	assert.True(t, c.Dragging(playback.DragKindSeek))
	assert.Less(t, sink.pos, 2*time.Second)
	assert.Contains(t, viewLine(m, zone.Y), "◂")
	assert.NotContains(t, viewLine(m, m.playerView.VolumeZone(headerLines).Y), "◂")

	m = send(t, m, motion(zone.X+zone.Width-1, zone.Y))
	assert.Greater(t, sink.pos, 98*time.Second)

	send(t, m, release(0, 0))
	assert.False(t, c.Dragging(playback.DragKindSeek))
}

func TestClickSelectsPlaylistRow(t *testing.T) {
	m, c, _ := newTestModel(t)

	top := m.playlistTop()
	send(t, m, press(5, top+3))
	assert.Equal(t, 1, c.State().CurrentIndex)
}

func TestImportedFilesReachPlaylist(t *testing.T) {
	m, c, sink := newTestModel(t)

	m = send(t, m, importedMsg{entries: []api.FileEntry{
		{Name: "song.mp3", Path: "/music/song.mp3", MIMEType: "audio/mpeg"},
		{Name: "notes.txt", Path: "/music/notes.txt", MIMEType: "text/plain"},
	}})

	assert.Len(t, c.Tracks(), 4)
	assert.Equal(t, "Added 1 track(s)", m.status)
	assert.Equal(t, "local:/music/song.mp3", sink.source)
	assert.Len(t, m.playlistView.TrackList.Items, 4)
}

func TestJumpSelectsTrack(t *testing.T) {
	m, c, _ := newTestModel(t)

	m = send(t, m, runes("/"))
	require.True(t, m.libraryView.Active())
	assert.Equal(t, views.LibrarySearching, m.libraryView.Mode)

	m = send(t, m, runes("3"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.False(t, m.libraryView.Active())

	msg := cmd()
	require.Equal(t, views.JumpMsg{Index: 2}, msg)
	send(t, m, msg)
	assert.Equal(t, 2, c.State().CurrentIndex)
}

func TestDispatcherRunsOnUpdateLoop(t *testing.T) {
	m, _, _ := newTestModel(t)

	ran := false
	go m.dispatcher.Dispatch(func() { ran = true })

	msg := m.dispatcher.Wait()()
	require.IsType(t, dispatchMsg{}, msg)
	assert.False(t, ran)

	_, cmd := m.Update(msg)
	assert.True(t, ran)
	assert.NotNil(t, cmd, "dispatcher is re-armed")
}

func TestDispatcherStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(ctx)
	cancel()

	assert.Nil(t, d.Wait()())
	d.Dispatch(func() {}) // must not block
}
