package audio

import (
	"sync"
	"testing"
	"time"

	"github.com/DexterLB/mpvipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/pkg/events"
)

type fakeConn struct {
	mu    sync.Mutex
	calls [][]interface{}
	props map[string]interface{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]interface{}{}}
}

func (c *fakeConn) Call(arguments ...interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, arguments)
	return nil, nil
}

func (c *fakeConn) Set(property string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[property] = value
	return nil
}

func (c *fakeConn) Get(property string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[property], nil
}

func (c *fakeConn) prop(name string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[name]
}

func TestMPVSinkLoadAndPlay(t *testing.T) {
	conn := newFakeConn()
	bus := events.NewEventBus()
	ch := bus.SubscribeAll()
	sources := NewSources()
	s := newMPVSink(conn, sources, bus, time.Hour)

	uri := sources.Register("/music/song.flac")
	s.SetSource(uri)

	require.Len(t, conn.calls, 1)
	assert.Equal(t, []interface{}{"loadfile", "/music/song.flac", "replace"}, conn.calls[0])
	assert.Equal(t, true, conn.prop("pause"))

	_, known := s.Duration()
	assert.False(t, known)

	conn.props["duration"] = 12.5
	s.handleEvent(&mpvipc.Event{Name: "file-loaded"})

	ev := nextEvent(t, ch, api.EventMetadataLoaded)
	assert.Equal(t, uri, ev.Source)
	d, known := s.Duration()
	require.True(t, known)
	assert.Equal(t, 12500*time.Millisecond, d)

	require.NoError(t, playSync(t, s.Play))
	assert.Equal(t, false, conn.prop("pause"))

	s.SetCurrentTime(3 * time.Second)
	assert.Equal(t, 3*time.Second, s.CurrentTime())
	assert.Equal(t, []interface{}{"seek", 3.0, "absolute"}, conn.calls[1])

	s.SetVolume(0.25)
	assert.Equal(t, 25.0, conn.prop("volume"))

	s.Pause()
	assert.Equal(t, true, conn.prop("pause"))
}

func TestMPVSinkEndOfFile(t *testing.T) {
	conn := newFakeConn()
	bus := events.NewEventBus()
	ch := bus.SubscribeAll()
	sources := NewSources()
	s := newMPVSink(conn, sources, bus, time.Hour)
	uri := sources.Register("/music/a.mp3")
	s.SetSource(uri)
	conn.props["duration"] = 4.0
	s.handleEvent(&mpvipc.Event{Name: "file-loaded"})

	s.handleEvent(&mpvipc.Event{Name: "end-file", Reason: "stop"})
	s.handleEvent(&mpvipc.Event{Name: "end-file", Reason: "eof"})

	ev := nextEvent(t, ch, api.EventEnded)
	assert.Equal(t, uri, ev.Source)
	_, known := s.Duration()
	assert.False(t, known, "duration is dropped with the unloaded file")

	require.NoError(t, playSync(t, s.Play))
	require.Len(t, conn.calls, 2)
	assert.Equal(t, []interface{}{"loadfile", "/music/a.mp3", "replace"}, conn.calls[1])
	assert.Equal(t, false, conn.prop("pause"))
}

func TestMPVSinkReplayAfterEnd(t *testing.T) {
	conn := newFakeConn()
	bus := events.NewEventBus()
	ch := bus.SubscribeAll()
	sources := NewSources()
	s := newMPVSink(conn, sources, bus, time.Hour)
	uri := sources.Register("/music/a.mp3")
	s.SetSource(uri)
	conn.props["duration"] = 4.0
	s.handleEvent(&mpvipc.Event{Name: "file-loaded"})
	require.NoError(t, playSync(t, s.Play))

	s.handleEvent(&mpvipc.Event{Name: "property-change", ID: eofObserverID, Data: false})
	s.handleEvent(&mpvipc.Event{Name: "property-change", ID: eofObserverID + 1, Data: true})
	s.handleEvent(&mpvipc.Event{Name: "property-change", ID: eofObserverID, Data: true})

	ev := nextEvent(t, ch, api.EventEnded)
	assert.Equal(t, uri, ev.Source)
	d, known := s.Duration()
	assert.True(t, known, "kept-open file keeps its duration")
	assert.Equal(t, 4*time.Second, d)

	require.NoError(t, playSync(t, s.Play))
	require.Len(t, conn.calls, 2)
	assert.Equal(t, []interface{}{"seek", 0, "absolute"}, conn.calls[1])
	assert.Equal(t, false, conn.prop("pause"))
	assert.Equal(t, time.Duration(0), s.CurrentTime())

	// A second play does not rewind again.
	require.NoError(t, playSync(t, s.Play))
	assert.Len(t, conn.calls, 2)
}

func TestMPVSinkPlayWithoutSource(t *testing.T) {
	s := newMPVSink(newFakeConn(), NewSources(), nil, time.Hour)
	assert.Error(t, playSync(t, s.Play))
}
