package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/DexterLB/mpvipc"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/playback"
	playerrors "github.com/jscyril/playdeck/pkg/errors"
	"github.com/jscyril/playdeck/pkg/events"
)

var _ playback.MediaSink = (*MPVSink)(nil)

// eofObserverID tags property-change events for "eof-reached".
const eofObserverID = 1

// mpvConn is the part of the mpv IPC connection the sink uses.
type mpvConn interface {
	Call(arguments ...interface{}) (interface{}, error)
	Set(property string, value interface{}) error
	Get(property string) (interface{}, error)
}

// MPVSink plays through an mpv process controlled over its JSON IPC socket.
type MPVSink struct {
	sources *Sources
	bus     *events.EventBus
	conn    mpvConn
	tick    time.Duration

	cmd    *exec.Cmd
	closer func() error
	socket string

	mu       sync.Mutex
	uri      string
	duration time.Duration
	known    bool
	position time.Duration
	paused   bool
	// ended is set when the file reached its end and is still loaded
	// (keep-open). unloaded is set when mpv dropped the file instead.
	ended    bool
	unloaded bool
}

// StartMPV launches mpv idle with an IPC socket and connects to it. Files are
// kept open at their end so a later Play can restart them.
func StartMPV(ctx context.Context, binary string, sources *Sources, bus *events.EventBus, tick time.Duration) (*MPVSink, error) {
	if binary == "" {
		binary = "mpv"
	}
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("playdeck-mpv-%d.sock", os.Getpid()))
	cmd := exec.CommandContext(ctx, binary,
		"--idle=yes",
		"--keep-open=yes",
		"--no-video",
		"--no-terminal",
		"--pause",
		"--input-ipc-server="+socket,
	)
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", binary)
	}

	conn := mpvipc.NewConnection(socket)
	var err error
	for i := 0; i < 50; i++ {
		if err = conn.Open(); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = cmd.Process.Kill()
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, errors.Wrap(err, "connect to mpv")
	}

	if _, err := conn.Call("observe_property", eofObserverID, "eof-reached"); err != nil {
		_ = conn.Close()
		_ = cmd.Process.Kill()
		return nil, errors.Wrap(err, "observe eof-reached")
	}

	s := newMPVSink(conn, sources, bus, tick)
	s.cmd = cmd
	s.closer = conn.Close
	s.socket = socket

	evs, stop := conn.NewEventListener()
	go s.listen(ctx, evs, stop)
	go s.trackPosition(ctx)

	zlog.Info().Str("socket", socket).Msg("audio: mpv connected")
	return s, nil
}

func newMPVSink(conn mpvConn, sources *Sources, bus *events.EventBus, tick time.Duration) *MPVSink {
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	return &MPVSink{
		sources: sources,
		bus:     bus,
		conn:    conn,
		tick:    tick,
		paused:  true,
	}
}

func (s *MPVSink) listen(ctx context.Context, evs chan *mpvipc.Event, stop chan struct{}) {
	defer close(stop)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-evs:
			if !ok {
				return
			}
			s.handleEvent(ev)
		}
	}
}

func (s *MPVSink) handleEvent(ev *mpvipc.Event) {
	s.mu.Lock()
	uri := s.uri
	s.mu.Unlock()

	switch ev.Name {
	case "file-loaded":
		d, err := s.conn.Get("duration")
		if err != nil {
			zlog.Debug().Err(err).Msg("audio: mpv duration")
			return
		}
		secs, ok := d.(float64)
		if !ok {
			return
		}
		duration := time.Duration(secs * float64(time.Second))
		s.mu.Lock()
		s.duration = duration
		s.known = true
		s.mu.Unlock()
		s.publish(api.EventMetadataLoaded, uri, duration)

	case "property-change":
		if ev.ID != eofObserverID {
			return
		}
		if reached, _ := ev.Data.(bool); !reached {
			return
		}
		s.mu.Lock()
		s.paused = true
		s.ended = true
		s.mu.Unlock()
		s.publish(api.EventEnded, uri, nil)

	case "end-file":
		switch ev.Reason {
		case "eof":
			// mpv unloaded the file, so its duration no longer applies.
			s.mu.Lock()
			s.paused = true
			s.unloaded = true
			s.known = false
			s.duration = 0
			s.mu.Unlock()
			s.publish(api.EventEnded, uri, nil)
		case "error":
			s.publish(api.EventError, uri, playerrors.NewPlayerError("mpv", uri, errors.New("playback error")))
		}
	}
}

func (s *MPVSink) trackPosition(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			uri, playing := s.uri, !s.paused && s.known
			s.mu.Unlock()
			if !playing {
				continue
			}
			s.refreshPosition()
			s.publish(api.EventTimeUpdate, uri, s.CurrentTime())
		}
	}
}

func (s *MPVSink) refreshPosition() {
	v, err := s.conn.Get("time-pos")
	if err != nil {
		return
	}
	if secs, ok := v.(float64); ok {
		s.mu.Lock()
		s.position = time.Duration(secs * float64(time.Second))
		s.mu.Unlock()
	}
}

// SetSource loads uri paused, replacing the current file.
func (s *MPVSink) SetSource(uri string) {
	s.mu.Lock()
	s.uri = uri
	s.known = false
	s.duration = 0
	s.position = 0
	s.paused = true
	s.ended = false
	s.unloaded = false
	s.mu.Unlock()

	path, err := s.sources.Resolve(uri)
	if err != nil {
		s.fail(uri, "resolve", err)
		return
	}
	if err := s.conn.Set("pause", true); err != nil {
		s.fail(uri, "pause", err)
		return
	}
	if _, err := s.conn.Call("loadfile", path, "replace"); err != nil {
		s.fail(uri, "loadfile", err)
	}
}

// Play unpauses mpv. A file that already finished is restarted from the
// beginning first. done runs on a separate goroutine.
func (s *MPVSink) Play(done func(err error)) {
	go func() {
		s.mu.Lock()
		uri, ended, unloaded := s.uri, s.ended, s.unloaded
		s.mu.Unlock()
		if uri == "" {
			done(playerrors.NewPlayerError("play", uri, playerrors.ErrNoStream))
			return
		}
		if err := s.rewind(uri, ended, unloaded); err != nil {
			done(playerrors.NewPlayerError("play", uri, err))
			return
		}
		if err := s.conn.Set("pause", false); err != nil {
			done(playerrors.NewPlayerError("play", uri, err))
			return
		}
		s.mu.Lock()
		s.paused = false
		s.ended = false
		s.unloaded = false
		s.mu.Unlock()
		done(nil)
	}()
}

// rewind puts a finished file back at its start: a seek when mpv kept it
// open, a fresh loadfile when it was dropped.
func (s *MPVSink) rewind(uri string, ended, unloaded bool) error {
	switch {
	case unloaded:
		path, err := s.sources.Resolve(uri)
		if err != nil {
			return err
		}
		_, err = s.conn.Call("loadfile", path, "replace")
		return err
	case ended:
		if _, err := s.conn.Call("seek", 0, "absolute"); err != nil {
			return err
		}
		s.mu.Lock()
		s.position = 0
		s.mu.Unlock()
	}
	return nil
}

// Pause pauses mpv.
func (s *MPVSink) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	if err := s.conn.Set("pause", true); err != nil {
		zlog.Warn().Err(err).Msg("audio: mpv pause")
	}
}

// CurrentTime returns the last polled position.
func (s *MPVSink) CurrentTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// SetCurrentTime seeks to an absolute position.
func (s *MPVSink) SetCurrentTime(pos time.Duration) {
	if _, err := s.conn.Call("seek", pos.Seconds(), "absolute"); err != nil {
		zlog.Warn().Err(err).Msg("audio: mpv seek")
		return
	}
	s.mu.Lock()
	s.position = pos
	s.mu.Unlock()
}

// Duration returns the length reported when the file loaded.
func (s *MPVSink) Duration() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration, s.known
}

// SetVolume maps [0,1] onto mpv's percentage volume.
func (s *MPVSink) SetVolume(level float64) {
	if err := s.conn.Set("volume", level*100); err != nil {
		zlog.Warn().Err(err).Msg("audio: mpv volume")
	}
}

// Close quits mpv and removes its socket.
func (s *MPVSink) Close() error {
	if _, err := s.conn.Call("quit"); err != nil {
		zlog.Debug().Err(err).Msg("audio: mpv quit")
	}
	var err error
	if s.closer != nil {
		err = s.closer()
	}
	if s.cmd != nil {
		_ = s.cmd.Wait()
	}
	if s.socket != "" {
		_ = os.Remove(s.socket)
	}
	return err
}

func (s *MPVSink) fail(uri, op string, err error) {
	perr := playerrors.NewPlayerError(op, uri, err)
	zlog.Error().Err(perr).Msg("audio: mpv load failed")
	go s.publish(api.EventError, uri, perr)
}

func (s *MPVSink) publish(t api.EventType, uri string, payload interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(api.MediaEvent{Type: t, Source: uri, Payload: payload})
}
