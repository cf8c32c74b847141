package audio

import (
	"context"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	zlog "github.com/rs/zerolog/log"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/playback"
	playerrors "github.com/jscyril/playdeck/pkg/errors"
	"github.com/jscyril/playdeck/pkg/events"
)

// Ensure AudioEngine implements MediaSink at compile time
var _ playback.MediaSink = (*AudioEngine)(nil)

// AudioEngine plays local files through beep. Lifecycle notifications are
// published on the event bus.
type AudioEngine struct {
	sources *Sources
	bus     *events.EventBus
	out     Output
	rate    beep.SampleRate
	tick    time.Duration

	mu       sync.Mutex
	uri      string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	drained  atomic.Bool // the stream reached its end and left the mixer
}

// NewAudioEngine creates an engine mixing into out. A nil out uses the
// system speaker.
func NewAudioEngine(sources *Sources, bus *events.EventBus, out Output, tick time.Duration) *AudioEngine {
	if out == nil {
		out = &Speaker{}
	}
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	return &AudioEngine{
		sources: sources,
		bus:     bus,
		out:     out,
		rate:    DefaultSampleRate,
		tick:    tick,
		level:   1,
	}
}

// Start publishes position updates while playing until ctx is cancelled.
func (e *AudioEngine) Start(ctx context.Context) {
	go e.trackPosition(ctx)
}

// trackPosition updates playback position periodically
func (e *AudioEngine) trackPosition(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			uri, playing := e.uri, e.playing()
			e.mu.Unlock()
			if playing {
				e.publish(api.EventTimeUpdate, uri, e.CurrentTime())
			}
		}
	}
}

// playing must be called with e.mu held.
func (e *AudioEngine) playing() bool {
	if e.ctrl == nil || e.drained.Load() {
		return false
	}
	e.out.Lock()
	defer e.out.Unlock()
	return !e.ctrl.Paused
}

// SetSource stops the current stream and loads uri paused.
func (e *AudioEngine) SetSource(uri string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.unload()
	e.uri = uri

	path, err := e.sources.Resolve(uri)
	if err != nil {
		e.fail("resolve", err)
		return
	}
	file, err := os.Open(path)
	if err != nil {
		e.fail("open", err)
		return
	}
	streamer, format, err := DecodeAudio(file, path)
	if err != nil {
		file.Close()
		e.fail("decode", err)
		return
	}
	if err := e.out.Init(e.rate); err != nil {
		streamer.Close()
		e.fail("speaker_init", err)
		return
	}

	var s beep.Streamer = streamer
	if format.SampleRate != e.rate {
		s = beep.Resample(4, format.SampleRate, e.rate, streamer)
	}

	e.streamer = streamer
	e.format = format
	e.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	e.volume = &effects.Volume{Streamer: e.ctrl, Base: 2}
	e.applyLevel()
	e.enqueue()

	total := format.SampleRate.D(streamer.Len())
	zlog.Debug().Str("source", uri).Dur("duration", total).Msg("audio: source loaded")
	go e.publish(api.EventMetadataLoaded, uri, total)
}

// enqueue hands the current chain to the mixer. Must be called with e.mu
// held.
func (e *AudioEngine) enqueue() {
	uri, ctrl := e.uri, e.ctrl
	e.drained.Store(false)
	e.out.Play(beep.Seq(e.volume, beep.Callback(func() {
		// Runs on the mixer with its lock held.
		ctrl.Paused = true
		e.drained.Store(true)
		go e.publish(api.EventEnded, uri, nil)
	})))
}

// Play resumes the loaded stream. done runs on a separate goroutine.
func (e *AudioEngine) Play(done func(err error)) {
	go func() {
		e.mu.Lock()
		if e.ctrl == nil {
			uri := e.uri
			e.mu.Unlock()
			done(playerrors.NewPlayerError("play", uri, playerrors.ErrNoStream))
			return
		}
		if e.drained.Load() {
			e.out.Lock()
			err := e.streamer.Seek(0)
			e.out.Unlock()
			if err != nil {
				uri := e.uri
				e.mu.Unlock()
				done(playerrors.NewPlayerError("rewind", uri, err))
				return
			}
			e.enqueue()
		}
		e.out.Lock()
		e.ctrl.Paused = false
		e.out.Unlock()
		e.mu.Unlock()
		done(nil)
	}()
}

// Pause pauses the loaded stream.
func (e *AudioEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl != nil {
		e.out.Lock()
		e.ctrl.Paused = true
		e.out.Unlock()
	}
}

// CurrentTime returns the position within the loaded stream.
func (e *AudioEngine) CurrentTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0
	}
	e.out.Lock()
	pos := e.streamer.Position()
	e.out.Unlock()
	return e.format.SampleRate.D(pos)
}

// SetCurrentTime seeks within the loaded stream. Positions are clamped to
// the stream.
func (e *AudioEngine) SetCurrentTime(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return
	}
	n := e.format.SampleRate.N(pos)
	if last := e.streamer.Len() - 1; n > last {
		n = last
	}
	if n < 0 {
		n = 0
	}

	e.out.Lock()
	err := e.streamer.Seek(n)
	e.out.Unlock()
	if err != nil {
		zlog.Warn().Err(err).Str("source", e.uri).Msg("audio: seek failed")
		return
	}
	if e.drained.Load() {
		e.enqueue()
	}
}

// Duration returns the length of the loaded stream.
func (e *AudioEngine) Duration() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0, false
	}
	return e.format.SampleRate.D(e.streamer.Len()), true
}

// SetVolume sets the linear gain in [0,1]. Zero mutes.
func (e *AudioEngine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.level = level
	if e.volume != nil {
		e.out.Lock()
		e.applyLevel()
		e.out.Unlock()
	}
}

// applyLevel maps the linear level onto the base-2 volume effect.
func (e *AudioEngine) applyLevel() {
	if e.level <= 0 {
		e.volume.Silent = true
		return
	}
	e.volume.Silent = false
	e.volume.Volume = math.Log2(e.level)
}

// Close stops playback and releases the stream.
func (e *AudioEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unload()
}

// unload must be called with e.mu held.
func (e *AudioEngine) unload() {
	if e.streamer == nil {
		return
	}
	e.out.Clear()
	if err := e.streamer.Close(); err != nil {
		zlog.Debug().Err(err).Str("source", e.uri).Msg("audio: close stream")
	}
	e.streamer = nil
	e.ctrl = nil
	e.volume = nil
	e.drained.Store(false)
}

func (e *AudioEngine) fail(op string, err error) {
	perr := playerrors.NewPlayerError(op, e.uri, err)
	zlog.Error().Err(perr).Msg("audio: load failed")
	go e.publish(api.EventError, e.uri, perr)
}

func (e *AudioEngine) publish(t api.EventType, uri string, payload interface{}) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(api.MediaEvent{Type: t, Source: uri, Payload: payload})
}
