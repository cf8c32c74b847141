// Package playback owns the playlist and playback state and keeps a media
// sink and a display in step with user intent.
package playback

import (
	"math"
	"math/rand/v2"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/library"
	"github.com/jscyril/playdeck/internal/playlist"
	"github.com/jscyril/playdeck/internal/pointer"
	playerrors "github.com/jscyril/playdeck/pkg/errors"
)

// Notice shown when playback is requested for a track without audio.
const NoSourceNotice = "Please select an audio file first"

// DefaultAutoplayDelay is the pause between a track ending and autoplay
// advancing.
const DefaultAutoplayDelay = 500 * time.Millisecond

// Config holds controller configuration.
type Config struct {
	AutoplayDelay time.Duration // Delay before autoplay advances
	Volume        float64       // Initial volume, clamped to [0,1]
	Shuffle       bool
	Autoplay      bool
}

// Deps are the collaborators the controller drives.
type Deps struct {
	Sink       MediaSink
	Display    DisplaySink
	Dispatcher Dispatcher
	Sources    SourceRegistry
	Enricher   TrackEnricher   // optional
	Pointer    *pointer.Hub    // optional; a private hub is created when nil
	Clock      Clock           // optional; wall clock when nil
	Intn       func(n int) int // optional; math/rand when nil
	Tracks     []*api.Track    // initial playlist
}

// Controller is the playback state machine. It is not safe for concurrent
// use: drive it from one goroutine and route asynchronous completions
// through the Dispatcher.
type Controller struct {
	playlist *playlist.Playlist
	state    api.PlaybackState

	sink       MediaSink
	display    DisplaySink
	dispatcher Dispatcher
	sources    SourceRegistry
	enricher   TrackEnricher
	hub        *pointer.Hub
	clock      Clock
	intn       func(n int) int

	config Config

	loaded string // source currently set on the sink
	token  uint64 // identifies the latest start request

	autoplayTimer Timer
	seekDrag      *DragSession
	volumeDrag    *DragSession
}

// NewController creates a controller, applies the initial volume to the sink
// and renders the initial display.
func NewController(deps Deps, config Config) *Controller {
	if config.AutoplayDelay <= 0 {
		config.AutoplayDelay = DefaultAutoplayDelay
	}
	c := &Controller{
		playlist:   playlist.New(deps.Tracks...),
		sink:       deps.Sink,
		display:    deps.Display,
		dispatcher: deps.Dispatcher,
		sources:    deps.Sources,
		enricher:   deps.Enricher,
		hub:        deps.Pointer,
		clock:      deps.Clock,
		intn:       deps.Intn,
		config:     config,
		state: api.PlaybackState{
			IsAutoplay: config.Autoplay,
			IsShuffle:  config.Shuffle,
			Intent:     api.IntentIdle,
		},
	}
	if c.hub == nil {
		c.hub = pointer.NewHub()
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.intn == nil {
		c.intn = rand.IntN
	}
	if c.dispatcher == nil {
		c.dispatcher = DispatchFunc(func(fn func()) { fn() })
	}

	c.applyVolume(config.Volume)
	c.display.ShowPlaying(false)
	c.display.ShowAutoplay(c.state.IsAutoplay)
	c.display.ShowShuffle(c.state.IsShuffle)
	c.display.ShowProgress(0, FormatTime(0))
	c.display.ShowDuration(FormatTime(0))
	c.showTrackInfo()
	c.RenderPlaylist()
	return c
}

// State returns a copy of the playback state.
func (c *Controller) State() api.PlaybackState {
	return c.state
}

// Tracks returns the playlist in order.
func (c *Controller) Tracks() []*api.Track {
	return c.playlist.All()
}

// Current returns the track at the current index, or nil.
func (c *Controller) Current() *api.Track {
	return c.playlist.At(c.state.CurrentIndex)
}

// Pointer returns the hub drag sessions subscribe to.
func (c *Controller) Pointer() *pointer.Hub {
	return c.hub
}

// LoadTrack makes index current. A playable track is handed to the sink; a
// placeholder only updates the display. Playback flags are left alone.
func (c *Controller) LoadTrack(index int) {
	t := c.playlist.At(index)
	if t == nil {
		return
	}
	c.state.CurrentIndex = index

	if t.Playable() {
		c.token++ // a start pending for the old source is now stale
		c.state.Intent = api.IntentIdle
		c.sink.SetSource(t.Source)
		c.loaded = t.Source
		c.display.ShowProgress(0, FormatTime(0))
		c.display.ShowDuration(FormatTime(0))
		zlog.Debug().Int("index", index).Str("track", t.Title).Msg("playback: track loaded")
	}
	c.showTrackInfo()
	c.RenderPlaylist()
}

// TogglePlayPause pauses when playback is active or starting and plays
// otherwise. A track without audio raises a notice instead.
func (c *Controller) TogglePlayPause() {
	if !c.Current().Playable() {
		zlog.Warn().Err(playerrors.ErrNoSource).Int("index", c.state.CurrentIndex).Msg("playback: cannot toggle")
		c.display.Alert(NoSourceNotice)
		return
	}
	if c.active() {
		c.Pause()
	} else {
		c.Play()
	}
}

// Play asks the sink to start. The state flips to playing only when the
// sink confirms; a failure is logged and leaves the state unplaying.
func (c *Controller) Play() {
	t := c.Current()
	if !t.Playable() {
		return
	}
	if t.Source != c.loaded {
		c.sink.SetSource(t.Source)
		c.loaded = t.Source
	}

	c.token++
	token := c.token
	c.state.Intent = api.IntentStarting
	zlog.Debug().Uint64("token", token).Str("track", t.Title).Msg("playback: start requested")

	c.sink.Play(func(err error) {
		c.dispatcher.Dispatch(func() { c.finishStart(token, err) })
	})
}

// finishStart applies a start completion if it still matches the latest
// request.
func (c *Controller) finishStart(token uint64, err error) {
	if token != c.token {
		zlog.Debug().Uint64("token", token).Msg("playback: stale start completion ignored")
		return
	}

	switch c.state.Intent {
	case api.IntentStarting:
		if err != nil {
			zlog.Error().Err(err).Str("source", c.loaded).Msg("playback: start failed")
			c.state.Intent = api.IntentIdle
			c.setPlaying(false)
			return
		}
		c.state.Intent = api.IntentPlaying
		c.setPlaying(true)

	case api.IntentPausing:
		// The start raced a pause; keep the pause.
		if err == nil {
			c.sink.Pause()
		} else {
			zlog.Error().Err(err).Str("source", c.loaded).Msg("playback: start failed while pausing")
		}
		c.state.Intent = api.IntentPaused
	}
}

// Pause stops playback synchronously.
func (c *Controller) Pause() {
	c.sink.Pause()
	if c.state.Intent == api.IntentStarting {
		c.state.Intent = api.IntentPausing
	} else {
		c.state.Intent = api.IntentPaused
	}
	c.setPlaying(false)
}

// PreviousTrack moves to the previous track, or a random one in shuffle mode.
func (c *Controller) PreviousTrack() {
	c.step(c.playlist.Previous, c.active())
}

// NextTrack moves to the next track, or a random one in shuffle mode.
func (c *Controller) NextTrack() {
	c.step(c.playlist.Next, c.active())
}

func (c *Controller) step(advance func(int) int, resume bool) {
	if c.playlist.Empty() {
		zlog.Debug().Err(playerrors.ErrEmptyPlaylist).Msg("playback: cannot change track")
		return
	}
	c.cancelAutoplay()

	var index int
	if c.state.IsShuffle {
		index = c.playlist.Random(c.intn)
	} else {
		index = advance(c.state.CurrentIndex)
	}

	c.LoadTrack(index)
	if resume {
		c.Play()
	}
}

// OnTrackEnded resets the playing state and, with autoplay on, advances
// after the configured delay.
func (c *Controller) OnTrackEnded() {
	c.token++
	c.state.Intent = api.IntentIdle
	c.setPlaying(false)

	if !c.state.IsAutoplay {
		return
	}
	c.cancelAutoplay()
	c.autoplayTimer = c.clock.AfterFunc(c.config.AutoplayDelay, func() {
		c.dispatcher.Dispatch(func() {
			if c.autoplayTimer == nil {
				return
			}
			c.autoplayTimer = nil
			c.NextTrack()
		})
	})
}

func (c *Controller) cancelAutoplay() {
	if c.autoplayTimer != nil {
		c.autoplayTimer.Stop()
		c.autoplayTimer = nil
	}
}

// Seek moves to fraction of the current duration. Ignored while the
// duration is unknown.
func (c *Controller) Seek(fraction float64) {
	duration, ok := c.sink.Duration()
	if !ok || duration <= 0 {
		zlog.Debug().Err(playerrors.ErrUnknownDuration).Msg("playback: seek ignored")
		return
	}
	fraction = clampFraction(fraction)
	c.sink.SetCurrentTime(time.Duration(fraction * float64(duration)))
	c.OnTimeUpdate()
}

// SetVolume sets the volume from a fractional pointer position.
func (c *Controller) SetVolume(fraction float64) {
	c.applyVolume(fraction)
}

// AdjustVolume adds delta to the volume.
func (c *Controller) AdjustVolume(delta float64) {
	c.applyVolume(c.state.Volume + delta)
}

func (c *Controller) applyVolume(level float64) {
	level = math.Round(clampFraction(level)*1000) / 1000
	c.state.Volume = level
	c.sink.SetVolume(level)
	c.display.ShowVolume(level * 100)
}

// ToggleAutoplay flips autoplay. Turning it off drops a pending advance.
func (c *Controller) ToggleAutoplay() {
	c.state.IsAutoplay = !c.state.IsAutoplay
	if !c.state.IsAutoplay {
		c.cancelAutoplay()
	}
	c.display.ShowAutoplay(c.state.IsAutoplay)
}

// ToggleShuffle flips shuffle.
func (c *Controller) ToggleShuffle() {
	c.state.IsShuffle = !c.state.IsShuffle
	c.display.ShowShuffle(c.state.IsShuffle)
}

// ImportTracks appends the audio files among files to the playlist and
// returns how many were added. When nothing is loaded on the sink yet, the
// first playable track is loaded without starting playback.
func (c *Controller) ImportTracks(files []api.FileEntry) int {
	audio := lo.Filter(files, func(f api.FileEntry, _ int) bool {
		return library.IsAudioMIME(f.MIMEType)
	})
	for _, f := range audio {
		t := library.NewTrack(f, c.sources.Register(f.Path))
		if c.enricher != nil {
			c.enricher.Enrich(t)
		}
		c.playlist.Append(t)
		zlog.Info().Str("track", t.Title).Str("path", f.Path).Msg("playback: track imported")
	}
	if skipped := len(files) - len(audio); skipped > 0 {
		zlog.Debug().Err(playerrors.ErrNotAudio).Int("skipped", skipped).Msg("playback: files ignored")
	}

	if c.loaded == "" {
		if index, ok := c.playlist.FirstPlayable(); ok {
			c.LoadTrack(index)
			return len(audio)
		}
	}
	c.RenderPlaylist()
	return len(audio)
}

// RenderPlaylist pushes the playlist rows to the display.
func (c *Controller) RenderPlaylist() {
	c.display.RenderPlaylist(c.playlist.Rows(c.state.CurrentIndex))
}

// SelectTrack handles a click on a playlist row.
func (c *Controller) SelectTrack(index int) {
	t := c.playlist.At(index)
	if t == nil {
		return
	}
	c.cancelAutoplay()
	c.LoadTrack(index)
	if t.Playable() {
		c.Play()
	}
}

// HandleKey runs the action bound to key and reports whether the key's
// default behaviour should be suppressed.
func (c *Controller) HandleKey(key api.Key) bool {
	switch key {
	case api.KeySpace:
		c.TogglePlayPause()
		return true
	case api.KeyLeft:
		c.PreviousTrack()
		return false
	case api.KeyRight:
		c.NextTrack()
		return false
	case api.KeyUp:
		c.AdjustVolume(0.1)
		return true
	case api.KeyDown:
		c.AdjustVolume(-0.1)
		return true
	}
	return false
}

// HandleMediaEvent applies a sink notification. Events for a source that
// is no longer loaded are dropped.
func (c *Controller) HandleMediaEvent(ev api.MediaEvent) {
	if ev.Source != "" && ev.Source != c.loaded {
		return
	}
	switch ev.Type {
	case api.EventTimeUpdate:
		c.OnTimeUpdate()
	case api.EventMetadataLoaded:
		c.OnMetadataLoaded()
	case api.EventEnded:
		c.OnTrackEnded()
	case api.EventError:
		if err, ok := ev.Payload.(error); ok {
			zlog.Error().Err(err).Str("source", ev.Source).Msg("playback: media error")
		}
	}
}

// OnTimeUpdate refreshes progress from the sink position.
func (c *Controller) OnTimeUpdate() {
	duration, ok := c.sink.Duration()
	if !ok || duration <= 0 {
		return
	}
	pos := c.sink.CurrentTime()
	percent := lo.Clamp(float64(pos)/float64(duration)*100, 0, 100)
	c.display.ShowProgress(percent, FormatDuration(pos))
}

// OnMetadataLoaded shows the total time once the sink knows it.
func (c *Controller) OnMetadataLoaded() {
	duration, ok := c.sink.Duration()
	if !ok || duration <= 0 {
		return
	}
	c.display.ShowDuration(FormatDuration(duration))
}

// active reports whether playback is on or about to be.
func (c *Controller) active() bool {
	return c.state.IsPlaying || c.state.Intent == api.IntentStarting
}

func (c *Controller) setPlaying(playing bool) {
	c.state.IsPlaying = playing
	c.display.ShowPlaying(playing)
}

func (c *Controller) showTrackInfo() {
	title, artist := playlist.NoSongTitle, playlist.DefaultArtist
	if t := c.Current(); t != nil {
		if t.Title != "" {
			title = t.Title
		}
		if t.Artist != "" {
			artist = t.Artist
		}
	}
	c.display.ShowTrackInfo(title, artist)
}

func clampFraction(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return lo.Clamp(f, 0, 1)
}
