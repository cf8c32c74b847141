package playback

import (
	"time"

	"github.com/jscyril/playdeck/api"
)

// MediaSink is the audio playback primitive the controller drives.
type MediaSink interface {
	// SetSource loads uri, replacing and stopping whatever was loaded.
	SetSource(uri string)
	// Play requests playback. done is called exactly once, from any
	// goroutine, when the request has succeeded or failed.
	Play(done func(err error))
	Pause()
	CurrentTime() time.Duration
	SetCurrentTime(pos time.Duration)
	// Duration reports false while metadata has not been loaded.
	Duration() (time.Duration, bool)
	SetVolume(level float64)
}

// DisplaySink renders controller state.
type DisplaySink interface {
	ShowTrackInfo(title, artist string)
	ShowPlaying(playing bool)
	ShowProgress(percent float64, elapsed string)
	ShowDuration(total string)
	ShowVolume(percent float64)
	ShowAutoplay(active bool)
	ShowShuffle(active bool)
	RenderPlaylist(rows []api.PlaylistRow)
	// Alert shows a blocking notice to the user.
	Alert(message string)
}

// Dispatcher runs fn on the goroutine that owns the controller.
type Dispatcher interface {
	Dispatch(fn func())
}

// SourceRegistry hands out playback URIs for local files.
type SourceRegistry interface {
	Register(path string) string
}

// TrackEnricher fills track fields from file metadata.
type TrackEnricher interface {
	Enrich(track *api.Track)
}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(fn func())

// Dispatch calls f(fn).
func (f DispatchFunc) Dispatch(fn func()) {
	f(fn)
}
