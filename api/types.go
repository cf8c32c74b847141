package api

import "time"

// Track is a playlist entry. Placeholder tracks have no Source.
type Track struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album,omitempty"`
	Source   string        `json:"source,omitempty"`    // playback URI handed to the media sink
	FilePath string        `json:"file_path,omitempty"` // underlying file, if any
	Duration time.Duration `json:"duration,omitempty"`
}

// Playable reports whether the track carries audio data.
func (t *Track) Playable() bool {
	return t != nil && t.Source != ""
}

// FileEntry is a user-selected file offered for import.
type FileEntry struct {
	Name     string
	Path     string
	MIMEType string
}

// Intent is the playback intent state machine.
type Intent int

const (
	IntentIdle     Intent = iota // nothing requested
	IntentStarting               // start requested, completion pending
	IntentPlaying                // sink confirmed playback
	IntentPausing                // pause requested while a start was pending
	IntentPaused                 // paused by the user
)

// String returns the string representation of the intent.
func (i Intent) String() string {
	switch i {
	case IntentIdle:
		return "idle"
	case IntentStarting:
		return "starting"
	case IntentPlaying:
		return "playing"
	case IntentPausing:
		return "pausing"
	case IntentPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// PlaybackState is the client-side state owned by the playback controller.
type PlaybackState struct {
	CurrentIndex int
	IsPlaying    bool
	IsAutoplay   bool
	IsShuffle    bool
	Volume       float64
	Intent       Intent
}

// PlaylistRow is the projection of one track into the playlist display.
type PlaylistRow struct {
	Index    int
	Title    string
	Artist   string
	Active   bool
	Playable bool
}

// Key is a keyboard command understood by the controller.
type Key int

const (
	KeyNone Key = iota
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// EventType identifies a media lifecycle notification.
type EventType int

const (
	EventTimeUpdate EventType = iota
	EventMetadataLoaded
	EventEnded
	EventError
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTimeUpdate:
		return "time_update"
	case EventMetadataLoaded:
		return "metadata_loaded"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// MediaEvent is published by media sinks.
type MediaEvent struct {
	Type    EventType
	Source  string // URI the event refers to
	Payload interface{}
}
