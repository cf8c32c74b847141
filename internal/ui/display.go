package ui

import (
	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/playback"
	"github.com/jscyril/playdeck/internal/ui/views"
)

var _ playback.DisplaySink = (*Display)(nil)

// Display is the view state the controller writes into. The model renders
// from it on every frame.
type Display struct {
	views.NowPlaying
	Rows   []api.PlaylistRow
	Notice string // modal notice, empty when none is shown
}

// NewDisplay returns an empty display.
func NewDisplay() *Display {
	return &Display{NowPlaying: views.NowPlaying{Elapsed: "0:00", Total: "0:00"}}
}

func (d *Display) ShowTrackInfo(title, artist string) {
	d.Title, d.Artist = title, artist
}

func (d *Display) ShowPlaying(playing bool) { d.Playing = playing }

func (d *Display) ShowProgress(percent float64, elapsed string) {
	d.Percent, d.Elapsed = percent, elapsed
}

func (d *Display) ShowDuration(total string) { d.Total = total }

func (d *Display) ShowVolume(percent float64) { d.Volume = percent }

func (d *Display) ShowAutoplay(active bool) { d.Autoplay = active }

func (d *Display) ShowShuffle(active bool) { d.Shuffle = active }

func (d *Display) RenderPlaylist(rows []api.PlaylistRow) { d.Rows = rows }

// Alert raises a modal notice. A newer notice replaces an unread one.
func (d *Display) Alert(message string) { d.Notice = message }

// Dismiss clears the modal notice.
func (d *Display) Dismiss() { d.Notice = "" }
