package playlist

import (
	"github.com/jscyril/playdeck/api"
)

// Placeholder defaults used when a track carries no metadata.
const (
	DefaultArtist = "Unknown Artist"
	NoSongTitle   = "No Song Selected"
)

// Playlist is an ordered, append-only list of tracks. It is not safe for
// concurrent use; the playback controller owns it.
type Playlist struct {
	tracks []*api.Track
}

// New creates a playlist holding the given tracks in order.
func New(tracks ...*api.Track) *Playlist {
	p := &Playlist{tracks: make([]*api.Track, 0, len(tracks))}
	p.Append(tracks...)
	return p
}

// Seed returns the fixed set of non-playable placeholder tracks a new
// session starts with.
func Seed() []*api.Track {
	return []*api.Track{
		{ID: "seed-1", Title: "Sample Song 1", Artist: "Sample Artist"},
		{ID: "seed-2", Title: "Sample Song 2", Artist: "Sample Artist"},
		{ID: "seed-3", Title: "Sample Song 3", Artist: "Sample Artist"},
	}
}

// Append adds tracks to the end of the playlist. Nil tracks are skipped.
func (p *Playlist) Append(tracks ...*api.Track) {
	for _, t := range tracks {
		if t != nil {
			p.tracks = append(p.tracks, t)
		}
	}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Empty reports whether the playlist has no tracks.
func (p *Playlist) Empty() bool {
	return len(p.tracks) == 0
}

// At returns the track at index, or nil when index is out of range.
func (p *Playlist) At(index int) *api.Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return p.tracks[index]
}

// Next returns the index after current, wrapping to 0.
func (p *Playlist) Next(current int) int {
	n := len(p.tracks)
	if n == 0 {
		return 0
	}
	return (current + 1) % n
}

// Previous returns the index before current, wrapping to the last track.
func (p *Playlist) Previous(current int) int {
	n := len(p.tracks)
	if n == 0 {
		return 0
	}
	return (current - 1 + n) % n
}

// Random picks a uniformly random index using intn. The current index may be
// picked again.
func (p *Playlist) Random(intn func(n int) int) int {
	n := len(p.tracks)
	if n == 0 {
		return 0
	}
	return intn(n)
}

// FirstPlayable returns the lowest index holding a playable track.
func (p *Playlist) FirstPlayable() (int, bool) {
	for i, t := range p.tracks {
		if t.Playable() {
			return i, true
		}
	}
	return 0, false
}

// All returns a copy of the track slice.
func (p *Playlist) All() []*api.Track {
	result := make([]*api.Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Rows projects the playlist into display rows, marking active exactly.
func (p *Playlist) Rows(active int) []api.PlaylistRow {
	rows := make([]api.PlaylistRow, len(p.tracks))
	for i, t := range p.tracks {
		rows[i] = api.PlaylistRow{
			Index:    i,
			Title:    t.Title,
			Artist:   t.Artist,
			Active:   i == active,
			Playable: t.Playable(),
		}
	}
	return rows
}
