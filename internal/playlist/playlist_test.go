package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jscyril/playdeck/api"
)

func TestSeed(t *testing.T) {
	seed := Seed()
	require.Len(t, seed, 3)
	for _, tr := range seed {
		assert.False(t, tr.Playable(), "seed track %q should be a placeholder", tr.Title)
		assert.Equal(t, "Sample Artist", tr.Artist)
	}
}

func TestNextWrapsAround(t *testing.T) {
	for n := 1; n <= 6; n++ {
		p := New(makeTracks(n)...)
		for start := 0; start < n; start++ {
			idx := start
			for i := 0; i < n; i++ {
				idx = p.Next(idx)
			}
			assert.Equal(t, start, idx, "len=%d start=%d", n, start)
		}
	}
}

func TestPreviousThenNextIsIdentity(t *testing.T) {
	p := New(makeTracks(4)...)
	for start := 0; start < 4; start++ {
		assert.Equal(t, start, p.Next(p.Previous(start)))
	}
	assert.Equal(t, 3, p.Previous(0))
}

func TestEmptyPlaylist(t *testing.T) {
	p := New()
	assert.True(t, p.Empty())
	assert.Equal(t, 0, p.Next(0))
	assert.Equal(t, 0, p.Previous(0))
	assert.Nil(t, p.At(0))
	_, ok := p.FirstPlayable()
	assert.False(t, ok)
}

func TestRandomUsesSource(t *testing.T) {
	p := New(makeTracks(5)...)
	got := p.Random(func(n int) int {
		assert.Equal(t, 5, n)
		return 4
	})
	assert.Equal(t, 4, got)
}

func TestFirstPlayableAndRows(t *testing.T) {
	p := New(Seed()...)
	p.Append(&api.Track{ID: "a", Title: "A", Artist: DefaultArtist, Source: "local:a"}, nil)

	require.Equal(t, 4, p.Len())
	idx, ok := p.FirstPlayable()
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	rows := p.Rows(3)
	active := 0
	for _, r := range rows {
		if r.Active {
			active++
			assert.Equal(t, 3, r.Index)
			assert.True(t, r.Playable)
		}
	}
	assert.Equal(t, 1, active)
}

func makeTracks(n int) []*api.Track {
	tracks := make([]*api.Track, n)
	for i := range tracks {
		tracks[i] = &api.Track{ID: string(rune('a' + i)), Title: "t", Source: "local:x"}
	}
	return tracks
}
