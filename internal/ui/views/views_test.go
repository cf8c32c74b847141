package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jscyril/playdeck/api"
)

func TestPlayerViewZonesMatchRender(t *testing.T) {
	v := NewPlayerView(80)
	out := v.View(NowPlaying{Title: "Song", Artist: "Band", Elapsed: "0:00", Total: "3:00", Volume: 50})
	lines := strings.Split(out, "\n")

	assert.Equal(t, v.Height(), lipgloss.Height(out))
	assert.Equal(t, 80, lipgloss.Width(out))

	progress := v.ProgressZone(0)
	require.Less(t, progress.Y, len(lines))
	assert.Contains(t, lines[progress.Y], "░")
	assert.Contains(t, lines[progress.Y], "0:00 / 3:00")

	volume := v.VolumeZone(0)
	assert.Contains(t, lines[volume.Y], volumeLabel)
	assert.Contains(t, lines[volume.Y], "50%")
	assert.Equal(t, volumeCells, volume.Width)
}

func TestPlayerViewMarksDraggedBar(t *testing.T) {
	v := NewPlayerView(80)
	np := NowPlaying{Elapsed: "0:00", Total: "3:00", Volume: 50}

	lines := strings.Split(v.View(np), "\n")
	assert.NotContains(t, lines[v.VolumeZone(0).Y], dragMarker)

	np.Dragging = "volume"
	lines = strings.Split(v.View(np), "\n")
	assert.Contains(t, lines[v.VolumeZone(0).Y], "50%"+dragMarker)
	assert.NotContains(t, lines[v.ProgressZone(0).Y], dragMarker)

	np.Dragging = "seek"
	lines = strings.Split(v.View(np), "\n")
	assert.Contains(t, lines[v.ProgressZone(0).Y], "3:00"+dragMarker)
}

func TestZoneContains(t *testing.T) {
	z := Zone{X: 3, Y: 5, Width: 10}
	assert.True(t, z.Contains(3, 5))
	assert.True(t, z.Contains(12, 5))
	assert.False(t, z.Contains(13, 5))
	assert.False(t, z.Contains(2, 5))
	assert.False(t, z.Contains(5, 4))
}

func TestPlaylistRowAt(t *testing.T) {
	v := NewPlaylistView(60, 10)
	v.SetRows([]api.PlaylistRow{
		{Index: 0, Title: "a"},
		{Index: 1, Title: "b"},
	})

	index, ok := v.RowAt(4, 5, 7)
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	_, ok = v.RowAt(4, 5, 8)
	assert.False(t, ok, "below the last row")
	_, ok = v.RowAt(4, 0, 6)
	assert.False(t, ok, "on the border")
}
