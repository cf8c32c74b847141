package views

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jscyril/playdeck/internal/ui/components"
)

// NowPlaying is what the player panel shows.
type NowPlaying struct {
	Title    string
	Artist   string
	Playing  bool
	Percent  float64
	Elapsed  string
	Total    string
	Volume   float64 // percent
	Autoplay bool
	Shuffle  bool
	Dragging string // "seek" or "volume" while that bar is held
}

// Zone is a clickable horizontal strip of cells.
type Zone struct {
	X, Y  int
	Width int
}

// Contains reports whether the cell (x, y) lies in the zone.
func (z Zone) Contains(x, y int) bool {
	return y == z.Y && x >= z.X && x < z.X+z.Width
}

const (
	volumeLabel = "Volume: "
	dragMarker  = " ◂"
	volumeCells = 20
	timeCells   = 16 // " mm:ss / mm:ss" plus slack

	// Content lines inside the panel.
	progressLine = 3
	volumeLine   = 5
	contentLines = 7

	borderTop  = 1
	padTop     = 1
	borderLeft = 1
	padLeft    = 2
)

// PlayerView displays the current playback state
type PlayerView struct {
	Width    int
	Progress components.ProgressBar
	Volume   components.ProgressBar

	// Styles
	TitleStyle  lipgloss.Style
	ArtistStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ModeStyle   lipgloss.Style
	OnStyle     lipgloss.Style
	BorderStyle lipgloss.Style
}

// NewPlayerView creates a new player view
func NewPlayerView(width int) PlayerView {
	v := PlayerView{
		Progress: components.NewProgressBar(0),
		Volume:   components.NewProgressBar(volumeCells),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		ArtistStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		StatusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		ModeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		OnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(padTop, padLeft),
	}
	v.Volume.BarChar = "●"
	v.Volume.EmptyChar = "○"
	v.SetWidth(width)
	return v
}

// SetWidth resizes the panel and its bars.
func (v *PlayerView) SetWidth(width int) {
	v.Width = width
	bar := v.contentWidth() - timeCells
	if bar < 10 {
		bar = 10
	}
	v.Progress.Width = bar
}

func (v PlayerView) contentWidth() int {
	return v.Width - 2*borderLeft - 2*padLeft
}

// Height returns the rendered height of the panel.
func (v PlayerView) Height() int {
	return contentLines + 2*borderTop + 2*padTop
}

// ProgressZone locates the progress bar for a panel drawn at row top.
func (v PlayerView) ProgressZone(top int) Zone {
	return Zone{
		X:     borderLeft + padLeft,
		Y:     top + borderTop + padTop + progressLine,
		Width: v.Progress.Width,
	}
}

// VolumeZone locates the volume bar for a panel drawn at row top.
func (v PlayerView) VolumeZone(top int) Zone {
	return Zone{
		X:     borderLeft + padLeft + len(volumeLabel),
		Y:     top + borderTop + padTop + volumeLine,
		Width: v.Volume.Width,
	}
}

// Update handles messages
func (v PlayerView) Update(msg tea.Msg) (PlayerView, tea.Cmd) {
	return v, nil
}

// View renders the player view
func (v PlayerView) View(np NowPlaying) string {
	width := v.contentWidth()
	lines := make([]string, contentLines)

	statusIcon := "⏸"
	if np.Playing {
		statusIcon = "▶"
	}
	lines[0] = v.StatusStyle.Render(statusIcon+" ") + v.TitleStyle.Render(runewidth.Truncate(np.Title, width-4, "…"))
	lines[1] = v.ArtistStyle.Render(runewidth.Truncate(np.Artist, width, "…"))

	progress := v.Progress
	progress.SetPercent(np.Percent)
	progress.Label = np.Elapsed + " / " + np.Total
	if np.Dragging == "seek" {
		progress.Label += dragMarker
	}
	lines[progressLine] = progress.View()

	volume := v.Volume
	volume.SetPercent(np.Volume)
	volume.Label = fmt.Sprintf("%d%%", int(math.Round(np.Volume)))
	if np.Dragging == "volume" {
		volume.Label += dragMarker
	}
	lines[volumeLine] = volumeLabel + volume.View()

	lines[6] = v.ModeStyle.Render("Autoplay: ") + v.onOff(np.Autoplay) +
		v.ModeStyle.Render("   Shuffle: ") + v.onOff(np.Shuffle)

	return v.BorderStyle.Width(v.Width - 2*borderLeft).Render(strings.Join(lines, "\n"))
}

func (v PlayerView) onOff(on bool) string {
	if on {
		return v.OnStyle.Render("on")
	}
	return v.ModeStyle.Render("off")
}
