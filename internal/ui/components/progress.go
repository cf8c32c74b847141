package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar is a horizontal fill bar with an optional trailing label.
type ProgressBar struct {
	Width       int // bar cells, label excluded
	Percent     float64
	Label       string
	BarChar     string
	EmptyChar   string
	Style       lipgloss.Style
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) ProgressBar {
	return ProgressBar{
		Width:       width,
		BarChar:     "█",
		EmptyChar:   "░",
		Style:       lipgloss.NewStyle(),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Update handles messages for the progress bar
func (p ProgressBar) Update(msg tea.Msg) (ProgressBar, tea.Cmd) {
	return p, nil
}

// SetPercent sets the fill in [0,100].
func (p *ProgressBar) SetPercent(percent float64) {
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	p.Percent = percent
}

// Filled returns the number of filled cells.
func (p ProgressBar) Filled() int {
	if p.Width <= 0 {
		return 0
	}
	return int(float64(p.Width) * p.Percent / 100)
}

// View renders the progress bar
func (p ProgressBar) View() string {
	var sb strings.Builder

	filled := p.Filled()
	empty := p.Width - filled
	if empty < 0 {
		empty = 0
	}

	sb.WriteString(p.FilledStyle.Render(strings.Repeat(p.BarChar, filled)))
	sb.WriteString(p.EmptyStyle.Render(strings.Repeat(p.EmptyChar, empty)))

	if p.Label != "" {
		sb.WriteString(" ")
		sb.WriteString(p.Label)
	}

	return p.Style.Render(sb.String())
}
