package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchInput is a boxed single-line query input.
type SearchInput struct {
	input      textinput.Model
	Width      int
	Style      lipgloss.Style
	FocusStyle lipgloss.Style
}

// NewSearchInput creates a new search input
func NewSearchInput(width int) SearchInput {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Jump to track..."
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	s := SearchInput{
		input: input,
		Style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		FocusStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1),
	}
	s.SetWidth(width)
	return s
}

// SetWidth resizes the box.
func (s *SearchInput) SetWidth(width int) {
	s.Width = width
	s.input.Width = max(width-len(s.input.Prompt)-3, 1)
}

// Value returns the current query.
func (s SearchInput) Value() string {
	return s.input.Value()
}

// Focused reports whether the input takes keys.
func (s SearchInput) Focused() bool {
	return s.input.Focused()
}

// Focus sets focus on the input
func (s *SearchInput) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur removes focus from the input
func (s *SearchInput) Blur() {
	s.input.Blur()
}

// SetValue replaces the query and moves the cursor to its end.
func (s *SearchInput) SetValue(value string) {
	s.input.SetValue(value)
	s.input.CursorEnd()
}

// Clear empties the query.
func (s *SearchInput) Clear() {
	s.input.Reset()
}

// Update edits the query while focused.
func (s SearchInput) Update(msg tea.Msg) (SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the search input
func (s SearchInput) View() string {
	style := s.Style
	if s.input.Focused() {
		style = s.FocusStyle
	}
	return style.Width(s.Width).Render(s.input.View())
}
