// Package passage provides the full-text view of a retrieved chunk.
package passage

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/messages"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/styles"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// View shows one passage, word-wrapped and scrollable.
type View struct {
	styles *styles.Styles

	chunk        *domain.RankedChunk
	lines        []string
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new passage view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetChunk sets the passage to display.
func (v *View) SetChunk(c domain.RankedChunk) {
	v.chunk = &c
	v.scrollOffset = 0
	v.wrap()
}

// Update handles messages for the passage view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.scrollOffset = max(v.scrollOffset-1, 0)
	case "down", "j":
		v.scrollOffset = min(v.scrollOffset+1, v.maxScrollOffset())
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}
	return v, nil
}

// wrap breaks the passage text into lines that fit the view width.
func (v *View) wrap() {
	if v.chunk == nil || v.chunk.Text == "" {
		v.lines = nil
		return
	}
	wrapped := lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(v.chunk.Text)
	v.lines = strings.Split(wrapped, "\n")
	for i, l := range v.lines {
		v.lines[i] = strings.TrimRight(l, " ")
	}
}

func (v *View) visibleLines() int {
	// title, metadata line, separator, help and padding
	return max(v.height-7, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the passage.
func (v *View) View() string {
	var b strings.Builder

	if v.chunk == nil {
		b.WriteString(v.styles.Title.Render("Passage"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("No passage selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(v.chunk.Source))
	b.WriteString("\n")
	meta := fmt.Sprintf("chunk %d · position %d", v.chunk.ID, v.chunk.Position)
	if v.chunk.Similarity != 0 {
		meta += fmt.Sprintf(" · similarity %.3f", v.chunk.Similarity)
	}
	b.WriteString(v.styles.Muted.Render(meta))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d", v.scrollOffset+1, end, len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions and rewraps the text.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrap()
}

// Chunk returns the displayed passage, or nil.
func (v *View) Chunk() *domain.RankedChunk {
	return v.chunk
}

// Lines returns the wrapped passage lines.
func (v *View) Lines() []string {
	return v.lines
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
