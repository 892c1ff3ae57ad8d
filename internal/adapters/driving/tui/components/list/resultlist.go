// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/styles"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// ResultList displays retrieved passages in a navigable list.
type ResultList struct {
	retrieval *domain.Retrieval
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	chunks := r.Chunks()
	if len(chunks) == 0 {
		return r.styles.Muted.Render("No passages")
	}

	heading := fmt.Sprintf("Passages (%d)", len(chunks))
	if r.retrieval.Mode == domain.RetrievalModeRandom {
		heading = fmt.Sprintf("Random passages (%d)", len(chunks))
	}
	lines := make([]string, 0, len(chunks)+2)
	lines = append(lines, r.styles.Subtitle.Render(heading), "")

	// Each entry renders as a header line and a preview line.
	visible := max((r.height-4)/2, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(chunks))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderChunk(i, &chunks[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderChunk(index int, c *domain.RankedChunk) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	label := Truncate(fmt.Sprintf("%s #%d", c.Source, c.Position), max(r.width-16, 10))

	var header string
	if index == r.selected {
		header = r.styles.Selected.Render(indicator + label)
	} else {
		header = r.styles.Normal.Render(indicator + label)
	}
	if r.retrieval.Mode == domain.RetrievalModeSearch {
		header += "  " + r.styles.Score.Render(fmt.Sprintf("%.3f", c.Similarity))
	}

	preview := r.styles.Muted.Render("    " + Truncate(c.Text, max(r.width-6, 20)))
	return header + "\n" + preview
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetRetrieval replaces the displayed passages and resets the selection.
func (r *ResultList) SetRetrieval(retrieval *domain.Retrieval) {
	r.retrieval = retrieval
	r.selected = 0
}

// Retrieval returns the displayed retrieval, or nil.
func (r *ResultList) Retrieval() *domain.Retrieval {
	return r.retrieval
}

// Chunks returns the displayed passages.
func (r *ResultList) Chunks() []domain.RankedChunk {
	if r.retrieval == nil {
		return nil
	}
	return r.retrieval.Chunks
}

// Selected returns the index of the selected passage.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedChunk returns the currently selected passage, or nil if none.
func (r *ResultList) SelectedChunk() *domain.RankedChunk {
	chunks := r.Chunks()
	if r.selected < 0 || r.selected >= len(chunks) {
		return nil
	}
	return &chunks[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.Chunks())-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of passages.
func (r *ResultList) Count() int {
	return len(r.Chunks())
}
