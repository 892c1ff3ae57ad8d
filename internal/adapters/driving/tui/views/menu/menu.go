// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/messages"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option. Selecting it sends Msg when set,
// otherwise it switches to View.
type Item struct {
	Label string
	View  messages.ViewType
	Msg   tea.Msg
	Quit  bool
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Search passages", View: messages.ViewSearch},
			{Label: "Random passages", Msg: messages.SampleRequested{}},
			{Label: "Index info", View: messages.ViewIndexInfo},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case "enter":
			return v, v.choose(v.items[v.selected])
		case "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *View) choose(item Item) tea.Cmd {
	switch {
	case item.Quit:
		return tea.Quit
	case item.Msg != nil:
		return func() tea.Msg { return item.Msg }
	default:
		return func() tea.Msg { return messages.ViewChanged{View: item.View} }
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("HireSense"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Textbook retrieval for interview practice"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString("> " + v.styles.Title.Render(item.Label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))
	return b.String()
}

// SetDimensions marks the menu ready to render.
func (v *View) SetDimensions(_, _ int) {
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
