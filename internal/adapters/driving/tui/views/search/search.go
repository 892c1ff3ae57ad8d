// Package search provides the query and results view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/components/input"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/components/list"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/components/status"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/keymap"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/messages"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/styles"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
)

// Actions offered on a selected passage.
const (
	ActionView    = "View passage"
	ActionSimilar = "Find similar"
	ActionCancel  = "Cancel"
)

// ActionMenu is a small selection overlay for the selected passage.
type ActionMenu struct {
	actions  []string
	selected int
	chunk    domain.RankedChunk
}

// View is the query input, passage list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	ctx       context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true while typing, false while browsing results
	actionMenu *ActionMenu
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, retrieval driving.RetrievalService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for retrieval calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.actionMenu != nil {
		return v.handleActionMenuKey(msg)
	}

	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			return v, v.Search(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "enter":
		if c := v.list.SelectedChunk(); c != nil {
			v.actionMenu = &ActionMenu{
				actions: []string{ActionView, ActionSimilar, ActionCancel},
				chunk:   *c,
			}
		}
	case "n":
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case "r":
		return v, v.Sample(0)
	}

	return v, nil
}

func (v *View) handleActionMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	m := v.actionMenu
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.actions)-1 {
			m.selected++
		}
	case "esc":
		v.actionMenu = nil
	case "enter":
		v.actionMenu = nil
		return v, v.executeAction(m.actions[m.selected], m.chunk)
	}
	return v, nil
}

func (v *View) executeAction(action string, chunk domain.RankedChunk) tea.Cmd {
	switch action {
	case ActionView:
		return func() tea.Msg {
			return messages.PassageSelected{Chunk: chunk}
		}
	case ActionSimilar:
		v.input.SetValue(chunk.Text)
		return v.Search(chunk.Text)
	}
	return nil
}

// Search returns a command that ranks passages against query using the
// service's default result count.
func (v *View) Search(query string) tea.Cmd {
	v.statusbar.SetState(status.StateSearching)
	v.statusbar.SetMessage("")
	v.focusInput = false
	v.input.Blur()

	return func() tea.Msg {
		if v.retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		r, err := v.retrieval.Search(v.ctx, query, 0)
		return messages.SearchCompleted{Retrieval: r, Err: err}
	}
}

// Sample returns a command that draws n random passages; n <= 0 uses the
// service default.
func (v *View) Sample(n int) tea.Cmd {
	v.statusbar.SetState(status.StateSampling)
	v.statusbar.SetMessage("")
	v.focusInput = false
	v.input.Blur()

	return func() tea.Msg {
		if v.retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		r, err := v.retrieval.SampleRandom(v.ctx, n)
		return messages.SearchCompleted{Retrieval: r, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetRetrieval(msg.Retrieval)
	v.statusbar.SetState(status.StateResults)
	random := msg.Retrieval != nil && msg.Retrieval.Mode == domain.RetrievalModeRandom
	v.statusbar.SetResults(v.list.Count(), random)
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("HireSense"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	if v.actionMenu != nil {
		sections = append(sections, "", v.renderActionMenu())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderActionMenu() string {
	lines := make([]string, 0, len(v.actionMenu.actions))
	for i, action := range v.actionMenu.actions {
		if i == v.actionMenu.selected {
			lines = append(lines, v.styles.Selected.Render("> "+action))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+action))
		}
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status bar
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Retrieval returns the displayed retrieval, or nil.
func (v *View) Retrieval() *domain.Retrieval {
	return v.list.Retrieval()
}

// SelectedIndex returns the index of the selected passage.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedChunk returns the selected passage, or nil.
func (v *View) SelectedChunk() *domain.RankedChunk {
	return v.list.SelectedChunk()
}

// ActionMenuOpen reports whether the action overlay is showing.
func (v *View) ActionMenuOpen() bool {
	return v.actionMenu != nil
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to input mode with no results.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetRetrieval(nil)
	v.actionMenu = nil
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
