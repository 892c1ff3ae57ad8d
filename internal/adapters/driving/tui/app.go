package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/keymap"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/messages"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/styles"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/views/indexinfo"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/views/menu"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/views/passage"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/views/search"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView      *menu.View
	searchView    *search.View
	passageView   *passage.View
	indexInfoView *indexinfo.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		searchView:    search.NewView(s, keymap.DefaultKeyMap(), ports.Retrieval),
		passageView:   passage.NewView(s),
		indexInfoView: indexinfo.NewView(s, ports.Retrieval),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.indexInfoView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("hiresense - Textbook Retrieval"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.forward(msg)

	case messages.ViewChanged:
		from := a.currentView
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			// Returning from a passage keeps the results.
			if from == messages.ViewPassage {
				return a, nil
			}
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewIndexInfo:
			return a, a.indexInfoView.Init()
		case messages.ViewMenu, messages.ViewPassage, messages.ViewHelp:
			// Nothing to initialise.
		}
		return a, nil

	case messages.SampleRequested:
		a.currentView = messages.ViewSearch
		a.searchView.Reset()
		return a, a.searchView.Sample(msg.N)

	case messages.SearchCompleted:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.PassageSelected:
		a.passageView.SetChunk(msg.Chunk)
		a.currentView = messages.ViewPassage
		return a, nil

	case messages.IndexInfoLoaded:
		a.err = msg.Err
		a.indexInfoView, cmd = a.indexInfoView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewPassage:
		a.passageView, cmd = a.passageView.Update(msg)
	case messages.ViewIndexInfo:
		a.indexInfoView, cmd = a.indexInfoView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewPassage:
		return a.passageView.View()
	case messages.ViewIndexInfo:
		return a.indexInfoView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Search:
  (type)      Enter a topic or question
  enter       Rank passages by similarity

Results:
  j/k, ↑/↓    Navigate passages
  enter       View passage / find similar
  r           Random passages
  n           New search

Index info:
  r           Reload index from disk

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.passageView.SetDimensions(width, height)
	a.indexInfoView.SetDimensions(width, height)
}
