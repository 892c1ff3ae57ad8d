// Package indexinfo provides the view describing the loaded index.
package indexinfo

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/messages"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/tui/styles"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
)

// View shows the manifest of the loaded index.
type View struct {
	styles    *styles.Styles
	retrieval driving.RetrievalService
	ctx       context.Context

	manifest *domain.IndexManifest
	loading  bool
	err      error
	width    int
}

// NewView creates a new index info view.
func NewView(s *styles.Styles, retrieval driving.RetrievalService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		retrieval: retrieval,
		ctx:       context.Background(),
		width:     80,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the manifest.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load(false)
}

// load returns a command fetching the manifest, reloading the index first
// when reload is set.
func (v *View) load(reload bool) tea.Cmd {
	return func() tea.Msg {
		if reload {
			if err := v.retrieval.Reload(v.ctx); err != nil {
				return messages.IndexInfoLoaded{Err: fmt.Errorf("reload index: %w", err)}
			}
		}
		m, err := v.retrieval.Info(v.ctx)
		return messages.IndexInfoLoaded{Manifest: m, Err: err}
	}
}

// Update handles messages for the index info view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width

	case messages.IndexInfoLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.manifest = msg.Manifest
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			v.loading = true
			return v, v.load(true)
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}
	return v, nil
}

// View renders the manifest.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Index"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading index..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.manifest == nil:
		b.WriteString(v.styles.Muted.Render("No index loaded"))
	default:
		m := v.manifest
		for _, f := range [][2]string{
			{"Generation", m.Generation},
			{"Model", m.Model},
			{"Dimensions", fmt.Sprint(m.Dimensions)},
			{"Chunks", fmt.Sprint(m.Count)},
			{"Chunk size", fmt.Sprint(m.ChunkSize)},
			{"Overlap", fmt.Sprint(m.Overlap)},
			{"Built", m.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		} {
			b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-12s", f[0]+":")))
			b.WriteString(v.styles.Normal.Render(" " + f[1]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[r] reload from disk  [esc] back"))
	return b.String()
}

// SetDimensions sets the view width.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
}

// Manifest returns the displayed manifest, or nil.
func (v *View) Manifest() *domain.IndexManifest {
	return v.manifest
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
