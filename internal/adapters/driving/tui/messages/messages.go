// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// SearchCompleted carries a search or sample result back to the model.
type SearchCompleted struct {
	Retrieval *domain.Retrieval
	Err       error
}

// SampleRequested asks the search view to show random passages.
type SampleRequested struct {
	N int
}

// PassageSelected is sent when a retrieved chunk is opened.
type PassageSelected struct {
	Chunk domain.RankedChunk
}

// IndexInfoLoaded carries the manifest of the loaded index.
type IndexInfoLoaded struct {
	Manifest *domain.IndexManifest
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the query input and results view.
	ViewSearch
	// ViewPassage shows the full text of one chunk.
	ViewPassage
	// ViewIndexInfo shows the manifest of the loaded index.
	ViewIndexInfo
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewPassage:
		return "passage"
	case ViewIndexInfo:
		return "index_info"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
