package driven

import (
	"context"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// Normaliser transforms raw documents into plain text.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers return 50-89.
	// Fallback normalisers return 1-9.
	Priority() int

	// Normalise transforms a raw document into a document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document

	// Skipped lists parts of the input (e.g., PDF pages) that could not be read.
	Skipped []domain.SkippedItem
}
