package driven

import (
	"context"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// CorpusLoader reads the raw documents an index is built from.
type CorpusLoader interface {
	// Load returns the documents in a stable order. Unreadable files are
	// reported as skipped items rather than failing the load.
	Load(ctx context.Context) ([]domain.RawDocument, []domain.SkippedItem, error)

	// Root returns the location being read.
	Root() string
}
