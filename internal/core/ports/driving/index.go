package driving

import (
	"context"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// IndexService builds the retrieval index from the books directory.
type IndexService interface {
	// Build loads, normalises, chunks and embeds the corpus and replaces
	// the stored artifacts. Returns domain.ErrEmptyCorpus when nothing
	// could be indexed; the previous artifacts are then left untouched.
	Build(ctx context.Context) (*domain.BuildReport, error)
}
