package driving

import (
	"context"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// RetrievalService answers semantic and random queries over the built index.
type RetrievalService interface {
	// Search returns up to topK chunks ranked by similarity to query.
	// A blank query yields an empty result. topK <= 0 uses the default.
	Search(ctx context.Context, query string, topK int) (*domain.Retrieval, error)

	// SampleRandom returns min(n, size) distinct chunks chosen uniformly.
	// n <= 0 uses the default.
	SampleRandom(ctx context.Context, n int) (*domain.Retrieval, error)

	// Info returns the manifest of the loaded index.
	Info(ctx context.Context) (*domain.IndexManifest, error)

	// Reload replaces the loaded index with the artifacts currently on disk.
	Reload(ctx context.Context) error
}
